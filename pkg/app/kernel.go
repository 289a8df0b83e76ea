package app

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/metrics"
	"github.com/shashiranjanraj/schoolbar/pkg/middleware"
	"github.com/shashiranjanraj/schoolbar/pkg/reqid"
	"github.com/shashiranjanraj/schoolbar/pkg/router"
	"github.com/shashiranjanraj/schoolbar/pkg/session"
	"gorm.io/gorm"
)

// Router returns the router with the global middleware stack and every
// registered route mounted.
func (a *Application) Router(db *gorm.DB) *router.Router {
	r := router.New()

	// Outermost first. Metrics wrap everything so latency includes panics
	// and rate-limit rejections. Authenticate needs the session loaded.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(config.RateLimitPerMinute(), time.Minute))
	r.Use(middleware.Authenticate)

	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range a.routes {
		fn(r, db)
	}
	return r
}

func (a *Application) Handler(db *gorm.DB) http.Handler {
	return a.Router(db).Handler()
}

package app

import (
	"context"

	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/internal/server"
	"gorm.io/gorm"
)

// Serve listens on APP_PORT until ctx is cancelled.
func (a *Application) Serve(ctx context.Context, db *gorm.DB) error {
	return server.Start(ctx, ":"+config.AppPort(), a.Handler(db))
}

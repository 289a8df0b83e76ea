// Package app assembles a runnable application from route, migration,
// seeder and boot callbacks. It imports no project code: cmd/schoolbar
// injects everything through the builder.
//
//	a := app.New().
//	    Migrations(migrations.All()...).
//	    Routes(routes.Register).
//	    Seeder(seeders.RunAll)
//	db, err := a.Boot()
package app

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/schoolbar/config"
	"github.com/shashiranjanraj/schoolbar/pkg/cache"
	"github.com/shashiranjanraj/schoolbar/pkg/database"
	"github.com/shashiranjanraj/schoolbar/pkg/logger"
	"github.com/shashiranjanraj/schoolbar/pkg/migration"
	"github.com/shashiranjanraj/schoolbar/pkg/router"
	"gorm.io/gorm"
)

// RoutesFunc mounts routes whose handlers use db.
type RoutesFunc func(r *router.Router, db *gorm.DB)

// Application is built once per process.
type Application struct {
	routes     []RoutesFunc
	migrations []migration.Entry
	seeders    []func(*gorm.DB) error
	hooks      []func(*gorm.DB) error
}

func New() *Application {
	return &Application{}
}

// Routes adds a route callback. Callbacks run in the order added.
func (a *Application) Routes(fn RoutesFunc) *Application {
	a.routes = append(a.routes, fn)
	return a
}

func (a *Application) Migrations(entries ...migration.Entry) *Application {
	a.migrations = append(a.migrations, entries...)
	return a
}

func (a *Application) Seeder(fn func(*gorm.DB) error) *Application {
	a.seeders = append(a.seeders, fn)
	return a
}

// OnBoot adds a hook that runs after the database and cache are connected.
func (a *Application) OnBoot(fn func(*gorm.DB) error) *Application {
	a.hooks = append(a.hooks, fn)
	return a
}

// Boot loads config, attaches the log sinks and connects the database and
// cache. An unreachable Redis or MongoDB only degrades to the in-process
// fallback; an unreachable database is fatal.
func (a *Application) Boot() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(); err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, using memory cache", "error", err)
	}

	for _, hook := range a.hooks {
		if err := hook(database.DB); err != nil {
			return nil, errors.Join(errors.New("app: boot hook failed"), err)
		}
	}
	return database.DB, nil
}

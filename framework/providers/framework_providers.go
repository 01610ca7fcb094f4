// Package providers contains the framework-level service providers wired
// into every application: configuration, logging, and routing.
package providers

import (
	"github.com/rs/zerolog"

	"github.com/armature-go/armature/framework/config"
	"github.com/armature-go/armature/framework/container"
	"github.com/armature-go/armature/framework/logging"
	"github.com/armature-go/armature/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from the
// environment (plus optional .env files) and binds it as a pre-built
// instance.
//
// Bound services:
//   - *config.Config (alias "config")
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	cfg := config.Load(p.EnvFiles...)
	if err := app.Instance((*config.Config)(nil), cfg); err != nil {
		return err
	}
	return app.Alias("config", (*config.Config)(nil))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the application logger from configuration.
//
// Bound services:
//   - zerolog.Logger (alias "logger"), singleton
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	err := app.Singleton(zerolog.Logger{}, func(cfg *config.Config) zerolog.Logger {
		return logging.New(cfg)
	})
	if err != nil {
		return err
	}
	return app.Alias("logger", zerolog.Logger{})
}

// Boot attaches the configured logger to the container itself, so later
// registrations and singleton constructions show up in the debug log.
func (p *LoggingServiceProvider) Boot(app *container.Container) error {
	logger, err := container.Resolve[zerolog.Logger](app)
	if err != nil {
		return err
	}
	app.SetLogger(logger)
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Application providers
// attach their routes to it during Boot.
//
// Bound services:
//   - *routing.Router (alias "router"), singleton
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	err := app.Singleton((*routing.Router)(nil), func(logger zerolog.Logger) *routing.Router {
		return routing.New(logger)
	})
	if err != nil {
		return err
	}
	return app.Alias("router", (*routing.Router)(nil))
}

// Package app assembles the container, provider registry, and HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/armature-go/armature/framework/config"
	"github.com/armature-go/armature/framework/container"
	gohttp "github.com/armature-go/armature/framework/http"
	"github.com/armature-go/armature/framework/providers"
	"github.com/armature-go/armature/framework/routing"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application object. It embeds the IoC
// container so user code can call app.Bind, app.Singleton, and app.Make
// directly, and carries the provider registry that drives bootstrap.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework core providers:
// configuration, logging, and routing, in that order.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
	}
	for _, p := range core {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all registered providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves the application configuration.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Logger resolves the application logger.
func (a *Application) Logger() zerolog.Logger {
	return container.MustResolve[zerolog.Logger](a.Container)
}

// Router resolves the HTTP router.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Run boots the application (if not booted yet) and serves HTTP until the
// process receives SIGINT or SIGTERM, then drains in-flight requests.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	cfg := a.Config()
	logger := a.Logger()

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: a.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.App.Env).
			Msg("server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Environment helpers, backed by APP_ENV / APP_DEBUG.

func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}

func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}

// Package providers wires the application's repositories, services,
// controllers, and tasks into the container.
package providers

import (
	"github.com/rs/zerolog"

	"github.com/armature-go/armature/app/http/controllers"
	"github.com/armature-go/armature/app/services"
	"github.com/armature-go/armature/app/tasks"
	"github.com/armature-go/armature/framework/config"
	"github.com/armature-go/armature/framework/container"
	"github.com/armature-go/armature/framework/routing"
)

// ── AppServiceProvider ────────────────────────────────────────────────────────

// AppServiceProvider binds repositories and domain services. Repositories
// bind against their interfaces so a database-backed implementation can
// replace the in-memory ones without touching consumers.
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) error {
	if err := app.Singleton((*services.UserRepository)(nil), func() *services.MemoryUserRepository {
		return services.NewMemoryUserRepository()
	}); err != nil {
		return err
	}
	if err := app.Singleton((*services.RefreshSessionRepository)(nil), func() *services.MemoryRefreshSessionRepository {
		return services.NewMemoryRefreshSessionRepository()
	}); err != nil {
		return err
	}

	if err := app.Singleton((*services.UserService)(nil), func(repo services.UserRepository, logger zerolog.Logger) *services.UserService {
		return services.NewUserService(repo, logger)
	}); err != nil {
		return err
	}
	if err := app.Singleton((*services.TokenService)(nil), func(cfg *config.Config, sessions services.RefreshSessionRepository, logger zerolog.Logger) *services.TokenService {
		return services.NewTokenService(cfg, sessions, logger)
	}); err != nil {
		return err
	}
	return app.Singleton((*services.HealthService)(nil), func(repo services.UserRepository, logger zerolog.Logger) *services.HealthService {
		health := services.NewHealthService(logger)
		health.RegisterCheck("users", func() error {
			_ = repo.All()
			return nil
		})
		return health
	})
}

// ── RouteServiceProvider ──────────────────────────────────────────────────────

// RouteServiceProvider binds the controllers and, at boot, attaches their
// routes to the router. Routes must not be registered earlier: the services
// the controllers resolve may come from providers that register later.
type RouteServiceProvider struct {
	container.BaseProvider
}

func (p *RouteServiceProvider) Register(app *container.Container) error {
	if err := app.Singleton((*controllers.HealthController)(nil), func(health *services.HealthService) *controllers.HealthController {
		return controllers.NewHealthController(health)
	}); err != nil {
		return err
	}
	if err := app.Singleton((*controllers.UserController)(nil), func(users *services.UserService) *controllers.UserController {
		return controllers.NewUserController(users)
	}); err != nil {
		return err
	}
	return app.Singleton((*controllers.TokenController)(nil), func(users *services.UserService, tokens *services.TokenService) *controllers.TokenController {
		return controllers.NewTokenController(users, tokens)
	})
}

func (p *RouteServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app)
	if err != nil {
		return err
	}

	health, err := container.Resolve[*controllers.HealthController](app)
	if err != nil {
		return err
	}
	users, err := container.Resolve[*controllers.UserController](app)
	if err != nil {
		return err
	}
	tokens, err := container.Resolve[*controllers.TokenController](app)
	if err != nil {
		return err
	}

	health.RegisterRoutes(router)
	users.RegisterRoutes(router)
	tokens.RegisterRoutes(router)
	return nil
}

// ── TaskServiceProvider ───────────────────────────────────────────────────────

// TaskServiceProvider binds the task registry and registers the built-in
// tasks at boot.
type TaskServiceProvider struct {
	container.BaseProvider
}

func (p *TaskServiceProvider) Register(app *container.Container) error {
	if err := app.Singleton((*tasks.Registry)(nil), func(logger zerolog.Logger) *tasks.Registry {
		return tasks.NewRegistry(logger)
	}); err != nil {
		return err
	}
	return app.Alias("tasks", (*tasks.Registry)(nil))
}

func (p *TaskServiceProvider) Boot(app *container.Container) error {
	registry, err := container.Resolve[*tasks.Registry](app)
	if err != nil {
		return err
	}
	registry.Register(tasks.PingTaskName, tasks.Ping)
	return nil
}

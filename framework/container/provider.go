package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations. Every provider implements
// Register; the optional phases come from BaseProvider overrides.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Singleton((*UserService)(nil), services.NewUserService)
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    svc, err := container.Resolve[*UserService](app)
//	    ...
//	}
type ServiceProvider interface {
	// Register binds services into the container. Other bindings must not be
	// resolved here — that is what Boot is for.
	Register(app *Container) error

	// Boot runs after all providers have registered; resolving any binding
	// is safe here.
	Boot(app *Container) error

	// Provides returns the service keys (type tokens) this provider
	// registers. Only consulted for deferred providers.
	Provides() []any

	// IsDeferred reports whether the provider should be loaded lazily, on
	// the first Make of one of its Provides keys.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider supplies no-op defaults; embed it and override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []any         { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry runs the two-phase provider lifecycle against a container:
// every provider registers, then every provider boots. Deferred providers
// register only when one of their keys is first resolved.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and runs its Register phase, unless the provider
// is deferred. Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("provider %T: register: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("provider %T: boot: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred binds a placeholder factory for each key the provider
// claims. The first Make of any such key registers the provider for real;
// the fresh registrations supersede the placeholders, so re-resolving inside
// the placeholder reaches the real binding. The once-guard keeps concurrent
// first Makes of different claimed keys from registering the provider twice.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	var (
		load    sync.Once
		loadErr error
	)
	for _, token := range provider.Provides() {
		key, err := keyOf(token)
		if err != nil {
			return err
		}
		token := token
		err = r.app.Bind(token, func(c *Container) (any, error) {
			load.Do(func() {
				if err := provider.Register(c); err != nil {
					loadErr = fmt.Errorf("deferred provider %T: register: %w", provider, err)
					return
				}
				if r.booted {
					if err := provider.Boot(c); err != nil {
						loadErr = fmt.Errorf("deferred provider %T: boot: %w", provider, err)
					}
				}
			})
			if loadErr != nil {
				return nil, loadErr
			}
			if !r.provided(c, key) {
				return nil, &InvalidRegistrationError{
					Reason: fmt.Sprintf("deferred provider %T claims [%s] but did not register it",
						provider, typeName(key)),
				}
			}
			return c.Make(token)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// provided reports whether a registration newer than the deferred
// placeholder exists for key.
func (r *ProviderRegistry) provided(c *Container, key reflect.Type) bool {
	reg := c.active(key)
	if reg == nil {
		return false
	}
	// the placeholder is a factory returning any; anything more specific
	// means the provider registered the key
	fs, ok := reg.strategy.(*factoryStrategy)
	return !ok || fs.returnType != anyType
}

// Boot runs the Boot phase on all eager providers, once.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("provider %T: boot: %w", provider, err)
		}
	}
	return nil
}

// Booted reports whether Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }

// Package container provides the IoC (Inversion of Control) container and
// Service Provider system at the core of Armature.
//
// # Overview
//
// The container maps service keys — Go types, written as type tokens — to
// registrations, and resolves object graphs on demand. A registration is one
// of three strategies (a pre-built instance, a factory function, or implicit
// struct construction) plus a scope (transient or singleton). Registration is
// lazy: nothing is constructed until first resolution.
//
// # Service keys
//
// Keys are type tokens: a nil interface pointer for interface keys, any value
// (typically a nil typed pointer) for concrete keys.
//
//	(*UserRepository)(nil) // the UserRepository interface
//	(*UserService)(nil)    // the *UserService concrete type
//
// At most one registration per key is active at a time; registering again
// supersedes the prior one without error (last-write-wins), which is exactly
// what test setups rely on to substitute dependencies. Superseded
// registrations remain reachable through MakeAll.
//
// # Registering
//
//	c := container.New()
//
//	// Factory — dependencies inferred from parameter types
//	c.Singleton((*TokenService)(nil), func(cfg *config.Config) *TokenService {
//	    return NewTokenService(cfg.Auth)
//	})
//
//	// Pre-built value
//	c.Instance((*config.Config)(nil), cfg)
//
//	// Implicit construction with field injection
//	type UserController struct {
//	    Users *UserService `inject:""`
//	}
//	c.BindType((*UserController)(nil), (*UserController)(nil))
//
// # Resolving
//
//	svc, err := container.Resolve[*TokenService](c) // generic, preferred
//	raw, err := c.Make((*TokenService)(nil))        // token-based
//	all, err := container.ResolveAll[HealthCheck](c)
//	fresh, err := c.Instantiate((*UserController)(nil))
//
// Resolution walks the dependency graph recursively. An unregistered key
// yields a MissingDependencyError naming the unresolved parameter and the
// chain of keys being resolved; a revisited key yields a
// CircularDependencyError; a dangling named reference yields an
// UnresolvedReferenceError. Errors are returned, never swallowed, and never
// retried.
//
// # Scopes and concurrency
//
// Transient registrations construct on every resolution; singletons construct
// at most once per registration and cache the result. Concurrent first
// resolutions of a singleton are serialized so the factory runs exactly once;
// later readers do not block. The intended lifecycle is single-threaded
// registration at bootstrap followed by concurrent resolution.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.Singleton((*Mailer)(nil), NewSMTPMailer)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot() // Boot phases run after every Register phase
//
// Deferred providers (IsDeferred true, Provides listing their keys) register
// only when one of their keys is first resolved.
package container

package container

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ── Scope ─────────────────────────────────────────────────────────────────────

// Scope is the lifecycle policy of a registration.
type Scope int

const (
	// ScopeTransient constructs a new instance on every resolution.
	// This is the default scope.
	ScopeTransient Scope = iota

	// ScopeSingleton constructs at most one instance per registration,
	// caches it, and reuses it for the container's lifetime.
	ScopeSingleton
)

func (s Scope) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	default:
		return "transient"
	}
}

// ── Strategies ────────────────────────────────────────────────────────────────

// strategy is the closed set of instantiation recipes a registration can
// carry. Exactly three implementations exist: instanceStrategy,
// factoryStrategy and typeStrategy.
type strategy interface {
	describe() string
}

// instanceStrategy returns a pre-built value verbatim on every resolution.
type instanceStrategy struct {
	value any
}

func (s *instanceStrategy) describe() string { return "instance" }

// factoryStrategy invokes a function whose parameter types are the inferred
// dependencies. fn returns either (T) or (T, error).
type factoryStrategy struct {
	fn           reflect.Value
	params       []reflect.Type
	returnsError bool
	returnType   reflect.Type
}

func (s *factoryStrategy) describe() string { return "factory" }

// typeStrategy constructs a concrete struct via reflection, injecting
// `inject`-tagged exported fields from the container.
type typeStrategy struct {
	// concrete is either a struct type or a pointer-to-struct type.
	concrete reflect.Type
}

func (s *typeStrategy) describe() string { return "type" }

// ── Registration ──────────────────────────────────────────────────────────────

// registration associates a service key with a strategy and a scope.
// Registrations for the same key accumulate; Make uses the most recent one,
// MakeAll resolves all of them in registration order.
//
// The singleton cache lives on the registration itself, so a later
// registration for the same key naturally starts with an empty cache while
// the superseded one keeps serving MakeAll callers unchanged. Only a
// successful construction is cached: a failed one leaves the registration
// unbuilt, so registering the missing dependency later makes the singleton
// resolvable after all.
type registration struct {
	key      reflect.Type
	strategy strategy
	scope    Scope

	mu    sync.Mutex
	built atomic.Bool
	value any
}

package container_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/armature-go/armature/framework/container"
)

var errBoom = errors.New("boom")

// ── cyclic fixtures ──────────────────────────────────────────────────────────

type Ping struct {
	Pong *Pong `inject:""`
}

type Pong struct {
	Ping *Ping `inject:""`
}

type Ouroboros struct {
	Self *Ouroboros `inject:""`
}

// ── MissingDependencyError ───────────────────────────────────────────────────

func TestMake_UnregisteredKey_MissingDependencyError(t *testing.T) {
	c := container.New()

	_, err := c.Make((*Greeter)(nil))
	var missing *container.MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingDependencyError", err)
	}
	if missing.Key == nil || missing.Key.Name() != "Greeter" {
		t.Errorf("error should identify the unresolved key, got %v", missing.Key)
	}
}

func TestMake_UnresolvableFactoryParameter_IdentifiesParameterAndChain(t *testing.T) {
	c := container.New()
	// Repository needs *Settings, which is never registered
	_ = c.Bind((*Repository)(nil), func(s *Settings) *Repository {
		return &Repository{Settings: s}
	})

	_, err := c.Make((*Repository)(nil))
	var missing *container.MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingDependencyError", err)
	}
	if missing.Parameter == "" {
		t.Error("error should identify the unresolved parameter")
	}
	if len(missing.Chain) == 0 {
		t.Error("error should carry the chain of keys being resolved")
	}
	if !strings.Contains(err.Error(), "Settings") {
		t.Errorf("message should name the missing type, got %q", err)
	}
}

func TestMake_UnresolvableInjectedField_IdentifiesField(t *testing.T) {
	c := container.New()
	_ = c.BindType((*Repository)(nil), (*Repository)(nil))

	_, err := c.Make((*Repository)(nil))
	var missing *container.MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingDependencyError", err)
	}
	if !strings.Contains(missing.Parameter, "Settings") {
		t.Errorf("Parameter should name the field, got %q", missing.Parameter)
	}
}

// ── InvalidRegistrationError ─────────────────────────────────────────────────

func TestRegister_InvalidCombinations_Rejected(t *testing.T) {
	c := container.New()

	tests := []struct {
		name string
		err  error
	}{
		{"nil key", c.Bind(nil, func() *Settings { return nil })},
		{"nil factory", c.Bind((*Settings)(nil), nil)},
		{"non-func factory", c.Bind((*Settings)(nil), 42)},
		{"no return values", c.Bind((*Settings)(nil), func() {})},
		{"error-only return", c.Bind((*Settings)(nil), func() error { return nil })},
		{"second return not error", c.Bind((*Settings)(nil), func() (*Settings, string) { return nil, "" })},
		{"variadic factory", c.Bind((*Settings)(nil), func(deps ...*Settings) *Settings { return nil })},
		{"return does not satisfy key", c.Bind((*Greeter)(nil), func() *Settings { return nil })},
		{"instance does not satisfy key", c.Instance((*Greeter)(nil), &Settings{})},
		{"nil instance", c.Instance((*Settings)(nil), nil)},
		{"non-struct concrete", c.BindType((*Greeter)(nil), "not a struct")},
		{"empty alias name", c.Alias("", (*Settings)(nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invalid *container.InvalidRegistrationError
			if !errors.As(tt.err, &invalid) {
				t.Errorf("got %v, want InvalidRegistrationError", tt.err)
			}
		})
	}
}

// An any-returning factory can hand back an untyped nil that no static check
// catches; resolution must surface it as an error instead of panicking.
func TestMake_FactoryReturningNil_InvalidRegistrationError(t *testing.T) {
	c := container.New()
	_ = c.Bind((*Greeter)(nil), func() any { return nil })

	_, err := c.Make((*Greeter)(nil))
	var invalid *container.InvalidRegistrationError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidRegistrationError", err)
	}
	if !strings.Contains(err.Error(), "nil") {
		t.Errorf("message should say the factory returned nil, got %q", err)
	}
}

func TestMake_NilDependencyAsFactoryParameter_ErrorsNotPanics(t *testing.T) {
	c := container.New()
	_ = c.Bind((*Settings)(nil), func() any { return nil })
	_ = c.Bind((*Repository)(nil), func(s *Settings) *Repository {
		return &Repository{Settings: s}
	})

	_, err := c.Make((*Repository)(nil))
	var invalid *container.InvalidRegistrationError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidRegistrationError", err)
	}
}

func TestMake_NilDependencyAsInjectedField_ErrorsNotPanics(t *testing.T) {
	c := container.New()
	_ = c.Bind((*Settings)(nil), func() any { return nil })
	_ = c.BindType((*Repository)(nil), (*Repository)(nil))

	_, err := c.Make((*Repository)(nil))
	var invalid *container.InvalidRegistrationError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want InvalidRegistrationError", err)
	}
}

// ── UnresolvedReferenceError ─────────────────────────────────────────────────

func TestMakeNamed_UnknownName_UnresolvedReferenceError(t *testing.T) {
	c := container.New()

	_, err := c.MakeNamed("nowhere")
	var unresolved *container.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("got %v, want UnresolvedReferenceError", err)
	}
	if unresolved.Name != "nowhere" {
		t.Errorf("Name: got %q, want %q", unresolved.Name, "nowhere")
	}

	// distinct from a missing dependency
	var missing *container.MissingDependencyError
	if errors.As(err, &missing) {
		t.Error("a dangling named reference must not be a MissingDependencyError")
	}
}

func TestInjectedNamedField_UnknownName_UnresolvedReferenceError(t *testing.T) {
	type audited struct {
		Log Greeter `inject:"audit"`
	}
	c := container.New()
	_ = c.BindType((*audited)(nil), (*audited)(nil))

	_, err := c.Make((*audited)(nil))
	var unresolved *container.UnresolvedReferenceError
	if !errors.As(err, &unresolved) {
		t.Fatalf("got %v, want UnresolvedReferenceError", err)
	}
	if len(unresolved.Chain) == 0 {
		t.Error("error should carry the resolution chain")
	}
}

// ── CircularDependencyError ──────────────────────────────────────────────────

func TestMake_TypeBasedCycle_DetectedNotStackOverflow(t *testing.T) {
	c := container.New()
	_ = c.BindType((*Ping)(nil), (*Ping)(nil))
	_ = c.BindType((*Pong)(nil), (*Pong)(nil))

	_, err := c.Make((*Ping)(nil))
	var cycle *container.CircularDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("got %v, want CircularDependencyError", err)
	}
	if len(cycle.Chain) < 3 {
		t.Errorf("chain should show the full cycle, got %v", cycle.Chain)
	}
}

func TestMake_FactoryParameterCycle_Detected(t *testing.T) {
	c := container.New()
	_ = c.Bind((*Ping)(nil), func(p *Pong) *Ping { return &Ping{Pong: p} })
	_ = c.Bind((*Pong)(nil), func(p *Ping) *Pong { return &Pong{Ping: p} })

	_, err := c.Make((*Pong)(nil))
	var cycle *container.CircularDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("got %v, want CircularDependencyError", err)
	}
}

// A singleton depending on itself must report a cycle rather than deadlocking
// on its own construction guard.
func TestMake_SingletonSelfCycle_ErrorsInsteadOfDeadlock(t *testing.T) {
	c := container.New()
	_ = c.SingletonType((*Ouroboros)(nil), (*Ouroboros)(nil))

	done := make(chan error, 1)
	go func() {
		_, err := c.Make((*Ouroboros)(nil))
		done <- err
	}()

	select {
	case err := <-done:
		var cycle *container.CircularDependencyError
		if !errors.As(err, &cycle) {
			t.Fatalf("got %v, want CircularDependencyError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("self-cycle resolution deadlocked")
	}
}

// ── propagation ──────────────────────────────────────────────────────────────

func TestMake_NestedFactoryError_Unwrappable(t *testing.T) {
	c := container.New()
	_ = c.Bind((*Settings)(nil), func() (*Settings, error) { return nil, errBoom })
	_ = c.Bind((*Repository)(nil), func(s *Settings) *Repository { return &Repository{Settings: s} })

	_, err := c.Make((*Repository)(nil))
	if !errors.Is(err, errBoom) {
		t.Errorf("nested factory error should be unwrappable, got %v", err)
	}
}

package container

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Container is the IoC container: a mapping from service keys (types,
// optionally aliased by name) to registrations, resolved on demand.
//
// It is designed for a populate-then-read lifecycle: providers register
// services single-threaded at bootstrap, request handlers resolve them
// concurrently afterwards. Registration is always lazy — nothing is
// constructed until the first Make.
type Container struct {
	mu      sync.RWMutex
	entries map[reflect.Type][]*registration
	aliases map[string]reflect.Type

	log zerolog.Logger
}

// New creates an empty container. The container registers itself, so
// factories and injected structs may declare a *Container dependency.
func New(opts ...Option) *Container {
	c := &Container{
		entries: make(map[reflect.Type][]*registration),
		aliases: make(map[string]reflect.Type),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	_ = c.Instance((*Container)(nil), c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory for abstract. The factory's parameter
// types are resolved from the container on every Make.
//
//	c.Bind((*UserRepository)(nil), func(cfg *config.Config) *MemoryUserRepository {
//	    return NewMemoryUserRepository()
//	})
func (c *Container) Bind(abstract, factory any) error {
	return c.bindFactory(abstract, factory, ScopeTransient)
}

// Singleton registers a factory whose result is constructed once and cached.
//
//	c.Singleton((*TokenService)(nil), func(cfg *config.Config) *JWTTokenService {
//	    return NewJWTTokenService(cfg.Auth)
//	})
func (c *Container) Singleton(abstract, factory any) error {
	return c.bindFactory(abstract, factory, ScopeSingleton)
}

// BindType registers implicit construction of concrete for abstract: each
// Make builds a fresh concrete value via reflection, injecting exported
// fields tagged `inject`.
//
//	c.BindType((*Notifier)(nil), (*EmailNotifier)(nil))
func (c *Container) BindType(abstract, concrete any) error {
	return c.bindType(abstract, concrete, ScopeTransient)
}

// SingletonType is BindType with singleton scope.
func (c *Container) SingletonType(abstract, concrete any) error {
	return c.bindType(abstract, concrete, ScopeSingleton)
}

// Instance registers a pre-built value, returned verbatim on every Make.
//
//	c.Instance((*config.Config)(nil), cfg)
func (c *Container) Instance(abstract, value any) error {
	key, err := keyOf(abstract)
	if err != nil {
		return err
	}
	if value == nil {
		return &InvalidRegistrationError{Reason: fmt.Sprintf("nil instance for [%s]", typeName(key))}
	}
	if err := checkAssignable(reflect.TypeOf(value), key); err != nil {
		return err
	}
	c.add(&registration{key: key, strategy: &instanceStrategy{value: value}, scope: ScopeSingleton})
	return nil
}

// Alias registers a string name for an abstract key. Names back MakeNamed and
// `inject:"name"` field tags; a name may be referenced before it is aliased,
// as long as the alias exists by the time resolution happens.
func (c *Container) Alias(name string, abstract any) error {
	if name == "" {
		return &InvalidRegistrationError{Reason: "empty alias name"}
	}
	key, err := keyOf(abstract)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.aliases[name] = key
	c.mu.Unlock()
	c.log.Debug().Str("alias", name).Str("service", typeName(key)).Msg("container: alias registered")
	return nil
}

func (c *Container) bindFactory(abstract, factory any, scope Scope) error {
	key, err := keyOf(abstract)
	if err != nil {
		return err
	}
	st, err := parseFactory(factory, key)
	if err != nil {
		return err
	}
	c.add(&registration{key: key, strategy: st, scope: scope})
	return nil
}

func (c *Container) bindType(abstract, concrete any, scope Scope) error {
	key, err := keyOf(abstract)
	if err != nil {
		return err
	}
	ct := concreteTypeOf(concrete)
	if ct == nil {
		return &InvalidRegistrationError{
			Reason: fmt.Sprintf("concrete for [%s] must be a struct or pointer to struct", typeName(key)),
		}
	}
	if err := checkAssignable(ct, key); err != nil {
		return err
	}
	c.add(&registration{key: key, strategy: &typeStrategy{concrete: ct}, scope: scope})
	return nil
}

// add appends a registration, making it the active one for its key.
// Overwrite is allowed and silent — test setups rely on it to substitute
// dependencies before they are resolved.
func (c *Container) add(reg *registration) {
	c.mu.Lock()
	c.entries[reg.key] = append(c.entries[reg.key], reg)
	c.mu.Unlock()
	c.log.Debug().
		Str("service", typeName(reg.key)).
		Str("strategy", reg.strategy.describe()).
		Stringer("scope", reg.scope).
		Msg("container: service registered")
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves the active registration for abstract.
func (c *Container) Make(abstract any) (any, error) {
	key, err := keyOf(abstract)
	if err != nil {
		return nil, err
	}
	return c.resolveKey(key, newResolution())
}

// MakeAll resolves every registration for abstract, in registration order,
// each per its own scope. It returns an empty slice — never an error — when
// nothing is registered.
func (c *Container) MakeAll(abstract any) ([]any, error) {
	key, err := keyOf(abstract)
	if err != nil {
		return nil, err
	}
	return c.makeAllByKey(key)
}

func (c *Container) makeAllByKey(key reflect.Type) ([]any, error) {
	c.mu.RLock()
	regs := append([]*registration(nil), c.entries[key]...)
	c.mu.RUnlock()

	out := make([]any, 0, len(regs))
	for _, reg := range regs {
		v, err := c.resolveRegistration(key, reg, newResolution())
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// MakeNamed resolves a service through its alias name.
func (c *Container) MakeNamed(name string) (any, error) {
	return c.resolveNamed(name, newResolution())
}

// Instantiate constructs a fresh, field-injected instance of the concrete
// type behind abstract, bypassing the registered strategy and scope. It is
// the "give me a new one regardless of how it is normally provided" escape
// hatch; interface keys require an active type-based registration to know
// which concrete to build.
func (c *Container) Instantiate(abstract any) (any, error) {
	key, err := keyOf(abstract)
	if err != nil {
		return nil, err
	}

	concrete := key
	if key.Kind() == reflect.Interface {
		reg := c.active(key)
		if reg == nil {
			return nil, &MissingDependencyError{Key: key}
		}
		ts, ok := reg.strategy.(*typeStrategy)
		if !ok {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("cannot instantiate [%s]: active registration is %s-based, not type-based",
					typeName(key), reg.strategy.describe()),
			}
		}
		concrete = ts.concrete
	}
	if !constructible(concrete) {
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("cannot instantiate [%s]: not a struct or pointer to struct", typeName(concrete)),
		}
	}
	return c.construct(concrete, newResolution())
}

// resolveKey resolves the active registration for key within resolution
// state rs. The cycle check happens here, before any singleton once-guard is
// entered, so a singleton participating in a cycle reports the cycle instead
// of deadlocking on its own sync.Once.
func (c *Container) resolveKey(key reflect.Type, rs *resolution) (any, error) {
	if rs.visiting[key] {
		return nil, &CircularDependencyError{Chain: rs.chainWith(key)}
	}
	reg := c.active(key)
	if reg == nil {
		return nil, &MissingDependencyError{Key: key, Chain: rs.chain()}
	}
	return c.resolveRegistration(key, reg, rs)
}

func (c *Container) resolveRegistration(key reflect.Type, reg *registration, rs *resolution) (any, error) {
	if inst, ok := reg.strategy.(*instanceStrategy); ok {
		return inst.value, nil
	}

	rs.push(key)
	defer rs.pop(key)

	if reg.scope == ScopeSingleton {
		if reg.built.Load() {
			return reg.value, nil
		}
		reg.mu.Lock()
		defer reg.mu.Unlock()
		if reg.built.Load() {
			return reg.value, nil
		}
		value, err := c.build(key, reg, rs)
		if err != nil {
			return nil, err
		}
		reg.value = value
		reg.built.Store(true)
		c.log.Debug().Str("service", typeName(key)).Msg("container: singleton constructed")
		return value, nil
	}
	return c.build(key, reg, rs)
}

func (c *Container) build(key reflect.Type, reg *registration, rs *resolution) (any, error) {
	switch st := reg.strategy.(type) {
	case *factoryStrategy:
		return c.invokeFactory(key, st, rs)
	case *typeStrategy:
		return c.construct(st.concrete, rs)
	default:
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("unknown strategy for [%s]", typeName(key)),
		}
	}
}

func (c *Container) resolveNamed(name string, rs *resolution) (any, error) {
	c.mu.RLock()
	key, ok := c.aliases[name]
	c.mu.RUnlock()
	if !ok {
		return nil, &UnresolvedReferenceError{Name: name, Chain: rs.chain()}
	}
	return c.resolveKey(key, rs)
}

// active returns the most recent registration for key, or nil.
func (c *Container) active(key reflect.Type) *registration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	regs := c.entries[key]
	if len(regs) == 0 {
		return nil
	}
	return regs[len(regs)-1]
}

// ── Housekeeping ──────────────────────────────────────────────────────────────

// Bound reports whether abstract has at least one registration.
func (c *Container) Bound(abstract any) bool {
	key, err := keyOf(abstract)
	if err != nil {
		return false
	}
	return c.active(key) != nil
}

// Resolved reports whether the active registration for abstract has already
// produced its cached instance. Pre-built instances count as resolved,
// transients never do.
func (c *Container) Resolved(abstract any) bool {
	key, err := keyOf(abstract)
	if err != nil {
		return false
	}
	reg := c.active(key)
	if reg == nil {
		return false
	}
	if _, ok := reg.strategy.(*instanceStrategy); ok {
		return true
	}
	return reg.built.Load()
}

// Forget drops all registrations and cached instances for abstract.
func (c *Container) Forget(abstract any) {
	key, err := keyOf(abstract)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Flush resets the container to its freshly constructed state.
func (c *Container) Flush() {
	c.mu.Lock()
	c.entries = make(map[reflect.Type][]*registration)
	c.aliases = make(map[string]reflect.Type)
	c.mu.Unlock()
	_ = c.Instance((*Container)(nil), c)
}

// Keys returns all registered service keys (for debugging).
func (c *Container) Keys() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]reflect.Type, 0, len(c.entries))
	for k := range c.entries {
		out = append(out, k)
	}
	return out
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve resolves T from the container without a type token or assertion.
//
//	repo, err := container.Resolve[UserRepository](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	v, err := c.resolveKey(reflect.TypeOf((*T)(nil)).Elem(), newResolution())
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &InvalidRegistrationError{
			Reason: fmt.Sprintf("[%s] resolved to %T", typeName(reflect.TypeOf((*T)(nil)).Elem()), v),
		}
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap paths where a missing service is fatal.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// ResolveAll resolves every registration for T, in registration order.
func ResolveAll[T any](c *Container) ([]T, error) {
	values, err := c.makeAllByKey(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		typed, ok := v.(T)
		if !ok {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("[%s] resolved to %T", typeName(reflect.TypeOf((*T)(nil)).Elem()), v),
			}
		}
		out = append(out, typed)
	}
	return out, nil
}

// ── Service keys ──────────────────────────────────────────────────────────────

// keyOf derives the service key from a type token. Interface keys are written
// as nil interface pointers, concrete keys as the value type itself:
//
//	keyOf((*Logger)(nil))      // Logger interface
//	keyOf((*UserService)(nil)) // *UserService
func keyOf(token any) (reflect.Type, error) {
	if token == nil {
		return nil, &InvalidRegistrationError{Reason: "nil service key"}
	}
	t := reflect.TypeOf(token)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

// checkAssignable verifies a concrete type can satisfy an abstract key.
// Factories returning any defer this check to resolution time.
func checkAssignable(concrete, abstract reflect.Type) error {
	if concrete == anyType || concrete.AssignableTo(abstract) {
		return nil
	}
	return &InvalidRegistrationError{
		Reason: fmt.Sprintf("%s does not satisfy [%s]", typeName(concrete), typeName(abstract)),
	}
}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// ── Resolution state ──────────────────────────────────────────────────────────

// resolution tracks the keys being resolved by one top-level Make call.
// It is purely per-call state: concurrent Makes never share it.
type resolution struct {
	stack    []reflect.Type
	visiting map[reflect.Type]bool
}

func newResolution() *resolution {
	return &resolution{visiting: make(map[reflect.Type]bool)}
}

func (rs *resolution) push(key reflect.Type) {
	rs.stack = append(rs.stack, key)
	rs.visiting[key] = true
}

func (rs *resolution) pop(key reflect.Type) {
	rs.stack = rs.stack[:len(rs.stack)-1]
	rs.visiting[key] = false
}

func (rs *resolution) chain() []reflect.Type {
	return append([]reflect.Type(nil), rs.stack...)
}

func (rs *resolution) chainWith(key reflect.Type) []reflect.Type {
	return append(rs.chain(), key)
}

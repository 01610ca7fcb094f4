package container

import (
	"errors"
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// parseFactory validates a factory function for abstract and extracts its
// dependency list. Supported signatures:
//
//	func(deps...) T
//	func(deps...) (T, error)
//
// where every parameter type is itself a resolvable service key.
func parseFactory(factory any, abstract reflect.Type) (*factoryStrategy, error) {
	if factory == nil {
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("nil factory for [%s]", typeName(abstract)),
		}
	}

	fn := reflect.ValueOf(factory)
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("factory for [%s] must be a function, got %s", typeName(abstract), typeName(ft)),
		}
	}
	if ft.IsVariadic() {
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("factory for [%s] must not be variadic", typeName(abstract)),
		}
	}

	switch ft.NumOut() {
	case 1:
		if ft.Out(0) == errorType {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("factory for [%s] must return a value, not only error", typeName(abstract)),
			}
		}
	case 2:
		if ft.Out(1) != errorType {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("factory for [%s]: second return value must be error, got %s",
					typeName(abstract), typeName(ft.Out(1))),
			}
		}
	default:
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("factory for [%s] must return (T) or (T, error), got %d values",
				typeName(abstract), ft.NumOut()),
		}
	}

	if err := checkAssignable(ft.Out(0), abstract); err != nil {
		return nil, err
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}

	return &factoryStrategy{
		fn:           fn,
		params:       params,
		returnsError: ft.NumOut() == 2,
		returnType:   ft.Out(0),
	}, nil
}

// invokeFactory resolves the factory's parameters within the current
// resolution and calls it.
func (c *Container) invokeFactory(key reflect.Type, st *factoryStrategy, rs *resolution) (any, error) {
	args := make([]reflect.Value, len(st.params))
	for i, param := range st.params {
		v, err := c.resolveKey(param, rs)
		if err != nil {
			annotateMissing(err, fmt.Sprintf("parameter %d of factory for [%s]", i, typeName(key)))
			return nil, err
		}
		rv := reflect.ValueOf(v)
		if !rv.IsValid() {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("[%s] resolved to nil for factory parameter %d of [%s]",
					typeName(param), i, typeName(key)),
			}
		}
		if !rv.Type().AssignableTo(param) {
			return nil, &InvalidRegistrationError{
				Reason: fmt.Sprintf("[%s] resolved to %s, want %s for factory parameter %d",
					typeName(key), typeName(rv.Type()), typeName(param), i),
			}
		}
		args[i] = rv
	}

	results := st.fn.Call(args)
	if st.returnsError && !results[1].IsNil() {
		return nil, fmt.Errorf("container: factory for [%s]: %w",
			typeName(key), results[1].Interface().(error))
	}

	value := results[0].Interface()
	if value == nil {
		// only interface-returning factories can produce an untyped nil;
		// letting it through would panic at the consumer's reflect site
		return nil, &InvalidRegistrationError{
			Reason: fmt.Sprintf("factory for [%s] returned nil", typeName(key)),
		}
	}
	if st.returnType == anyType {
		// the compile-time assignability check was deferred for any-returning
		// factories; enforce it now
		if err := checkAssignable(reflect.TypeOf(value), key); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// annotateMissing fills in the parameter context on a MissingDependencyError
// raised while resolving a nested dependency.
func annotateMissing(err error, parameter string) {
	var missing *MissingDependencyError
	if errors.As(err, &missing) && missing.Parameter == "" {
		missing.Parameter = parameter
	}
}

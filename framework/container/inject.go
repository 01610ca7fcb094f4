package container

import (
	"fmt"
	"reflect"
)

// Type-based registrations construct their concrete struct via reflection
// and inject exported fields carrying an `inject` tag:
//
//	type UserController struct {
//	    Users   *UserService `inject:""`        // resolved by field type
//	    Audit   Logger       `inject:"audit"`   // resolved through the "audit" alias
//	    counter int                             // untagged: left at its zero value
//	}
//
// Untagged fields are the "parameter with a default value" case: they are
// simply not the container's business.

// concreteTypeOf extracts a constructible type from a token such as
// (*Foo)(nil), Foo{} or &Foo{}. Returns nil when the token is not a struct
// or pointer to struct.
func concreteTypeOf(token any) reflect.Type {
	if token == nil {
		return nil
	}
	t := reflect.TypeOf(token)
	if !constructible(t) {
		return nil
	}
	return t
}

func constructible(t reflect.Type) bool {
	if t.Kind() == reflect.Struct {
		return true
	}
	return t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct
}

// construct builds a fresh value of concrete (struct or pointer to struct),
// resolving injected fields within the current resolution state.
func (c *Container) construct(concrete reflect.Type, rs *resolution) (any, error) {
	elem := concrete
	if concrete.Kind() == reflect.Ptr {
		elem = concrete.Elem()
	}

	pv := reflect.New(elem)
	if err := c.injectFields(elem, pv.Elem(), rs); err != nil {
		return nil, err
	}

	if concrete.Kind() == reflect.Ptr {
		return pv.Interface(), nil
	}
	return pv.Elem().Interface(), nil
}

func (c *Container) injectFields(structType reflect.Type, structValue reflect.Value, rs *resolution) error {
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		tag, ok := field.Tag.Lookup("inject")
		if !ok || tag == "-" {
			continue
		}
		if field.PkgPath != "" {
			return &InvalidRegistrationError{
				Reason: fmt.Sprintf("cannot inject unexported field %s.%s", typeName(structType), field.Name),
			}
		}

		var (
			value any
			err   error
		)
		if tag == "" {
			value, err = c.resolveKey(field.Type, rs)
		} else {
			value, err = c.resolveNamed(tag, rs)
		}
		if err != nil {
			annotateMissing(err, fmt.Sprintf("field %s.%s", typeName(structType), field.Name))
			return err
		}

		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return &InvalidRegistrationError{
				Reason: fmt.Sprintf("field %s.%s: dependency resolved to nil",
					typeName(structType), field.Name),
			}
		}
		if !rv.Type().AssignableTo(field.Type) {
			return &InvalidRegistrationError{
				Reason: fmt.Sprintf("field %s.%s: resolved %s is not assignable to %s",
					typeName(structType), field.Name, typeName(rv.Type()), typeName(field.Type)),
			}
		}
		structValue.Field(i).Set(rv)
	}
	return nil
}

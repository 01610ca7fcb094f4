package container

import (
	"fmt"
	"reflect"
	"strings"
)

// MissingDependencyError is returned when a requested service key, or a
// transitively required factory parameter or injected field, has no
// registration.
type MissingDependencyError struct {
	// Key is the service key that could not be resolved.
	Key reflect.Type

	// Parameter identifies the factory parameter or struct field that
	// required the key, when the failure happened mid-graph. Empty for a
	// direct Make of an unregistered key.
	Parameter string

	// Chain is the stack of service keys being resolved when the failure
	// occurred, outermost first.
	Chain []reflect.Type
}

func (e *MissingDependencyError) Error() string {
	msg := fmt.Sprintf("container: no registration for [%s]", typeName(e.Key))
	if e.Parameter != "" {
		msg += fmt.Sprintf(" required by %s", e.Parameter)
	}
	if len(e.Chain) > 0 {
		msg += fmt.Sprintf(" (while resolving %s)", formatChain(e.Chain))
	}
	return msg
}

// InvalidRegistrationError is returned when a registration is internally
// inconsistent: nil or non-func factory, unsupported factory signature, a
// concrete type that is not a struct, or a resolved value that does not
// satisfy its abstract key.
type InvalidRegistrationError struct {
	Reason string
}

func (e *InvalidRegistrationError) Error() string {
	return "container: invalid registration: " + e.Reason
}

// UnresolvedReferenceError is returned when a named reference (an alias used
// via MakeNamed or an `inject:"name"` tag) has no alias entry at resolution
// time. It is deliberately distinct from MissingDependencyError: the name may
// simply not have been aliased yet when the referencing registration was made.
type UnresolvedReferenceError struct {
	Name  string
	Chain []reflect.Type
}

func (e *UnresolvedReferenceError) Error() string {
	msg := fmt.Sprintf("container: unresolved named reference %q", e.Name)
	if len(e.Chain) > 0 {
		msg += fmt.Sprintf(" (while resolving %s)", formatChain(e.Chain))
	}
	return msg
}

// CircularDependencyError is returned when the active resolution chain
// revisits a key that is already being resolved.
type CircularDependencyError struct {
	// Chain is the resolution path, ending with the key that closed the cycle.
	Chain []reflect.Type
}

func (e *CircularDependencyError) Error() string {
	if len(e.Chain) == 0 {
		return "container: circular dependency detected"
	}
	return "container: circular dependency detected: " + formatChain(e.Chain)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func formatChain(chain []reflect.Type) string {
	parts := make([]string, len(chain))
	for i, t := range chain {
		parts[i] = typeName(t)
	}
	return strings.Join(parts, " -> ")
}

package dom

import (
	"errors"
	"fmt"

	"github.com/oy3o/rbxdom/value"
)

var (
	// ErrStaleReferent is returned for operations on a removed or unknown instance.
	ErrStaleReferent = errors.New("dom: stale referent")

	// ErrCyclicReparent is returned when a reparent would make an instance its own ancestor.
	ErrCyclicReparent = errors.New("dom: reparent would create a cycle")

	// ErrReferentCollision is returned when an inserted referent is already in use.
	ErrReferentCollision = errors.New("dom: referent already in use")

	// ErrPropertyNotFound is returned when an instance has no property of that name.
	ErrPropertyNotFound = errors.New("dom: property not found")

	// ErrInvalidInstance is returned for builders without a class name or with nil values.
	ErrInvalidInstance = errors.New("dom: invalid instance")
)

// TypeMismatchError reports a value whose variant disagrees with the type the
// schema declares for the property.
type TypeMismatchError struct {
	ClassName string
	Property  string
	Declared  value.Type
	Actual    value.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("dom: %s.%s is declared %s, got %s", e.ClassName, e.Property, e.Declared, e.Actual)
}

// IsTypeMismatch reports whether err is or wraps a *TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var tm *TypeMismatchError
	return errors.As(err, &tm)
}

func stale(ref value.Referent) error {
	return fmt.Errorf("%w: %s", ErrStaleReferent, ref)
}

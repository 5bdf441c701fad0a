package dom

import (
	"fmt"

	"github.com/oy3o/rbxdom/value"
)

// Schema supplies declared property types. The reflection database is the
// usual implementation.
type Schema interface {
	// PropertyType returns the declared variant of className.property. ok is
	// false when the property is unknown, in which case any variant is
	// accepted and stored verbatim.
	PropertyType(className, property string) (t value.Type, ok bool)
}

func checkType(schema Schema, className, name string, v value.Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil value for %s.%s", ErrInvalidInstance, className, name)
	}
	if schema == nil {
		return nil
	}
	declared, ok := schema.PropertyType(className, name)
	if !ok || declared == v.Type() {
		return nil
	}
	return &TypeMismatchError{ClassName: className, Property: name, Declared: declared, Actual: v.Type()}
}

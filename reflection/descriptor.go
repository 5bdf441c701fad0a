package reflection

import (
	"slices"

	"github.com/oy3o/rbxdom/value"
)

// Scriptability describes how scripts may access a property.
type Scriptability uint8

const (
	ScriptabilityNone Scriptability = iota
	ScriptabilityReadWrite
	ScriptabilityRead
	ScriptabilityWrite
	ScriptabilityCustom
)

var scriptabilityNames = [...]string{"None", "ReadWrite", "Read", "Write", "Custom"}

func (s Scriptability) String() string {
	if int(s) < len(scriptabilityNames) {
		return scriptabilityNames[s]
	}
	return "Unknown"
}

// ParseScriptability accepts the names returned by String.
func ParseScriptability(name string) (Scriptability, bool) {
	i := slices.Index(scriptabilityNames[:], name)
	if i < 0 {
		return ScriptabilityNone, false
	}
	return Scriptability(i), true
}

// TypeKind separates data-typed, enum-typed and unsupported properties.
type TypeKind uint8

const (
	KindData TypeKind = iota
	KindEnum
	KindUnimplemented
)

// PropertyType is the declared type of a property.
type PropertyType struct {
	Kind TypeKind
	// Value is the variant for KindData, and value.TypeEnum for KindEnum.
	Value value.Type
	// EnumName names the enum for KindEnum.
	EnumName string
	// Raw is the type name as it appeared in the source.
	Raw string
}

// Variant returns the value variant a property of this type holds. It is
// false for unimplemented types.
func (t PropertyType) Variant() (value.Type, bool) {
	switch t.Kind {
	case KindData:
		return t.Value, true
	case KindEnum:
		return value.TypeEnum, true
	}
	return value.TypeInvalid, false
}

// PropertyDescriptor describes one property name on one class. A property
// with several names has one descriptor per name; only the canonical one
// carries a default.
type PropertyDescriptor struct {
	Name          string
	Type          PropertyType
	Default       value.Value
	Scriptability Scriptability

	IsCanonical bool
	// CanonicalName is set on aliases and on the serialized form of a
	// canonical property. An alias with no canonical name is never written.
	CanonicalName string
	// SerializedName is set on canonical properties stored under another name.
	SerializedName string
}

// clone returns a copy that shares nothing mutable with p.
func (p *PropertyDescriptor) clone() *PropertyDescriptor {
	if p == nil {
		return nil
	}
	c := *p
	c.Default = cloneValue(p.Default)
	return &c
}

func cloneValue(v value.Value) value.Value {
	switch x := v.(type) {
	case value.BinaryString:
		return slices.Clone(x)
	case value.NumberSequence:
		return value.NumberSequence{Keypoints: slices.Clone(x.Keypoints)}
	case value.ColorSequence:
		return value.ColorSequence{Keypoints: slices.Clone(x.Keypoints)}
	}
	return v
}

// ClassDescriptor describes one class and the properties it declares
// itself. Inherited properties live on the superclasses.
type ClassDescriptor struct {
	Name       string
	Superclass string
	Tags       []string
	Properties map[string]*PropertyDescriptor
}

func (c *ClassDescriptor) clone() *ClassDescriptor {
	out := &ClassDescriptor{
		Name:       c.Name,
		Superclass: c.Superclass,
		Tags:       slices.Clone(c.Tags),
		Properties: make(map[string]*PropertyDescriptor, len(c.Properties)),
	}
	for name, p := range c.Properties {
		out.Properties[name] = p.clone()
	}
	return out
}

// HasTag reports whether the class carries tag.
func (c *ClassDescriptor) HasTag(tag string) bool { return slices.Contains(c.Tags, tag) }

// IsService reports whether the class is a singleton service.
func (c *ClassDescriptor) IsService() bool { return c.HasTag("Service") }

// EnumDescriptor maps enum item names to their integer values.
type EnumDescriptor struct {
	Name  string
	Items map[string]uint32

	// byValue keeps the first item declared for each value.
	byValue map[uint32]string
}

func (e *EnumDescriptor) addItem(name string, v uint32) {
	e.Items[name] = v
	if _, ok := e.byValue[v]; !ok {
		e.byValue[v] = name
	}
}

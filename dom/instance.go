package dom

import (
	"slices"

	"github.com/oy3o/rbxdom/value"
)

// Instance is one node of a Tree. Its links are referents that only mean
// something through the owning Tree.
type Instance struct {
	referent   value.Referent
	className  string
	parent     value.Referent
	children   []value.Referent
	properties map[string]value.Value
}

func (i *Instance) Referent() value.Referent { return i.referent }
func (i *Instance) ClassName() string        { return i.className }

// Parent returns the parent referent, or value.None for a root.
func (i *Instance) Parent() value.Referent { return i.parent }

// Children returns a copy of the ordered child referents.
func (i *Instance) Children() []value.Referent { return slices.Clone(i.children) }

func (i *Instance) NumChildren() int { return len(i.children) }

// Property returns the value stored under name.
func (i *Instance) Property(name string) (value.Value, bool) {
	v, ok := i.properties[name]
	return v, ok
}

// PropertyNames returns the property names in lexical order.
func (i *Instance) PropertyNames() []string {
	names := make([]string, 0, len(i.properties))
	for name := range i.properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (i *Instance) NumProperties() int { return len(i.properties) }

// InstanceBuilder describes an instance, and optionally its descendants,
// before it is inserted into a Tree.
type InstanceBuilder struct {
	referent   value.Referent
	className  string
	properties map[string]value.Value
	children   []*InstanceBuilder
}

// NewInstance starts a builder for className with a fresh referent.
func NewInstance(className string) *InstanceBuilder {
	return &InstanceBuilder{
		referent:   value.NewReferent(),
		className:  className,
		properties: make(map[string]value.Value),
	}
}

// Referent returns the referent the instance will have once inserted.
func (b *InstanceBuilder) Referent() value.Referent { return b.referent }

// WithReferent presets the referent. Decoders use it to keep references
// between instances resolvable before the tree exists.
func (b *InstanceBuilder) WithReferent(ref value.Referent) *InstanceBuilder {
	b.referent = ref
	return b
}

func (b *InstanceBuilder) WithProperty(name string, v value.Value) *InstanceBuilder {
	b.properties[name] = v
	return b
}

// WithChild appends a child builder; children are inserted in call order.
func (b *InstanceBuilder) WithChild(child *InstanceBuilder) *InstanceBuilder {
	b.children = append(b.children, child)
	return b
}

// walk visits b and its descendants in preorder.
func (b *InstanceBuilder) walk(fn func(*InstanceBuilder) error) error {
	if err := fn(b); err != nil {
		return err
	}
	for _, c := range b.children {
		if err := c.walk(fn); err != nil {
			return err
		}
	}
	return nil
}

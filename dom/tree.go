package dom

import (
	"fmt"
	"maps"
	"slices"

	"github.com/oy3o/rbxdom/value"
)

// Tree owns every instance in a flat store.
type Tree struct {
	instances map[value.Referent]*Instance
	roots     []value.Referent
	schema    Schema
	strings   *value.SharedStringTable
	metadata  map[string]string
}

// NewTree returns an empty tree. schema may be nil, in which case property
// values are never type checked.
func NewTree(schema Schema) *Tree {
	return &Tree{
		instances: make(map[value.Referent]*Instance),
		schema:    schema,
		strings:   value.NewSharedStringTable(),
		metadata:  make(map[string]string),
	}
}

// Schema returns the schema used for type checks, possibly nil.
func (t *Tree) Schema() Schema { return t.schema }

// Len returns the number of live instances.
func (t *Tree) Len() int { return len(t.instances) }

// Roots returns the referents of parentless instances in order.
func (t *Tree) Roots() []value.Referent { return slices.Clone(t.roots) }

// Contains reports whether ref names a live instance.
func (t *Tree) Contains(ref value.Referent) bool {
	_, ok := t.instances[ref]
	return ok
}

// Get returns the live instance for ref.
func (t *Tree) Get(ref value.Referent) (*Instance, error) {
	inst, ok := t.instances[ref]
	if !ok {
		return nil, stale(ref)
	}
	return inst, nil
}

// Insert adds the instance described by b, and its builder children, under
// parent. A none parent makes it a root. Nothing is inserted if any part of
// the builder is invalid.
func (t *Tree) Insert(b *InstanceBuilder, parent value.Referent) (value.Referent, error) {
	if !parent.IsNone() && !t.Contains(parent) {
		return value.None, stale(parent)
	}

	seen := make(map[value.Referent]struct{})
	err := b.walk(func(nb *InstanceBuilder) error {
		if nb.className == "" {
			return fmt.Errorf("%w: empty class name", ErrInvalidInstance)
		}
		if nb.referent.IsNone() {
			return fmt.Errorf("%w: none referent for %s", ErrInvalidInstance, nb.className)
		}
		if _, dup := seen[nb.referent]; dup || t.Contains(nb.referent) {
			return fmt.Errorf("%w: %s", ErrReferentCollision, nb.referent)
		}
		seen[nb.referent] = struct{}{}
		for name, v := range nb.properties {
			if err := checkType(t.schema, nb.className, name, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return value.None, err
	}

	t.commit(b, parent)
	return b.referent, nil
}

func (t *Tree) commit(b *InstanceBuilder, parent value.Referent) {
	inst := &Instance{
		referent:   b.referent,
		className:  b.className,
		parent:     parent,
		properties: make(map[string]value.Value, len(b.properties)),
	}
	for name, v := range b.properties {
		inst.properties[name] = t.adopt(v)
	}
	t.instances[inst.referent] = inst
	t.link(inst.referent, parent)

	for _, c := range b.children {
		t.commit(c, inst.referent)
	}
}

func (t *Tree) link(ref, parent value.Referent) {
	if parent.IsNone() {
		t.roots = append(t.roots, ref)
		return
	}
	p := t.instances[parent]
	p.children = append(p.children, ref)
}

func (t *Tree) unlink(ref, parent value.Referent) {
	if parent.IsNone() {
		t.roots = slices.DeleteFunc(t.roots, func(r value.Referent) bool { return r == ref })
		return
	}
	p := t.instances[parent]
	p.children = slices.DeleteFunc(p.children, func(r value.Referent) bool { return r == ref })
}

// adopt moves shared strings into the tree's deduplication table.
func (t *Tree) adopt(v value.Value) value.Value {
	if s, ok := v.(value.SharedString); ok {
		return t.strings.Adopt(s)
	}
	return v
}

// Remove deletes ref and its whole subtree. It returns the removed
// referents in preorder; none of them resolve afterwards.
func (t *Tree) Remove(ref value.Referent) ([]value.Referent, error) {
	inst, ok := t.instances[ref]
	if !ok {
		return nil, stale(ref)
	}
	removed, err := t.Descendants(ref)
	if err != nil {
		return nil, err
	}
	removed = append([]value.Referent{ref}, removed...)

	t.unlink(ref, inst.parent)
	for _, r := range removed {
		delete(t.instances, r)
	}
	return removed, nil
}

// Reparent moves ref under newParent, appending it to newParent's children.
// A none newParent makes ref a root. The tree is unchanged on error.
func (t *Tree) Reparent(ref, newParent value.Referent) error {
	inst, ok := t.instances[ref]
	if !ok {
		return stale(ref)
	}
	if !newParent.IsNone() {
		if !t.Contains(newParent) {
			return stale(newParent)
		}
		for cur := newParent; !cur.IsNone(); cur = t.instances[cur].parent {
			if cur == ref {
				return fmt.Errorf("%w: %s under %s", ErrCyclicReparent, ref, newParent)
			}
		}
	}

	t.unlink(ref, inst.parent)
	inst.parent = newParent
	t.link(ref, newParent)
	return nil
}

// GetProperty returns the value of ref's property name.
func (t *Tree) GetProperty(ref value.Referent, name string) (value.Value, error) {
	inst, ok := t.instances[ref]
	if !ok {
		return nil, stale(ref)
	}
	v, ok := inst.properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, inst.className, name)
	}
	return v, nil
}

// SetProperty assigns v to ref's property name. The assignment fails with a
// *TypeMismatchError when the schema declares a different variant.
func (t *Tree) SetProperty(ref value.Referent, name string, v value.Value) error {
	inst, ok := t.instances[ref]
	if !ok {
		return stale(ref)
	}
	if err := checkType(t.schema, inst.className, name, v); err != nil {
		return err
	}
	inst.properties[name] = t.adopt(v)
	return nil
}

// RemoveProperty deletes ref's property name and returns its old value.
func (t *Tree) RemoveProperty(ref value.Referent, name string) (value.Value, error) {
	inst, ok := t.instances[ref]
	if !ok {
		return nil, stale(ref)
	}
	v, ok := inst.properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, inst.className, name)
	}
	delete(inst.properties, name)
	return v, nil
}

// InternSharedString returns the tree's handle for data.
func (t *Tree) InternSharedString(data []byte) value.SharedString {
	return t.strings.Intern(data)
}

// SharedStrings returns the number of distinct shared strings the tree has
// stored.
func (t *Tree) SharedStrings() int { return t.strings.Len() }

// Descendants returns every descendant of ref in preorder, excluding ref.
func (t *Tree) Descendants(ref value.Referent) ([]value.Referent, error) {
	inst, ok := t.instances[ref]
	if !ok {
		return nil, stale(ref)
	}
	var out []value.Referent
	stack := slices.Clone(inst.children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		kids := t.instances[cur].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out, nil
}

// Walk visits the subtrees rooted at roots in preorder, passing each
// instance and its depth below the starting root. With no roots it walks
// the whole tree.
func (t *Tree) Walk(fn func(inst *Instance, depth int) error, roots ...value.Referent) error {
	if len(roots) == 0 {
		roots = t.roots
	}
	var visit func(ref value.Referent, depth int) error
	visit = func(ref value.Referent, depth int) error {
		inst, ok := t.instances[ref]
		if !ok {
			return stale(ref)
		}
		if err := fn(inst, depth); err != nil {
			return err
		}
		for _, c := range inst.children {
			if err := visit(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if err := visit(r, 0); err != nil {
			return err
		}
	}
	return nil
}

// Metadata returns a copy of the file-level metadata.
func (t *Tree) Metadata() map[string]string { return maps.Clone(t.metadata) }

func (t *Tree) SetMetadata(key, val string) { t.metadata[key] = val }

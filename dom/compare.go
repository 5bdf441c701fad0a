package dom

import (
	"errors"
	"fmt"

	"github.com/oy3o/rbxdom/value"
)

// ErrTreesDiffer is wrapped by every difference Compare reports.
var ErrTreesDiffer = errors.New("dom: trees differ")

// Compare reports the first structural difference between a and b. Two
// trees are equal when their roots and children line up in order with the
// same class names and property values. Referents are not compared
// directly; a Ref in a must point at the instance in the same preorder
// position as the target of the matching Ref in b.
func Compare(a, b *Tree) error {
	ao, bo := preorder(a), preorder(b)
	if len(ao) != len(bo) {
		return fmt.Errorf("%w: %d instances vs %d", ErrTreesDiffer, len(ao), len(bo))
	}
	if len(a.roots) != len(b.roots) {
		return fmt.Errorf("%w: %d roots vs %d", ErrTreesDiffer, len(a.roots), len(b.roots))
	}

	mapping := make(map[value.Referent]value.Referent, len(ao))
	for i, inst := range ao {
		mapping[inst.referent] = bo[i].referent
	}

	for i := range ao {
		x, y := ao[i], bo[i]
		if x.className != y.className {
			return fmt.Errorf("%w: #%d class %s vs %s", ErrTreesDiffer, i, x.className, y.className)
		}
		if len(x.children) != len(y.children) {
			return fmt.Errorf("%w: #%d %s has %d children vs %d", ErrTreesDiffer, i, x.className, len(x.children), len(y.children))
		}
		if x.parent.IsNone() != y.parent.IsNone() || (!x.parent.IsNone() && mapping[x.parent] != y.parent) {
			return fmt.Errorf("%w: #%d %s has a different parent", ErrTreesDiffer, i, x.className)
		}
		if len(x.properties) != len(y.properties) {
			return fmt.Errorf("%w: #%d %s has %d properties vs %d", ErrTreesDiffer, i, x.className, len(x.properties), len(y.properties))
		}
		for name, xv := range x.properties {
			yv, ok := y.properties[name]
			if !ok {
				return fmt.Errorf("%w: #%d %s.%s missing", ErrTreesDiffer, i, x.className, name)
			}
			if !sameValue(xv, yv, mapping, b) {
				return fmt.Errorf("%w: #%d %s.%s: %s vs %s", ErrTreesDiffer, i, x.className, name, value.Format(xv), value.Format(yv))
			}
		}
	}
	return nil
}

func sameValue(x, y value.Value, mapping map[value.Referent]value.Referent, b *Tree) bool {
	xr, ok := x.(value.Ref)
	if !ok {
		return value.Equal(x, y)
	}
	yr, ok := y.(value.Ref)
	if !ok {
		return false
	}
	if xr.IsNull() || yr.IsNull() {
		return xr.IsNull() == yr.IsNull()
	}
	target, ok := mapping[xr.Referent]
	if !ok {
		// Dangling in a: only equal if equally dangling in b.
		return !b.Contains(yr.Referent)
	}
	return target == yr.Referent
}

// preorder lists every instance reachable from the roots.
func preorder(t *Tree) []*Instance {
	out := make([]*Instance, 0, len(t.instances))
	_ = t.Walk(func(inst *Instance, _ int) error {
		out = append(out, inst)
		return nil
	})
	return out
}

package dom

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/rbxdom/value"
)

type mapSchema map[string]value.Type

func (m mapSchema) PropertyType(className, property string) (value.Type, bool) {
	t, ok := m[className+"."+property]
	return t, ok
}

func named(class, name string) *InstanceBuilder {
	return NewInstance(class).WithProperty("Name", value.String(name))
}

// snapshot captures parent links and child order for comparison.
func snapshot(t *testing.T, tree *Tree) map[value.Referent][]value.Referent {
	t.Helper()
	out := make(map[value.Referent][]value.Referent)
	require.NoError(t, tree.Walk(func(inst *Instance, _ int) error {
		out[inst.Referent()] = append([]value.Referent{inst.Parent()}, inst.Children()...)
		return nil
	}))
	return out
}

func sampleTree(t *testing.T) (*Tree, value.Referent, value.Referent, value.Referent, value.Referent) {
	t.Helper()
	tree := NewTree(nil)
	part := named("Part", "Base").
		WithProperty("Anchored", value.Bool(true)).
		WithProperty("Size", value.Vector3{X: 4, Y: 1, Z: 2})
	link := named("ObjectValue", "Link").WithProperty("Value", value.Ref{Referent: part.Referent()})
	folder := named("Folder", "Things").WithChild(link)
	model := named("Model", "Root").WithChild(part).WithChild(folder)

	root, err := tree.Insert(model, value.None)
	require.NoError(t, err)
	return tree, root, part.Referent(), folder.Referent(), link.Referent()
}

func TestInsert(t *testing.T) {
	tree, root, part, folder, link := sampleTree(t)

	assert.Equal(t, 4, tree.Len())
	assert.Equal(t, []value.Referent{root}, tree.Roots())

	inst, err := tree.Get(root)
	require.NoError(t, err)
	assert.Equal(t, "Model", inst.ClassName())
	assert.Equal(t, []value.Referent{part, folder}, inst.Children())

	got, err := tree.GetProperty(link, "Value")
	require.NoError(t, err)
	assert.Equal(t, value.Ref{Referent: part}, got)

	t.Run("stale parent", func(t *testing.T) {
		_, err := tree.Insert(NewInstance("Part"), value.NewReferent())
		assert.ErrorIs(t, err, ErrStaleReferent)
	})

	t.Run("empty class", func(t *testing.T) {
		_, err := tree.Insert(NewInstance(""), root)
		assert.ErrorIs(t, err, ErrInvalidInstance)
	})

	t.Run("referent collision is atomic", func(t *testing.T) {
		b := NewInstance("Folder").WithChild(NewInstance("Part").WithReferent(part))
		_, err := tree.Insert(b, root)
		assert.ErrorIs(t, err, ErrReferentCollision)
		assert.False(t, tree.Contains(b.Referent()))
		assert.Equal(t, 4, tree.Len())
	})

	t.Run("nil value", func(t *testing.T) {
		_, err := tree.Insert(NewInstance("Part").WithProperty("Size", nil), root)
		assert.ErrorIs(t, err, ErrInvalidInstance)
	})
}

func TestChildOrder(t *testing.T) {
	tree := NewTree(nil)
	root, err := tree.Insert(NewInstance("Folder"), value.None)
	require.NoError(t, err)

	var want []value.Referent
	for range 5 {
		ref, err := tree.Insert(NewInstance("Part"), root)
		require.NoError(t, err)
		want = append(want, ref)
	}
	inst, _ := tree.Get(root)
	assert.Equal(t, want, inst.Children())

	// Reparenting to the same parent moves the child to the end.
	require.NoError(t, tree.Reparent(want[1], root))
	inst, _ = tree.Get(root)
	assert.Equal(t, []value.Referent{want[0], want[2], want[3], want[4], want[1]}, inst.Children())
}

func TestRemove(t *testing.T) {
	tree, root, part, folder, link := sampleTree(t)

	removed, err := tree.Remove(folder)
	require.NoError(t, err)
	assert.Equal(t, []value.Referent{folder, link}, removed)
	assert.Equal(t, 2, tree.Len())

	inst, _ := tree.Get(root)
	assert.Equal(t, []value.Referent{part}, inst.Children())

	_, err = tree.Get(link)
	assert.ErrorIs(t, err, ErrStaleReferent)
	_, err = tree.GetProperty(folder, "Name")
	assert.ErrorIs(t, err, ErrStaleReferent)
	assert.ErrorIs(t, tree.SetProperty(link, "Name", value.String("x")), ErrStaleReferent)
	assert.ErrorIs(t, tree.Reparent(folder, root), ErrStaleReferent)

	_, err = tree.Remove(folder)
	assert.ErrorIs(t, err, ErrStaleReferent)

	removed, err = tree.Remove(root)
	require.NoError(t, err)
	assert.Equal(t, []value.Referent{root, part}, removed)
	assert.Zero(t, tree.Len())
	assert.Empty(t, tree.Roots())
}

func TestReparent(t *testing.T) {
	tree, root, part, folder, link := sampleTree(t)

	t.Run("cycle is rejected without changes", func(t *testing.T) {
		before := snapshot(t, tree)
		assert.ErrorIs(t, tree.Reparent(root, link), ErrCyclicReparent)
		assert.ErrorIs(t, tree.Reparent(folder, folder), ErrCyclicReparent)
		assert.ErrorIs(t, tree.Reparent(folder, link), ErrCyclicReparent)
		assert.Equal(t, before, snapshot(t, tree))
	})

	t.Run("move", func(t *testing.T) {
		require.NoError(t, tree.Reparent(part, link))
		inst, _ := tree.Get(part)
		assert.Equal(t, link, inst.Parent())
		r, _ := tree.Get(root)
		assert.Equal(t, []value.Referent{folder}, r.Children())
	})

	t.Run("to root", func(t *testing.T) {
		require.NoError(t, tree.Reparent(folder, value.None))
		assert.Equal(t, []value.Referent{root, folder}, tree.Roots())
		desc, err := tree.Descendants(folder)
		require.NoError(t, err)
		assert.Equal(t, []value.Referent{link, part}, desc)
	})
}

func TestProperties(t *testing.T) {
	schema := mapSchema{"Part.Anchored": value.TypeBool, "Part.Name": value.TypeString}
	tree := NewTree(schema)

	t.Run("insert mismatch", func(t *testing.T) {
		_, err := tree.Insert(NewInstance("Part").WithProperty("Anchored", value.Int32(1)), value.None)
		require.Error(t, err)
		assert.True(t, IsTypeMismatch(err))
		assert.Zero(t, tree.Len())
	})

	ref, err := tree.Insert(NewInstance("Part").WithProperty("Anchored", value.Bool(false)), value.None)
	require.NoError(t, err)

	t.Run("set mismatch", func(t *testing.T) {
		err := tree.SetProperty(ref, "Anchored", value.String("yes"))
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, value.TypeBool, tm.Declared)
		assert.Equal(t, value.TypeString, tm.Actual)
		got, _ := tree.GetProperty(ref, "Anchored")
		assert.Equal(t, value.Bool(false), got)
	})

	t.Run("unknown property stored verbatim", func(t *testing.T) {
		require.NoError(t, tree.SetProperty(ref, "Custom", value.Int64(7)))
		got, err := tree.GetProperty(ref, "Custom")
		require.NoError(t, err)
		assert.Equal(t, value.Int64(7), got)
	})

	t.Run("remove", func(t *testing.T) {
		old, err := tree.RemoveProperty(ref, "Custom")
		require.NoError(t, err)
		assert.Equal(t, value.Int64(7), old)
		_, err = tree.GetProperty(ref, "Custom")
		assert.ErrorIs(t, err, ErrPropertyNotFound)
		_, err = tree.RemoveProperty(ref, "Custom")
		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})
}

func TestSharedStrings(t *testing.T) {
	tree := NewTree(nil)
	blob := []byte("mesh data")

	a := NewInstance("MeshPart").WithProperty("PhysicalConfigData", value.NewSharedString(blob))
	b := NewInstance("MeshPart").WithProperty("PhysicalConfigData", value.NewSharedString(bytes.Clone(blob)))
	ra, err := tree.Insert(a, value.None)
	require.NoError(t, err)
	rb, err := tree.Insert(b, value.None)
	require.NoError(t, err)

	va, _ := tree.GetProperty(ra, "PhysicalConfigData")
	vb, _ := tree.GetProperty(rb, "PhysicalConfigData")
	assert.True(t, va.(value.SharedString).Same(vb.(value.SharedString)))
	assert.Equal(t, 1, tree.SharedStrings())

	s := tree.InternSharedString(blob)
	assert.True(t, s.Same(va.(value.SharedString)))
	assert.Equal(t, 1, tree.SharedStrings())
}

func TestWalkDepth(t *testing.T) {
	tree, _, _, folder, _ := sampleTree(t)
	var depths []int
	require.NoError(t, tree.Walk(func(_ *Instance, depth int) error {
		depths = append(depths, depth)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 1, 2}, depths)

	depths = nil
	require.NoError(t, tree.Walk(func(_ *Instance, depth int) error {
		depths = append(depths, depth)
		return nil
	}, folder))
	assert.Equal(t, []int{0, 1}, depths)
}

func TestCompare(t *testing.T) {
	a, _, _, _, _ := sampleTree(t)
	b, _, bpart, bfolder, blink := sampleTree(t)
	require.NoError(t, Compare(a, b))

	require.NoError(t, b.SetProperty(blink, "Value", value.Ref{Referent: bfolder}))
	assert.ErrorIs(t, Compare(a, b), ErrTreesDiffer)

	require.NoError(t, b.SetProperty(blink, "Value", value.Ref{Referent: bpart}))
	require.NoError(t, Compare(a, b))

	require.NoError(t, b.SetProperty(bpart, "Anchored", value.Bool(false)))
	assert.ErrorIs(t, Compare(a, b), ErrTreesDiffer)
}

func TestMetadata(t *testing.T) {
	tree := NewTree(nil)
	tree.SetMetadata("ExplicitAutoJoints", "true")
	md := tree.Metadata()
	md["ExplicitAutoJoints"] = "false"
	assert.Equal(t, map[string]string{"ExplicitAutoJoints": "true"}, tree.Metadata())
}

func TestFprint(t *testing.T) {
	tree, _, _, _, _ := sampleTree(t)
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, tree))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fprint", buf.Bytes())
}

package reflection

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/rbxdom/value"
)

func open(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func loadDatabase(t *testing.T) (*Database, MergeReport) {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.LoadAPIDump(open(t, "api_dump.json")))
	require.NoError(t, b.ApplyPatches(open(t, "patches.yaml")))

	policy, err := LoadExclusionPolicy(open(t, "exclusions.yaml"))
	require.NoError(t, err)
	b.SetExclusionPolicy(policy)

	report, err := b.MergeDefaults(open(t, "defaults.jsonl"), policy)
	require.NoError(t, err)

	db, err := b.Build()
	require.NoError(t, err)
	return db, report
}

func TestLoadAPIDump(t *testing.T) {
	db, _ := loadDatabase(t)

	part, err := db.Class("Part")
	require.NoError(t, err)
	assert.Equal(t, "BasePart", part.Superclass)

	inst, err := db.Class("Instance")
	require.NoError(t, err)
	assert.Empty(t, inst.Superclass)
	assert.NotContains(t, inst.Properties, "Destroy")
	assert.NotContains(t, inst.Properties, "Changed")

	_, err = db.Class("HopperBin")
	assert.ErrorIs(t, err, ErrClassNotFound)

	assert.True(t, db.IsService("Workspace"))
	assert.False(t, db.IsService("Model"))
	assert.Equal(t, 3, db.NumEnums())

	t.Run("types", func(t *testing.T) {
		tests := []struct {
			class, prop string
			want        value.Type
			ok          bool
		}{
			{"Part", "Name", value.TypeString, true},
			{"Part", "Anchored", value.TypeBool, true},
			{"Part", "Transparency", value.TypeFloat32, true},
			{"Part", "Material", value.TypeEnum, true},
			{"Model", "PrimaryPart", value.TypeRef, true},
			{"Script", "Source", value.TypeProtectedString, true},
			{"MeshPart", "PhysicalConfigData", value.TypeSharedString, true},
			{"Part", "ResizeableFaces", value.TypeInvalid, false},
			{"Part", "Nope", value.TypeInvalid, false},
			{"Nope", "Name", value.TypeInvalid, false},
		}
		for _, tt := range tests {
			got, ok := db.PropertyType(tt.class, tt.prop)
			assert.Equal(t, tt.ok, ok, "%s.%s", tt.class, tt.prop)
			assert.Equal(t, tt.want, got, "%s.%s", tt.class, tt.prop)
		}
	})

	t.Run("scriptability", func(t *testing.T) {
		p, err := db.Property("Part", "ClassName")
		require.NoError(t, err)
		assert.Equal(t, ScriptabilityRead, p.Scriptability)

		p, err = db.Property("Part", "ResizeableFaces")
		require.NoError(t, err)
		assert.Equal(t, KindUnimplemented, p.Type.Kind)
		assert.Equal(t, "Faces", p.Type.Raw)
	})
}

func TestPropertySuperclassWalk(t *testing.T) {
	db, _ := loadDatabase(t)

	p, err := db.Property("Workspace", "Archivable")
	require.NoError(t, err)
	assert.Equal(t, "Archivable", p.Name)

	_, err = db.Property("Workspace", "Anchored")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestCanonicalAndSerialized(t *testing.T) {
	db, _ := loadDatabase(t)

	tests := []struct {
		class, prop          string
		canonical, serialize string
	}{
		{"Part", "Anchored", "Anchored", "Anchored"},
		{"Part", "Color", "Color", "Color3uint8"},
		{"Part", "Color3uint8", "Color", "Color3uint8"},
		{"Part", "size", "Size", "Size"},
		{"Part", "FormFactor", "FormFactor", "formFactorRaw"},
		{"Part", "formFactorRaw", "FormFactor", "formFactorRaw"},
	}
	for _, tt := range tests {
		c, ok := db.Canonical(tt.class, tt.prop)
		require.True(t, ok, "%s.%s", tt.class, tt.prop)
		assert.Equal(t, tt.canonical, c.Name)

		s, ok := db.Serialized(tt.class, tt.prop)
		require.True(t, ok)
		assert.Equal(t, tt.serialize, s.Name)
	}

	s, _ := db.Serialized("Part", "Color")
	assert.Equal(t, value.TypeColor3uint8, s.Type.Value)

	_, ok := db.Canonical("Part", "Unknown")
	assert.False(t, ok)
	_, ok = db.Canonical("Unknown", "Name")
	assert.False(t, ok)
}

func TestIsPropertySerializable(t *testing.T) {
	db, _ := loadDatabase(t)

	assert.True(t, db.IsPropertySerializable("Part", "Anchored"))
	assert.True(t, db.IsPropertySerializable("Part", "Name"))
	// excluded by policy
	assert.False(t, db.IsPropertySerializable("Part", "Parent"))
	assert.False(t, db.IsPropertySerializable("Part", "Archivable"))
	// not writable from scripts
	assert.False(t, db.IsPropertySerializable("Part", "ClassName"))
	// not canonical
	assert.False(t, db.IsPropertySerializable("Part", "formFactorRaw"))
	assert.False(t, db.IsPropertySerializable("Part", "size"))
	assert.False(t, db.IsPropertySerializable("Part", "Missing"))
}

func TestEnumItems(t *testing.T) {
	db, _ := loadDatabase(t)

	name, ok := db.EnumItemName("Material", 512)
	require.True(t, ok)
	assert.Equal(t, "Wood", name)

	v, ok := db.EnumItemValue("PartType", "Cylinder")
	require.True(t, ok)
	assert.Equal(t, uint32(2), v)

	_, ok = db.EnumItemName("Material", 1)
	assert.False(t, ok)
	_, ok = db.EnumItemValue("Nope", "Wood")
	assert.False(t, ok)

	_, err := db.Enum("Nope")
	assert.ErrorIs(t, err, ErrEnumNotFound)
}

func TestMergeDefaults(t *testing.T) {
	db, report := loadDatabase(t)

	assert.Equal(t, Version{0, 420, 0, 123}, report.Version)
	assert.Equal(t, Version{0, 420, 0, 123}, db.Version())
	assert.Equal(t, "0.420.0.123", db.Version().String())
	assert.Equal(t, 5, report.Messages)
	assert.Equal(t, 5, report.Merged)
	assert.Equal(t, 1, report.Excluded)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.UnknownMessages)
	assert.Equal(t, []string{"HopperBin"}, report.UnknownClasses)

	v, ok := db.Default("Part", "Anchored")
	require.True(t, ok)
	assert.Equal(t, value.Bool(false), v)

	v, ok = db.Default("Part", "Size")
	require.True(t, ok)
	assert.Equal(t, value.Vector3{X: 4, Y: 1.2, Z: 2}, v)

	v, ok = db.Default("Part", "Shape")
	require.True(t, ok)
	assert.Equal(t, value.Enum(1), v)

	v, ok = db.Default("Workspace", "Name")
	require.True(t, ok)
	assert.Equal(t, value.String("Workspace"), v)

	// Defaults captured on Part do not leak to the declaring class.
	_, ok = db.Default("BasePart", "Anchored")
	assert.False(t, ok)
	_, ok = db.Default("Part", "Name")
	assert.False(t, ok)
	_, ok = db.Default("Part", "Parent")
	assert.False(t, ok)

	stats := db.Stats()
	assert.Equal(t, 5, stats.Defaults)
}

func TestMergeDefaultsMalformed(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.LoadAPIDump(open(t, "api_dump.json")))
	_, err := b.MergeDefaults(strings.NewReader(`{"type":"Version","version":[1,2,3,4]} {"type":`), ExclusionPolicy{})
	assert.Error(t, err)
}

func TestBuildValidation(t *testing.T) {
	t.Run("unknown superclass", func(t *testing.T) {
		b := NewBuilder().AddClass(&ClassDescriptor{Name: "Part", Superclass: "BasePart"})
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidDump)
	})

	t.Run("cyclic hierarchy", func(t *testing.T) {
		b := NewBuilder().
			AddClass(&ClassDescriptor{Name: "A", Superclass: "B"}).
			AddClass(&ClassDescriptor{Name: "B", Superclass: "A"})
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidDump)
	})

	t.Run("alias to missing", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.ApplyPatches(strings.NewReader(`
classes:
  Part:
    properties:
      size:
        type: Vector3
        alias_for: Size
`)))
		_, err := b.Build()
		assert.ErrorIs(t, err, ErrInvalidPatch)
	})

	t.Run("new property without type", func(t *testing.T) {
		b := NewBuilder()
		err := b.ApplyPatches(strings.NewReader(`
classes:
  Part:
    properties:
      size:
        alias_for: Size
`))
		assert.ErrorIs(t, err, ErrInvalidPatch)
	})

	t.Run("unknown patch field", func(t *testing.T) {
		err := NewBuilder().ApplyPatches(strings.NewReader("classes:\n  Part:\n    colour: red\n"))
		assert.Error(t, err)
	})
}

func TestConcurrentLookups(t *testing.T) {
	db, _ := loadDatabase(t)

	var wg conc.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 100 {
				s, ok := db.Serialized("Part", "Color")
				assert.True(t, ok)
				assert.Equal(t, "Color3uint8", s.Name)
				_, ok = db.PropertyType("Part", "Missing")
				assert.False(t, ok)
			}
		})
	}
	wg.Wait()
}

func TestDescriptorsAreCopies(t *testing.T) {
	db, _ := loadDatabase(t)

	part, err := db.Class("Part")
	require.NoError(t, err)
	part.Superclass = "Instance"
	part.Properties["Injected"] = &PropertyDescriptor{Name: "Injected"}
	_, err = db.Property("Part", "Injected")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	again, err := db.Class("Part")
	require.NoError(t, err)
	assert.Equal(t, "BasePart", again.Superclass)

	p, err := db.Property("Part", "Anchored")
	require.NoError(t, err)
	p.Default = value.Bool(true)
	p.Name = "Changed"
	v, ok := db.Default("Part", "Anchored")
	require.True(t, ok)
	assert.Equal(t, value.Bool(false), v)

	canonical, ok := db.Canonical("Part", "Color")
	require.True(t, ok)
	canonical.SerializedName = "Color"
	s, ok := db.Serialized("Part", "Color")
	require.True(t, ok)
	assert.Equal(t, "Color3uint8", s.Name)

	desc := &ClassDescriptor{Name: "Gadget", Superclass: "Instance"}
	b := NewBuilder().
		AddClass(&ClassDescriptor{Name: "Instance"}).
		AddClass(desc)
	desc.Superclass = "Missing"
	built, err := b.Build()
	require.NoError(t, err)
	gadget, err := built.Class("Gadget")
	require.NoError(t, err)
	assert.Equal(t, "Instance", gadget.Superclass)
}

package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeNames(t *testing.T) {
	for _, typ := range Types() {
		parsed, ok := ParseType(typ.String())
		require.True(t, ok, typ.String())
		assert.Equal(t, typ, parsed)
		assert.True(t, typ.Valid())
	}
	_, ok := ParseType("Quaternion")
	assert.False(t, ok)
	assert.False(t, TypeInvalid.Valid())
	assert.Equal(t, "Invalid", Type(200).String())
}

func TestZeroMatchesType(t *testing.T) {
	for _, typ := range Types() {
		z := Zero(typ)
		require.NotNil(t, z, typ.String())
		assert.Equal(t, typ, z.Type())
	}
	assert.Nil(t, Zero(TypeInvalid))
	assert.Equal(t, Identity(), Zero(TypeCFrame).(CFrame).Orientation)
}

func TestEqualIsBitExact(t *testing.T) {
	nan := math.Float32frombits(0x7FC00001)
	negZero := float32(math.Copysign(0, -1))

	assert.True(t, Equal(Float32(nan), Float32(nan)))
	assert.False(t, Equal(Float32(0), Float32(negZero)))
	assert.False(t, Equal(Vector3{X: 0}, Vector3{X: negZero}))
	assert.True(t, Equal(Vector3{1, 2, 3}, Vector3{1, 2, 3}))

	assert.False(t, Equal(Int32(1), Int64(1)), "variants never compare equal across types")
	assert.False(t, Equal(String("a"), Content("a")))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Bool(true), nil))

	assert.True(t, Equal(BinaryString("ab"), BinaryString("ab")))
	assert.True(t, Equal(
		NumberSequence{Keypoints: []NumberSequenceKeypoint{{Time: 0, Value: 1}, {Time: 1, Value: 2}}},
		NumberSequence{Keypoints: []NumberSequenceKeypoint{{Time: 0, Value: 1}, {Time: 1, Value: 2}}},
	))
	assert.False(t, Equal(
		ColorSequence{Keypoints: []ColorSequenceKeypoint{{Time: 0}}},
		ColorSequence{Keypoints: []ColorSequenceKeypoint{{Time: 0}, {Time: 1}}},
	))

	// Coefficients of default physical properties are irrelevant.
	assert.True(t, Equal(PhysicalProperties{}, PhysicalProperties{Density: 5}))
	assert.False(t, Equal(PhysicalProperties{Custom: true}, PhysicalProperties{Custom: true, Density: 5}))
}

func TestSharedStringTableDeduplicates(t *testing.T) {
	table := NewSharedStringTable()
	data := []byte("mesh data")

	a := table.Intern(data)
	b := table.Intern([]byte("mesh data"))
	c := table.Intern([]byte("other"))

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(c))
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []SharedStringHash{a.Hash(), c.Hash()}, table.Hashes())

	// The table keeps its own copy.
	data[0] = 'X'
	assert.Equal(t, []byte("mesh data"), a.Data())

	foreign := NewSharedString([]byte("mesh data"))
	assert.False(t, foreign.Same(a))
	assert.True(t, Equal(foreign, a))
	assert.True(t, table.Adopt(foreign).Same(a))

	fresh := NewSharedString([]byte("fresh"))
	assert.True(t, table.Adopt(fresh).Same(fresh))
	got, ok := table.Lookup(fresh.Hash())
	require.True(t, ok)
	assert.True(t, got.Same(fresh))

	var empty SharedString
	assert.Equal(t, 0, empty.Len())
	assert.True(t, Equal(empty, NewSharedString(nil)))
}

func TestReferent(t *testing.T) {
	a, b := NewReferent(), NewReferent()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNone())
	assert.True(t, None.IsNone())
	assert.Equal(t, "null", None.String())

	parsed, err := ParseReferent(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseReferent("not-a-uuid")
	assert.Error(t, err)

	assert.True(t, NullRef().IsNull())
}

func TestJSONEnvelope(t *testing.T) {
	target := NewReferent()
	cases := []Value{
		Vector3{1.5, -2, 3.25},
		CFrame{Position: Vector3{1, 2, 3}, Orientation: Identity()},
		PhysicalProperties{},
		PhysicalProperties{Custom: true, Density: 0.7, Friction: 0.3, Elasticity: 0.5, FrictionWeight: 1, ElasticityWeight: 1},
		NullRef(),
		Ref{Referent: target},
		ColorSequence{Keypoints: []ColorSequenceKeypoint{{Time: 0, Color: Color3{1, 0, 0}}, {Time: 1, Color: Color3{0, 0, 1}}}},
		BinaryString{0, 1, 2, 255},
		Enum(4),
		UDim2{X: UDim{0.5, -10}, Y: UDim{1, 20}},
	}
	for _, v := range cases {
		t.Run(v.Type().String(), func(t *testing.T) {
			data, err := MarshalJSON(v)
			require.NoError(t, err)
			got, err := UnmarshalJSON(data)
			require.NoError(t, err)
			assert.True(t, Equal(v, got), "%s: %s", data, Format(got))
		})
	}

	data, err := MarshalJSON(PhysicalProperties{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Type":"PhysicalProperties","Value":"Default"}`, string(data))

	got, err := UnmarshalJSON([]byte(`{"Type":"Vector3","Value":[0.25,1,-4]}`))
	require.NoError(t, err)
	assert.Equal(t, Vector3{0.25, 1, -4}, got)

	shared, err := UnmarshalJSON([]byte(`{"Type":"SharedString","Value":"aGVsbG8="}`))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), shared.(SharedString).Data())

	_, err = UnmarshalJSON([]byte(`{"Type":"Quaternion","Value":[0,0,0,1]}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = UnmarshalJSON([]byte(`{"Type":"Bool","Value":"yes"}`))
	assert.Error(t, err)

	_, err = MarshalJSON(nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "true", Format(Bool(true)))
	assert.Equal(t, `"Baseplate"`, Format(String("Baseplate")))
	assert.Equal(t, "1, 2.5, -3", Format(Vector3{1, 2.5, -3}))
	assert.Equal(t, "{0.5, 10}, {1, -4}", Format(UDim2{X: UDim{0.5, 10}, Y: UDim{1, -4}}))
	assert.Equal(t, "Default", Format(PhysicalProperties{}))
	assert.Equal(t, "null", Format(NullRef()))
	assert.Equal(t, "<3 bytes>", Format(BinaryString("abc")))
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		to   Type
		want Value
		ok   bool
	}{
		{"same type", Bool(true), TypeBool, Bool(true), true},
		{"color to uint8", Color3{R: 1, G: 0.5, B: 2}, TypeColor3uint8, Color3uint8{R: 255, G: 128, B: 255}, true},
		{"uint8 to color", Color3uint8{R: 255, G: 0, B: 51}, TypeColor3, Color3{R: 1, G: 0, B: 0.2}, true},
		{"widen int", Int32(-5), TypeInt64, Int64(-5), true},
		{"narrow int", Int64(1 << 40), TypeInt32, nil, false},
		{"narrow float exact", Float64(-0.5), TypeFloat32, Float32(-0.5), true},
		{"narrow float negative zero", Float64(math.Copysign(0, -1)), TypeFloat32, Float32(math.Copysign(0, -1)), true},
		{"narrow float lossy", Float64(0.1), TypeFloat32, nil, false},
		{"narrow float overflow", Float64(math.MaxFloat64), TypeFloat32, nil, false},
		{"string to content", String("rbxassetid://1"), TypeContent, Content("rbxassetid://1"), true},
		{"binary to protected", BinaryString("src"), TypeProtectedString, ProtectedString("src"), true},
		{"no path", Vector3{}, TypeCFrame, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert(tt.in, tt.to)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	got, ok := Convert(Float64(math.NaN()), TypeFloat32)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(float64(got.(Float32))))
}

package value

// Value is a sealed interface implemented only by the variants in this
// package.
type Value interface {
	// Type returns the variant tag.
	Type() Type
	isValue()
}

type (
	Bool            bool
	String          string
	BinaryString    []byte
	Int32           int32
	Int64           int64
	Float32         float32
	Float64         float64
	BrickColor      uint32
	Enum            uint32
	Content         string
	ProtectedString string
)

// Vector2 is a pair of single-precision coordinates.
type Vector2 struct {
	X, Y float32
}

type Vector2int16 struct {
	X, Y int16
}

// Vector3 is a triple of single-precision coordinates.
type Vector3 struct {
	X, Y, Z float32
}

type Vector3int16 struct {
	X, Y, Z int16
}

// Matrix3 is a 3x3 rotation matrix stored as rows.
type Matrix3 struct {
	X, Y, Z Vector3
}

// Identity returns the identity rotation.
func Identity() Matrix3 {
	return Matrix3{
		X: Vector3{1, 0, 0},
		Y: Vector3{0, 1, 0},
		Z: Vector3{0, 0, 1},
	}
}

// CFrame is a position plus orientation.
type CFrame struct {
	Position    Vector3
	Orientation Matrix3
}

type Color3 struct {
	R, G, B float32
}

type Color3uint8 struct {
	R, G, B uint8
}

type UDim struct {
	Scale  float32
	Offset int32
}

type UDim2 struct {
	X, Y UDim
}

type Rect struct {
	Min, Max Vector2
}

type NumberRange struct {
	Min, Max float32
}

type NumberSequenceKeypoint struct {
	Time     float32
	Value    float32
	Envelope float32
}

type NumberSequence struct {
	Keypoints []NumberSequenceKeypoint
}

// ColorSequenceKeypoint carries an envelope even though the application
// never exposes it, so that stored envelopes survive a round trip.
type ColorSequenceKeypoint struct {
	Time     float32
	Color    Color3
	Envelope float32
}

type ColorSequence struct {
	Keypoints []ColorSequenceKeypoint
}

// PhysicalProperties is either the material default (Custom false) or a
// custom set of coefficients.
type PhysicalProperties struct {
	Custom           bool
	Density          float32
	Friction         float32
	Elasticity       float32
	FrictionWeight   float32
	ElasticityWeight float32
}

// Ref points at another instance of the same tree, or at nothing.
type Ref struct {
	Referent Referent
}

// NullRef returns a Ref pointing at nothing.
func NullRef() Ref { return Ref{} }

// IsNull reports whether the ref points at nothing.
func (r Ref) IsNull() bool { return r.Referent.IsNone() }

func (Bool) Type() Type               { return TypeBool }
func (String) Type() Type             { return TypeString }
func (BinaryString) Type() Type       { return TypeBinaryString }
func (Int32) Type() Type              { return TypeInt32 }
func (Int64) Type() Type              { return TypeInt64 }
func (Float32) Type() Type            { return TypeFloat32 }
func (Float64) Type() Type            { return TypeFloat64 }
func (Vector2) Type() Type            { return TypeVector2 }
func (Vector2int16) Type() Type       { return TypeVector2int16 }
func (Vector3) Type() Type            { return TypeVector3 }
func (Vector3int16) Type() Type       { return TypeVector3int16 }
func (CFrame) Type() Type             { return TypeCFrame }
func (Color3) Type() Type             { return TypeColor3 }
func (Color3uint8) Type() Type        { return TypeColor3uint8 }
func (BrickColor) Type() Type         { return TypeBrickColor }
func (Enum) Type() Type               { return TypeEnum }
func (UDim) Type() Type               { return TypeUDim }
func (UDim2) Type() Type              { return TypeUDim2 }
func (Rect) Type() Type               { return TypeRect }
func (NumberRange) Type() Type        { return TypeNumberRange }
func (NumberSequence) Type() Type     { return TypeNumberSequence }
func (ColorSequence) Type() Type      { return TypeColorSequence }
func (PhysicalProperties) Type() Type { return TypePhysicalProperties }
func (Ref) Type() Type                { return TypeRef }
func (SharedString) Type() Type       { return TypeSharedString }
func (Content) Type() Type            { return TypeContent }
func (ProtectedString) Type() Type    { return TypeProtectedString }

func (Bool) isValue()               {}
func (String) isValue()             {}
func (BinaryString) isValue()       {}
func (Int32) isValue()              {}
func (Int64) isValue()              {}
func (Float32) isValue()            {}
func (Float64) isValue()            {}
func (Vector2) isValue()            {}
func (Vector2int16) isValue()       {}
func (Vector3) isValue()            {}
func (Vector3int16) isValue()       {}
func (CFrame) isValue()             {}
func (Color3) isValue()             {}
func (Color3uint8) isValue()        {}
func (BrickColor) isValue()         {}
func (Enum) isValue()               {}
func (UDim) isValue()               {}
func (UDim2) isValue()              {}
func (Rect) isValue()               {}
func (NumberRange) isValue()        {}
func (NumberSequence) isValue()     {}
func (ColorSequence) isValue()      {}
func (PhysicalProperties) isValue() {}
func (Ref) isValue()                {}
func (SharedString) isValue()       {}
func (Content) isValue()            {}
func (ProtectedString) isValue()    {}

// Zero returns the default value of variant t, or nil for an invalid type.
func Zero(t Type) Value {
	switch t {
	case TypeBool:
		return Bool(false)
	case TypeString:
		return String("")
	case TypeBinaryString:
		return BinaryString{}
	case TypeInt32:
		return Int32(0)
	case TypeInt64:
		return Int64(0)
	case TypeFloat32:
		return Float32(0)
	case TypeFloat64:
		return Float64(0)
	case TypeVector2:
		return Vector2{}
	case TypeVector2int16:
		return Vector2int16{}
	case TypeVector3:
		return Vector3{}
	case TypeVector3int16:
		return Vector3int16{}
	case TypeCFrame:
		return CFrame{Orientation: Identity()}
	case TypeColor3:
		return Color3{}
	case TypeColor3uint8:
		return Color3uint8{}
	case TypeBrickColor:
		return BrickColor(194) // Medium stone grey
	case TypeEnum:
		return Enum(0)
	case TypeUDim:
		return UDim{}
	case TypeUDim2:
		return UDim2{}
	case TypeRect:
		return Rect{}
	case TypeNumberRange:
		return NumberRange{}
	case TypeNumberSequence:
		return NumberSequence{Keypoints: []NumberSequenceKeypoint{{Time: 0}, {Time: 1}}}
	case TypeColorSequence:
		return ColorSequence{Keypoints: []ColorSequenceKeypoint{{Time: 0}, {Time: 1}}}
	case TypePhysicalProperties:
		return PhysicalProperties{}
	case TypeRef:
		return NullRef()
	case TypeSharedString:
		return SharedString{}
	case TypeContent:
		return Content("")
	case TypeProtectedString:
		return ProtectedString("")
	}
	return nil
}

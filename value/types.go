package value

// Type identifies a Value variant.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeBool
	TypeString
	TypeBinaryString
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeVector2
	TypeVector2int16
	TypeVector3
	TypeVector3int16
	TypeCFrame
	TypeColor3
	TypeColor3uint8
	TypeBrickColor
	TypeEnum
	TypeUDim
	TypeUDim2
	TypeRect
	TypeNumberRange
	TypeNumberSequence
	TypeColorSequence
	TypePhysicalProperties
	TypeRef
	TypeSharedString
	TypeContent
	TypeProtectedString

	typeCount
)

var typeNames = [typeCount]string{
	TypeInvalid:            "Invalid",
	TypeBool:               "Bool",
	TypeString:             "String",
	TypeBinaryString:       "BinaryString",
	TypeInt32:              "Int32",
	TypeInt64:              "Int64",
	TypeFloat32:            "Float32",
	TypeFloat64:            "Float64",
	TypeVector2:            "Vector2",
	TypeVector2int16:       "Vector2int16",
	TypeVector3:            "Vector3",
	TypeVector3int16:       "Vector3int16",
	TypeCFrame:             "CFrame",
	TypeColor3:             "Color3",
	TypeColor3uint8:        "Color3uint8",
	TypeBrickColor:         "BrickColor",
	TypeEnum:               "Enum",
	TypeUDim:               "UDim",
	TypeUDim2:              "UDim2",
	TypeRect:               "Rect",
	TypeNumberRange:        "NumberRange",
	TypeNumberSequence:     "NumberSequence",
	TypeColorSequence:      "ColorSequence",
	TypePhysicalProperties: "PhysicalProperties",
	TypeRef:                "Ref",
	TypeSharedString:       "SharedString",
	TypeContent:            "Content",
	TypeProtectedString:    "ProtectedString",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, typeCount)
	for t := TypeBool; t < typeCount; t++ {
		m[typeNames[t]] = t
	}
	return m
}()

// String returns the variant name.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "Invalid"
}

// Valid reports whether t names a variant.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < typeCount
}

// ParseType returns the Type with the given variant name.
func ParseType(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}

// Types returns every valid variant in declaration order.
func Types() []Type {
	out := make([]Type, 0, typeCount-1)
	for t := TypeBool; t < typeCount; t++ {
		out = append(out, t)
	}
	return out
}

package rbxl

import "github.com/oy3o/rbxdom/value"

// wireType is the type tag stored in a PROP chunk.
type wireType uint8

const (
	wireString             wireType = 0x01
	wireBool               wireType = 0x02
	wireInt32              wireType = 0x03
	wireFloat32            wireType = 0x04
	wireFloat64            wireType = 0x05
	wireUDim               wireType = 0x06
	wireUDim2              wireType = 0x07
	wireBrickColor         wireType = 0x0b
	wireColor3             wireType = 0x0c
	wireVector2            wireType = 0x0d
	wireVector3            wireType = 0x0e
	wireVector2int16       wireType = 0x0f
	wireCFrame             wireType = 0x10
	wireEnum               wireType = 0x12
	wireRef                wireType = 0x13
	wireVector3int16       wireType = 0x14
	wireNumberSequence     wireType = 0x15
	wireColorSequence      wireType = 0x16
	wireNumberRange        wireType = 0x17
	wireRect               wireType = 0x18
	wirePhysicalProperties wireType = 0x19
	wireColor3uint8        wireType = 0x1a
	wireInt64              wireType = 0x1b
	wireSharedString       wireType = 0x1c
)

var wireTypes = map[value.Type]wireType{
	value.TypeString:             wireString,
	value.TypeBinaryString:       wireString,
	value.TypeProtectedString:    wireString,
	value.TypeContent:            wireString,
	value.TypeBool:               wireBool,
	value.TypeInt32:              wireInt32,
	value.TypeFloat32:            wireFloat32,
	value.TypeFloat64:            wireFloat64,
	value.TypeUDim:               wireUDim,
	value.TypeUDim2:              wireUDim2,
	value.TypeBrickColor:         wireBrickColor,
	value.TypeColor3:             wireColor3,
	value.TypeVector2:            wireVector2,
	value.TypeVector3:            wireVector3,
	value.TypeVector2int16:       wireVector2int16,
	value.TypeCFrame:             wireCFrame,
	value.TypeEnum:               wireEnum,
	value.TypeRef:                wireRef,
	value.TypeVector3int16:       wireVector3int16,
	value.TypeNumberSequence:     wireNumberSequence,
	value.TypeColorSequence:      wireColorSequence,
	value.TypeNumberRange:        wireNumberRange,
	value.TypeRect:               wireRect,
	value.TypePhysicalProperties: wirePhysicalProperties,
	value.TypeColor3uint8:        wireColor3uint8,
	value.TypeInt64:              wireInt64,
	value.TypeSharedString:       wireSharedString,
}

// valueTypes maps each tag to the variant it decodes to. String tags decode
// to value.TypeString unless reflection says otherwise.
var valueTypes = func() map[wireType]value.Type {
	m := make(map[wireType]value.Type, len(wireTypes))
	for t, w := range wireTypes {
		if w == wireString && t != value.TypeString {
			continue
		}
		m[w] = t
	}
	return m
}()

func wireTypeOf(t value.Type) (wireType, bool) {
	w, ok := wireTypes[t]
	return w, ok
}

func (w wireType) valueType() (value.Type, bool) {
	t, ok := valueTypes[w]
	return t, ok
}

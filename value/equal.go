package value

import (
	"bytes"
	"math"
)

func f32eq(a, b float32) bool { return math.Float32bits(a) == math.Float32bits(b) }

func v2eq(a, b Vector2) bool { return f32eq(a.X, b.X) && f32eq(a.Y, b.Y) }

func v3eq(a, b Vector3) bool { return f32eq(a.X, b.X) && f32eq(a.Y, b.Y) && f32eq(a.Z, b.Z) }

func c3eq(a, b Color3) bool { return f32eq(a.R, b.R) && f32eq(a.G, b.G) && f32eq(a.B, b.B) }

func udimeq(a, b UDim) bool { return f32eq(a.Scale, b.Scale) && a.Offset == b.Offset }

// Equal reports whether a and b are the same variant holding bit-identical
// contents. Floats compare by bit pattern, so NaN equals the same NaN and
// 0 does not equal -0. Shared strings compare by content hash.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch x := a.(type) {
	case BinaryString:
		return bytes.Equal(x, b.(BinaryString))
	case Float32:
		return f32eq(float32(x), float32(b.(Float32)))
	case Float64:
		return math.Float64bits(float64(x)) == math.Float64bits(float64(b.(Float64)))
	case Vector2:
		return v2eq(x, b.(Vector2))
	case Vector3:
		return v3eq(x, b.(Vector3))
	case CFrame:
		y := b.(CFrame)
		return v3eq(x.Position, y.Position) &&
			v3eq(x.Orientation.X, y.Orientation.X) &&
			v3eq(x.Orientation.Y, y.Orientation.Y) &&
			v3eq(x.Orientation.Z, y.Orientation.Z)
	case Color3:
		return c3eq(x, b.(Color3))
	case UDim:
		return udimeq(x, b.(UDim))
	case UDim2:
		y := b.(UDim2)
		return udimeq(x.X, y.X) && udimeq(x.Y, y.Y)
	case Rect:
		y := b.(Rect)
		return v2eq(x.Min, y.Min) && v2eq(x.Max, y.Max)
	case NumberRange:
		y := b.(NumberRange)
		return f32eq(x.Min, y.Min) && f32eq(x.Max, y.Max)
	case NumberSequence:
		y := b.(NumberSequence)
		if len(x.Keypoints) != len(y.Keypoints) {
			return false
		}
		for i, k := range x.Keypoints {
			o := y.Keypoints[i]
			if !f32eq(k.Time, o.Time) || !f32eq(k.Value, o.Value) || !f32eq(k.Envelope, o.Envelope) {
				return false
			}
		}
		return true
	case ColorSequence:
		y := b.(ColorSequence)
		if len(x.Keypoints) != len(y.Keypoints) {
			return false
		}
		for i, k := range x.Keypoints {
			o := y.Keypoints[i]
			if !f32eq(k.Time, o.Time) || !c3eq(k.Color, o.Color) || !f32eq(k.Envelope, o.Envelope) {
				return false
			}
		}
		return true
	case PhysicalProperties:
		y := b.(PhysicalProperties)
		if x.Custom != y.Custom {
			return false
		}
		return !x.Custom || (f32eq(x.Density, y.Density) &&
			f32eq(x.Friction, y.Friction) &&
			f32eq(x.Elasticity, y.Elasticity) &&
			f32eq(x.FrictionWeight, y.FrictionWeight) &&
			f32eq(x.ElasticityWeight, y.ElasticityWeight))
	case SharedString:
		return x.Hash() == b.(SharedString).Hash()
	}
	// The remaining variants are comparable scalars or structs of integers.
	return a == b
}

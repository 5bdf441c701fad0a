package value

import "math"

// Convert returns v as variant t. It reports false when no conversion exists
// or the value does not fit. Converting to the variant v already has
// returns v unchanged.
func Convert(v Value, t Type) (Value, bool) {
	if v.Type() == t {
		return v, true
	}
	switch x := v.(type) {
	case Color3:
		if t == TypeColor3uint8 {
			return Color3uint8{R: to8(x.R), G: to8(x.G), B: to8(x.B)}, true
		}
	case Color3uint8:
		if t == TypeColor3 {
			return Color3{R: float32(x.R) / 255, G: float32(x.G) / 255, B: float32(x.B) / 255}, true
		}
	case Int32:
		if t == TypeInt64 {
			return Int64(x), true
		}
	case Int64:
		if t == TypeInt32 && x >= math.MinInt32 && x <= math.MaxInt32 {
			return Int32(x), true
		}
	case Float32:
		if t == TypeFloat64 {
			return Float64(x), true
		}
	case Float64:
		if t == TypeFloat32 {
			f := float32(x)
			if math.IsNaN(float64(x)) || math.Float64bits(float64(f)) == math.Float64bits(float64(x)) {
				return Float32(f), true
			}
		}
	case String:
		return fromBytes([]byte(x), t)
	case Content:
		return fromBytes([]byte(x), t)
	case ProtectedString:
		return fromBytes([]byte(x), t)
	case BinaryString:
		return fromBytes(x, t)
	}
	return nil, false
}

func to8(f float32) uint8 {
	return uint8(math.Round(float64(min(max(f, 0), 1)) * 255))
}

// fromBytes converts between the variants stored as strings on the wire.
func fromBytes(b []byte, t Type) (Value, bool) {
	switch t {
	case TypeString:
		return String(b), true
	case TypeContent:
		return Content(b), true
	case TypeProtectedString:
		return ProtectedString(b), true
	case TypeBinaryString:
		return BinaryString(b), true
	}
	return nil, false
}

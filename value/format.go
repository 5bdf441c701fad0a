package value

import (
	"fmt"
	"strconv"
	"strings"
)

func ff(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }

func fv3(v Vector3) string { return ff(v.X) + ", " + ff(v.Y) + ", " + ff(v.Z) }

func fudim(u UDim) string { return "{" + ff(u.Scale) + ", " + strconv.Itoa(int(u.Offset)) + "}" }

// Format renders v as a short human-readable string.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case Bool:
		return strconv.FormatBool(bool(x))
	case String:
		return strconv.Quote(string(x))
	case Content:
		return strconv.Quote(string(x))
	case ProtectedString:
		return strconv.Quote(string(x))
	case BinaryString:
		return fmt.Sprintf("<%d bytes>", len(x))
	case Int32:
		return strconv.FormatInt(int64(x), 10)
	case Int64:
		return strconv.FormatInt(int64(x), 10)
	case Float32:
		return ff(float32(x))
	case Float64:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case BrickColor:
		return strconv.FormatUint(uint64(x), 10)
	case Enum:
		return strconv.FormatUint(uint64(x), 10)
	case Vector2:
		return ff(x.X) + ", " + ff(x.Y)
	case Vector2int16:
		return fmt.Sprintf("%d, %d", x.X, x.Y)
	case Vector3:
		return fv3(x)
	case Vector3int16:
		return fmt.Sprintf("%d, %d, %d", x.X, x.Y, x.Z)
	case CFrame:
		return fv3(x.Position) + ", " + fv3(x.Orientation.X) + ", " + fv3(x.Orientation.Y) + ", " + fv3(x.Orientation.Z)
	case Color3:
		return ff(x.R) + ", " + ff(x.G) + ", " + ff(x.B)
	case Color3uint8:
		return fmt.Sprintf("%d, %d, %d", x.R, x.G, x.B)
	case UDim:
		return fudim(x)
	case UDim2:
		return fudim(x.X) + ", " + fudim(x.Y)
	case Rect:
		return ff(x.Min.X) + ", " + ff(x.Min.Y) + ", " + ff(x.Max.X) + ", " + ff(x.Max.Y)
	case NumberRange:
		return ff(x.Min) + " " + ff(x.Max)
	case NumberSequence:
		parts := make([]string, len(x.Keypoints))
		for i, k := range x.Keypoints {
			parts[i] = ff(k.Time) + " " + ff(k.Value) + " " + ff(k.Envelope)
		}
		return strings.Join(parts, " ")
	case ColorSequence:
		parts := make([]string, len(x.Keypoints))
		for i, k := range x.Keypoints {
			parts[i] = ff(k.Time) + " " + ff(k.Color.R) + " " + ff(k.Color.G) + " " + ff(k.Color.B) + " " + ff(k.Envelope)
		}
		return strings.Join(parts, " ")
	case PhysicalProperties:
		if !x.Custom {
			return "Default"
		}
		return ff(x.Density) + ", " + ff(x.Friction) + ", " + ff(x.Elasticity) + ", " +
			ff(x.FrictionWeight) + ", " + ff(x.ElasticityWeight)
	case Ref:
		return x.Referent.String()
	case SharedString:
		return fmt.Sprintf("<%d bytes md5:%s>", x.Len(), x.Hash())
	}
	return fmt.Sprintf("%v", v)
}

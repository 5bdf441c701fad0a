package value

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrUnknownType is returned when an encoded value names no known variant.
var ErrUnknownType = errors.New("value: unknown type")

// envelope is the self-describing JSON form of a value:
// {"Type": "Vector3", "Value": [1, 2, 3]}.
type envelope struct {
	Type  string          `json:"Type"`
	Value json.RawMessage `json:"Value"`
}

type jsonUDim struct {
	Scale  float32 `json:"Scale"`
	Offset int32   `json:"Offset"`
}

type jsonUDim2 struct {
	X jsonUDim `json:"X"`
	Y jsonUDim `json:"Y"`
}

type jsonCFrame struct {
	Position    [3]float32    `json:"Position"`
	Orientation [3][3]float32 `json:"Orientation"`
}

type jsonRect struct {
	Min [2]float32 `json:"Min"`
	Max [2]float32 `json:"Max"`
}

type jsonNumberKeypoint struct {
	Time     float32 `json:"Time"`
	Value    float32 `json:"Value"`
	Envelope float32 `json:"Envelope"`
}

type jsonColorKeypoint struct {
	Time     float32    `json:"Time"`
	Color    [3]float32 `json:"Color"`
	Envelope float32    `json:"Envelope"`
}

type jsonSequence[K any] struct {
	Keypoints []K `json:"Keypoints"`
}

type jsonPhysical struct {
	Density          float32 `json:"Density"`
	Friction         float32 `json:"Friction"`
	Elasticity       float32 `json:"Elasticity"`
	FrictionWeight   float32 `json:"FrictionWeight"`
	ElasticityWeight float32 `json:"ElasticityWeight"`
}

func v3arr(v Vector3) [3]float32 { return [3]float32{v.X, v.Y, v.Z} }
func arrv3(a [3]float32) Vector3 { return Vector3{a[0], a[1], a[2]} }

// MarshalJSON encodes v in its self-describing form.
func MarshalJSON(v Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrUnknownType)
	}
	var payload any
	switch x := v.(type) {
	case Bool, String, Int32, Int64, Float32, Float64, BrickColor, Enum, Content, ProtectedString:
		payload = x
	case BinaryString:
		payload = base64.StdEncoding.EncodeToString(x)
	case Vector2:
		payload = [2]float32{x.X, x.Y}
	case Vector2int16:
		payload = [2]int16{x.X, x.Y}
	case Vector3:
		payload = v3arr(x)
	case Vector3int16:
		payload = [3]int16{x.X, x.Y, x.Z}
	case CFrame:
		payload = jsonCFrame{
			Position: v3arr(x.Position),
			Orientation: [3][3]float32{
				v3arr(x.Orientation.X), v3arr(x.Orientation.Y), v3arr(x.Orientation.Z),
			},
		}
	case Color3:
		payload = [3]float32{x.R, x.G, x.B}
	case Color3uint8:
		payload = [3]uint8{x.R, x.G, x.B}
	case UDim:
		payload = jsonUDim(x)
	case UDim2:
		payload = jsonUDim2{X: jsonUDim(x.X), Y: jsonUDim(x.Y)}
	case Rect:
		payload = jsonRect{Min: [2]float32{x.Min.X, x.Min.Y}, Max: [2]float32{x.Max.X, x.Max.Y}}
	case NumberRange:
		payload = [2]float32{x.Min, x.Max}
	case NumberSequence:
		seq := jsonSequence[jsonNumberKeypoint]{Keypoints: make([]jsonNumberKeypoint, len(x.Keypoints))}
		for i, k := range x.Keypoints {
			seq.Keypoints[i] = jsonNumberKeypoint(k)
		}
		payload = seq
	case ColorSequence:
		seq := jsonSequence[jsonColorKeypoint]{Keypoints: make([]jsonColorKeypoint, len(x.Keypoints))}
		for i, k := range x.Keypoints {
			seq.Keypoints[i] = jsonColorKeypoint{
				Time:     k.Time,
				Color:    [3]float32{k.Color.R, k.Color.G, k.Color.B},
				Envelope: k.Envelope,
			}
		}
		payload = seq
	case PhysicalProperties:
		if !x.Custom {
			payload = "Default"
		} else {
			payload = jsonPhysical{
				Density:          x.Density,
				Friction:         x.Friction,
				Elasticity:       x.Elasticity,
				FrictionWeight:   x.FrictionWeight,
				ElasticityWeight: x.ElasticityWeight,
			}
		}
	case Ref:
		if x.IsNull() {
			payload = nil
		} else {
			payload = x.Referent.String()
		}
	case SharedString:
		payload = base64.StdEncoding.EncodeToString(x.Data())
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, v)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("value: encode %s: %w", v.Type(), err)
	}
	return json.Marshal(envelope{Type: v.Type().String(), Value: raw})
}

// UnmarshalJSON decodes the self-describing form produced by MarshalJSON.
func UnmarshalJSON(data []byte) (Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("value: decode envelope: %w", err)
	}
	t, ok := ParseType(env.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	v, err := decodePayload(t, env.Value)
	if err != nil {
		return nil, fmt.Errorf("value: decode %s: %w", t, err)
	}
	return v, nil
}

func decodeInto[T any](raw []byte) (T, error) {
	var out T
	err := json.Unmarshal(raw, &out)
	return out, err
}

func decodePayload(t Type, raw []byte) (Value, error) {
	switch t {
	case TypeBool:
		v, err := decodeInto[bool](raw)
		return Bool(v), err
	case TypeString:
		v, err := decodeInto[string](raw)
		return String(v), err
	case TypeContent:
		v, err := decodeInto[string](raw)
		return Content(v), err
	case TypeProtectedString:
		v, err := decodeInto[string](raw)
		return ProtectedString(v), err
	case TypeBinaryString:
		s, err := decodeInto[string](raw)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		return BinaryString(b), err
	case TypeInt32:
		v, err := decodeInto[int32](raw)
		return Int32(v), err
	case TypeInt64:
		v, err := decodeInto[int64](raw)
		return Int64(v), err
	case TypeFloat32:
		v, err := decodeInto[float32](raw)
		return Float32(v), err
	case TypeFloat64:
		v, err := decodeInto[float64](raw)
		return Float64(v), err
	case TypeBrickColor:
		v, err := decodeInto[uint32](raw)
		return BrickColor(v), err
	case TypeEnum:
		v, err := decodeInto[uint32](raw)
		return Enum(v), err
	case TypeVector2:
		a, err := decodeInto[[2]float32](raw)
		return Vector2{a[0], a[1]}, err
	case TypeVector2int16:
		a, err := decodeInto[[2]int16](raw)
		return Vector2int16{a[0], a[1]}, err
	case TypeVector3:
		a, err := decodeInto[[3]float32](raw)
		return arrv3(a), err
	case TypeVector3int16:
		a, err := decodeInto[[3]int16](raw)
		return Vector3int16{a[0], a[1], a[2]}, err
	case TypeCFrame:
		c, err := decodeInto[jsonCFrame](raw)
		return CFrame{
			Position: arrv3(c.Position),
			Orientation: Matrix3{
				X: arrv3(c.Orientation[0]),
				Y: arrv3(c.Orientation[1]),
				Z: arrv3(c.Orientation[2]),
			},
		}, err
	case TypeColor3:
		a, err := decodeInto[[3]float32](raw)
		return Color3{a[0], a[1], a[2]}, err
	case TypeColor3uint8:
		a, err := decodeInto[[3]uint8](raw)
		return Color3uint8{a[0], a[1], a[2]}, err
	case TypeUDim:
		u, err := decodeInto[jsonUDim](raw)
		return UDim(u), err
	case TypeUDim2:
		u, err := decodeInto[jsonUDim2](raw)
		return UDim2{X: UDim(u.X), Y: UDim(u.Y)}, err
	case TypeRect:
		r, err := decodeInto[jsonRect](raw)
		return Rect{Min: Vector2{r.Min[0], r.Min[1]}, Max: Vector2{r.Max[0], r.Max[1]}}, err
	case TypeNumberRange:
		a, err := decodeInto[[2]float32](raw)
		return NumberRange{a[0], a[1]}, err
	case TypeNumberSequence:
		s, err := decodeInto[jsonSequence[jsonNumberKeypoint]](raw)
		out := NumberSequence{Keypoints: make([]NumberSequenceKeypoint, len(s.Keypoints))}
		for i, k := range s.Keypoints {
			out.Keypoints[i] = NumberSequenceKeypoint(k)
		}
		return out, err
	case TypeColorSequence:
		s, err := decodeInto[jsonSequence[jsonColorKeypoint]](raw)
		out := ColorSequence{Keypoints: make([]ColorSequenceKeypoint, len(s.Keypoints))}
		for i, k := range s.Keypoints {
			out.Keypoints[i] = ColorSequenceKeypoint{
				Time:     k.Time,
				Color:    Color3{k.Color[0], k.Color[1], k.Color[2]},
				Envelope: k.Envelope,
			}
		}
		return out, err
	case TypePhysicalProperties:
		if s, err := decodeInto[string](raw); err == nil {
			if s != "Default" {
				return nil, fmt.Errorf("unexpected %q", s)
			}
			return PhysicalProperties{}, nil
		}
		p, err := decodeInto[jsonPhysical](raw)
		return PhysicalProperties{
			Custom:           true,
			Density:          p.Density,
			Friction:         p.Friction,
			Elasticity:       p.Elasticity,
			FrictionWeight:   p.FrictionWeight,
			ElasticityWeight: p.ElasticityWeight,
		}, err
	case TypeRef:
		s, err := decodeInto[*string](raw)
		if err != nil || s == nil {
			return NullRef(), err
		}
		r, err := ParseReferent(*s)
		return Ref{Referent: r}, err
	case TypeSharedString:
		s, err := decodeInto[string](raw)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		return NewSharedString(b), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

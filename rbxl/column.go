package rbxl

import (
	"fmt"

	"github.com/oy3o/rbxdom/value"
	"github.com/oy3o/rbxdom/wire"
)

// columnEnv resolves the values that point outside their own column.
type columnEnv struct {
	// encoding
	refIndex    func(value.Referent) int32
	sharedIndex func(value.SharedString) uint32

	// decoding
	ref      func(idx int32) value.Ref
	sharedAt func(idx uint32) (value.SharedString, bool)
}

func as[T value.Value](vals []value.Value) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = v.(T)
	}
	return out
}

func pick[T any, R any](vals []T, fn func(T) R) []R {
	out := make([]R, len(vals))
	for i, v := range vals {
		out[i] = fn(v)
	}
	return out
}

func stringBytes(v value.Value) []byte {
	switch x := v.(type) {
	case value.String:
		return []byte(x)
	case value.BinaryString:
		return x
	case value.ProtectedString:
		return []byte(x)
	case value.Content:
		return []byte(x)
	}
	panic(fmt.Sprintf("rbxl: %T is not stored as a string", v))
}

// writeColumn writes vals, which must all be of the variant wt decodes to
// (or any string variant for wireString).
func writeColumn(w *wire.Writer, wt wireType, vals []value.Value, env *columnEnv) {
	switch wt {
	case wireString:
		for _, v := range vals {
			w.WriteSizedBytes(stringBytes(v))
		}
	case wireBool:
		for _, v := range as[value.Bool](vals) {
			w.WriteBool(bool(v))
		}
	case wireInt32:
		writeInt32s(w, pick(as[value.Int32](vals), func(v value.Int32) int32 { return int32(v) }))
	case wireInt64:
		writeInt64s(w, pick(as[value.Int64](vals), func(v value.Int64) int64 { return int64(v) }))
	case wireFloat32:
		writeFloat32s(w, pick(as[value.Float32](vals), func(v value.Float32) float32 { return float32(v) }))
	case wireFloat64:
		for _, v := range as[value.Float64](vals) {
			w.WriteFloat64(float64(v))
		}
	case wireUDim:
		u := as[value.UDim](vals)
		writeFloat32s(w, pick(u, func(v value.UDim) float32 { return v.Scale }))
		writeInt32s(w, pick(u, func(v value.UDim) int32 { return v.Offset }))
	case wireUDim2:
		u := as[value.UDim2](vals)
		writeFloat32s(w, pick(u, func(v value.UDim2) float32 { return v.X.Scale }))
		writeFloat32s(w, pick(u, func(v value.UDim2) float32 { return v.Y.Scale }))
		writeInt32s(w, pick(u, func(v value.UDim2) int32 { return v.X.Offset }))
		writeInt32s(w, pick(u, func(v value.UDim2) int32 { return v.Y.Offset }))
	case wireBrickColor:
		writeUint32s(w, pick(as[value.BrickColor](vals), func(v value.BrickColor) uint32 { return uint32(v) }))
	case wireEnum:
		writeUint32s(w, pick(as[value.Enum](vals), func(v value.Enum) uint32 { return uint32(v) }))
	case wireColor3:
		c := as[value.Color3](vals)
		writeFloat32s(w, pick(c, func(v value.Color3) float32 { return v.R }))
		writeFloat32s(w, pick(c, func(v value.Color3) float32 { return v.G }))
		writeFloat32s(w, pick(c, func(v value.Color3) float32 { return v.B }))
	case wireColor3uint8:
		c := as[value.Color3uint8](vals)
		w.WriteBytes(pick(c, func(v value.Color3uint8) byte { return v.R }))
		w.WriteBytes(pick(c, func(v value.Color3uint8) byte { return v.G }))
		w.WriteBytes(pick(c, func(v value.Color3uint8) byte { return v.B }))
	case wireVector2:
		v2 := as[value.Vector2](vals)
		writeFloat32s(w, pick(v2, func(v value.Vector2) float32 { return v.X }))
		writeFloat32s(w, pick(v2, func(v value.Vector2) float32 { return v.Y }))
	case wireVector3:
		writeVector3s(w, as[value.Vector3](vals))
	case wireVector2int16:
		for _, v := range as[value.Vector2int16](vals) {
			w.WriteInt16(v.X)
			w.WriteInt16(v.Y)
		}
	case wireVector3int16:
		for _, v := range as[value.Vector3int16](vals) {
			w.WriteInt16(v.X)
			w.WriteInt16(v.Y)
			w.WriteInt16(v.Z)
		}
	case wireCFrame:
		cf := as[value.CFrame](vals)
		for _, v := range cf {
			id := rotationID(v.Orientation)
			w.WriteUint8(id)
			if id == 0 {
				for _, f := range matrixFloats(v.Orientation) {
					w.WriteFloat32(f)
				}
			}
		}
		writeVector3s(w, pick(cf, func(v value.CFrame) value.Vector3 { return v.Position }))
	case wireRect:
		rc := as[value.Rect](vals)
		writeFloat32s(w, pick(rc, func(v value.Rect) float32 { return v.Min.X }))
		writeFloat32s(w, pick(rc, func(v value.Rect) float32 { return v.Min.Y }))
		writeFloat32s(w, pick(rc, func(v value.Rect) float32 { return v.Max.X }))
		writeFloat32s(w, pick(rc, func(v value.Rect) float32 { return v.Max.Y }))
	case wireNumberRange:
		for _, v := range as[value.NumberRange](vals) {
			w.WriteFloat32(v.Min)
			w.WriteFloat32(v.Max)
		}
	case wireNumberSequence:
		for _, v := range as[value.NumberSequence](vals) {
			w.WriteUint32(uint32(len(v.Keypoints)))
			for _, k := range v.Keypoints {
				w.WriteFloat32(k.Time)
				w.WriteFloat32(k.Value)
				w.WriteFloat32(k.Envelope)
			}
		}
	case wireColorSequence:
		for _, v := range as[value.ColorSequence](vals) {
			w.WriteUint32(uint32(len(v.Keypoints)))
			for _, k := range v.Keypoints {
				w.WriteFloat32(k.Time)
				w.WriteFloat32(k.Color.R)
				w.WriteFloat32(k.Color.G)
				w.WriteFloat32(k.Color.B)
				w.WriteFloat32(k.Envelope)
			}
		}
	case wirePhysicalProperties:
		for _, v := range as[value.PhysicalProperties](vals) {
			if !v.Custom {
				w.WriteUint8(0)
				continue
			}
			w.WriteUint8(1)
			w.WriteFloat32(v.Density)
			w.WriteFloat32(v.Friction)
			w.WriteFloat32(v.Elasticity)
			w.WriteFloat32(v.FrictionWeight)
			w.WriteFloat32(v.ElasticityWeight)
		}
	case wireRef:
		writeReferents(w, pick(as[value.Ref](vals), func(v value.Ref) int32 {
			if v.IsNull() {
				return -1
			}
			return env.refIndex(v.Referent)
		}))
	case wireSharedString:
		writeUint32s(w, pick(as[value.SharedString](vals), env.sharedIndex))
	default:
		w.Fail(fmt.Errorf("rbxl: no column encoding for type 0x%02x", uint8(wt)))
	}
}

func writeVector3s(w *wire.Writer, v3 []value.Vector3) {
	writeFloat32s(w, pick(v3, func(v value.Vector3) float32 { return v.X }))
	writeFloat32s(w, pick(v3, func(v value.Vector3) float32 { return v.Y }))
	writeFloat32s(w, pick(v3, func(v value.Vector3) float32 { return v.Z }))
}

func readVector3s(r *wire.Reader, n int) []value.Vector3 {
	x, y, z := readFloat32s(r, n), readFloat32s(r, n), readFloat32s(r, n)
	out := make([]value.Vector3, n)
	for i := range out {
		out[i] = value.Vector3{X: x[i], Y: y[i], Z: z[i]}
	}
	return out
}

func box[T value.Value](vals []T) []value.Value {
	out := make([]value.Value, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

// readColumn reads n values of wire type wt. Errors are latched on r.
func readColumn(r *wire.Reader, wt wireType, n int, env *columnEnv) []value.Value {
	switch wt {
	case wireString:
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.String(r.ReadSizedBytes())
		}
		return out
	case wireBool:
		out := make([]value.Value, n)
		for i := range out {
			var b bool
			r.ReadBool(&b)
			out[i] = value.Bool(b)
		}
		return out
	case wireInt32:
		return box(pick(readInt32s(r, n), func(v int32) value.Int32 { return value.Int32(v) }))
	case wireInt64:
		return box(pick(readInt64s(r, n), func(v int64) value.Int64 { return value.Int64(v) }))
	case wireFloat32:
		return box(pick(readFloat32s(r, n), func(v float32) value.Float32 { return value.Float32(v) }))
	case wireFloat64:
		out := make([]value.Value, n)
		for i := range out {
			var f float64
			r.ReadFloat64(&f)
			out[i] = value.Float64(f)
		}
		return out
	case wireUDim:
		scale, offset := readFloat32s(r, n), readInt32s(r, n)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.UDim{Scale: scale[i], Offset: offset[i]}
		}
		return out
	case wireUDim2:
		sx, sy := readFloat32s(r, n), readFloat32s(r, n)
		ox, oy := readInt32s(r, n), readInt32s(r, n)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.UDim2{
				X: value.UDim{Scale: sx[i], Offset: ox[i]},
				Y: value.UDim{Scale: sy[i], Offset: oy[i]},
			}
		}
		return out
	case wireBrickColor:
		return box(pick(readUint32s(r, n), func(v uint32) value.BrickColor { return value.BrickColor(v) }))
	case wireEnum:
		return box(pick(readUint32s(r, n), func(v uint32) value.Enum { return value.Enum(v) }))
	case wireColor3:
		cr, cg, cb := readFloat32s(r, n), readFloat32s(r, n), readFloat32s(r, n)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.Color3{R: cr[i], G: cg[i], B: cb[i]}
		}
		return out
	case wireColor3uint8:
		cr, cg, cb := r.ReadBytes(n), r.ReadBytes(n), r.ReadBytes(n)
		out := make([]value.Value, n)
		if r.Err() != nil {
			return out
		}
		for i := range out {
			out[i] = value.Color3uint8{R: cr[i], G: cg[i], B: cb[i]}
		}
		return out
	case wireVector2:
		x, y := readFloat32s(r, n), readFloat32s(r, n)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.Vector2{X: x[i], Y: y[i]}
		}
		return out
	case wireVector3:
		return box(readVector3s(r, n))
	case wireVector2int16:
		out := make([]value.Value, n)
		for i := range out {
			var v value.Vector2int16
			r.ReadInt16(&v.X)
			r.ReadInt16(&v.Y)
			out[i] = v
		}
		return out
	case wireVector3int16:
		out := make([]value.Value, n)
		for i := range out {
			var v value.Vector3int16
			r.ReadInt16(&v.X)
			r.ReadInt16(&v.Y)
			r.ReadInt16(&v.Z)
			out[i] = v
		}
		return out
	case wireCFrame:
		return readCFrames(r, n)
	case wireRect:
		x0, y0 := readFloat32s(r, n), readFloat32s(r, n)
		x1, y1 := readFloat32s(r, n), readFloat32s(r, n)
		out := make([]value.Value, n)
		for i := range out {
			out[i] = value.Rect{Min: value.Vector2{X: x0[i], Y: y0[i]}, Max: value.Vector2{X: x1[i], Y: y1[i]}}
		}
		return out
	case wireNumberRange:
		out := make([]value.Value, n)
		for i := range out {
			var v value.NumberRange
			r.ReadFloat32(&v.Min)
			r.ReadFloat32(&v.Max)
			out[i] = v
		}
		return out
	case wireNumberSequence:
		out := make([]value.Value, n)
		for i := range out {
			keys := make([]value.NumberSequenceKeypoint, readCount(r, 12))
			for j := range keys {
				r.ReadFloat32(&keys[j].Time)
				r.ReadFloat32(&keys[j].Value)
				r.ReadFloat32(&keys[j].Envelope)
			}
			out[i] = value.NumberSequence{Keypoints: keys}
		}
		return out
	case wireColorSequence:
		out := make([]value.Value, n)
		for i := range out {
			keys := make([]value.ColorSequenceKeypoint, readCount(r, 20))
			for j := range keys {
				r.ReadFloat32(&keys[j].Time)
				r.ReadFloat32(&keys[j].Color.R)
				r.ReadFloat32(&keys[j].Color.G)
				r.ReadFloat32(&keys[j].Color.B)
				r.ReadFloat32(&keys[j].Envelope)
			}
			out[i] = value.ColorSequence{Keypoints: keys}
		}
		return out
	case wirePhysicalProperties:
		out := make([]value.Value, n)
		for i := range out {
			var flag uint8
			r.ReadUint8(&flag)
			v := value.PhysicalProperties{Custom: flag&1 != 0}
			if v.Custom {
				r.ReadFloat32(&v.Density)
				r.ReadFloat32(&v.Friction)
				r.ReadFloat32(&v.Elasticity)
				r.ReadFloat32(&v.FrictionWeight)
				r.ReadFloat32(&v.ElasticityWeight)
			}
			out[i] = v
		}
		return out
	case wireRef:
		return box(pick(readReferents(r, n), env.ref))
	case wireSharedString:
		idx := readUint32s(r, n)
		out := make([]value.Value, n)
		for i, k := range idx {
			s, ok := env.sharedAt(k)
			if !ok {
				r.Fail(fmt.Errorf("shared string index %d out of range", k))
				return out
			}
			out[i] = s
		}
		return out
	}
	r.Fail(fmt.Errorf("no column decoding for type 0x%02x", uint8(wt)))
	return make([]value.Value, n)
}

func readCFrames(r *wire.Reader, n int) []value.Value {
	orient := make([]value.Matrix3, n)
	for i := range orient {
		var id uint8
		r.ReadUint8(&id)
		if r.Err() != nil {
			break
		}
		if id == 0 {
			var f [9]float32
			for j := range f {
				r.ReadFloat32(&f[j])
			}
			orient[i] = floatsMatrix(f)
			continue
		}
		m, ok := rotationFromID(id)
		if !ok {
			r.Fail(fmt.Errorf("invalid cframe rotation id 0x%02x", id))
			break
		}
		orient[i] = m
	}
	pos := readVector3s(r, n)
	out := make([]value.Value, n)
	for i := range out {
		out[i] = value.CFrame{Position: pos[i], Orientation: orient[i]}
	}
	return out
}

package rbxl

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/oy3o/rbxdom/wire"
)

// readPlanes reads n interleaved words of the given width.
func readPlanes[U constraints.Unsigned](r *wire.Reader, n, width int) []U {
	if n == 0 || r.Err() != nil {
		return make([]U, n)
	}
	if avail := r.Available(); avail >= 0 && n > avail/width {
		r.Fail(fmt.Errorf("%w: %d values of %d bytes, %d bytes left", wire.ErrTruncatedData, n, width, avail))
		return make([]U, n)
	}
	raw := r.ReadBytes(n * width)
	if raw == nil {
		return make([]U, n)
	}
	return getWords[U](deinterleave(raw, width), width)
}

func writePlanes[U constraints.Unsigned](w *wire.Writer, vals []U, width int) {
	w.WriteBytes(interleave(putWords(vals, width), width))
}

func readUint32s(r *wire.Reader, n int) []uint32 { return readPlanes[uint32](r, n, 4) }

func writeUint32s(w *wire.Writer, vals []uint32) { writePlanes(w, vals, 4) }

func readInt32s(r *wire.Reader, n int) []int32 {
	words := readUint32s(r, n)
	out := make([]int32, n)
	for i, u := range words {
		out[i] = unzigzag[uint32, int32](u)
	}
	return out
}

func writeInt32s(w *wire.Writer, vals []int32) {
	words := make([]uint32, len(vals))
	for i, v := range vals {
		words[i] = zigzag[int32, uint32](v)
	}
	writeUint32s(w, words)
}

func readInt64s(r *wire.Reader, n int) []int64 {
	words := readPlanes[uint64](r, n, 8)
	out := make([]int64, n)
	for i, u := range words {
		out[i] = unzigzag[uint64, int64](u)
	}
	return out
}

func writeInt64s(w *wire.Writer, vals []int64) {
	words := make([]uint64, len(vals))
	for i, v := range vals {
		words[i] = zigzag[int64, uint64](v)
	}
	writePlanes(w, words, 8)
}

func readFloat32s(r *wire.Reader, n int) []float32 {
	words := readUint32s(r, n)
	out := make([]float32, n)
	for i, u := range words {
		out[i] = unrotateFloat(u)
	}
	return out
}

func writeFloat32s(w *wire.Writer, vals []float32) {
	words := make([]uint32, len(vals))
	for i, f := range vals {
		words[i] = rotateFloat(f)
	}
	writeUint32s(w, words)
}

// readReferents reads a delta encoded referent array.
func readReferents(r *wire.Reader, n int) []int32 {
	return deltaDecode(readInt32s(r, n))
}

func writeReferents(w *wire.Writer, refs []int32) {
	writeInt32s(w, deltaEncode(refs))
}

// readCount reads a u32 element count and checks it against the bytes left,
// assuming each element takes at least minSize bytes.
func readCount(r *wire.Reader, minSize int) int {
	var n uint32
	r.ReadUint32(&n)
	if r.Err() != nil {
		return 0
	}
	if avail := r.Available(); avail >= 0 && minSize > 0 && int64(n)*int64(minSize) > int64(avail) {
		r.Fail(fmt.Errorf("%w: count %d exceeds remaining %d bytes", wire.ErrTruncatedData, n, avail))
		return 0
	}
	return int(n)
}

package rbxl

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/oy3o/rbxdom/wire"
)

func TestZigzag(t *testing.T) {
	tests := []struct {
		in   int32
		want uint32
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {2, 4},
		{math.MaxInt32, math.MaxUint32 - 1},
		{math.MinInt32, math.MaxUint32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, zigzag[int32, uint32](tt.in), "zigzag(%d)", tt.in)
		assert.Equal(t, tt.in, unzigzag[uint32, int32](tt.want))
	}

	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int64().Draw(t, "v")
		assert.Equal(t, v, unzigzag[uint64, int64](zigzag[int64, uint64](v)))
	})
}

func TestDeltaBoundaries(t *testing.T) {
	tests := map[string][]int32{
		"empty":       {},
		"single":      {42},
		"repeated":    {7, 7, 7, 7},
		"sign change": {math.MaxInt32, math.MinInt32, math.MaxInt32, -1, 0},
		"sequential":  {0, 1, 2, 3, 4, 5},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			enc := deltaEncode(in)
			assert.Equal(t, in, deltaDecode(enc))
		})
	}
	assert.Equal(t, []int32{0, 1, 1, 1}, deltaEncode([]int32{0, 1, 2, 3}))
}

func TestReferentArrayInvertible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		refs := rapid.SliceOf(rapid.Int32()).Draw(t, "refs")

		var buf bytes.Buffer
		w, err := wire.NewWriter(&buf)
		require.NoError(t, err)
		writeReferents(w, refs)
		require.NoError(t, w.Flush())
		require.Equal(t, len(refs)*4, buf.Len())

		r, err := wire.NewReader(wire.NewBytesReader(buf.Bytes()))
		require.NoError(t, err)
		got := readReferents(r, len(refs))
		require.NoError(t, r.Err())
		if len(refs) == 0 {
			assert.Empty(t, got)
			return
		}
		assert.Equal(t, refs, got)
	})
}

func TestInterleaveInvertible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.SampledFrom([]int{1, 2, 4, 8}).Draw(t, "width")
		n := rapid.IntRange(0, 64).Draw(t, "n")
		data := rapid.SliceOfN(rapid.Byte(), n*width, n*width).Draw(t, "data")

		planes := interleave(data, width)
		assert.Len(t, planes, len(data))
		assert.Equal(t, data, deinterleave(planes, width))
	})
}

func TestInterleaveLayout(t *testing.T) {
	words := []uint32{0x01020304, 0x05060708}
	got := interleave(putWords(words, 4), 4)
	assert.Equal(t, []byte{0x01, 0x05, 0x02, 0x06, 0x03, 0x07, 0x04, 0x08}, got)
	assert.Equal(t, words, getWords[uint32](deinterleave(got, 4), 4))

	// A single element has no cross-element plane.
	one := putWords([]uint32{0xaabbccdd}, 4)
	assert.Equal(t, one, interleave(one, 4))
	assert.Empty(t, interleave(nil, 4))
}

func TestFloatRotation(t *testing.T) {
	assert.Equal(t, uint32(0), rotateFloat(0))
	assert.Equal(t, uint32(1), rotateFloat(float32(math.Copysign(0, -1))))
	assert.Equal(t, math.Float32bits(1)<<1, rotateFloat(1))

	rapid.Check(t, func(t *rapid.T) {
		bits := rapid.Uint32().Draw(t, "bits")
		f := math.Float32frombits(bits)
		assert.Equal(t, bits, math.Float32bits(unrotateFloat(rotateFloat(f))))
	})
}

func TestFloatColumnBitExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bits := rapid.SliceOf(rapid.Uint32()).Draw(t, "bits")
		in := make([]float32, len(bits))
		for i, b := range bits {
			in[i] = math.Float32frombits(b)
		}

		var buf bytes.Buffer
		w, _ := wire.NewWriter(&buf)
		writeFloat32s(w, in)
		require.NoError(t, w.Flush())

		r, _ := wire.NewReader(wire.NewBytesReader(buf.Bytes()))
		out := readFloat32s(r, len(in))
		require.NoError(t, r.Err())
		for i := range in {
			assert.Equal(t, bits[i], math.Float32bits(out[i]))
		}
	})
}

func TestReadPlanesTruncated(t *testing.T) {
	r, _ := wire.NewReader(wire.NewBytesReader(make([]byte, 7)))
	readInt32s(r, 2)
	assert.ErrorIs(t, r.Err(), wire.ErrTruncatedData)
}

package rbxl

import (
	"math"

	"golang.org/x/exp/constraints"
)

// zigzag folds the sign into bit 0 so small magnitudes stay small.
func zigzag[S constraints.Signed, U constraints.Unsigned](v S) U {
	var sign S
	if v < 0 {
		sign = -1
	}
	return U((v << 1) ^ sign)
}

func unzigzag[U constraints.Unsigned, S constraints.Signed](u U) S {
	return S(u>>1) ^ -S(u&1)
}

// deltaEncode replaces each element after the first with its difference
// from the previous one. Overflow wraps and is undone by deltaDecode.
func deltaEncode[S constraints.Integer](vals []S) []S {
	out := make([]S, len(vals))
	var prev S
	for i, v := range vals {
		out[i] = v - prev
		prev = v
	}
	return out
}

// deltaDecode turns differences back into absolute values in place.
func deltaDecode[S constraints.Integer](vals []S) []S {
	for i := 1; i < len(vals); i++ {
		vals[i] += vals[i-1]
	}
	return vals
}

// rotateFloat moves the sign bit of f to bit 0.
func rotateFloat(f float32) uint32 {
	b := math.Float32bits(f)
	return b<<1 | b>>31
}

func unrotateFloat(u uint32) float32 {
	return math.Float32frombits(u>>1 | u<<31)
}

// putWords writes each value as width big-endian bytes.
func putWords[U constraints.Unsigned](vals []U, width int) []byte {
	out := make([]byte, len(vals)*width)
	for i, v := range vals {
		for j := width - 1; j >= 0; j-- {
			out[i*width+j] = byte(v)
			v >>= 8
		}
	}
	return out
}

func getWords[U constraints.Unsigned](b []byte, width int) []U {
	out := make([]U, len(b)/width)
	for i := range out {
		var v U
		for _, c := range b[i*width : (i+1)*width] {
			v = v<<8 | U(c)
		}
		out[i] = v
	}
	return out
}

// interleave transposes an array of width-byte words into byte planes:
// every word's first byte, then every word's second byte, and so on.
func interleave(b []byte, width int) []byte {
	n := len(b) / width
	out := make([]byte, len(b))
	for i := range n {
		for j := range width {
			out[j*n+i] = b[i*width+j]
		}
	}
	return out
}

func deinterleave(b []byte, width int) []byte {
	n := len(b) / width
	out := make([]byte, len(b))
	for i := range n {
		for j := range width {
			out[i*width+j] = b[j*n+i]
		}
	}
	return out
}

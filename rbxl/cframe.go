package rbxl

import (
	"math"

	"github.com/oy3o/rbxdom/value"
)

// Axis-aligned rotations are stored as a single id byte. For id > 0,
// id-1 = 6*a + b where rows 0 and 1 of the matrix are the unit axes a and b
// numbered +X, +Y, +Z, -X, -Y, -Z, and row 2 is their cross product.
var (
	rotations     [37]value.Matrix3
	validRotation [37]bool
)

var unitAxes = [6][3]int{
	{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
}

func init() {
	for a := range 6 {
		for b := range 6 {
			if a%3 == b%3 {
				continue
			}
			x, y := unitAxes[a], unitAxes[b]
			// Integer cross product keeps zero components at +0.
			z := [3]int{
				x[1]*y[2] - x[2]*y[1],
				x[2]*y[0] - x[0]*y[2],
				x[0]*y[1] - x[1]*y[0],
			}
			id := 6*a + b + 1
			rotations[id] = value.Matrix3{X: axisVector(x), Y: axisVector(y), Z: axisVector(z)}
			validRotation[id] = true
		}
	}
}

func axisVector(a [3]int) value.Vector3 {
	return value.Vector3{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}

// rotationID returns the id for m, or 0 if m is not bit-identical to one of
// the axis-aligned rotations.
func rotationID(m value.Matrix3) byte {
	for id := range rotations {
		if validRotation[id] && sameBits(rotations[id], m) {
			return byte(id)
		}
	}
	return 0
}

// rotationFromID returns the matrix for a non-zero id.
func rotationFromID(id byte) (value.Matrix3, bool) {
	if int(id) >= len(rotations) || !validRotation[id] {
		return value.Matrix3{}, false
	}
	return rotations[id], true
}

func sameBits(a, b value.Matrix3) bool {
	fa, fb := matrixFloats(a), matrixFloats(b)
	for i := range fa {
		if math.Float32bits(fa[i]) != math.Float32bits(fb[i]) {
			return false
		}
	}
	return true
}

func matrixFloats(m value.Matrix3) [9]float32 {
	return [9]float32{m.X.X, m.X.Y, m.X.Z, m.Y.X, m.Y.Y, m.Y.Z, m.Z.X, m.Z.Y, m.Z.Z}
}

func floatsMatrix(f [9]float32) value.Matrix3 {
	return value.Matrix3{
		X: value.Vector3{X: f[0], Y: f[1], Z: f[2]},
		Y: value.Vector3{X: f[3], Y: f[4], Z: f[5]},
		Z: value.Vector3{X: f[6], Y: f[7], Z: f[8]},
	}
}

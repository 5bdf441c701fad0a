package rbxl

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/rbxdom/value"
)

func TestRotationIDs(t *testing.T) {
	want := []byte{
		0x02, 0x03, 0x05, 0x06, 0x07, 0x09, 0x0a, 0x0c, 0x0d, 0x0e, 0x10, 0x11,
		0x14, 0x15, 0x17, 0x18, 0x19, 0x1b, 0x1c, 0x1e, 0x1f, 0x20, 0x22, 0x23,
	}
	var got []byte
	for id := range validRotation {
		if validRotation[id] {
			got = append(got, byte(id))
		}
	}
	assert.Equal(t, want, got)

	for _, id := range want {
		m, ok := rotationFromID(id)
		require.True(t, ok)
		assert.Equal(t, id, rotationID(m), "id 0x%02x", id)
	}

	_, ok := rotationFromID(0x04)
	assert.False(t, ok)
	_, ok = rotationFromID(0xff)
	assert.False(t, ok)
}

func TestRotationIdentity(t *testing.T) {
	assert.Equal(t, byte(0x02), rotationID(value.Identity()))

	m, _ := rotationFromID(0x02)
	assert.Equal(t, value.Identity(), m)
}

func TestRotationNegativeZeroIsRaw(t *testing.T) {
	negZero := float32(math.Copysign(0, -1))
	m := value.Identity()
	m.X.Y = negZero
	assert.Equal(t, byte(0), rotationID(m))

	m = value.Identity()
	m.X.X = 0.99999994
	assert.Equal(t, byte(0), rotationID(m))
}

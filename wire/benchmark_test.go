package wire

import (
	"encoding/binary"
	"testing"
)

type BenchmarkPayload struct {
	Magic         [8]byte
	Signature     [6]byte
	Version       uint16
	ClassCount    uint32
	InstanceCount uint32
	Reserved      [8]byte
}

type BenchmarkCodec = Fixed[BenchmarkPayload]

func BenchmarkFixedMarshalBinary(b *testing.B) {
	c := &BenchmarkCodec{Payload: BenchmarkPayload{ClassCount: 1, InstanceCount: 100}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.MarshalBinary()
	}
}

func BenchmarkFixedUnmarshalBinary(b *testing.B) {
	c := &BenchmarkCodec{Payload: BenchmarkPayload{ClassCount: 1, InstanceCount: 100}}
	data, _ := c.MarshalBinary()
	var c2 BenchmarkCodec
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c2.UnmarshalBinary(data)
	}
}

func BenchmarkFixedMarshalTo(b *testing.B) {
	c := &BenchmarkCodec{Payload: BenchmarkPayload{ClassCount: 1, InstanceCount: 100}}
	buf := make([]byte, c.Size())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.MarshalTo(buf)
	}
}

// Baseline comparison using binary.Encode directly, to see overhead of the wrapper.
func BenchmarkStandardBinaryEncode(b *testing.B) {
	payload := BenchmarkPayload{ClassCount: 1, InstanceCount: 100}
	buf := make([]byte, binary.Size(payload))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = binary.Encode(buf, Order, &payload)
	}
}

package rbxl

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Encoders and decoders from the zstd package are safe for concurrent
// EncodeAll and DecodeAll calls, so one of each is shared.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
)

var errSizeMismatch = errors.New("decompressed size does not match header")

// compress returns the stored form of payload and its compressed length.
// A compressed length of zero means payload is stored as is, which happens
// for CompressionNone and for payloads that do not shrink.
func compress(payload []byte, c Compression) ([]byte, uint32, error) {
	if len(payload) == 0 {
		return payload, 0, nil
	}
	var out []byte
	switch c {
	case CompressionNone:
		return payload, 0, nil
	case CompressionZstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, 0, err
		}
		out = enc.EncodeAll(payload, nil)
	default:
		out = make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, out, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4: %w", err)
		}
		out = out[:n]
	}
	if len(out) == 0 || len(out) >= len(payload) {
		return payload, 0, nil
	}
	return out, uint32(len(out)), nil
}

// decompress expands a stored payload to exactly size bytes.
func decompress(stored []byte, size uint32) ([]byte, error) {
	if bytes.HasPrefix(stored, zstdMagic) {
		dec, err := zstdDecoder()
		if err != nil {
			return nil, err
		}
		out, err := dec.DecodeAll(stored, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		if len(out) != int(size) {
			return nil, fmt.Errorf("%w: %d != %d", errSizeMismatch, len(out), size)
		}
		return out, nil
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(stored, out)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("%w: %d != %d", errSizeMismatch, n, size)
	}
	return out, nil
}

package rbxl

import (
	"errors"
	"fmt"
	"io"

	"github.com/oy3o/rbxdom/wire"
)

// maxChunkSize bounds the declared uncompressed size of one chunk.
const maxChunkSize = 1 << 30

type chunk struct {
	tag  string
	data []byte
}

// readChunkHeader reads the next chunk header. io.EOF means the stream
// ended cleanly between chunks.
func readChunkHeader(r io.Reader) (chunkHeader, error) {
	var h wire.Fixed[chunkHeader]
	if _, err := h.ReadFrom(r); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return chunkHeader{}, io.EOF
		}
		return chunkHeader{}, err
	}
	return h.Payload, nil
}

// readChunkBody reads and decompresses the payload declared by h.
func readChunkBody(r io.Reader, h chunkHeader) (chunk, error) {
	tag := h.tag()
	if h.Len > maxChunkSize {
		return chunk{}, corrupt(tag, "declared size %d too large", h.Len)
	}
	stored, err := wire.ReadExactly(r, int64(h.stored()))
	if err != nil {
		if errors.Is(err, wire.ErrTruncatedData) {
			return chunk{}, &Error{Kind: Truncated, Chunk: tag, Err: err}
		}
		return chunk{}, err
	}
	if h.CompressedLen == 0 {
		return chunk{tag: tag, data: stored}, nil
	}
	data, err := decompress(stored, h.Len)
	if err != nil {
		return chunk{}, &Error{Kind: CorruptChunk, Chunk: tag, Err: err}
	}
	return chunk{tag: tag, data: data}, nil
}

// writeChunk writes one chunk with its header to w.
func writeChunk(w *wire.Writer, tag string, payload []byte, c Compression) error {
	stored, compressedLen, err := compress(payload, c)
	if err != nil {
		return &Error{Kind: EncodeFailed, Chunk: tag, Err: err}
	}
	h := wire.Fixed[chunkHeader]{Payload: chunkHeader{
		CompressedLen: compressedLen,
		Len:           uint32(len(payload)),
	}}
	copy(h.Payload.Tag[:], tag)
	w.WriteFrom(&h)
	w.WriteBytes(stored)
	if err := w.Err(); err != nil {
		return fmt.Errorf("rbxl: write %s chunk: %w", tag, err)
	}
	return nil
}

// payloadReader wraps a chunk body for parsing. done reports an error if
// the body was not consumed exactly.
type payloadReader struct {
	*wire.Reader
	tag string
}

func newPayloadReader(c chunk) *payloadReader {
	r, _ := wire.NewReader(wire.NewBytesReader(c.data))
	return &payloadReader{Reader: r, tag: c.tag}
}

func (r *payloadReader) done() error {
	if err := r.Err(); err != nil {
		return &Error{Kind: CorruptChunk, Chunk: r.tag, Err: err}
	}
	if left := r.Available(); left > 0 {
		return corrupt(r.tag, "%d unread bytes", left)
	}
	return nil
}

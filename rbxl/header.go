package rbxl

import (
	"bytes"

	"github.com/oy3o/rbxdom/wire"
)

const (
	magic     = "<roblox!"
	xmlMagic  = "<roblox "
	signature = "\x89\xff\r\n\x1a\n"

	headerSize      = 32
	chunkHeaderSize = 16
)

// Chunk tags.
const (
	tagMeta   = "META"
	tagShared = "SSTR"
	tagInst   = "INST"
	tagProp   = "PROP"
	tagParent = "PRNT"
	tagEnd    = "END\x00"
)

// endPayload is the body of the END chunk.
const endPayload = "</roblox>"

type fileHeader struct {
	Magic     [8]byte
	Signature [6]byte
	Version   uint16
	Classes   uint32
	Instances uint32
	Reserved  [8]byte
}

func newFileHeader(classes, instances int) *wire.Fixed[fileHeader] {
	h := &wire.Fixed[fileHeader]{Payload: fileHeader{
		Classes:   uint32(classes),
		Instances: uint32(instances),
	}}
	copy(h.Payload.Magic[:], magic)
	copy(h.Payload.Signature[:], signature)
	return h
}

func (h *fileHeader) valid() bool {
	return bytes.Equal(h.Magic[:], []byte(magic)) && bytes.Equal(h.Signature[:], []byte(signature))
}

type chunkHeader struct {
	Tag           [4]byte
	CompressedLen uint32
	Len           uint32
	Reserved      uint32
}

func (h *chunkHeader) tag() string { return string(h.Tag[:]) }

// stored returns the number of payload bytes following the header.
func (h *chunkHeader) stored() uint32 {
	if h.CompressedLen == 0 {
		return h.Len
	}
	return h.CompressedLen
}

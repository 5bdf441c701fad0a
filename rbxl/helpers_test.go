package rbxl

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/reflection"
	"github.com/oy3o/rbxdom/value"
	"github.com/oy3o/rbxdom/wire"
)

func encodeTree(t testing.TB, tree *dom.Tree, opts EncodeOptions, roots ...value.Referent) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tree, opts, roots...))
	return buf.Bytes()
}

func decodeTree(t testing.TB, data []byte, opts DecodeOptions) *dom.Tree {
	t.Helper()
	tree, err := Decode(bytes.NewReader(data), opts)
	require.NoError(t, err)
	require.NotNil(t, tree)
	return tree
}

// rawChunk is a chunk as stored in a file, for tests that edit files.
type rawChunk struct {
	h      chunkHeader
	stored []byte
}

func newRawChunk(tag string, payload []byte) rawChunk {
	c := rawChunk{h: chunkHeader{Len: uint32(len(payload))}, stored: payload}
	copy(c.h.Tag[:], tag)
	return c
}

func (c rawChunk) payload(t *testing.T) []byte {
	t.Helper()
	if c.h.CompressedLen == 0 {
		return c.stored
	}
	data, err := decompress(c.stored, c.h.Len)
	require.NoError(t, err)
	return data
}

func splitFile(t *testing.T, data []byte) ([]byte, []rawChunk) {
	t.Helper()
	require.GreaterOrEqual(t, len(data), headerSize)
	head, rest := bytes.Clone(data[:headerSize]), data[headerSize:]
	var chunks []rawChunk
	for len(rest) > 0 {
		var h wire.Fixed[chunkHeader]
		require.NoError(t, h.UnmarshalBinary(rest[:chunkHeaderSize]))
		rest = rest[chunkHeaderSize:]
		n := int(h.Payload.stored())
		chunks = append(chunks, rawChunk{h: h.Payload, stored: bytes.Clone(rest[:n])})
		rest = rest[n:]
	}
	return head, chunks
}

func joinFile(t *testing.T, head []byte, chunks []rawChunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(head)
	for _, c := range chunks {
		h := wire.Fixed[chunkHeader]{Payload: c.h}
		b, err := h.MarshalBinary()
		require.NoError(t, err)
		buf.Write(b)
		buf.Write(c.stored)
	}
	return buf.Bytes()
}

func chunksTagged(chunks []rawChunk, tag string) []int {
	var out []int
	for i, c := range chunks {
		if c.h.tag() == tag {
			out = append(out, i)
		}
	}
	return out
}

// propNames lists the property names and wire types of all PROP chunks.
func propNames(t *testing.T, chunks []rawChunk) map[string]wireType {
	t.Helper()
	out := make(map[string]wireType)
	for _, i := range chunksTagged(chunks, tagProp) {
		p := chunks[i].payload(t)
		n := binary.LittleEndian.Uint32(p[4:8])
		out[string(p[8:8+n])] = wireType(p[8+n])
	}
	return out
}

func dataProp(name string, t value.Type) *reflection.PropertyDescriptor {
	return &reflection.PropertyDescriptor{
		Name:          name,
		Type:          reflection.PropertyType{Kind: reflection.KindData, Value: t},
		Scriptability: reflection.ScriptabilityReadWrite,
		IsCanonical:   true,
	}
}

func props(ps ...*reflection.PropertyDescriptor) map[string]*reflection.PropertyDescriptor {
	m := make(map[string]*reflection.PropertyDescriptor, len(ps))
	for _, p := range ps {
		m[p.Name] = p
	}
	return m
}

func testDatabase(t testing.TB) *reflection.Database {
	t.Helper()
	anchored := dataProp("Anchored", value.TypeBool)
	anchored.Default = value.Bool(true)
	color := dataProp("Color", value.TypeColor3)
	color.SerializedName = "Color3uint8"
	color3uint8 := dataProp("Color3uint8", value.TypeColor3uint8)
	color3uint8.IsCanonical = false
	color3uint8.CanonicalName = "Color"
	color3uint8.Scriptability = reflection.ScriptabilityNone

	b := reflection.NewBuilder().
		AddClass(&reflection.ClassDescriptor{Name: "Instance", Properties: props(dataProp("Name", value.TypeString))}).
		AddClass(&reflection.ClassDescriptor{Name: "BasePart", Superclass: "Instance",
			Properties: props(anchored, dataProp("Size", value.TypeVector3), color, color3uint8)}).
		AddClass(&reflection.ClassDescriptor{Name: "Part", Superclass: "BasePart"}).
		AddClass(&reflection.ClassDescriptor{Name: "Folder", Superclass: "Instance"}).
		AddClass(&reflection.ClassDescriptor{Name: "Workspace", Superclass: "Instance", Tags: []string{"Service"}}).
		AddClass(&reflection.ClassDescriptor{Name: "Everything", Superclass: "Instance",
			Properties: props(
				dataProp("Blob", value.TypeBinaryString),
				dataProp("Asset", value.TypeContent),
				dataProp("Code", value.TypeProtectedString),
			)})
	db, err := b.Build()
	require.NoError(t, err)
	return db
}

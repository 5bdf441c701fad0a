package rbxl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/value"
	"github.com/oy3o/rbxdom/wire"
)

type classInfo struct {
	name    string
	refs    []int32
	service bool
}

type pendingInstance struct {
	referent value.Referent
	class    string
	props    map[string]value.Value
}

type decoder struct {
	opts   DecodeOptions
	log    *slog.Logger
	header fileHeader

	classes   map[uint32]*classInfo
	instances map[int32]*pendingInstance
	order     []int32
	shared    []value.SharedString
	metadata  map[string]string
	links     [][2]int32
	dangling  map[int32]bool
	warnings  []Warning
}

// Decode reads a binary model or place from r. The returned error is an
// *Error when the input is not a valid file, in which case the tree is nil.
// When the file is valid but parts of it were skipped, Decode returns the
// tree together with an *UnsupportedError.
func Decode(r io.Reader, opts DecodeOptions) (*dom.Tree, error) {
	d := &decoder{
		opts:      opts,
		log:       logger(opts.Logger),
		classes:   make(map[uint32]*classInfo),
		instances: make(map[int32]*pendingInstance),
		metadata:  make(map[string]string),
		dangling:  make(map[int32]bool),
	}

	pr := wire.PeekReader(r)
	if err := d.readHeader(pr); err != nil {
		return nil, err
	}
	if err := d.readChunks(pr); err != nil {
		return nil, err
	}
	tree, err := d.build()
	if err != nil {
		return nil, err
	}
	if len(d.warnings) > 0 {
		return tree, &UnsupportedError{Warnings: d.warnings}
	}
	return tree, nil
}

func (d *decoder) readHeader(pr *wire.PeekableReader) error {
	head, _ := pr.Peek(len(xmlMagic))
	if bytes.Equal(head, []byte(xmlMagic)) {
		return &Error{Kind: MalformedHeader, Err: errors.New("stream is in the XML format")}
	}

	var h wire.Fixed[fileHeader]
	if _, err := h.ReadFrom(pr); err != nil {
		return &Error{Kind: MalformedHeader, Err: err}
	}
	if !h.Payload.valid() {
		return &Error{Kind: MalformedHeader, Err: errors.New("bad magic or signature")}
	}
	if h.Payload.Version != 0 {
		return &Error{Kind: MalformedHeader, Err: fmt.Errorf("unsupported version %d", h.Payload.Version)}
	}
	d.header = h.Payload
	return nil
}

// readChunks consumes chunks until END. Running out of input first is a
// truncation error.
func (d *decoder) readChunks(r io.Reader) error {
	for {
		h, err := readChunkHeader(r)
		if err == io.EOF {
			return &Error{Kind: Truncated, Err: errors.New("missing END chunk")}
		}
		if err != nil {
			return &Error{Kind: Truncated, Err: err}
		}

		tag := h.tag()
		switch tag {
		case tagMeta, tagShared, tagInst, tagProp, tagParent, tagEnd:
		default:
			if _, err := wire.Discard(r, int64(h.stored())); err != nil {
				return &Error{Kind: Truncated, Chunk: tag, Err: err}
			}
			d.warn(fmt.Sprintf("%q", tag), "", "", fmt.Sprintf("skipped unknown chunk of %d bytes", h.stored()))
			continue
		}

		c, err := readChunkBody(r, h)
		if err != nil {
			return err
		}
		if tag == tagEnd {
			return nil
		}
		if err := d.decodeChunk(c); err != nil {
			return err
		}
	}
}

func (d *decoder) decodeChunk(c chunk) error {
	r := newPayloadReader(c)
	switch c.tag {
	case tagMeta:
		d.decodeMeta(r)
	case tagShared:
		d.decodeShared(r)
	case tagInst:
		if err := d.decodeInst(r); err != nil {
			return err
		}
	case tagProp:
		skip, err := d.decodeProp(r)
		if err != nil || skip {
			return err
		}
	case tagParent:
		if err := d.decodeParent(r); err != nil {
			return err
		}
	}
	return r.done()
}

func (d *decoder) decodeMeta(r *payloadReader) {
	n := readCount(r.Reader, 8)
	for range n {
		k := r.ReadSizedString()
		v := r.ReadSizedString()
		d.metadata[k] = v
	}
}

func (d *decoder) decodeShared(r *payloadReader) {
	var version uint32
	r.ReadUint32(&version)
	if version != 0 {
		r.Fail(fmt.Errorf("unsupported shared string table version %d", version))
		return
	}
	n := readCount(r.Reader, 20)
	d.shared = make([]value.SharedString, 0, n)
	for range n {
		// The stored hash is not trusted; some writers leave it zeroed.
		r.ReadBytes(16)
		data := r.ReadSizedBytes()
		if r.Err() != nil {
			return
		}
		d.shared = append(d.shared, value.NewSharedString(data))
	}
}

func (d *decoder) decodeInst(r *payloadReader) error {
	var id uint32
	var format uint8
	r.ReadUint32(&id)
	name := r.ReadSizedString()
	r.ReadUint8(&format)
	n := readCount(r.Reader, 4)
	refs := readReferents(r.Reader, n)
	if format == 1 {
		r.ReadBytes(n)
	}
	if err := r.Err(); err != nil {
		return &Error{Kind: CorruptChunk, Chunk: tagInst, Class: name, Err: err}
	}

	switch {
	case format > 1:
		return corrupt(tagInst, "class %s has unknown format %d", name, format)
	case name == "":
		return corrupt(tagInst, "class %d has no name", id)
	}
	if _, dup := d.classes[id]; dup {
		return corrupt(tagInst, "class id %d declared twice", id)
	}
	for _, ref := range refs {
		if _, dup := d.instances[ref]; dup {
			return corrupt(tagInst, "referent %d declared twice", ref)
		}
		d.instances[ref] = &pendingInstance{
			referent: value.NewReferent(),
			class:    name,
			props:    make(map[string]value.Value),
		}
		d.order = append(d.order, ref)
	}
	d.classes[id] = &classInfo{name: name, refs: refs, service: format == 1}
	return nil
}

// decodeProp reads one property column. skip is true when the chunk was
// intentionally left unread.
func (d *decoder) decodeProp(r *payloadReader) (skip bool, err error) {
	var id uint32
	var tag uint8
	r.ReadUint32(&id)
	name := r.ReadSizedString()
	r.ReadUint8(&tag)
	if err := r.Err(); err != nil {
		return false, &Error{Kind: CorruptChunk, Chunk: tagProp, Err: err}
	}

	class, ok := d.classes[id]
	if !ok {
		return false, corrupt(tagProp, "property %s for undeclared class id %d", name, id)
	}
	wt := wireType(tag)
	if _, ok := wt.valueType(); !ok {
		d.warn(tagProp, class.name, name, fmt.Sprintf("skipped unknown type 0x%02x", tag))
		return true, nil
	}

	env := &columnEnv{ref: d.resolveRef, sharedAt: d.sharedAt}
	vals := readColumn(r.Reader, wt, len(class.refs), env)
	if err := r.Err(); err != nil {
		return false, &Error{Kind: CorruptChunk, Chunk: tagProp, Class: class.name, Property: name, Err: err}
	}

	name, vals, ok = d.canonicalize(class.name, name, vals)
	if !ok {
		return false, nil
	}
	for i, ref := range class.refs {
		d.instances[ref].props[name] = vals[i]
	}
	return false, nil
}

// canonicalize maps a stored property to its canonical name and variant.
// It returns false when the column cannot be represented and was dropped.
func (d *decoder) canonicalize(class, name string, vals []value.Value) (string, []value.Value, bool) {
	db := d.opts.Database
	if db == nil {
		return name, vals, true
	}
	canonical, ok := db.Canonical(class, name)
	if !ok {
		d.log.Debug("keeping unknown property", "class", class, "property", name)
		return name, vals, true
	}
	declared, typed := canonical.Type.Variant()
	if !typed || len(vals) == 0 {
		return canonical.Name, vals, true
	}
	out := make([]value.Value, len(vals))
	for i, v := range vals {
		cv, ok := value.Convert(v, declared)
		if !ok {
			d.warn(tagProp, class, name, fmt.Sprintf("stored as %s but declared %s, dropped", v.Type(), declared))
			return "", nil, false
		}
		out[i] = cv
	}
	return canonical.Name, out, true
}

func (d *decoder) resolveRef(idx int32) value.Ref {
	if idx == -1 {
		return value.NullRef()
	}
	inst, ok := d.instances[idx]
	if !ok {
		d.dangling[idx] = true
		return value.NullRef()
	}
	return value.Ref{Referent: inst.referent}
}

func (d *decoder) sharedAt(idx uint32) (value.SharedString, bool) {
	if int(idx) >= len(d.shared) {
		return value.SharedString{}, false
	}
	return d.shared[idx], true
}

func (d *decoder) decodeParent(r *payloadReader) error {
	var version uint8
	r.ReadUint8(&version)
	if version != 0 {
		return corrupt(tagParent, "unsupported version %d", version)
	}
	n := readCount(r.Reader, 8)
	children := readReferents(r.Reader, n)
	parents := readReferents(r.Reader, n)
	if err := r.Err(); err != nil {
		return &Error{Kind: CorruptChunk, Chunk: tagParent, Err: err}
	}
	for i := range children {
		d.links = append(d.links, [2]int32{children[i], parents[i]})
	}
	return nil
}

func (d *decoder) warn(chunk, class, property, msg string) {
	w := Warning{Chunk: chunk, Class: class, Property: property, Message: msg}
	d.warnings = append(d.warnings, w)
	d.log.Warn("rbxl: "+msg, "chunk", chunk, "class", class, "property", property)
}

// build checks the collected structure and assembles the tree.
func (d *decoder) build() (*dom.Tree, error) {
	if int(d.header.Classes) != len(d.classes) || int(d.header.Instances) != len(d.instances) {
		return nil, corrupt(tagInst, "header declares %d classes and %d instances, found %d and %d",
			d.header.Classes, d.header.Instances, len(d.classes), len(d.instances))
	}
	for ref := range d.dangling {
		d.warn(tagProp, "", "", fmt.Sprintf("reference to undeclared referent %d read as null", ref))
	}

	children := make(map[int32][]int32)
	linked := make(map[int32]bool, len(d.links))
	var roots []int32
	for _, l := range d.links {
		child, parent := l[0], l[1]
		if _, ok := d.instances[child]; !ok {
			return nil, corrupt(tagParent, "undeclared child %d", child)
		}
		if linked[child] {
			return nil, corrupt(tagParent, "referent %d has two parents", child)
		}
		linked[child] = true
		if parent == -1 {
			roots = append(roots, child)
			continue
		}
		if _, ok := d.instances[parent]; !ok {
			return nil, corrupt(tagParent, "undeclared parent %d", parent)
		}
		children[parent] = append(children[parent], child)
	}
	for _, ref := range d.order {
		if !linked[ref] {
			d.warn(tagParent, d.instances[ref].class, "", fmt.Sprintf("referent %d has no parent entry, kept as root", ref))
			roots = append(roots, ref)
		}
	}

	var reached int
	var assemble func(ref int32) *dom.InstanceBuilder
	assemble = func(ref int32) *dom.InstanceBuilder {
		reached++
		p := d.instances[ref]
		b := dom.NewInstance(p.class).WithReferent(p.referent)
		for name, v := range p.props {
			b.WithProperty(name, v)
		}
		for _, c := range children[ref] {
			b.WithChild(assemble(c))
		}
		return b
	}
	builders := make([]*dom.InstanceBuilder, len(roots))
	for i, ref := range roots {
		builders[i] = assemble(ref)
	}
	if reached != len(d.instances) {
		return nil, corrupt(tagParent, "parent links form a cycle")
	}

	tree := dom.NewTree(schema(d.opts.Database))
	for k, v := range d.metadata {
		tree.SetMetadata(k, v)
	}
	for _, b := range builders {
		if _, err := tree.Insert(b, value.None); err != nil {
			return nil, &Error{Kind: CorruptChunk, Chunk: tagProp, Err: err}
		}
	}
	return tree, nil
}

package rbxl

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/reflection"
	"github.com/oy3o/rbxdom/value"
	"github.com/oy3o/rbxdom/wire"
)

type encodeClass struct {
	id      uint32
	name    string
	members []int32
	service bool
}

// propPlan says where and how one tree property is written.
type propPlan struct {
	name      string // name in the tree
	canonical string
	wireName  string
	typ       value.Type
}

type encoder struct {
	opts EncodeOptions
	log  *slog.Logger
	tree *dom.Tree

	insts   []*dom.Instance
	index   map[value.Referent]int32
	parents []int32
	classes []*encodeClass

	shared      []value.SharedString
	sharedIndex map[value.SharedStringHash]uint32
	dangling    int
}

// Encode writes the subtrees rooted at roots to w. With no roots every root
// of the tree is written. Refs to instances outside the written subtrees
// are stored as null.
func Encode(w io.Writer, tree *dom.Tree, opts EncodeOptions, roots ...value.Referent) error {
	e := &encoder{
		opts:        opts,
		log:         logger(opts.Logger),
		tree:        tree,
		index:       make(map[value.Referent]int32),
		sharedIndex: make(map[value.SharedStringHash]uint32),
	}
	if len(roots) == 0 {
		roots = tree.Roots()
	}
	if err := e.collect(roots); err != nil {
		return err
	}

	var props [][]byte
	for _, c := range e.classes {
		payloads, err := e.encodeClassProps(c)
		if err != nil {
			return err
		}
		props = append(props, payloads...)
	}
	if e.dangling > 0 {
		e.log.Warn("rbxl: references outside the written instances stored as null", "count", e.dangling)
	}

	bw, err := wire.NewWriter(w)
	if err != nil {
		return err
	}
	bw.WriteFrom(newFileHeader(len(e.classes), len(e.insts)))
	if err := bw.Err(); err != nil {
		return fmt.Errorf("rbxl: write header: %w", err)
	}

	if md := tree.Metadata(); len(md) > 0 {
		payload, err := e.encodeMeta(md)
		if err = e.chunk(bw, tagMeta, payload, err); err != nil {
			return err
		}
	}
	if len(e.shared) > 0 {
		payload, err := e.encodeShared()
		if err = e.chunk(bw, tagShared, payload, err); err != nil {
			return err
		}
	}
	for _, c := range e.classes {
		payload, err := e.encodeInst(c)
		if err = e.chunk(bw, tagInst, payload, err); err != nil {
			return err
		}
	}
	for _, p := range props {
		if err := writeChunk(bw, tagProp, p, e.opts.Compression); err != nil {
			return err
		}
	}
	payload, err := e.encodeParents()
	if err = e.chunk(bw, tagParent, payload, err); err != nil {
		return err
	}
	if err := writeChunk(bw, tagEnd, []byte(endPayload), CompressionNone); err != nil {
		return err
	}
	return bw.Flush()
}

func (e *encoder) chunk(w *wire.Writer, tag string, payload []byte, err error) error {
	if err != nil {
		return &Error{Kind: EncodeFailed, Chunk: tag, Err: err}
	}
	return writeChunk(w, tag, payload, e.opts.Compression)
}

// build assembles one chunk payload in a pooled buffer.
func build(fn func(w *wire.Writer)) ([]byte, error) {
	buf := wire.GetBuffer()
	defer wire.PutBuffer(buf)
	w, err := wire.NewWriter(buf)
	if err != nil {
		return nil, err
	}
	fn(w)
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// collect numbers the written instances in preorder and groups them by
// class. Roots inside other roots' subtrees are written once, at their
// place under the outer root.
func (e *encoder) collect(roots []value.Referent) error {
	roots, err := e.outermost(roots)
	if err != nil {
		return err
	}
	err = e.tree.Walk(func(inst *dom.Instance, _ int) error {
		e.index[inst.Referent()] = int32(len(e.insts))
		e.insts = append(e.insts, inst)
		return nil
	}, roots...)
	if err != nil {
		return &Error{Kind: EncodeFailed, Err: err}
	}
	if len(e.insts) > 1<<31-1 {
		return &Error{Kind: EncodeFailed, Err: errors.New("too many instances")}
	}

	byClass := make(map[string]*encodeClass)
	e.parents = make([]int32, len(e.insts))
	for i, inst := range e.insts {
		e.parents[i] = -1
		if p, ok := e.index[inst.Parent()]; ok {
			e.parents[i] = p
		}
		c, ok := byClass[inst.ClassName()]
		if !ok {
			c = &encodeClass{name: inst.ClassName()}
			if db := e.reflection(); db != nil {
				c.service = db.IsService(c.name)
			}
			byClass[c.name] = c
		}
		c.members = append(c.members, int32(i))
	}
	for i, name := range slices.Sorted(maps.Keys(byClass)) {
		c := byClass[name]
		c.id = uint32(i)
		e.classes = append(e.classes, c)
	}
	return nil
}

// outermost drops duplicate roots and roots with an ancestor in roots,
// keeping the order of the rest.
func (e *encoder) outermost(roots []value.Referent) ([]value.Referent, error) {
	set := make(map[value.Referent]bool, len(roots))
	for _, root := range roots {
		if !e.tree.Contains(root) {
			return nil, &Error{Kind: EncodeFailed, Err: fmt.Errorf("%w: root %s", dom.ErrStaleReferent, root)}
		}
		set[root] = true
	}

	out := make([]value.Referent, 0, len(roots))
	done := make(map[value.Referent]bool, len(roots))
	for _, root := range roots {
		if done[root] {
			continue
		}
		done[root] = true
		nested := false
		for ref := root; !nested; {
			inst, err := e.tree.Get(ref)
			if err != nil {
				return nil, &Error{Kind: EncodeFailed, Err: err}
			}
			ref = inst.Parent()
			if ref.IsNone() {
				break
			}
			nested = set[ref]
		}
		if !nested {
			out = append(out, root)
		}
	}
	return out, nil
}

// reflection returns the database unless reflection is turned off.
func (e *encoder) reflection() *reflection.Database {
	if e.opts.PropertyBehavior == NoReflection {
		return nil
	}
	return e.opts.Database
}

func (e *encoder) encodeMeta(md map[string]string) ([]byte, error) {
	return build(func(w *wire.Writer) {
		w.WriteUint32(uint32(len(md)))
		for _, k := range slices.Sorted(maps.Keys(md)) {
			w.WriteSizedString(k)
			w.WriteSizedString(md[k])
		}
	})
}

func (e *encoder) encodeShared() ([]byte, error) {
	return build(func(w *wire.Writer) {
		w.WriteUint32(0)
		w.WriteUint32(uint32(len(e.shared)))
		for _, s := range e.shared {
			h := s.Hash()
			w.WriteBytes(h[:])
			w.WriteSizedBytes(s.Data())
		}
	})
}

func (e *encoder) encodeInst(c *encodeClass) ([]byte, error) {
	return build(func(w *wire.Writer) {
		w.WriteUint32(c.id)
		w.WriteSizedString(c.name)
		if c.service {
			w.WriteUint8(1)
		} else {
			w.WriteUint8(0)
		}
		w.WriteUint32(uint32(len(c.members)))
		writeReferents(w, c.members)
		if c.service {
			w.WriteBytes(bytes.Repeat([]byte{1}, len(c.members)))
		}
	})
}

func (e *encoder) encodeParents() ([]byte, error) {
	children := make([]int32, len(e.insts))
	for i := range children {
		children[i] = int32(i)
	}
	return build(func(w *wire.Writer) {
		w.WriteUint8(0)
		w.WriteUint32(uint32(len(children)))
		writeReferents(w, children)
		writeReferents(w, e.parents)
	})
}

// encodeClassProps returns one PROP payload per written property of c, in
// wire name order.
func (e *encoder) encodeClassProps(c *encodeClass) ([][]byte, error) {
	plans, err := e.planProps(c)
	if err != nil {
		return nil, err
	}
	env := &columnEnv{refIndex: e.refIndex, sharedIndex: e.internShared}

	out := make([][]byte, 0, len(plans))
	for _, plan := range plans {
		wt, ok := wireTypeOf(plan.typ)
		if !ok {
			return nil, &Error{Kind: EncodeFailed, Class: c.name, Property: plan.name,
				Err: fmt.Errorf("no binary form for %s", plan.typ)}
		}
		vals, err := e.column(c, plan)
		if err != nil {
			return nil, err
		}
		payload, err := build(func(w *wire.Writer) {
			w.WriteUint32(c.id)
			w.WriteSizedString(plan.wireName)
			w.WriteUint8(uint8(wt))
			writeColumn(w, wt, vals, env)
		})
		if err != nil {
			return nil, &Error{Kind: EncodeFailed, Chunk: tagProp, Class: c.name, Property: plan.name, Err: err}
		}
		out = append(out, payload)
	}
	return out, nil
}

// planProps decides the wire name and type of every property set on any
// member of c. When two tree names map to the same wire name, the
// canonical one wins.
func (e *encoder) planProps(c *encodeClass) ([]propPlan, error) {
	names := make(map[string]value.Type)
	for _, idx := range c.members {
		inst := e.insts[idx]
		for _, name := range inst.PropertyNames() {
			if _, ok := names[name]; !ok {
				v, _ := inst.Property(name)
				names[name] = v.Type()
			}
		}
	}

	byWire := make(map[string]propPlan)
	for _, name := range slices.Sorted(maps.Keys(names)) {
		plan, ok, err := e.plan(c.name, name, names[name])
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if prev, dup := byWire[plan.wireName]; dup && prev.name == prev.canonical {
			continue
		}
		byWire[plan.wireName] = plan
	}

	plans := make([]propPlan, 0, len(byWire))
	for _, wireName := range slices.Sorted(maps.Keys(byWire)) {
		plans = append(plans, byWire[wireName])
	}
	return plans, nil
}

func (e *encoder) plan(class, name string, stored value.Type) (propPlan, bool, error) {
	plan := propPlan{name: name, canonical: name, wireName: name, typ: stored}
	db := e.reflection()
	if db == nil {
		return plan, true, nil
	}

	unknown := func() (propPlan, bool, error) {
		switch e.opts.PropertyBehavior {
		case IgnoreUnknown:
			return plan, false, nil
		case ErrorOnUnknown:
			return plan, false, &Error{Kind: UnknownProperty, Class: class, Property: name}
		}
		return plan, true, nil
	}

	serialized, ok := db.Serialized(class, name)
	if !ok {
		return unknown()
	}
	canonical, _ := db.Canonical(class, name)
	plan.canonical = canonical.Name
	plan.wireName = serialized.Name
	t, typed := serialized.Type.Variant()
	if !typed {
		return unknown()
	}
	plan.typ = t
	return plan, true, nil
}

// column gathers one value per member, converted to the planned type.
// Members without the property get the class default or the zero value.
func (e *encoder) column(c *encodeClass, plan propPlan) ([]value.Value, error) {
	var fallback value.Value
	if db := e.reflection(); db != nil {
		if d, ok := db.Default(c.name, plan.canonical); ok {
			fallback, _ = value.Convert(d, plan.typ)
		}
	}
	if fallback == nil {
		fallback = value.Zero(plan.typ)
	}

	vals := make([]value.Value, len(c.members))
	for i, idx := range c.members {
		v, ok := e.insts[idx].Property(plan.name)
		if !ok {
			vals[i] = fallback
			continue
		}
		cv, ok := value.Convert(v, plan.typ)
		if !ok {
			return nil, &Error{Kind: TypeMismatch, Class: c.name, Property: plan.name,
				Err: fmt.Errorf("cannot write %s as %s", v.Type(), plan.typ)}
		}
		vals[i] = cv
	}
	return vals, nil
}

func (e *encoder) refIndex(ref value.Referent) int32 {
	idx, ok := e.index[ref]
	if !ok {
		e.dangling++
		return -1
	}
	return idx
}

func (e *encoder) internShared(s value.SharedString) uint32 {
	h := s.Hash()
	if idx, ok := e.sharedIndex[h]; ok {
		return idx
	}
	idx := uint32(len(e.shared))
	e.sharedIndex[h] = idx
	e.shared = append(e.shared, s)
	return idx
}

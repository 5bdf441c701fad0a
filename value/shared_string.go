package value

import (
	"crypto/md5"
	"encoding/hex"
)

// SharedStringHash is the content address of a shared string.
type SharedStringHash [md5.Size]byte

func (h SharedStringHash) String() string {
	return hex.EncodeToString(h[:])
}

var emptyHash = SharedStringHash(md5.Sum(nil))

type sharedBlob struct {
	hash SharedStringHash
	data []byte
}

// SharedString is a handle to an immutable, content-addressed blob. Copies of
// the handle share the blob; the bytes are never duplicated.
type SharedString struct {
	blob *sharedBlob
}

// NewSharedString returns a handle owning a private copy of data. Handles
// created this way are not deduplicated until adopted by a table.
func NewSharedString(data []byte) SharedString {
	buf := make([]byte, len(data))
	copy(buf, data)
	return SharedString{blob: &sharedBlob{hash: md5.Sum(buf), data: buf}}
}

// Hash returns the content address of the blob.
func (s SharedString) Hash() SharedStringHash {
	if s.blob == nil {
		return emptyHash
	}
	return s.blob.hash
}

// Data returns the shared bytes. Callers must not modify them.
func (s SharedString) Data() []byte {
	if s.blob == nil {
		return nil
	}
	return s.blob.data
}

// Len returns the blob size.
func (s SharedString) Len() int {
	return len(s.Data())
}

// Same reports whether both handles point at the same stored blob.
func (s SharedString) Same(o SharedString) bool {
	return s.blob == o.blob
}

// SharedStringTable deduplicates blobs by content hash. A table is not safe
// for concurrent mutation.
type SharedStringTable struct {
	entries map[SharedStringHash]*sharedBlob
	order   []SharedStringHash
}

// NewSharedStringTable returns an empty table.
func NewSharedStringTable() *SharedStringTable {
	return &SharedStringTable{entries: make(map[SharedStringHash]*sharedBlob)}
}

// Intern returns the handle for data, storing a copy on first sight.
func (t *SharedStringTable) Intern(data []byte) SharedString {
	h := SharedStringHash(md5.Sum(data))
	if blob, ok := t.entries[h]; ok {
		return SharedString{blob: blob}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return t.store(&sharedBlob{hash: h, data: buf})
}

// Adopt returns the table's handle for the content of s, taking ownership of
// the blob of s if the content is new to the table.
func (t *SharedStringTable) Adopt(s SharedString) SharedString {
	if s.blob == nil {
		return t.Intern(nil)
	}
	if blob, ok := t.entries[s.blob.hash]; ok {
		return SharedString{blob: blob}
	}
	return t.store(s.blob)
}

func (t *SharedStringTable) store(blob *sharedBlob) SharedString {
	t.entries[blob.hash] = blob
	t.order = append(t.order, blob.hash)
	return SharedString{blob: blob}
}

// Lookup returns the handle stored under h.
func (t *SharedStringTable) Lookup(h SharedStringHash) (SharedString, bool) {
	blob, ok := t.entries[h]
	if !ok {
		return SharedString{}, false
	}
	return SharedString{blob: blob}, true
}

// Len returns the number of distinct blobs.
func (t *SharedStringTable) Len() int {
	return len(t.entries)
}

// Hashes returns the stored hashes in first-interned order.
func (t *SharedStringTable) Hashes() []SharedStringHash {
	out := make([]SharedStringHash, len(t.order))
	copy(out, t.order)
	return out
}

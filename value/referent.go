package value

import "github.com/google/uuid"

// Referent is an opaque, process-local identifier for an instance. The zero
// Referent means "no instance".
type Referent uuid.UUID

// None is the referent of no instance.
var None Referent

// NewReferent returns a fresh random referent.
func NewReferent() Referent {
	return Referent(uuid.New())
}

// IsNone reports whether r is the zero referent.
func (r Referent) IsNone() bool {
	return r == None
}

func (r Referent) String() string {
	if r.IsNone() {
		return "null"
	}
	return uuid.UUID(r).String()
}

// ParseReferent parses the textual form produced by String.
func ParseReferent(s string) (Referent, error) {
	if s == "null" || s == "" {
		return None, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return None, err
	}
	return Referent(id), nil
}

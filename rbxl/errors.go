package rbxl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	// MalformedHeader means the stream does not start with a valid header.
	MalformedHeader ErrorKind = iota + 1
	// CorruptChunk means a chunk's contents disagree with its declared
	// layout or length.
	CorruptChunk
	// Truncated means the stream ended before the END chunk.
	Truncated
	// TypeMismatch means a value cannot be written as its declared type.
	TypeMismatch
	// UnknownProperty means a property is unknown and the encoder was told
	// to reject unknown properties.
	UnknownProperty
	// EncodeFailed covers the remaining encoder failures.
	EncodeFailed
)

var kindNames = map[ErrorKind]string{
	MalformedHeader: "malformed header",
	CorruptChunk:    "corrupt chunk",
	Truncated:       "truncated file",
	TypeMismatch:    "type mismatch",
	UnknownProperty: "unknown property",
	EncodeFailed:    "encode failed",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is returned by Decode for invalid files and by Encode for trees
// that cannot be written.
type Error struct {
	Kind     ErrorKind
	Chunk    string
	Class    string
	Property string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("rbxl: ")
	b.WriteString(e.Kind.String())
	if e.Chunk != "" {
		fmt.Fprintf(&b, " in %s", e.Chunk)
	}
	if e.Class != "" {
		fmt.Fprintf(&b, " (%s", e.Class)
		if e.Property != "" {
			fmt.Fprintf(&b, ".%s", e.Property)
		}
		b.WriteByte(')')
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsInvalid reports whether err says the input is not a valid file, as
// opposed to a file that decoded with warnings or an encode failure.
func IsInvalid(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case MalformedHeader, CorruptChunk, Truncated:
		return true
	}
	return false
}

// KindOf returns the kind of the *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func corrupt(chunk string, format string, args ...any) *Error {
	return &Error{Kind: CorruptChunk, Chunk: chunk, Err: fmt.Errorf(format, args...)}
}

// Warning describes data the decoder skipped or altered.
type Warning struct {
	Chunk    string
	Class    string
	Property string
	Message  string
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Chunk)
	if w.Class != "" {
		b.WriteString(" ")
		b.WriteString(w.Class)
		if w.Property != "" {
			b.WriteString(".")
			b.WriteString(w.Property)
		}
	}
	b.WriteString(": ")
	b.WriteString(w.Message)
	return b.String()
}

// UnsupportedError is returned together with a complete tree when the file
// was valid but used data the decoder did not fully understand.
type UnsupportedError struct {
	Warnings []Warning
}

func (e *UnsupportedError) Error() string {
	if len(e.Warnings) == 1 {
		return "rbxl: decoded with 1 warning: " + e.Warnings[0].String()
	}
	return fmt.Sprintf("rbxl: decoded with %d warnings, first: %s", len(e.Warnings), e.Warnings[0])
}

// IsUnsupported reports whether err only carries decode warnings.
func IsUnsupported(err error) bool {
	var u *UnsupportedError
	return errors.As(err, &u)
}

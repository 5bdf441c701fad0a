package rbxl

import (
	"log/slog"

	"github.com/oy3o/rbxdom/dom"
	"github.com/oy3o/rbxdom/reflection"
)

// PropertyBehavior selects how the encoder treats properties the
// reflection database does not know.
type PropertyBehavior uint8

const (
	// WriteUnknown writes unknown properties under their own name and type.
	WriteUnknown PropertyBehavior = iota
	// IgnoreUnknown drops unknown properties.
	IgnoreUnknown
	// ErrorOnUnknown fails the encode on the first unknown property.
	ErrorOnUnknown
	// NoReflection writes every property exactly as stored in the tree.
	NoReflection
)

// Compression selects the chunk compression used by the encoder.
type Compression uint8

const (
	CompressionLZ4 Compression = iota
	CompressionZstd
	CompressionNone
)

// DecodeOptions configures Decode. The zero value decodes without
// reflection and logs through slog.Default.
type DecodeOptions struct {
	// Database maps serialized property names and types back to their
	// canonical form and type checks the resulting tree.
	Database *reflection.Database
	Logger   *slog.Logger
}

// EncodeOptions configures Encode. The zero value writes LZ4 compressed
// chunks without reflection.
type EncodeOptions struct {
	Database         *reflection.Database
	PropertyBehavior PropertyBehavior
	Compression      Compression
	Logger           *slog.Logger
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// schema returns db as a dom.Schema, keeping a nil database a nil interface.
func schema(db *reflection.Database) dom.Schema {
	if db == nil {
		return nil
	}
	return db
}

// Package rbxl reads and writes the chunked binary model and place format.
//
// A file is a 32 byte header followed by tagged chunks: META (metadata),
// SSTR (shared strings), one INST per class, one PROP per class and
// property, PRNT (parent links) and END. Property chunks store one column
// of values per property, transformed so that general purpose compression
// works well on them.
//
// Decode builds a dom.Tree only once the END chunk has been read, so a
// failed decode never yields a partial tree. Decode and Encode are safe to
// call concurrently on independent inputs.
package rbxl

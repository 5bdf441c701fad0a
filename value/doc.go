// Package value implements the closed set of property value variants that
// instances carry.
//
// Every variant is a distinct Go type implementing the sealed Value
// interface; there is no implicit conversion between variants. Numeric
// variants keep their exact bit patterns, so a decoded value is identical to
// the one that was written, including NaN payloads and negative zero.
//
// Enum values are raw integers. Mapping them to item names belongs to the
// reflection database.
package value

// Package reflection holds the class and property metadata used to type
// check DOM properties and to decide how they are serialized.
//
// A Database is built once through a Builder from an API dump, optional
// YAML patches and a stream of captured default values, and is read-only
// afterwards. All Database methods are safe for concurrent use.
package reflection

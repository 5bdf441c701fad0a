// Package dom implements the weak DOM: a tree of instances owned by a flat
// store keyed by referent.
//
// Instances never point at each other directly. Parent and child links are
// referents resolved through the Tree, which makes reparenting a pair of
// slice edits and keeps ownership acyclic. Child order is insertion order and
// is preserved by the codecs.
//
// A Tree is not safe for concurrent mutation; callers that share one must
// serialize access themselves.
package dom

package reflection

import (
	"fmt"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/oy3o/rbxdom/value"
)

// Version is the four-part version of the application the data came from.
type Version [4]uint32

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v[0], v[1], v[2], v[3])
}

// resolution is the outcome of resolving a property name on a class.
type resolution struct {
	canonical  *PropertyDescriptor
	serialized *PropertyDescriptor
}

// Database is an immutable set of class and enum descriptors.
type Database struct {
	version  Version
	classes  map[string]*ClassDescriptor
	enums    map[string]*EnumDescriptor
	excluded ExclusionPolicy

	// resolved memoizes name resolution; a nil canonical marks a miss.
	resolved *xsync.Map[string, resolution]
}

func newDatabase(version Version, classes map[string]*ClassDescriptor, enums map[string]*EnumDescriptor, excluded ExclusionPolicy) *Database {
	return &Database{
		version:  version,
		classes:  classes,
		enums:    enums,
		excluded: excluded,
		resolved: xsync.NewMap[string, resolution](),
	}
}

// Version returns the version recorded by the last capture merge.
func (db *Database) Version() Version { return db.version }

// ClassNames returns every class name in lexical order.
func (db *Database) ClassNames() []string {
	names := make([]string, 0, len(db.classes))
	for name := range db.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NumEnums returns the number of enums.
func (db *Database) NumEnums() int { return len(db.enums) }

// Class returns a copy of the descriptor for name. Changing it does not
// affect the database.
func (db *Database) Class(name string) (*ClassDescriptor, error) {
	c, ok := db.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return c.clone(), nil
}

// Property returns a copy of the descriptor for name, searching className
// and then each superclass in turn.
func (db *Database) Property(className, name string) (*PropertyDescriptor, error) {
	p, _, err := db.lookup(className, name)
	return p.clone(), err
}

func (db *Database) lookup(className, name string) (*PropertyDescriptor, *ClassDescriptor, error) {
	return findProperty(db.classes, className, name)
}

// findProperty walks from className up the superclass chain and returns the
// first descriptor called name along with the class declaring it.
func findProperty(classes map[string]*ClassDescriptor, className, name string) (*PropertyDescriptor, *ClassDescriptor, error) {
	c, ok := classes[className]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrClassNotFound, className)
	}
	// The hop limit stops on cyclic hierarchies that have not been validated yet.
	for hops := 0; hops <= len(classes); hops++ {
		if p, ok := c.Properties[name]; ok {
			return p, c, nil
		}
		if c, ok = classes[c.Superclass]; !ok {
			break
		}
	}
	return nil, nil, fmt.Errorf("%w: %s.%s", ErrPropertyNotFound, className, name)
}

// resolve maps any name of a property to its canonical and serialized
// descriptors. It misses for unknown properties and for aliases that have
// no canonical form.
func (db *Database) resolve(className, name string) (resolution, bool) {
	key := className + "\x00" + name
	if r, ok := db.resolved.Load(key); ok {
		return r, r.canonical != nil
	}

	var r resolution
	if p, _, err := db.lookup(className, name); err == nil {
		canonical := p
		if !p.IsCanonical {
			canonical = nil
			if p.CanonicalName != "" {
				canonical, _, _ = db.lookup(className, p.CanonicalName)
			}
		}
		if canonical != nil {
			r = resolution{canonical: canonical, serialized: canonical}
			if canonical.SerializedName != "" {
				if s, _, err := db.lookup(className, canonical.SerializedName); err == nil {
					r.serialized = s
				}
			}
		}
	}
	db.resolved.Store(key, r)
	return r, r.canonical != nil
}

// Canonical returns the canonical descriptor for any name of a property.
func (db *Database) Canonical(className, name string) (*PropertyDescriptor, bool) {
	r, ok := db.resolve(className, name)
	return r.canonical.clone(), ok
}

// Serialized returns the descriptor whose name and type a property is
// stored under in files.
func (db *Database) Serialized(className, name string) (*PropertyDescriptor, bool) {
	r, ok := db.resolve(className, name)
	return r.serialized.clone(), ok
}

// IsPropertySerializable reports whether className.name should be captured
// and written with a default: it must be known, not excluded, writable from
// scripts and canonical.
func (db *Database) IsPropertySerializable(className, name string) bool {
	if db.excluded.ExcludesProperty(name) || db.excluded.ExcludesClass(className) {
		return false
	}
	p, _, err := db.lookup(className, name)
	if err != nil {
		return false
	}
	return p.Scriptability == ScriptabilityReadWrite && p.IsCanonical
}

// Default returns the default value of a property, resolving aliases.
func (db *Database) Default(className, name string) (value.Value, bool) {
	r, ok := db.resolve(className, name)
	if !ok || r.canonical.Default == nil {
		return nil, false
	}
	return cloneValue(r.canonical.Default), true
}

// PropertyType returns the declared variant of a property. Enum properties
// report value.TypeEnum. Properties of unsupported types are unknown.
func (db *Database) PropertyType(className, name string) (value.Type, bool) {
	r, ok := db.resolve(className, name)
	if !ok {
		return value.TypeInvalid, false
	}
	return r.canonical.Type.Variant()
}

// IsService reports whether className is a known service class.
func (db *Database) IsService(className string) bool {
	c, ok := db.classes[className]
	return ok && c.IsService()
}

// Enum returns the enum named name.
func (db *Database) Enum(name string) (*EnumDescriptor, error) {
	e, ok := db.enums[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEnumNotFound, name)
	}
	return e, nil
}

// EnumItemName returns the item of enum whose value is v.
func (db *Database) EnumItemName(enum string, v uint32) (string, bool) {
	e, ok := db.enums[enum]
	if !ok {
		return "", false
	}
	name, ok := e.byValue[v]
	return name, ok
}

// EnumItemValue returns the value of the item called name.
func (db *Database) EnumItemValue(enum, name string) (uint32, bool) {
	e, ok := db.enums[enum]
	if !ok {
		return 0, false
	}
	v, ok := e.Items[name]
	return v, ok
}

// Stats summarizes the database contents.
type Stats struct {
	Classes    int
	Properties int
	Defaults   int
	Enums      int
}

func (db *Database) Stats() Stats {
	s := Stats{Classes: len(db.classes), Enums: len(db.enums)}
	for _, c := range db.classes {
		s.Properties += len(c.Properties)
		for _, p := range c.Properties {
			if p.Default != nil {
				s.Defaults++
			}
		}
	}
	return s
}

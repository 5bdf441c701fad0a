package reflection

import (
	"fmt"
	"log/slog"
)

// Builder accumulates reflection data and produces an immutable Database.
// A Builder is not safe for concurrent use.
type Builder struct {
	classes map[string]*ClassDescriptor
	enums   map[string]*EnumDescriptor
	version Version
	policy  ExclusionPolicy
	logger  *slog.Logger
}

func NewBuilder() *Builder {
	return &Builder{
		classes: make(map[string]*ClassDescriptor),
		enums:   make(map[string]*EnumDescriptor),
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for ingestion warnings.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// AddClass adds or replaces a class descriptor. The builder stores a copy,
// so c may be reused by the caller.
func (b *Builder) AddClass(c *ClassDescriptor) *Builder {
	b.classes[c.Name] = c.clone()
	return b
}

// AddEnum adds or replaces an enum.
func (b *Builder) AddEnum(name string, items map[string]uint32) *Builder {
	e := &EnumDescriptor{
		Name:    name,
		Items:   make(map[string]uint32, len(items)),
		byValue: make(map[uint32]string, len(items)),
	}
	for item, v := range items {
		e.addItem(item, v)
	}
	b.enums[name] = e
	return b
}

// SetExclusionPolicy sets the properties and classes the database reports
// as not serializable.
func (b *Builder) SetExclusionPolicy(policy ExclusionPolicy) *Builder {
	b.policy = policy
	return b
}

// Build validates the collected data and returns the Database. The builder
// is reset and can be reused.
func (b *Builder) Build() (*Database, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	db := newDatabase(b.version, b.classes, b.enums, b.policy)
	b.classes = make(map[string]*ClassDescriptor)
	b.enums = make(map[string]*EnumDescriptor)
	b.version = Version{}
	return db, nil
}

func (b *Builder) validate() error {
	for name, c := range b.classes {
		seen := map[string]bool{name: true}
		for cur := c; cur.Superclass != ""; {
			next, ok := b.classes[cur.Superclass]
			if !ok {
				return fmt.Errorf("%w: %s has unknown superclass %s", ErrInvalidDump, cur.Name, cur.Superclass)
			}
			if seen[next.Name] {
				return fmt.Errorf("%w: %s inherits from itself", ErrInvalidDump, name)
			}
			seen[next.Name] = true
			cur = next
		}

		for _, p := range c.Properties {
			if p.Type.Kind == KindEnum {
				if _, ok := b.enums[p.Type.EnumName]; !ok {
					b.logger.Warn("property uses unknown enum", "class", name, "property", p.Name, "enum", p.Type.EnumName)
				}
			}
			if p.CanonicalName != "" {
				target, _, err := findProperty(b.classes, name, p.CanonicalName)
				if err != nil {
					return fmt.Errorf("%w: %s.%s aliases missing %s", ErrInvalidPatch, name, p.Name, p.CanonicalName)
				}
				if !target.IsCanonical {
					return fmt.Errorf("%w: %s.%s aliases non-canonical %s", ErrInvalidPatch, name, p.Name, p.CanonicalName)
				}
			}
			if p.SerializedName != "" {
				if _, _, err := findProperty(b.classes, name, p.SerializedName); err != nil {
					return fmt.Errorf("%w: %s.%s serializes as missing %s", ErrInvalidPatch, name, p.Name, p.SerializedName)
				}
			}
		}
	}
	return nil
}

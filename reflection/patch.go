package reflection

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oy3o/rbxdom/value"
)

// patchFile is the YAML layout of a reflection patch:
//
//	classes:
//	  Part:
//	    properties:
//	      FormFactor:
//	        serializes_as: formFactorRaw
//	      formFactorRaw:
//	        type: Enum:FormFactor
//	        alias_for: FormFactor
//	        scriptability: None
type patchFile struct {
	Classes map[string]classPatch `yaml:"classes"`
}

type classPatch struct {
	Superclass string                   `yaml:"superclass"`
	Tags       []string                 `yaml:"tags"`
	Properties map[string]propertyPatch `yaml:"properties"`
}

type propertyPatch struct {
	Type          string `yaml:"type"`
	AliasFor      string `yaml:"alias_for"`
	SerializesAs  string `yaml:"serializes_as"`
	Scriptability string `yaml:"scriptability"`
}

// parsePatchType reads "Enum:<Name>", a variant name, or "Ref".
func parsePatchType(s string) (PropertyType, error) {
	if enum, ok := strings.CutPrefix(s, "Enum:"); ok {
		return PropertyType{Kind: KindEnum, Value: value.TypeEnum, EnumName: enum, Raw: enum}, nil
	}
	t, ok := value.ParseType(s)
	if !ok {
		return PropertyType{}, fmt.Errorf("%w: unknown type %q", ErrInvalidPatch, s)
	}
	return PropertyType{Kind: KindData, Value: t, Raw: s}, nil
}

// ApplyPatches applies a YAML patch document. Classes named by the patch but
// absent from the builder are created; new properties must declare a type.
// Cross references are checked by Build.
func (b *Builder) ApplyPatches(r io.Reader) error {
	var pf patchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && err != io.EOF {
		return fmt.Errorf("reflection: decode patches: %w", err)
	}

	for className, cp := range pf.Classes {
		class, ok := b.classes[className]
		if !ok {
			class = &ClassDescriptor{Name: className, Properties: make(map[string]*PropertyDescriptor)}
			b.classes[className] = class
		}
		if cp.Superclass != "" {
			class.Superclass = cp.Superclass
		}
		for _, tag := range cp.Tags {
			if !class.HasTag(tag) {
				class.Tags = append(class.Tags, tag)
			}
		}

		for name, pp := range cp.Properties {
			if err := b.patchProperty(class, name, pp); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Builder) patchProperty(class *ClassDescriptor, name string, pp propertyPatch) error {
	p, ok := class.Properties[name]
	if !ok {
		if pp.Type == "" {
			return fmt.Errorf("%w: new property %s.%s has no type", ErrInvalidPatch, class.Name, name)
		}
		p = &PropertyDescriptor{Name: name, Scriptability: ScriptabilityReadWrite, IsCanonical: true}
		class.Properties[name] = p
	}
	if pp.Type != "" {
		t, err := parsePatchType(pp.Type)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", class.Name, name, err)
		}
		p.Type = t
	}
	if pp.Scriptability != "" {
		s, ok := ParseScriptability(pp.Scriptability)
		if !ok {
			return fmt.Errorf("%w: %s.%s scriptability %q", ErrInvalidPatch, class.Name, name, pp.Scriptability)
		}
		p.Scriptability = s
	}
	if pp.AliasFor != "" {
		p.IsCanonical = false
		p.CanonicalName = pp.AliasFor
	}
	if pp.SerializesAs != "" {
		p.SerializedName = pp.SerializesAs
	}
	return nil
}

package reflection

import (
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"

	"github.com/oy3o/rbxdom/value"
)

// apiDump is the subset of the application's JSON API dump the builder
// reads.
type apiDump struct {
	Classes []dumpClass `json:"Classes"`
	Enums   []dumpEnum  `json:"Enums"`
}

type dumpClass struct {
	Name       string       `json:"Name"`
	Superclass string       `json:"Superclass"`
	Tags       []string     `json:"Tags"`
	Members    []dumpMember `json:"Members"`
}

type dumpMember struct {
	MemberType string        `json:"MemberType"`
	Name       string        `json:"Name"`
	ValueType  dumpValueType `json:"ValueType"`
	Tags       []string      `json:"Tags"`
}

type dumpValueType struct {
	Name     string `json:"Name"`
	Category string `json:"Category"`
}

type dumpEnum struct {
	Name  string         `json:"Name"`
	Items []dumpEnumItem `json:"Items"`
}

type dumpEnumItem struct {
	Name  string `json:"Name"`
	Value uint32 `json:"Value"`
}

// noSuperclass is what the dump uses for the root of the hierarchy.
const noSuperclass = "<<<ROOT>>>"

// primitiveTypes maps Primitive category names to variants.
var primitiveTypes = map[string]value.Type{
	"bool":   value.TypeBool,
	"int":    value.TypeInt32,
	"int64":  value.TypeInt64,
	"float":  value.TypeFloat32,
	"double": value.TypeFloat64,
	"string": value.TypeString,
}

func parseValueType(vt dumpValueType) PropertyType {
	t := PropertyType{Kind: KindUnimplemented, Raw: vt.Name}
	switch vt.Category {
	case "Primitive":
		if v, ok := primitiveTypes[vt.Name]; ok {
			t.Kind, t.Value = KindData, v
		}
	case "DataType":
		if v, ok := value.ParseType(vt.Name); ok {
			t.Kind, t.Value = KindData, v
		}
	case "Enum":
		t.Kind, t.Value, t.EnumName = KindEnum, value.TypeEnum, vt.Name
	case "Class":
		t.Kind, t.Value = KindData, value.TypeRef
	}
	return t
}

func parseScriptability(tags []string) Scriptability {
	switch {
	case slices.Contains(tags, "NotScriptable"):
		return ScriptabilityNone
	case slices.Contains(tags, "ReadOnly"):
		return ScriptabilityRead
	}
	return ScriptabilityReadWrite
}

// LoadAPIDump adds the classes and enums of a JSON API dump. Functions,
// events and callbacks are ignored. Classes already loaded are replaced.
func (b *Builder) LoadAPIDump(r io.Reader) error {
	var dump apiDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return fmt.Errorf("reflection: decode api dump: %w", err)
	}

	for _, dc := range dump.Classes {
		if dc.Name == "" {
			return fmt.Errorf("%w: class without a name", ErrInvalidDump)
		}
		class := &ClassDescriptor{
			Name:       dc.Name,
			Tags:       slices.Clone(dc.Tags),
			Properties: make(map[string]*PropertyDescriptor),
		}
		if dc.Superclass != noSuperclass {
			class.Superclass = dc.Superclass
		}
		for _, m := range dc.Members {
			if m.MemberType != "Property" {
				continue
			}
			class.Properties[m.Name] = &PropertyDescriptor{
				Name:          m.Name,
				Type:          parseValueType(m.ValueType),
				Scriptability: parseScriptability(m.Tags),
				IsCanonical:   true,
			}
		}
		b.classes[class.Name] = class
	}

	for _, de := range dump.Enums {
		e := &EnumDescriptor{
			Name:    de.Name,
			Items:   make(map[string]uint32, len(de.Items)),
			byValue: make(map[uint32]string, len(de.Items)),
		}
		for _, item := range de.Items {
			e.addItem(item.Name, item.Value)
		}
		b.enums[e.Name] = e
	}

	b.logger.Debug("loaded api dump", "classes", len(dump.Classes), "enums", len(dump.Enums))
	return nil
}

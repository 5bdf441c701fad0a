package reflection

import (
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// ExclusionPolicy lists properties and classes that have no stable default
// and are never captured or reported as serializable.
type ExclusionPolicy struct {
	Properties []string `yaml:"properties"`
	Classes    []string `yaml:"classes"`
}

func (p ExclusionPolicy) ExcludesProperty(name string) bool {
	return slices.Contains(p.Properties, name)
}

func (p ExclusionPolicy) ExcludesClass(name string) bool {
	return slices.Contains(p.Classes, name)
}

// LoadExclusionPolicy reads a policy from YAML:
//
//	properties: [Parent, ClassName]
//	classes: [Terrain]
func LoadExclusionPolicy(r io.Reader) (ExclusionPolicy, error) {
	var p ExclusionPolicy
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return ExclusionPolicy{}, fmt.Errorf("reflection: decode exclusion policy: %w", err)
	}
	return p, nil
}

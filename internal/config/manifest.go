// Package config loads and validates the groundwork manifest
// (groundwork.yaml): the declarative description of what a freshly
// provisioned server should look like. The manifest is one flat file
// with a schema version, an optional provider sequence, and one
// section per provider.
package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the manifest schema version this build understands.
const CurrentVersion = 1

// FileName is the manifest file name groundwork looks for.
const FileName = "groundwork.yaml"

// DefaultSequence is the canonical provider order used when the
// manifest does not declare an explicit sequence. Order matters: base
// packages come first, runtimes next, and configuration that depends
// on them last.
var DefaultSequence = []string{
	"apt",
	"docker",
	"node",
	"npm",
	"ssh",
	"motd",
	"starship",
	"shell",
	"git",
}

// KnownProvider reports whether name is a provider this build ships.
func KnownProvider(name string) bool {
	for _, p := range DefaultSequence {
		if p == name {
			return true
		}
	}
	return false
}

// Manifest is the root configuration (groundwork.yaml).
type Manifest struct {
	Version  int
	Sequence []string

	sections map[string]map[string]interface{}
	path     string
}

// manifestYAML is the YAML representation for unmarshaling. Provider
// sections sit at the top level next to version and sequence, so
// everything that is not a reserved key lands in the inline map.
type manifestYAML struct {
	Version  int                    `yaml:"version"`
	Sequence []string               `yaml:"sequence,omitempty"`
	Sections map[string]interface{} `yaml:",inline"`
}

// ParseManifest parses and validates a Manifest from YAML bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw manifestYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if raw.Version == 0 {
		raw.Version = CurrentVersion
	}
	if raw.Version != CurrentVersion {
		return nil, NewManifestVersionError(raw.Version)
	}

	sections := make(map[string]map[string]interface{}, len(raw.Sections))
	for name, value := range raw.Sections {
		if !KnownProvider(name) {
			return nil, NewUnknownProviderError(name)
		}
		if value == nil {
			// An empty section still opts the provider in.
			sections[name] = map[string]interface{}{}
			continue
		}
		section, ok := value.(map[string]interface{})
		if !ok {
			return nil, NewValidationFailedError(name, "provider section must be a mapping")
		}
		sections[name] = section
	}

	seen := make(map[string]bool, len(raw.Sequence))
	for _, name := range raw.Sequence {
		if !KnownProvider(name) {
			return nil, NewUnknownProviderError(name)
		}
		if seen[name] {
			return nil, NewValidationFailedError("sequence",
				fmt.Sprintf("provider %q listed more than once", name))
		}
		seen[name] = true
	}

	return &Manifest{
		Version:  raw.Version,
		Sequence: raw.Sequence,
		sections: sections,
	}, nil
}

// Section returns the raw configuration mapping for a provider.
func (m *Manifest) Section(name string) (map[string]interface{}, bool) {
	section, ok := m.sections[name]
	return section, ok
}

// HasSection reports whether the manifest configures the named provider.
func (m *Manifest) HasSection(name string) bool {
	_, ok := m.sections[name]
	return ok
}

// SectionNames returns the configured provider names in sorted order.
func (m *Manifest) SectionNames() []string {
	names := make([]string, 0, len(m.sections))
	for name := range m.sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config returns the manifest as a provider-name-keyed map, the shape
// the sequence compiler consumes.
func (m *Manifest) Config() map[string]interface{} {
	config := make(map[string]interface{}, len(m.sections))
	for name, section := range m.sections {
		config[name] = section
	}
	return config
}

// ResolvedSequence returns the provider order for this run: the
// explicit sequence when declared, the default order otherwise.
// Providers without a section compile to zero steps, so the resolved
// order may name more providers than the manifest configures.
func (m *Manifest) ResolvedSequence() []string {
	source := m.Sequence
	if len(source) == 0 {
		source = DefaultSequence
	}
	seq := make([]string, len(source))
	copy(seq, source)
	return seq
}

// SetProvenance records the file the manifest was loaded from.
func (m *Manifest) SetProvenance(path string) {
	m.path = path
}

// Path returns the file the manifest was loaded from, if any.
func (m *Manifest) Path() string {
	return m.path
}

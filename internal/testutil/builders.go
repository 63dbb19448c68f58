package testutil

import (
	"fmt"
	"sort"
	"strings"
)

// ManifestBuilder assembles groundwork.yaml content for tests without
// hand-writing YAML in every test body. Sections keep the order they
// were added in.
type ManifestBuilder struct {
	version  int
	sequence []string
	order    []string
	sections map[string]string
}

// NewManifestBuilder creates a builder for the current schema version.
func NewManifestBuilder() *ManifestBuilder {
	return &ManifestBuilder{
		version:  1,
		sections: make(map[string]string),
	}
}

// WithVersion overrides the schema version.
func (b *ManifestBuilder) WithVersion(version int) *ManifestBuilder {
	b.version = version
	return b
}

// WithSequence sets the explicit provider order.
func (b *ManifestBuilder) WithSequence(providers ...string) *ManifestBuilder {
	b.sequence = providers
	return b
}

// WithSection adds a provider section with raw YAML body lines. Lines
// are indented under the section key; pass none for an empty section.
func (b *ManifestBuilder) WithSection(name string, lines ...string) *ManifestBuilder {
	if _, exists := b.sections[name]; !exists {
		b.order = append(b.order, name)
	}
	b.sections[name] = strings.Join(lines, "\n")
	return b
}

// WithApt adds an apt section installing the given packages.
func (b *ManifestBuilder) WithApt(packages ...string) *ManifestBuilder {
	lines := []string{"update: true"}
	if len(packages) > 0 {
		lines = append(lines, "packages:")
		for _, pkg := range packages {
			lines = append(lines, "  - "+pkg)
		}
	}
	return b.WithSection("apt", lines...)
}

// WithNpm adds an npm section installing the given global packages.
func (b *ManifestBuilder) WithNpm(packages ...string) *ManifestBuilder {
	if len(packages) == 0 {
		return b.WithSection("npm")
	}
	lines := []string{"packages:"}
	for _, pkg := range packages {
		lines = append(lines, "  - "+pkg)
	}
	return b.WithSection("npm", lines...)
}

// WithShellEnv adds a shell section exporting the given variables.
func (b *ManifestBuilder) WithShellEnv(env map[string]string) *ManifestBuilder {
	lines := []string{"env:"}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %s: %s", k, env[k]))
	}
	return b.WithSection("shell", lines...)
}

// Build renders the manifest YAML.
func (b *ManifestBuilder) Build() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("version: %d\n", b.version))

	if len(b.sequence) > 0 {
		sb.WriteString("sequence:\n")
		for _, name := range b.sequence {
			sb.WriteString(fmt.Sprintf("  - %s\n", name))
		}
	}

	for _, name := range b.order {
		body := b.sections[name]
		if body == "" {
			sb.WriteString(fmt.Sprintf("%s: {}\n", name))
			continue
		}
		sb.WriteString(name + ":\n")
		for _, line := range strings.Split(body, "\n") {
			sb.WriteString("  " + line + "\n")
		}
	}

	return sb.String()
}

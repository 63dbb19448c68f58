// Package npm provides the npm provider: global CLI packages installed
// best-effort after the Node.js runtime. The default set provisions the
// AI coding assistants a fresh development server is expected to carry.
package npm

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultPackages is installed when the manifest lists none.
var DefaultPackages = []string{
	"@anthropic-ai/claude-code",
	"@openai/codex",
	"@google/gemini-cli",
}

// Config represents the npm section of the manifest.
type Config struct {
	Packages []string // package specs, optionally version-suffixed
}

// ParseConfig parses the npm configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	value, ok := raw["packages"]
	if !ok {
		cfg.Packages = append(cfg.Packages, DefaultPackages...)
		return cfg, nil
	}

	list, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("packages must be a list")
	}

	cfg.Packages = make([]string, 0, len(list))
	for _, item := range list {
		spec, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("packages entries must be strings")
		}
		if err := validation.ValidateNpmPackage(spec); err != nil {
			return nil, fmt.Errorf("packages: %w", err)
		}
		cfg.Packages = append(cfg.Packages, spec)
	}

	return cfg, nil
}

// splitSpec separates a package spec into name and version. The version
// suffix is the part after the last @, except for a scope's leading @.
func splitSpec(spec string) (name, version string) {
	if i := strings.LastIndex(spec, "@"); i > 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}

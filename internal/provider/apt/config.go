// Package apt provides the apt provider: package index refresh and
// package installation on Debian/Ubuntu hosts. The index refresh and
// the core package list are fatal steps; everything later in a
// provisioning run assumes the base system tooling is present.
package apt

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// Config represents the apt section of the manifest.
type Config struct {
	Update   bool     // refresh the package index before installing
	Packages []string // core packages; failure aborts the run
	Optional []string // best-effort packages; failure is a warning
}

// ParseConfig parses the apt configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Update:   true,
		Packages: make([]string, 0),
		Optional: make([]string, 0),
	}

	if update, ok := raw["update"]; ok {
		updateBool, ok := update.(bool)
		if !ok {
			return nil, fmt.Errorf("update must be a boolean")
		}
		cfg.Update = updateBool
	}

	packages, err := parsePackageList(raw, "packages")
	if err != nil {
		return nil, err
	}
	cfg.Packages = packages

	optional, err := parsePackageList(raw, "optional")
	if err != nil {
		return nil, err
	}
	cfg.Optional = optional

	return cfg, nil
}

// parsePackageList parses and validates a list of package names.
func parsePackageList(raw map[string]interface{}, key string) ([]string, error) {
	value, ok := raw[key]
	if !ok {
		return nil, nil
	}

	list, ok := value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be a list", key)
	}

	packages := make([]string, 0, len(list))
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s entries must be strings", key)
		}
		if err := validation.ValidatePackageName(name); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		packages = append(packages, name)
	}

	return packages, nil
}

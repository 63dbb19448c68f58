// Package motd provides the motd provider: a login banner script under
// /etc/update-motd.d and neutralization of the noisy stock scripts.
package motd

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultBanner is the system-info tool the generated script prefers.
const DefaultBanner = "fastfetch"

// DefaultDisable lists the stock Ubuntu scripts that drown out the banner.
// An explicit empty disable list in the manifest keeps them all.
var DefaultDisable = []string{"10-help-text", "50-motd-news"}

// Config represents the motd section of the manifest.
type Config struct {
	Banner  string   // banner command the script runs when present
	Disable []string // stock script names to strip the exec bit from
}

// ParseConfig parses the motd configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{Banner: DefaultBanner}

	if v, ok := raw["banner"]; ok {
		banner, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("banner must be a string")
		}
		if err := validation.ValidateCommandName(banner); err != nil {
			return nil, fmt.Errorf("banner: %w", err)
		}
		cfg.Banner = banner
	}

	if v, ok := raw["disable"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("disable must be a list")
		}
		cfg.Disable = make([]string, 0, len(list))
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("disable entries must be strings")
			}
			// Names are joined onto the motd directory; they must not
			// escape it.
			if err := validation.ValidateCommandName(name); err != nil {
				return nil, fmt.Errorf("disable: %w", err)
			}
			cfg.Disable = append(cfg.Disable, name)
		}
	} else {
		cfg.Disable = append(cfg.Disable, DefaultDisable...)
	}

	return cfg, nil
}

// Package starship provides the starship provider: prompt installation,
// prompt configuration, and shell startup wiring.
package starship

import "fmt"

// DefaultStartupFile is where shell initialization lands unless the shell
// section names another file.
const DefaultStartupFile = "~/.bashrc"

// Config represents the starship section of the manifest.
type Config struct {
	Settings map[string]interface{} // rendered to starship.toml
}

// DefaultSettings returns the prompt configuration a fresh server gets:
// always-on hostname (these boxes are reached over SSH), clear
// success/error symbols, compact directories, and git state styling.
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		"add_newline": true,
		"hostname": map[string]interface{}{
			"ssh_only": false,
			"format":   "[$hostname]($style) ",
			"style":    "bold dimmed green",
		},
		"character": map[string]interface{}{
			"success_symbol": "[➜](bold green)",
			"error_symbol":   "[✗](bold red)",
		},
		"directory": map[string]interface{}{
			"truncation_length": 4,
			"truncate_to_repo":  true,
		},
		"git_branch": map[string]interface{}{
			"style": "bold purple",
		},
		"git_status": map[string]interface{}{
			"style": "bold yellow",
		},
	}
}

// ParseConfig parses the starship configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{Settings: DefaultSettings()}

	if v, ok := raw["settings"]; ok {
		settings, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("settings must be a map")
		}
		cfg.Settings = settings
	}

	return cfg, nil
}

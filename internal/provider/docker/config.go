// Package docker provides the docker provider: container runtime
// installation via the official convenience script and docker group
// membership for the configured accounts.
package docker

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultInstallerURL is the official Docker convenience script.
const DefaultInstallerURL = "https://get.docker.com"

// Config represents the docker section of the manifest.
type Config struct {
	Install      bool     // install the engine when absent
	InstallerURL string   // convenience script location
	Users        []string // accounts added to the docker group
}

// ParseConfig parses the docker configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Install:      true,
		InstallerURL: DefaultInstallerURL,
		Users:        make([]string, 0),
	}

	if install, ok := raw["install"]; ok {
		installBool, ok := install.(bool)
		if !ok {
			return nil, fmt.Errorf("install must be a boolean")
		}
		cfg.Install = installBool
	}

	if url, ok := raw["installer_url"]; ok {
		urlStr, ok := url.(string)
		if !ok {
			return nil, fmt.Errorf("installer_url must be a string")
		}
		if err := validation.ValidateURL(urlStr); err != nil {
			return nil, fmt.Errorf("installer_url: %w", err)
		}
		cfg.InstallerURL = urlStr
	}

	if users, ok := raw["users"]; ok {
		list, ok := users.([]interface{})
		if !ok {
			return nil, fmt.Errorf("users must be a list")
		}
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("users entries must be strings")
			}
			if err := validation.ValidateUsername(name); err != nil {
				return nil, fmt.Errorf("users: %w", err)
			}
			cfg.Users = append(cfg.Users, name)
		}
	}

	return cfg, nil
}

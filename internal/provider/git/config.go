// Package git provides the git provider: identity and aliases merged into
// the account's ~/.gitconfig without disturbing unrelated sections.
package git

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// Config represents the git section of the manifest.
type Config struct {
	UserName  string
	UserEmail string
	Aliases   map[string]string
}

// IsEmpty reports whether there is nothing to merge.
func (c *Config) IsEmpty() bool {
	return c.UserName == "" && c.UserEmail == "" && len(c.Aliases) == 0
}

// ParseConfig parses the git configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{Aliases: make(map[string]string)}

	if v, ok := raw["user"]; ok {
		userMap, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("user must be a map")
		}
		if name, ok := userMap["name"].(string); ok {
			if err := validation.ValidateGitConfigValue(name); err != nil {
				return nil, fmt.Errorf("user.name: %w", err)
			}
			cfg.UserName = name
		}
		if email, ok := userMap["email"].(string); ok {
			if err := validation.ValidateGitConfigValue(email); err != nil {
				return nil, fmt.Errorf("user.email: %w", err)
			}
			cfg.UserEmail = email
		}
	}

	if v, ok := raw["aliases"]; ok {
		aliasMap, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("aliases must be a map")
		}
		for name, value := range aliasMap {
			cmd, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("alias %s must be a string", name)
			}
			if err := validation.ValidateAliasName(name); err != nil {
				return nil, fmt.Errorf("aliases: %w", err)
			}
			if err := validation.ValidateGitConfigValue(cmd); err != nil {
				return nil, fmt.Errorf("alias %s: %w", name, err)
			}
			cfg.Aliases[name] = cmd
		}
	}

	return cfg, nil
}

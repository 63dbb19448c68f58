// Package shell provides the shell provider: environment variables and
// aliases kept in marker-guarded blocks of the startup file, so manual
// edits around them survive every run.
package shell

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultStartupFile receives the managed blocks unless the manifest
// names another file.
const DefaultStartupFile = "~/.bashrc"

// Config represents the shell section of the manifest.
type Config struct {
	StartupFile string            `yaml:"startup_file,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Aliases     map[string]string `yaml:"aliases,omitempty"`
}

// ParseConfig parses a raw map into a shell Config.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	// Round-trip through YAML so nested values land in typed fields.
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.StartupFile == "" {
		cfg.StartupFile = DefaultStartupFile
	}
	if err := validation.ValidatePath(cfg.StartupFile); err != nil {
		return nil, fmt.Errorf("startup_file: %w", err)
	}

	for name, value := range cfg.Env {
		if err := validation.ValidateEnvName(name); err != nil {
			return nil, fmt.Errorf("env: %w", err)
		}
		if err := validation.ValidateEnvValue(value); err != nil {
			return nil, fmt.Errorf("env %s: %w", name, err)
		}
	}

	for name, value := range cfg.Aliases {
		if err := validation.ValidateAliasName(name); err != nil {
			return nil, fmt.Errorf("aliases: %w", err)
		}
		if err := validation.ValidateEnvValue(value); err != nil {
			return nil, fmt.Errorf("alias %s: %w", name, err)
		}
	}

	return &cfg, nil
}

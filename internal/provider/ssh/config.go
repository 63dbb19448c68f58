// Package ssh provides the ssh provider: private key ingestion from the
// operator and ~/.ssh/config generation for the provisioned account.
package ssh

import (
	"fmt"

	"github.com/felixgeelhaar/groundwork/internal/validation"
)

// DefaultIdentityFile is where imported key material lands when the
// manifest does not name a destination.
const DefaultIdentityFile = "~/.ssh/id_ed25519"

// Config represents the ssh section of the manifest.
type Config struct {
	IdentityFile string       // destination for imported key material
	ImportKey    bool         // whether the key ingestion step runs
	Hosts        []HostConfig // Host blocks for ~/.ssh/config
}

// HostConfig represents one Host block in ~/.ssh/config.
type HostConfig struct {
	Host         string   // primary name the block matches
	Aliases      []string // short names listed on the same Host line
	HostName     string
	User         string
	Port         int
	IdentityFile string // per-host override; empty uses Config.IdentityFile
	ForwardAgent bool
}

// ParseConfig parses the ssh configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		IdentityFile: DefaultIdentityFile,
		ImportKey:    true,
	}

	if v, ok := raw["identity_file"]; ok {
		path, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("identity_file must be a string")
		}
		if err := validation.ValidatePath(path); err != nil {
			return nil, fmt.Errorf("identity_file: %w", err)
		}
		cfg.IdentityFile = path
	}

	if v, ok := raw["import_key"]; ok {
		enabled, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("import_key must be a boolean")
		}
		cfg.ImportKey = enabled
	}

	if v, ok := raw["hosts"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("hosts must be a list")
		}
		for i, item := range list {
			hostMap, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid host entry at index %d", i)
			}
			host, err := parseHost(hostMap)
			if err != nil {
				return nil, fmt.Errorf("hosts[%d]: %w", i, err)
			}
			if host.IdentityFile == "" {
				host.IdentityFile = cfg.IdentityFile
			}
			cfg.Hosts = append(cfg.Hosts, host)
		}
	}

	return cfg, nil
}

func parseHost(raw map[string]interface{}) (HostConfig, error) {
	host := HostConfig{}

	name, ok := raw["host"].(string)
	if !ok || name == "" {
		return host, fmt.Errorf("host name is required")
	}
	if err := validation.ValidateHostname(name); err != nil {
		return host, fmt.Errorf("host: %w", err)
	}
	host.Host = name

	if v, ok := raw["aliases"]; ok {
		list, ok := v.([]interface{})
		if !ok {
			return host, fmt.Errorf("aliases must be a list")
		}
		for _, item := range list {
			alias, ok := item.(string)
			if !ok {
				return host, fmt.Errorf("aliases entries must be strings")
			}
			if err := validation.ValidateHostname(alias); err != nil {
				return host, fmt.Errorf("alias: %w", err)
			}
			host.Aliases = append(host.Aliases, alias)
		}
	}

	if v, ok := raw["hostname"].(string); ok {
		if err := validation.ValidateHostname(v); err != nil {
			return host, fmt.Errorf("hostname: %w", err)
		}
		host.HostName = v
	}

	if v, ok := raw["user"].(string); ok {
		if err := validation.ValidateUsername(v); err != nil {
			return host, fmt.Errorf("user: %w", err)
		}
		host.User = v
	}

	if v, ok := raw["port"].(int); ok {
		if v < 1 || v > 65535 {
			return host, fmt.Errorf("port %d out of range", v)
		}
		host.Port = v
	}

	if v, ok := raw["identity_file"].(string); ok {
		if err := validation.ValidatePath(v); err != nil {
			return host, fmt.Errorf("identity_file: %w", err)
		}
		if err := validation.ValidateSSHParameter(v); err != nil {
			return host, fmt.Errorf("identity_file: %w", err)
		}
		host.IdentityFile = v
	}

	if v, ok := raw["forward_agent"].(bool); ok {
		host.ForwardAgent = v
	}

	return host, nil
}

// Package node provides the node provider: Node.js installation from
// the NodeSource apt repository, with a minimum-major-version gate so
// a stale distro package does not count as satisfied.
package node

import (
	"fmt"
	"regexp"
)

const (
	// DefaultChannel is the NodeSource release channel installed when
	// the manifest does not pin one.
	DefaultChannel = "22"

	// DefaultMinMajor is the lowest major version that counts as an
	// acceptable preexisting installation.
	DefaultMinMajor = 20
)

// channelRegex matches NodeSource setup script channels: a major
// version number, "lts", or "current".
var channelRegex = regexp.MustCompile(`^([0-9]{1,3}|lts|current)$`)

// Config represents the node section of the manifest.
type Config struct {
	Channel  string // NodeSource channel: "22", "lts", "current"
	MinMajor int    // existing installs older than this are replaced
}

// ParseConfig parses the node configuration from a raw map.
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Channel:  DefaultChannel,
		MinMajor: DefaultMinMajor,
	}

	if channel, ok := raw["channel"]; ok {
		var channelStr string
		switch v := channel.(type) {
		case string:
			channelStr = v
		case int:
			// YAML reads an unquoted major version as a number.
			channelStr = fmt.Sprintf("%d", v)
		default:
			return nil, fmt.Errorf("channel must be a string or number")
		}
		if !channelRegex.MatchString(channelStr) {
			return nil, fmt.Errorf("channel must be a major version number, %q, or %q", "lts", "current")
		}
		cfg.Channel = channelStr
	}

	if minMajor, ok := raw["min_major"]; ok {
		minMajorInt, ok := minMajor.(int)
		if !ok {
			return nil, fmt.Errorf("min_major must be an integer")
		}
		if minMajorInt < 0 {
			return nil, fmt.Errorf("min_major must not be negative")
		}
		cfg.MinMajor = minMajorInt
	}

	return cfg, nil
}

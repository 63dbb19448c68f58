package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Loader loads manifests through the filesystem port.
type Loader struct {
	fs ports.FileSystem
}

// NewLoader creates a new Loader.
func NewLoader(fs ports.FileSystem) *Loader {
	return &Loader{fs: fs}
}

// UserConfigPath returns the per-user manifest location under home.
func UserConfigPath(home string) string {
	return filepath.Join(home, ".config", "groundwork", FileName)
}

// Candidates returns the paths searched when no explicit --config path
// is given: the working directory first, then the user config directory.
func Candidates(home string) []string {
	return []string{
		FileName,
		UserConfigPath(home),
	}
}

// Load reads and parses the manifest at path.
func (l *Loader) Load(path string) (*Manifest, error) {
	if !l.fs.Exists(path) {
		return nil, NewConfigNotFoundError(path)
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		if strings.Contains(err.Error(), "yaml:") || strings.Contains(err.Error(), "unmarshal") {
			return nil, NewYAMLParseError(path, err)
		}
		if ue := GetUserError(err); ue != nil && ue.Context != "" {
			return nil, ue.WithContext(fmt.Sprintf("%s: %s", path, ue.Context))
		}
		return nil, err
	}

	manifest.SetProvenance(path)
	return manifest, nil
}

// Save validates and writes manifest bytes to path, creating parent
// directories as needed. An existing manifest is not overwritten
// unless force is set.
func (l *Loader) Save(path string, data []byte, force bool) error {
	if !force && l.fs.Exists(path) {
		return NewConfigExistsError(path)
	}

	if _, err := ParseManifest(data); err != nil {
		return fmt.Errorf("refusing to write invalid manifest: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := l.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Discover returns the first existing manifest from the candidate
// paths for the given home directory.
func (l *Loader) Discover(home string) (string, error) {
	for _, candidate := range Candidates(home) {
		if l.fs.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", NewConfigNotFoundError(strings.Join(Candidates(home), ", "))
}

// Resolve loads the manifest at path when one is given, otherwise
// discovers and loads the default manifest for home.
func (l *Loader) Resolve(path, home string) (*Manifest, error) {
	if path != "" {
		return l.Load(path)
	}

	discovered, err := l.Discover(home)
	if err != nil {
		return nil, err
	}
	return l.Load(discovered)
}

package ssh

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	cryptossh "golang.org/x/crypto/ssh"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// stagingName is the temporary file key material passes through before it
// reaches its final path. It lives next to the destination so the final
// rename stays on one filesystem.
const stagingName = ".key.staging"

// KeyStep imports a private key supplied interactively by the operator.
type KeyStep struct {
	keyPath string
	id      sequence.StepID
	input   ports.Input
	fs      ports.FileSystem
}

// NewKeyStep creates a new KeyStep writing to the resolved keyPath.
func NewKeyStep(keyPath string, input ports.Input, fs ports.FileSystem) *KeyStep {
	return &KeyStep{
		keyPath: keyPath,
		id:      sequence.MustNewStepID("ssh:key"),
		input:   input,
		fs:      fs,
	}
}

// ID returns the step identifier.
func (s *KeyStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *KeyStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy. A key the operator chose not
// to supply must never abort provisioning.
func (s *KeyStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check reports whether a key already exists at the destination.
func (s *KeyStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if s.fs.Exists(s.keyPath) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply captures key material and installs it at the destination with
// owner-only permissions. Empty input skips the step. The material passes
// through a staging file that is removed no matter how apply ends.
func (s *KeyStep) Apply(ctx sequence.RunContext) error {
	// "EOF" mirrors the console adapter's terminator line.
	prompt := fmt.Sprintf("Paste the private key for %s, end with %q on its own line (leave empty to skip):", s.keyPath, "EOF")
	material, err := s.input.ReadSecret(ctx.Context(), prompt)
	if err != nil {
		return fmt.Errorf("reading key material: %w", err)
	}

	if len(bytes.TrimSpace(material)) == 0 {
		return fmt.Errorf("%w: no key provided", sequence.ErrSkipStep)
	}

	dir := filepath.Dir(s.keyPath)
	if !s.fs.Exists(dir) {
		if err := s.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	staging := filepath.Join(dir, stagingName)
	if err := s.fs.WriteFile(staging, material, 0600); err != nil {
		return fmt.Errorf("writing staging file: %w", err)
	}
	defer func() {
		if s.fs.Exists(staging) {
			_ = s.fs.Remove(staging)
		}
	}()

	if _, err := cryptossh.ParsePrivateKey(material); err != nil {
		// Passphrase-protected keys parse far enough to be recognized;
		// they are valid material even though we cannot decrypt them.
		var passErr *cryptossh.PassphraseMissingError
		if !errors.As(err, &passErr) {
			return fmt.Errorf("input is not a valid private key: %w", err)
		}
	}

	if err := s.fs.Rename(staging, s.keyPath); err != nil {
		return fmt.Errorf("installing key: %w", err)
	}
	if err := s.fs.Chmod(s.keyPath, 0600); err != nil {
		return fmt.Errorf("restricting key permissions: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *KeyStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Import SSH private key",
		fmt.Sprintf("Prompts for private key material and installs it at %s with mode 0600. Empty input skips the step.", s.keyPath),
	)
}

// ConfigStep generates the account's ~/.ssh/config file.
type ConfigStep struct {
	cfg        *Config
	configPath string
	id         sequence.StepID
	fs         ports.FileSystem
}

// NewConfigStep creates a new ConfigStep writing to the resolved configPath.
func NewConfigStep(cfg *Config, configPath string, fs ports.FileSystem) *ConfigStep {
	return &ConfigStep{
		cfg:        cfg,
		configPath: configPath,
		id:         sequence.MustNewStepID("ssh:config"),
		fs:         fs,
	}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() sequence.StepID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []sequence.StepID {
	return nil
}

// FailurePolicy returns the failure policy.
func (s *ConfigStep) FailurePolicy() sequence.FailurePolicy {
	return sequence.PolicyWarnAndContinue
}

// Check compares the existing config against the rendered content.
func (s *ConfigStep) Check(_ sequence.RunContext) (sequence.StepStatus, error) {
	if !s.fs.Exists(s.configPath) {
		return sequence.StatusNeedsApply, nil
	}

	existing, err := s.fs.ReadFile(s.configPath)
	if err != nil {
		return sequence.StatusUnknown, err
	}
	if bytes.Equal(existing, s.render()) {
		return sequence.StatusSatisfied, nil
	}
	return sequence.StatusNeedsApply, nil
}

// Apply writes the rendered config. The containing directory is created
// 0700 and the file is chmodded 0600 after the write, so the permission
// guarantee holds regardless of umask.
func (s *ConfigStep) Apply(_ sequence.RunContext) error {
	dir := filepath.Dir(s.configPath)
	if !s.fs.Exists(dir) {
		if err := s.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := s.fs.WriteFile(s.configPath, s.render(), 0600); err != nil {
		return fmt.Errorf("writing ssh config: %w", err)
	}
	if err := s.fs.Chmod(s.configPath, 0600); err != nil {
		return fmt.Errorf("restricting ssh config permissions: %w", err)
	}
	return nil
}

// Explain provides a human-readable explanation.
func (s *ConfigStep) Explain(_ sequence.ExplainContext) sequence.Explanation {
	return sequence.NewExplanation(
		"Generate SSH client config",
		fmt.Sprintf("Writes %d host block(s) to %s with mode 0600.", len(s.cfg.Hosts), s.configPath),
	)
}

// render produces the ~/.ssh/config content: one Host block per configured
// host, aliases on the Host line, options indented below.
func (s *ConfigStep) render() []byte {
	var buf bytes.Buffer

	for i, host := range s.cfg.Hosts {
		if i > 0 {
			buf.WriteString("\n")
		}

		buf.WriteString("Host " + host.Host)
		for _, alias := range host.Aliases {
			buf.WriteString(" " + alias)
		}
		buf.WriteString("\n")

		if host.HostName != "" {
			fmt.Fprintf(&buf, "    HostName %s\n", host.HostName)
		}
		if host.User != "" {
			fmt.Fprintf(&buf, "    User %s\n", host.User)
		}
		if host.Port > 0 {
			fmt.Fprintf(&buf, "    Port %d\n", host.Port)
		}
		if host.IdentityFile != "" {
			fmt.Fprintf(&buf, "    IdentityFile %s\n", host.IdentityFile)
		}
		if host.ForwardAgent {
			buf.WriteString("    ForwardAgent yes\n")
		}
	}

	return buf.Bytes()
}

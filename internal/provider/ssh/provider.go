package ssh

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles ssh configuration into executable steps.
type Provider struct {
	input ports.Input
	fs    ports.FileSystem
}

// NewProvider creates a new ssh Provider.
func NewProvider(input ports.Input, fs ports.FileSystem) *Provider {
	return &Provider{input: input, fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "ssh"
}

// Compile transforms ssh configuration into executable steps. Paths are
// resolved against the provisioned account's home directory here, so the
// steps themselves never consult process globals.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("ssh")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	env := ctx.Environment()
	steps := make([]sequence.Step, 0, 2)

	if cfg.ImportKey {
		keyPath := ports.ExpandHome(env.Home, cfg.IdentityFile)
		steps = append(steps, NewKeyStep(keyPath, p.input, p.fs))
	}

	if len(cfg.Hosts) > 0 {
		configPath := ports.ExpandHome(env.Home, "~/.ssh/config")
		steps = append(steps, NewConfigStep(cfg, configPath, p.fs))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

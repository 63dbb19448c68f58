package motd

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles motd configuration into executable steps.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new motd Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "motd"
}

// Compile transforms motd configuration into executable steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("motd")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]sequence.Step, 0, 1+len(cfg.Disable))
	steps = append(steps, NewScriptStep(cfg.Banner, p.fs))
	for _, name := range cfg.Disable {
		steps = append(steps, NewDisableStep(name, p.fs))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

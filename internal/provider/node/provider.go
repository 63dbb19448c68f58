package node

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles node configuration into executable steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new node Provider.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "node"
}

// Compile transforms node configuration into executable steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("node")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	return []sequence.Step{
		NewInstallStep(cfg.Channel, cfg.MinMajor, p.runner),
	}, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

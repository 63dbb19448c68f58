package git

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles git configuration into executable steps.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new git Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "git"
}

// Compile transforms git configuration into executable steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("git")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}
	if cfg.IsEmpty() {
		return nil, nil
	}

	configPath := ports.ExpandHome(ctx.Environment().Home, "~/.gitconfig")
	return []sequence.Step{NewConfigStep(cfg, configPath, p.fs)}, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

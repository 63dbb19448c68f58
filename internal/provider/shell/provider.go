package shell

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles shell configuration into executable steps.
type Provider struct {
	fs ports.FileSystem
}

// NewProvider creates a new shell Provider.
func NewProvider(fs ports.FileSystem) *Provider {
	return &Provider{fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "shell"
}

// Compile transforms shell configuration into executable steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("shell")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	startupFile := ports.ExpandHome(ctx.Environment().Home, cfg.StartupFile)

	steps := make([]sequence.Step, 0, 2)
	if len(cfg.Env) > 0 {
		steps = append(steps, NewEnvStep(startupFile, cfg.Env, p.fs))
	}
	if len(cfg.Aliases) > 0 {
		steps = append(steps, NewAliasStep(startupFile, cfg.Aliases, p.fs))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

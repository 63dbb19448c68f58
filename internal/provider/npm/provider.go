package npm

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles npm configuration into executable steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new npm Provider.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "npm"
}

// Compile transforms npm configuration into executable steps. When the
// manifest also provisions Node.js, every package step depends on
// node:install so a failed runtime installation skips them instead of
// producing install errors.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("npm")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	var deps []sequence.StepID
	if ctx.HasSection("node") {
		deps = []sequence.StepID{sequence.MustNewStepID("node:install")}
	}

	steps := make([]sequence.Step, 0, len(cfg.Packages))
	for _, spec := range cfg.Packages {
		steps = append(steps, NewPackageStep(spec, p.runner).WithDependsOn(deps...))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

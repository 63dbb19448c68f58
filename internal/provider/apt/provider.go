package apt

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles apt configuration into executable steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProvider creates a new apt Provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{runner: runner, fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "apt"
}

// Compile transforms apt configuration into executable steps: an index
// refresh first, then the core packages (fatal), then the optional
// packages (warn-and-continue).
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("apt")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]sequence.Step, 0, 1+len(cfg.Packages)+len(cfg.Optional))

	var updateID []sequence.StepID
	if cfg.Update {
		update := NewUpdateStep(p.runner, p.fs)
		steps = append(steps, update)
		updateID = []sequence.StepID{update.ID()}
	}

	for _, pkg := range cfg.Packages {
		step := NewPackageStep(pkg, sequence.PolicyFatal, p.runner).WithDependsOn(updateID...)
		steps = append(steps, step)
	}

	for _, pkg := range cfg.Optional {
		step := NewPackageStep(pkg, sequence.PolicyWarnAndContinue, p.runner).WithDependsOn(updateID...)
		steps = append(steps, step)
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

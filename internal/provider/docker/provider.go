package docker

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles docker configuration into executable steps.
type Provider struct {
	runner ports.CommandRunner
}

// NewProvider creates a new docker Provider.
func NewProvider(runner ports.CommandRunner) *Provider {
	return &Provider{runner: runner}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "docker"
}

// Compile transforms docker configuration into executable steps.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("docker")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	steps := make([]sequence.Step, 0, 1+len(cfg.Users))

	var installID []sequence.StepID
	if cfg.Install {
		install := NewInstallStep(cfg.InstallerURL, p.runner)
		steps = append(steps, install)
		installID = []sequence.StepID{install.ID()}
	}

	for _, user := range cfg.Users {
		steps = append(steps, NewGroupStep(user, p.runner).WithDependsOn(installID...))
	}

	return steps, nil
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

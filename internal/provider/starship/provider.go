package starship

import (
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Provider compiles starship configuration into executable steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProvider creates a new starship Provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem) *Provider {
	return &Provider{runner: runner, fs: fs}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "starship"
}

// Compile transforms starship configuration into executable steps. The
// startup file comes from the shell section when one is configured, so
// both providers write the same file.
func (p *Provider) Compile(ctx sequence.CompileContext) ([]sequence.Step, error) {
	rawConfig := ctx.GetSection("starship")
	if rawConfig == nil {
		return nil, nil
	}

	cfg, err := ParseConfig(rawConfig)
	if err != nil {
		return nil, err
	}

	env := ctx.Environment()
	install := NewInstallStep(p.runner)
	installID := install.ID()

	configPath := ports.ExpandHome(env.Home, "~/.config/starship.toml")
	startupFile := ports.ExpandHome(env.Home, startupFileFromShellSection(ctx))

	return []sequence.Step{
		install,
		NewConfigStep(cfg.Settings, configPath, p.fs).WithDependsOn(installID),
		NewShellInitStep(startupFile, p.fs).WithDependsOn(installID),
	}, nil
}

// startupFileFromShellSection returns the shell section's startup_file, or
// the bash default when the section is absent or silent.
func startupFileFromShellSection(ctx sequence.CompileContext) string {
	shell := ctx.GetSection("shell")
	if shell == nil {
		return DefaultStartupFile
	}
	if v, ok := shell["startup_file"].(string); ok && v != "" {
		return v
	}
	return DefaultStartupFile
}

// Ensure Provider implements sequence.Provider.
var _ sequence.Provider = (*Provider)(nil)

// Package app wires the groundwork application together: adapters,
// providers, manifest loading, compilation, and execution.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/groundwork/internal/adapters/command"
	"github.com/felixgeelhaar/groundwork/internal/adapters/console"
	"github.com/felixgeelhaar/groundwork/internal/adapters/filesystem"
	"github.com/felixgeelhaar/groundwork/internal/adapters/logging"
	"github.com/felixgeelhaar/groundwork/internal/adapters/probe"
	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
	"github.com/felixgeelhaar/groundwork/internal/domain/run"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/ports"
	"github.com/felixgeelhaar/groundwork/internal/provider/apt"
	"github.com/felixgeelhaar/groundwork/internal/provider/docker"
	"github.com/felixgeelhaar/groundwork/internal/provider/git"
	"github.com/felixgeelhaar/groundwork/internal/provider/motd"
	"github.com/felixgeelhaar/groundwork/internal/provider/node"
	"github.com/felixgeelhaar/groundwork/internal/provider/npm"
	"github.com/felixgeelhaar/groundwork/internal/provider/shell"
	"github.com/felixgeelhaar/groundwork/internal/provider/ssh"
	"github.com/felixgeelhaar/groundwork/internal/provider/starship"
)

// App is the main application orchestrator.
type App struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	probe  ports.CapabilityProbe
	input  ports.Input
	logger ports.Logger
	out    io.Writer
	env    sequence.Environment

	compiler *sequence.Compiler
	loader   *config.Loader
	printer  *Printer
}

// Option configures an App.
type Option func(*App)

// WithRunner sets the command runner.
func WithRunner(runner ports.CommandRunner) Option {
	return func(a *App) { a.runner = runner }
}

// WithFileSystem sets the filesystem.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(a *App) { a.fs = fs }
}

// WithProbe sets the capability probe.
func WithProbe(p ports.CapabilityProbe) Option {
	return func(a *App) { a.probe = p }
}

// WithInput sets the interactive input source.
func WithInput(input ports.Input) Option {
	return func(a *App) { a.input = input }
}

// WithLogger sets the logger.
func WithLogger(logger ports.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithOutput sets the writer for human-readable output.
func WithOutput(out io.Writer) Option {
	return func(a *App) { a.out = out }
}

// WithEnvironment sets the host environment, bypassing detection.
func WithEnvironment(env sequence.Environment) Option {
	return func(a *App) { a.env = env }
}

// New creates the application with real adapters; options replace them.
func New(opts ...Option) *App {
	a := &App{
		runner: command.NewRealRunner(),
		fs:     filesystem.NewRealFileSystem(),
		probe:  probe.NewPathProbe(),
		input:  console.NewStdinInput(),
		logger: logging.NewNopLogger(),
		out:    os.Stdout,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.loader = config.NewLoader(a.fs)
	a.printer = NewPrinter(a.out)
	a.compiler = sequence.NewCompiler()
	a.registerProviders()

	return a
}

// registerProviders wires every provider this build ships. The
// manifest's sequence decides which of them contribute steps, and in
// what order.
func (a *App) registerProviders() {
	a.compiler.RegisterProvider(apt.NewProvider(a.runner, a.fs))
	a.compiler.RegisterProvider(docker.NewProvider(a.runner))
	a.compiler.RegisterProvider(node.NewProvider(a.runner))
	a.compiler.RegisterProvider(npm.NewProvider(a.runner))
	a.compiler.RegisterProvider(ssh.NewProvider(a.input, a.fs))
	a.compiler.RegisterProvider(motd.NewProvider(a.fs))
	a.compiler.RegisterProvider(starship.NewProvider(a.runner, a.fs))
	a.compiler.RegisterProvider(shell.NewProvider(a.fs))
	a.compiler.RegisterProvider(git.NewProvider(a.fs))
}

// Plan loads the manifest, compiles it, and checks every step without
// changing the host.
func (a *App) Plan(ctx context.Context, configPath string) (*run.Plan, error) {
	seq, manifest, err := a.compile(ctx, configPath)
	if err != nil {
		return nil, err
	}

	a.logger.Debug(ctx, "sequence compiled",
		ports.F("manifest", manifest.Path()),
		ports.F("steps", seq.Len()))

	plan, err := run.NewPlanner(a.probe).Plan(ctx, seq)
	if err != nil {
		return nil, err
	}

	a.printer.Plan(plan)
	return plan, nil
}

// Up converges the host onto the manifest. With dryRun set it reports
// what would change without applying anything.
func (a *App) Up(ctx context.Context, configPath string, dryRun bool) (*run.Result, error) {
	seq, manifest, err := a.compile(ctx, configPath)
	if err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "run starting",
		ports.F("manifest", manifest.Path()),
		ports.F("steps", seq.Len()),
		ports.F("dry_run", dryRun))

	a.printer.RunHeader(seq.Len(), dryRun)

	executor := run.NewExecutor(a.probe).
		WithDryRun(dryRun).
		WithProgress(a.printer.StepResult)

	result, err := executor.Execute(ctx, seq)
	if err != nil {
		return nil, err
	}

	a.logger.Info(ctx, "run finished",
		ports.F("run_id", result.ID()),
		ports.F("outcome", result.Outcome().String()),
		ports.F("warnings", result.Summary().Warnings))

	a.printer.RunSummary(result, dryRun)
	return result, nil
}

// SaveManifest writes manifest data to path. It refuses to overwrite an
// existing file unless force is set, and never writes data that does
// not parse as a manifest.
func (a *App) SaveManifest(path string, data []byte, force bool) error {
	return a.loader.Save(path, data, force)
}

// compile loads the manifest and compiles the provider sections into a
// validated sequence.
func (a *App) compile(ctx context.Context, configPath string) (*sequence.Sequence, *config.Manifest, error) {
	env, err := a.environment()
	if err != nil {
		return nil, nil, err
	}

	manifest, err := a.loader.Resolve(configPath, env.Home)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Debug(ctx, "manifest loaded",
		ports.F("path", manifest.Path()),
		ports.F("providers", len(manifest.SectionNames())))

	compileCtx := sequence.NewCompileContext(manifest.Config()).WithEnvironment(env)
	seq, err := a.compiler.Compile(compileCtx, manifest.ResolvedSequence())
	if err != nil {
		return nil, nil, fmt.Errorf("compiling sequence: %w", err)
	}

	return seq, manifest, nil
}

// environment returns the configured environment, detecting it when
// none was injected.
func (a *App) environment() (sequence.Environment, error) {
	if !a.env.IsZero() {
		return a.env, nil
	}
	return platform.ResolveEnvironment()
}

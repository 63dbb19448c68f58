package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/groundwork/internal/config"
	"github.com/felixgeelhaar/groundwork/internal/domain/platform"
	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
	"github.com/felixgeelhaar/groundwork/internal/provider/motd"
)

// CheckStatus is the outcome of a single doctor check.
type CheckStatus string

const (
	// CheckOK means the check passed.
	CheckOK CheckStatus = "ok"
	// CheckWarning means the host works but a step will skip or degrade.
	CheckWarning CheckStatus = "warning"
	// CheckMissing means something the run depends on is absent.
	CheckMissing CheckStatus = "missing"
)

// DoctorCheck is one host readiness finding.
type DoctorCheck struct {
	Name     string
	Status   CheckStatus
	Detail   string
	Required bool // a missing required check makes the host not ready
}

// DoctorReport aggregates readiness findings for a host.
type DoctorReport struct {
	Checks []DoctorCheck
}

func (r *DoctorReport) add(check DoctorCheck) {
	r.Checks = append(r.Checks, check)
}

// Ready returns true when no required check is missing. Warnings do
// not block a run; the affected steps skip themselves.
func (r *DoctorReport) Ready() bool {
	for _, check := range r.Checks {
		if check.Required && check.Status == CheckMissing {
			return false
		}
	}
	return true
}

// versionArgs maps tools to the flag that prints their version.
var versionArgs = map[string]string{
	"git":      "--version",
	"docker":   "--version",
	"node":     "--version",
	"npm":      "--version",
	"starship": "--version",
}

// Doctor inspects the host and reports whether groundwork up can run:
// platform and privileges, the manifest, and the commands the
// configured providers call.
func (a *App) Doctor(ctx context.Context, configPath string) (*DoctorReport, error) {
	report := &DoctorReport{}

	env, err := a.environment()
	if err != nil {
		return nil, err
	}

	plat := platform.Detect()
	report.add(a.checkPlatform(plat))
	report.add(a.checkElevation(env))

	manifest, manifestCheck := a.checkManifest(configPath, env)
	report.add(manifestCheck)

	for _, name := range a.toolsFor(manifest) {
		report.add(a.checkTool(ctx, name))
	}

	a.printer.Doctor(report)
	return report, nil
}

// checkPlatform verifies the host is something groundwork can provision.
func (a *App) checkPlatform(plat *platform.Platform) DoctorCheck {
	check := DoctorCheck{Name: "platform"}

	switch {
	case !plat.IsLinux():
		check.Status = CheckWarning
		check.Detail = fmt.Sprintf("%s/%s: groundwork provisions Linux servers", plat.OS(), plat.Arch())
	case !plat.IsAptBased():
		check.Status = CheckWarning
		check.Detail = fmt.Sprintf("distribution %q does not use apt; package steps will be skipped", plat.Distro())
	default:
		check.Status = CheckOK
		check.Detail = fmt.Sprintf("%s (%s)", plat.Distro(), plat.Arch())
		if plat.InContainer() {
			check.Detail += ", containerized"
		}
	}
	return check
}

// checkElevation verifies root privileges for the package steps.
func (a *App) checkElevation(env sequence.Environment) DoctorCheck {
	check := DoctorCheck{Name: "privileges"}

	if env.Elevated {
		check.Status = CheckOK
		check.Detail = fmt.Sprintf("running as root, provisioning %s", env.User)
	} else {
		check.Status = CheckWarning
		check.Detail = "not running as root; package steps will fail, run with sudo"
	}
	return check
}

// checkManifest loads and compiles the manifest. A host without a
// manifest is still usable (run groundwork init first), but a manifest
// that fails to compile blocks the run.
func (a *App) checkManifest(configPath string, env sequence.Environment) (*config.Manifest, DoctorCheck) {
	check := DoctorCheck{Name: "manifest", Required: true}

	manifest, err := a.loader.Resolve(configPath, env.Home)
	if err != nil {
		if config.IsUserError(err, config.ErrCodeConfigNotFound) {
			check.Required = false
			check.Status = CheckWarning
			check.Detail = "no manifest found; run groundwork init to create one"
			return nil, check
		}
		check.Status = CheckMissing
		check.Detail = err.Error()
		return nil, check
	}

	compileCtx := sequence.NewCompileContext(manifest.Config()).WithEnvironment(env)
	seq, err := a.compiler.Compile(compileCtx, manifest.ResolvedSequence())
	if err != nil {
		check.Status = CheckMissing
		check.Detail = err.Error()
		return manifest, check
	}

	check.Status = CheckOK
	check.Detail = fmt.Sprintf("%s compiles to %d steps", manifest.Path(), seq.Len())
	return manifest, check
}

// toolsFor lists the commands worth probing for the given manifest:
// the bootstrap pair always, then one command per configured section.
// Without a manifest every tool is probed.
func (a *App) toolsFor(manifest *config.Manifest) []string {
	tools := []string{"apt-get", "curl"}

	sectionTools := [][2]string{
		{"docker", "docker"},
		{"node", "node"},
		{"npm", "npm"},
		{"starship", "starship"},
		{"git", "git"},
	}
	for _, pair := range sectionTools {
		if manifest == nil || manifest.HasSection(pair[0]) {
			tools = append(tools, pair[1])
		}
	}

	if manifest == nil || manifest.HasSection("motd") {
		tools = append(tools, a.bannerCommand(manifest))
	}

	return tools
}

// bannerCommand resolves the MOTD banner command from the manifest.
func (a *App) bannerCommand(manifest *config.Manifest) string {
	if manifest == nil {
		return motd.DefaultBanner
	}
	section, _ := manifest.Section("motd")
	cfg, err := motd.ParseConfig(section)
	if err != nil {
		return motd.DefaultBanner
	}
	return cfg.Banner
}

// checkTool probes for a command and, when present, asks it for its
// version. Absent tools are warnings except apt-get, which the
// bootstrap steps cannot do without.
func (a *App) checkTool(ctx context.Context, name string) DoctorCheck {
	check := DoctorCheck{Name: name, Required: name == "apt-get"}

	if !a.probe.Has(name) {
		if check.Required {
			check.Status = CheckMissing
			check.Detail = "not found; groundwork provisions apt-based hosts"
		} else {
			check.Status = CheckWarning
			check.Detail = "not found; dependent steps will be skipped or will install it"
		}
		return check
	}

	check.Status = CheckOK
	if flag, ok := versionArgs[name]; ok {
		if result, err := a.runner.Run(ctx, name, flag); err == nil && result.Success() {
			check.Detail = firstLine(result.TrimmedStdout())
		}
	}
	return check
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

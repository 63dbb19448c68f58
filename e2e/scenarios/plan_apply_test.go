//go:build e2e

package scenarios

import (
	"testing"

	"github.com/felixgeelhaar/groundwork/e2e/framework"
)

// fileOnlyManifest converges nothing but files under the simulated
// home directory, so the binary can run end to end on any host. The
// probe-gated providers are left out of the sequence entirely.
const fileOnlyManifest = `version: 1
sequence:
  - ssh
  - shell
  - git

ssh:
  import_key: false
  hosts:
    - host: forge
      aliases:
        - f
      hostname: forge.example.com
      user: dev
      port: 2222
      forward_agent: true

shell:
  startup_file: ~/.bashrc
  env:
    EDITOR: vim
  aliases:
    ll: ls -alF

git:
  user:
    name: Dev Example
    email: dev@example.com
  aliases:
    st: status
`

func TestVersion_ShowsVersion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("the groundwork binary is built", func(env *framework.Environment) {
			// Binary is automatically built by NewEnvironment
		}).
		When("I run groundwork version", func(r *framework.Runner) *framework.Result {
			return r.Version()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the output shows version information", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "groundwork")
		})
}

func TestPlan_ReportsPendingChanges(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a manifest for an unprovisioned home", func(env *framework.Environment) {
			env.WriteConfig(fileOnlyManifest)
		}).
		When("I run groundwork plan", func(r *framework.Runner) *framework.Result {
			return r.Plan()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("every file step is pending", func(t *testing.T, r *framework.Result) {
			framework.AssertOutputMatches(t, r, "ssh:config", "shell:env", "shell:aliases", "git:config")
			framework.AssertStdoutContains(t, r, "groundwork up")
		}).
		And("planning changed nothing", func(t *testing.T, r *framework.Result) {
			framework.AssertFileNotExists(t, scenario.Environment(), "home/.ssh/config")
			framework.AssertFileNotExists(t, scenario.Environment(), "home/.bashrc")
		})
}

func TestUp_ConvergesHomeArtifacts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a manifest for an unprovisioned home", func(env *framework.Environment) {
			env.WriteConfig(fileOnlyManifest)
		}).
		When("I run groundwork up", func(r *framework.Runner) *framework.Result {
			return r.Up()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the ssh config holds the host block, owner-only", func(t *testing.T, r *framework.Result) {
			env := scenario.Environment()
			framework.AssertFileContains(t, env, "home/.ssh/config", "Host forge f")
			framework.AssertFileContains(t, env, "home/.ssh/config", "HostName forge.example.com")
			framework.AssertFileContains(t, env, "home/.ssh/config", "ForwardAgent yes")
			framework.AssertFileMode(t, env, "home/.ssh/config", 0o600)
		}).
		And("the startup file carries the managed blocks", func(t *testing.T, r *framework.Result) {
			env := scenario.Environment()
			framework.AssertFileContains(t, env, "home/.bashrc", "# >>> groundwork env >>>")
			framework.AssertFileContains(t, env, "home/.bashrc", `export EDITOR="vim"`)
			framework.AssertFileContains(t, env, "home/.bashrc", "alias ll=")
		}).
		And("the git identity is merged", func(t *testing.T, r *framework.Result) {
			env := scenario.Environment()
			framework.AssertFileContains(t, env, "home/.gitconfig", "Dev Example")
			framework.AssertFileContains(t, env, "home/.gitconfig", "dev@example.com")
		})
}

func TestUp_SecondRunIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := framework.NewEnvironment(t)
	runner := framework.NewRunner(t, env)
	env.WriteConfig(fileOnlyManifest)

	first := runner.Up()
	framework.AssertSuccess(t, first)

	sshConfig := env.ReadFile("home/.ssh/config")
	bashrc := env.ReadFile("home/.bashrc")

	second := runner.Up()
	framework.AssertSuccess(t, second)
	framework.AssertStdoutContains(t, second, "satisfied")
	framework.AssertStdoutNotContains(t, second, "applied in")

	if got := env.ReadFile("home/.ssh/config"); got != sshConfig {
		t.Errorf("second run changed ~/.ssh/config:\n%s", got)
	}
	if got := env.ReadFile("home/.bashrc"); got != bashrc {
		t.Errorf("second run changed ~/.bashrc:\n%s", got)
	}
}

func TestUp_DryRunTouchesNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a manifest for an unprovisioned home", func(env *framework.Environment) {
			env.WriteConfig(fileOnlyManifest)
		}).
		When("I run groundwork up --dry-run", func(r *framework.Runner) *framework.Result {
			return r.UpDryRun()
		}).
		Then("the command succeeds", func(t *testing.T, r *framework.Result) {
			framework.AssertSuccess(t, r)
		}).
		And("the output announces the dry run", func(t *testing.T, r *framework.Result) {
			framework.AssertStdoutContains(t, r, "dry run")
			framework.AssertStdoutContains(t, r, "would apply")
		}).
		And("no artifact was written", func(t *testing.T, r *framework.Result) {
			env := scenario.Environment()
			framework.AssertFileNotExists(t, env, "home/.ssh/config")
			framework.AssertFileNotExists(t, env, "home/.bashrc")
			framework.AssertFileNotExists(t, env, "home/.gitconfig")
		})
}

func TestPlan_UnknownProviderFails(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	scenario := framework.NewScenario(t)

	scenario.
		Given("a manifest naming a provider this build does not ship", func(env *framework.Environment) {
			env.WriteConfig("version: 1\nkubernetes:\n  clusters: []\n")
		}).
		When("I run groundwork plan", func(r *framework.Runner) *framework.Result {
			return r.Plan()
		}).
		Then("the command fails before touching the host", func(t *testing.T, r *framework.Result) {
			framework.AssertFailed(t, r)
			framework.AssertStderrContains(t, r, "Error:")
		})
}

func TestInit_WritesStarterManifest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := framework.NewEnvironment(t)
	runner := framework.NewRunner(t, env)

	result := runner.InitDefaults()
	framework.AssertSuccess(t, result)
	framework.AssertFileExists(t, env, "config/groundwork.yaml")
	framework.AssertFileContains(t, env, "config/groundwork.yaml", "version: 1")
	framework.AssertFileContains(t, env, "config/groundwork.yaml", "sequence:")

	// The starter manifest must survive its own plan.
	framework.AssertSuccess(t, runner.Plan())
}

func TestDoctor_ReportsHostReadiness(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	env := framework.NewEnvironment(t)
	runner := framework.NewRunner(t, env)
	env.WriteConfig(fileOnlyManifest)

	// The sandbox PATH has no tools, so readiness itself is host
	// dependent; the report must render either way.
	result := runner.RunWithConfig(env.ConfigPath(), "doctor")
	framework.AssertStdoutContains(t, result, "Groundwork Doctor")
	framework.AssertStdoutContains(t, result, "manifest")
}

package platform

import (
	"fmt"
	"os"
	"os/user"
	"runtime"

	"github.com/felixgeelhaar/groundwork/internal/domain/sequence"
)

// ResolveEnvironment captures the host and account facts for this run.
// Under sudo the provisioned account is the invoking user, not root:
// their home receives the SSH config, shell blocks, and dotfiles.
func ResolveEnvironment() (sequence.Environment, error) {
	account, err := resolveAccount()
	if err != nil {
		return sequence.Environment{}, fmt.Errorf("resolving account: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		return sequence.Environment{}, fmt.Errorf("resolving hostname: %w", err)
	}

	return sequence.Environment{
		User:     account.Username,
		Home:     resolveHome(account),
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Elevated: os.Geteuid() == 0,
	}, nil
}

// resolveHome picks the home directory for the provisioned account. An
// explicit HOME wins over the passwd entry outside of sudo, so chroots
// and test harnesses can point the run at an isolated directory. Under
// sudo HOME belongs to root and the invoker's passwd entry is what the
// run must target.
func resolveHome(account *user.User) string {
	underSudo := os.Getenv("SUDO_USER") != "" && os.Geteuid() == 0
	if home := os.Getenv("HOME"); home != "" && !underSudo {
		return home
	}
	return account.HomeDir
}

// resolveAccount picks the account being provisioned: the sudo invoker
// when running elevated, the current user otherwise. A SUDO_USER that
// no longer resolves falls back to the current user rather than
// aborting the run.
func resolveAccount() (*user.User, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && os.Geteuid() == 0 {
		if account, err := user.Lookup(sudoUser); err == nil {
			return account, nil
		}
	}
	return user.Current()
}

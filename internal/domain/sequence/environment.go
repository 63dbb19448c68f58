package sequence

import "path/filepath"

// Environment describes the host and the account being provisioned.
// It is captured once at startup and passed to providers explicitly,
// so steps never consult process globals mid-run. When the sequencer
// runs under sudo, User and Home describe the invoking account, not
// root.
type Environment struct {
	User     string // account being provisioned
	Home     string // home directory of User
	Hostname string // host being provisioned
	OS       string // runtime.GOOS value
	Arch     string // runtime.GOARCH value
	Elevated bool   // true when running with root privileges
}

// HomePath joins rel onto the provisioned account's home directory.
func (e Environment) HomePath(rel string) string {
	return filepath.Join(e.Home, rel)
}

// IsZero returns true if the environment has not been populated.
func (e Environment) IsZero() bool {
	return e.User == "" && e.Home == ""
}

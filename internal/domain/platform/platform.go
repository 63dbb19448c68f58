// Package platform detects host facts: operating system, architecture,
// distribution, and the account being provisioned. Detection runs once
// at startup; steps receive the facts through the compile context and
// never consult process globals mid-run.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

// OS represents the operating system type.
type OS string

const (
	// OSLinux is Linux, the target groundwork provisions.
	OSLinux OS = "linux"
	// OSDarwin is macOS. Supported for plan and doctor only.
	OSDarwin OS = "darwin"
	// OSUnknown is an unsupported OS.
	OSUnknown OS = "unknown"
)

// Platform contains detected platform information.
type Platform struct {
	os        OS
	arch      string
	distro    string // /etc/os-release ID, e.g. "ubuntu"
	family    string // /etc/os-release ID_LIKE, e.g. "debian"
	container bool
}

var (
	detected     *Platform
	detectOnce   sync.Once
	testPlatform *Platform // For testing
)

// Detect returns the current platform information.
// Results are cached after the first call.
func Detect() *Platform {
	if testPlatform != nil {
		return testPlatform
	}

	detectOnce.Do(func() {
		detected = detect()
	})
	return detected
}

// SetTestPlatform sets a mock platform for testing.
// Pass nil to reset to actual detection.
func SetTestPlatform(p *Platform) {
	testPlatform = p
}

// New creates a platform with explicit values.
func New(os OS, arch, distro, family string) *Platform {
	return &Platform{
		os:     os,
		arch:   arch,
		distro: distro,
		family: family,
	}
}

func detect() *Platform {
	p := &Platform{arch: runtime.GOARCH}

	switch runtime.GOOS {
	case "linux":
		p.os = OSLinux
		p.distro, p.family = readOSRelease("/etc/os-release")
		p.container = inContainer()
	case "darwin":
		p.os = OSDarwin
	default:
		p.os = OSUnknown
	}

	return p
}

// readOSRelease extracts the distribution ID and ID_LIKE fields.
func readOSRelease(path string) (distro, family string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ""
	}

	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "ID="):
			distro = strings.Trim(strings.TrimPrefix(line, "ID="), "\"")
		case strings.HasPrefix(line, "ID_LIKE="):
			family = strings.Trim(strings.TrimPrefix(line, "ID_LIKE="), "\"")
		}
	}
	return distro, family
}

// inContainer checks if running inside a container.
func inContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	data, err := os.ReadFile("/proc/1/cgroup")
	if err != nil {
		return false
	}

	return strings.Contains(string(data), "docker") ||
		strings.Contains(string(data), "containerd")
}

// OS returns the operating system.
func (p *Platform) OS() OS {
	return p.os
}

// Arch returns the architecture.
func (p *Platform) Arch() string {
	return p.arch
}

// Distro returns the distribution ID (e.g. "ubuntu", "debian").
func (p *Platform) Distro() string {
	return p.distro
}

// Family returns the distribution family (e.g. "debian").
func (p *Platform) Family() string {
	return p.family
}

// IsLinux returns true if running on Linux.
func (p *Platform) IsLinux() bool {
	return p.os == OSLinux
}

// IsAptBased returns true if the distribution installs packages with apt.
func (p *Platform) IsAptBased() bool {
	if p.distro == "debian" || p.distro == "ubuntu" {
		return true
	}
	return strings.Contains(p.family, "debian")
}

// InContainer returns true if running inside a container.
func (p *Platform) InContainer() bool {
	return p.container
}

// Package probe provides the real capability probe.
package probe

import (
	"os/exec"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// PathProbe resolves commands against the process PATH.
type PathProbe struct{}

// NewPathProbe creates a new PathProbe.
func NewPathProbe() *PathProbe {
	return &PathProbe{}
}

// Has reports whether the named command resolves on PATH.
func (p *PathProbe) Has(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Ensure PathProbe implements ports.CapabilityProbe.
var _ ports.CapabilityProbe = (*PathProbe)(nil)

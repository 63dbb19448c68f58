package mocks

import (
	"sync"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// Probe is a thread-safe test double for ports.CapabilityProbe.
type Probe struct {
	mu        sync.RWMutex
	available map[string]bool
	queries   []string
}

// NewProbe creates a Probe reporting the given commands as available.
func NewProbe(commands ...string) *Probe {
	p := &Probe{available: make(map[string]bool)}
	for _, c := range commands {
		p.available[c] = true
	}
	return p
}

// Add marks a command as available.
func (p *Probe) Add(command string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available[command] = true
}

// Drop marks a command as unavailable.
func (p *Probe) Drop(command string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.available, command)
}

// Has reports whether the command was registered, recording the query.
func (p *Probe) Has(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries = append(p.queries, name)
	return p.available[name]
}

// Queries returns the probed command names, in order.
func (p *Probe) Queries() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	queries := make([]string, len(p.queries))
	copy(queries, p.queries)
	return queries
}

// Ensure Probe implements ports.CapabilityProbe.
var _ ports.CapabilityProbe = (*Probe)(nil)

// Package sequence transforms a provisioning manifest into an ordered
// list of idempotent steps. It provides the compilation pipeline:
// Manifest → Provider → Sequence. Execution order is always the
// declared order; there is no scheduling or reordering.
package sequence

import "fmt"

// Compiler orchestrates providers to build a Sequence from a manifest.
type Compiler struct {
	providers []Provider
	byName    map[string]Provider
}

// NewCompiler creates a new Compiler.
func NewCompiler() *Compiler {
	return &Compiler{
		providers: make([]Provider, 0),
		byName:    make(map[string]Provider),
	}
}

// RegisterProvider adds a provider to the compiler.
// Registering a second provider under the same name replaces the first.
func (c *Compiler) RegisterProvider(provider Provider) {
	if _, exists := c.byName[provider.Name()]; !exists {
		c.providers = append(c.providers, provider)
	}
	c.byName[provider.Name()] = provider
}

// Providers returns all registered providers in registration order.
func (c *Compiler) Providers() []Provider {
	return c.providers
}

// Provider returns the registered provider with the given name.
func (c *Compiler) Provider(name string) (Provider, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Compile transforms the manifest into a validated Sequence. Providers
// are invoked in the given order, which becomes the execution order.
// Returns an error if:
// - The order names a provider that is not registered
// - Any provider fails to compile
// - Duplicate step IDs are detected
// - A dependency is missing or declared later than its dependent
func (c *Compiler) Compile(ctx CompileContext, order []string) (*Sequence, error) {
	seq := New()

	for _, name := range order {
		provider, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("sequence names unknown provider %q", name)
		}

		steps, err := provider.Compile(ctx)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}

		for _, step := range steps {
			if err := seq.Add(step); err != nil {
				return nil, fmt.Errorf("provider %q, step %q: %w",
					name, step.ID().String(), err)
			}
		}
	}

	if err := seq.Validate(); err != nil {
		return nil, err
	}

	return seq, nil
}

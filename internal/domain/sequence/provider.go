package sequence

// Provider compiles a section of the manifest into executable steps.
// Each provider handles a specific concern (apt, ssh, shell, etc.).
type Provider interface {
	// Name returns the provider's identifier (e.g., "apt", "ssh", "shell").
	Name() string

	// Compile transforms manifest configuration into an ordered list of
	// steps. Order within the returned slice is preserved by the
	// sequencer; cross-provider ordering comes from the manifest's
	// sequence list.
	Compile(ctx CompileContext) ([]Step, error)
}

// CompileContext provides manifest data and host facts to providers
// during compilation.
type CompileContext struct {
	config map[string]interface{}
	env    Environment
}

// NewCompileContext creates a new CompileContext with the given configuration.
func NewCompileContext(config map[string]interface{}) CompileContext {
	return CompileContext{
		config: config,
	}
}

// Config returns the full manifest configuration.
func (c CompileContext) Config() map[string]interface{} {
	return c.config
}

// GetSection returns a specific section of the configuration by key.
// Returns nil if the section doesn't exist or isn't a map.
func (c CompileContext) GetSection(key string) map[string]interface{} {
	if c.config == nil {
		return nil
	}
	section, ok := c.config[key]
	if !ok {
		return nil
	}
	sectionMap, ok := section.(map[string]interface{})
	if !ok {
		return nil
	}
	return sectionMap
}

// HasSection returns true if the configuration declares the given key,
// regardless of shape. Providers use this to decide whether steps from
// another section will exist in the sequence.
func (c CompileContext) HasSection(key string) bool {
	if c.config == nil {
		return false
	}
	_, ok := c.config[key]
	return ok
}

// Environment returns the host and account facts for this run.
func (c CompileContext) Environment() Environment {
	return c.env
}

// WithEnvironment returns a new CompileContext with the environment set.
func (c CompileContext) WithEnvironment(env Environment) CompileContext {
	return CompileContext{
		config: c.config,
		env:    env,
	}
}

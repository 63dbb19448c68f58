package ports

// CapabilityProbe reports whether a named command is available on the
// target machine. Steps gated on a package manager or other host tool
// consult an injected probe instead of shelling out, so availability is
// checked without side effects and is mockable in tests.
type CapabilityProbe interface {
	// Has reports whether the named command resolves on PATH.
	Has(name string) bool
}

package plugin

import (
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
)

// Frontend parses one source notation. Parse never returns a partial module
// together with an error; syntax errors are *ParseError values.
type Frontend interface {
	Key() string
	Parse(src []byte) (*ir.Module, error)
}

// Backend renders one target notation.
type Backend interface {
	Key() string
	// Target is the configuration the pipeline normalizes the module for.
	Target() *lang.Target
	Walk(m *ir.Module) string
}

// DiagnosticsReporter is implemented by back ends that record degradations
// while walking.
type DiagnosticsReporter interface {
	Diagnostics() *diagnostic.Diagnostics
}

// Factory creates a fresh plugin instance.
type Factory[T any] func() T

// Registries is the pair of registries built at startup.
type Registries struct {
	Frontends *Registry[Frontend]
	Backends  *Registry[Backend]
}

// NewRegistries returns empty front-end and back-end registries.
func NewRegistries() *Registries {
	return &Registries{
		Frontends: NewRegistry[Frontend]("input notation"),
		Backends:  NewRegistry[Backend]("output notation"),
	}
}

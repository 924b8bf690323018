package plugin

import (
	"sort"

	"astrie/internal/errors"
	"astrie/internal/match"
)

// Registry maps notation keys to factories.
type Registry[T any] struct {
	role      string
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry. role names the registry in errors,
// e.g. "input notation".
func NewRegistry[T any](role string) *Registry[T] {
	return &Registry[T]{role: role, factories: map[string]Factory[T]{}}
}

// Register binds key to factory. Empty and duplicate keys are rejected.
func (r *Registry[T]) Register(key string, factory Factory[T]) error {
	if key == "" {
		return errors.Newf("%s: empty key", r.role)
	}

	if factory == nil {
		return errors.Newf("%s %q: nil factory", r.role, key)
	}

	if _, exists := r.factories[key]; exists {
		return errors.Newf("%s %q: already registered", r.role, key)
	}

	r.factories[key] = factory

	return nil
}

// Create returns a new instance for key.
func (r *Registry[T]) Create(key string) (T, bool) {
	f, ok := r.factories[key]
	if !ok {
		var zero T

		return zero, false
	}

	return f(), true
}

// Lookup is Create returning an ErrUnknownNotation, with suggestions, for
// unknown keys.
func (r *Registry[T]) Lookup(key string) (T, error) {
	v, ok := r.Create(key)
	if !ok {
		return v, errors.UnknownNotation(r.role, key, r.Suggest(key))
	}

	return v, nil
}

// Has reports whether key is registered.
func (r *Registry[T]) Has(key string) bool {
	_, ok := r.factories[key]

	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry[T]) Keys() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Suggest returns registered keys close to key.
func (r *Registry[T]) Suggest(key string) []string {
	return match.Suggest(key, r.Keys(), match.DefaultMaxDistance)
}

// Len is the number of registered keys.
func (r *Registry[T]) Len() int {
	return len(r.factories)
}

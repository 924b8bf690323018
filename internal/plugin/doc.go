// Package plugin binds notation keys to front ends and back ends.
//
// A front end parses source text into an ir.Module; a back end renders a
// normalized module as text. Both are created through factories held in a
// Registry, so every run gets fresh instances with no shared state.
//
// Registries are populated once at startup from an explicit list (see
// notation.RegisterAll) and are read-only afterwards, so they need no
// locking.
package plugin

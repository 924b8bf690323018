// Package ir defines the canonical schema model every notation parses into
// and every emitter reads from.
//
// The model is a strict ownership tree: each Type, member and node is owned
// by exactly one parent. Cross references between declarations go through
// NamedRef, which stores a name only, so mutually recursive declarations are
// representable without cycles.
//
// Key types:
//   - Kind: the closed catalogue of canonical type kinds
//   - Type: Primitive | NamedRef | Indirection | Parameterized | Inline
//   - Struct, Enum, Oneof, Namespace, Service: declarations
//   - Module: one parsed schema document
//
// Order is load-bearing everywhere (struct members, enum values, node lists)
// and every pass in this repository preserves it.
package ir

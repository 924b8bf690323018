// Package rewrite holds the structural passes that normalize a Module before
// emission.
//
//   - Flatten hoists nested and inline aggregates to named top-level
//     declarations and leaves NamedRef fields behind.
//   - Lift turns inline variant fields and oneof declarations into top-level
//     enums whose values carry payloads.
//   - OrderByDependency sorts declarations so each one follows the
//     declarations it embeds by value.
//
// The passes rewrite the Module in place and return it. They never fail:
// shapes they do not recognize pass through unchanged, and lossy decisions
// are reported through an optional diagnostic.Diagnostics.
package rewrite

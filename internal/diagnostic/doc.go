// Package diagnostic collects structured reports about lossy decisions made
// while normalizing and lowering a schema.
//
// Nothing recorded here aborts a run. Passes and the substitution engine
// degrade locally and leave a warning behind so callers and tests can see
// exactly what was lost:
//   - unmappable kinds lowered to a target's fallback text
//   - typeless union alternatives given a "no value" payload
//   - renamed declarations after a name collision
package diagnostic

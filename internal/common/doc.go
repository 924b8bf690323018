// Package common holds small helpers shared by the translator packages:
// identifier casing used by naming conventions and generated names, and a
// few generic slice utilities.
package common

// UnknownStr is the rendering used by String methods for out-of-range values.
const UnknownStr = "unknown"

// Package match provides fuzzy name matching used to suggest notation keys
// and declaration names when a lookup misses.
//
// Key functions:
//   - Normalize: folds an identifier to a casing-insensitive form
//   - Levenshtein: computes edit distance between strings
//   - Suggest: ranks candidates close to a misspelled key
package match

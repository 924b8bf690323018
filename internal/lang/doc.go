// Package lang holds per-target configuration: the container substitution
// table, naming conventions, file extension and capabilities of every back
// end.
//
// The defaults live in targets.yaml, embedded into the binary. A user file
// with the same layout can be merged on top of them:
//
//	targets:
//	  go:
//	    types:
//	      decimal: { name: decimal.Decimal, default: decimal.Zero }
//
// Unknown kind names and naming styles are load errors.
package lang

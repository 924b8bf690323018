// Package pipeline runs parse, normalize and emit for one input against any
// number of output notations.
//
// Every output gets a freshly parsed module because the rewrite passes
// mutate their input. Degradations never stop a run: they are logged and
// returned with the output that caused them.
package pipeline

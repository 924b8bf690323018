// Package walk is the traversal skeleton shared by every emitter.
//
// A Walker owns the traversal order (header, nodes, footer; struct open,
// members, close; enum open, values, close) and calls Hooks for the text of
// each piece. Emitters embed NopHooks, override the hooks their grammar
// needs, and create their Walker with themselves as the hooks:
//
//	type Emitter struct {
//	    *walk.Walker
//	    walk.NopHooks
//	}
//
//	func New() *Emitter {
//	    e := &Emitter{}
//	    e.Walker = walk.New(e)
//	    return e
//	}
//
// Emitters that need to replace dispatch itself implement NodeOverrider or
// MemberOverrider.
package walk

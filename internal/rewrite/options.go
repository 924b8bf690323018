package rewrite

import (
	"strconv"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

// Option configures a pass.
type Option func(*options)

type options struct {
	diags *diagnostic.Diagnostics
}

// WithDiagnostics records warnings about lossy decisions into d.
func WithDiagnostics(d *diagnostic.Diagnostics) Option {
	return func(o *options) {
		o.diags = d
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) warn(code, message, path string) {
	if o.diags != nil {
		o.diags.AddWarning(code, message, "", path)
	}
}

func (o options) info(code, message, path string) {
	if o.diags != nil {
		o.diags.AddInfo(code, message, "", path)
	}
}

// names hands out declaration names that do not clash with anything already
// declared in the module.
type names struct {
	taken map[string]bool
}

func newNames(m *ir.Module) *names {
	n := &names{taken: map[string]bool{}}
	n.collect(m.Nodes)

	return n
}

func (n *names) collect(nodes []ir.Node) {
	for _, node := range nodes {
		switch d := node.(type) {
		case *ir.Namespace:
			n.collect(d.Nodes)
		case *ir.Struct:
			n.collectStruct(d)
		default:
			n.taken[node.DeclName()] = true
		}
	}
}

func (n *names) collectStruct(s *ir.Struct) {
	if s.Name != "" {
		n.taken[s.Name] = true
	}

	for _, m := range s.Members {
		switch d := m.(type) {
		case *ir.Struct:
			n.collectStruct(d)
		case *ir.Enum:
			n.taken[d.Name] = true
		case *ir.Field:
			n.collectType(d.Type)
		}
	}
}

func (n *names) collectType(t ir.Type) {
	if in, ok := t.(*ir.Inline); ok {
		if in.Struct != nil {
			n.collectStruct(in.Struct)
		}

		return
	}

	for _, c := range ir.Children(t) {
		n.collectType(c)
	}
}

func (n *names) has(name string) bool {
	return n.taken[name]
}

// claim reserves name, appending 2, 3, ... until it is free. It returns the
// name actually reserved.
func (n *names) claim(name string) string {
	candidate := name
	for i := 2; n.taken[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}

	n.taken[candidate] = true

	return candidate
}

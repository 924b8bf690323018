package rewrite

import (
	"slices"

	"astrie/internal/common"
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

// Flatten hoists every nested struct, nested enum and inline struct of m to
// the top level of the node list that owned it, replacing each former
// nesting site with a NamedRef field.
//
// Naming of hoisted declarations:
//   - an anonymous member struct with a variable name becomes
//     "Anonymous"+Capitalize(var) directly under a root struct and
//     Parent+Capitalize(var) deeper down;
//   - an anonymous inline struct in a field type becomes
//     Parent+Capitalize(field), with 2, 3, ... appended for further inline
//     structs in the same field;
//   - named declarations keep their name.
//
// Hoisted declarations are inserted at the front of their node list in
// discovery order; inner declarations precede the ones referencing them.
// Flatten is idempotent.
func Flatten(m *ir.Module, opts ...Option) *ir.Module {
	f := &flattener{
		options: newOptions(opts),
		names:   newNames(m),
	}

	m.Nodes = f.nodes(m.Nodes)

	return m
}

type flattener struct {
	options
	names *names
}

// hoist collects the declarations lifted out of one node list. Hoisted
// declarations inherit the namespace path of the root they came from.
type hoist struct {
	nodes      []ir.Node
	namespaces []string
}

func (h *hoist) add(n ir.Node) {
	switch d := n.(type) {
	case *ir.Struct:
		if len(d.Namespaces) == 0 {
			d.Namespaces = slices.Clone(h.namespaces)
		}
	case *ir.Enum:
		if len(d.Namespaces) == 0 {
			d.Namespaces = slices.Clone(h.namespaces)
		}
	}

	h.nodes = append(h.nodes, n)
}

func (f *flattener) nodes(nodes []ir.Node) []ir.Node {
	h := &hoist{}

	for _, n := range nodes {
		switch d := n.(type) {
		case *ir.Struct:
			h.namespaces = d.Namespaces
			f.members(d, true, h)
		case *ir.Enum:
			h.namespaces = d.Namespaces
			f.enumPayloads(d, h)
		case *ir.Oneof:
			h.namespaces = nil
			f.alternatives(d, d.Name, h)
		case *ir.Namespace:
			d.Nodes = f.nodes(d.Nodes)
		}
	}

	if len(h.nodes) == 0 {
		return nodes
	}

	return common.Prepend(h.nodes, nodes)
}

// members rewrites s so it holds fields only (plus oneofs), hoisting every
// declaration it contains.
func (f *flattener) members(s *ir.Struct, root bool, h *hoist) {
	out := make([]ir.Member, 0, len(s.Members))

	for _, m := range s.Members {
		switch d := m.(type) {
		case *ir.Field:
			d.Type = f.typ(d.Type, s.Name+common.Capitalize(d.Name), s.Name+"."+d.Name, h)
			out = append(out, d)
		case *ir.Oneof:
			f.alternatives(d, s.Name, h)
			out = append(out, d)
		case *ir.Enum:
			f.enumPayloads(d, h)
			h.add(d)
		case *ir.Struct:
			out = append(out, f.nested(s, d, root, h)...)
		}
	}

	s.Members = out
}

// nested hoists one member struct and returns what replaces it in the parent.
func (f *flattener) nested(parent, s *ir.Struct, root bool, h *hoist) []ir.Member {
	anonymous := s.Anonymous || s.Name == ""

	switch {
	case anonymous && s.VarName != "":
		base := parent.Name + common.Capitalize(s.VarName)
		if root {
			base = "Anonymous" + common.Capitalize(s.VarName)
		}

		s.Name = f.claim(base, parent.Name+"."+s.VarName)
		s.Anonymous = false
		f.members(s, false, h)

		return []ir.Member{f.slot(s, h)}

	case !anonymous:
		f.members(s, false, h)

		if s.VarName == "" {
			h.add(s)

			return nil
		}

		return []ir.Member{f.slot(s, h)}

	default:
		// anonymous and no slot: its members belong to the parent
		s.Name = parent.Name
		f.members(s, root, h)

		return s.Members
	}
}

// slot hoists s and returns the field that takes its place. The attributes
// annotate the member, so they move to the field.
func (f *flattener) slot(s *ir.Struct, h *hoist) *ir.Field {
	field := &ir.Field{
		Name:       s.VarName,
		Type:       ir.Ref(s.Name),
		Attributes: s.Attributes,
	}

	s.VarName = ""
	s.Attributes = nil
	h.add(s)

	return field
}

// typ replaces every Inline inside t with a reference to a hoisted struct.
func (f *flattener) typ(t ir.Type, base, path string, h *hoist) ir.Type {
	switch v := t.(type) {
	case *ir.Inline:
		if v.Struct == nil {
			f.warn(diagnostic.CodeAnonymousInline, "inline type without a struct left in place", path)

			return t
		}

		s := v.Struct
		if s.Anonymous || s.Name == "" {
			s.Name = f.claim(base, path)
			s.Anonymous = false
		}

		s.VarName = ""
		f.members(s, false, h)
		h.add(s)

		return ir.Ref(s.Name)

	case *ir.Indirection:
		v.Elem = f.typ(v.Elem, base, path, h)
	case *ir.Parameterized:
		for i, a := range v.Args {
			v.Args[i] = f.typ(a, base, path, h)
		}
	}

	return t
}

func (f *flattener) enumPayloads(e *ir.Enum, h *hoist) {
	for _, v := range e.Values {
		if v.Payload != nil {
			v.Payload = f.typ(v.Payload, e.Name+common.Capitalize(v.Name), e.Name+"."+v.Name, h)
		}
	}
}

func (f *flattener) alternatives(o *ir.Oneof, owner string, h *hoist) {
	for _, alt := range o.Alternatives {
		if alt.Type != nil {
			alt.Type = f.typ(alt.Type, owner+common.Capitalize(alt.Name), owner+"."+alt.Name, h)
		}
	}
}

func (f *flattener) claim(base, path string) string {
	name := f.names.claim(base)
	if name != base {
		f.info(diagnostic.CodeNameCollision, base+" is already declared, using "+name, path)
	}

	return name
}

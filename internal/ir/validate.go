package ir

import (
	"fmt"
	"slices"
)

// Issue is one shape problem found by Validate.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

// Validate checks that every type's kind agrees with its shape and that
// names are unique where order and identity matter. It never modifies m.
func Validate(m *Module) []Issue {
	v := &validator{}
	v.nodes(m.Nodes, "")

	return v.issues
}

type validator struct {
	issues []Issue
}

func (v *validator) add(path, format string, args ...any) {
	v.issues = append(v.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) nodes(nodes []Node, prefix string) {
	for _, n := range nodes {
		path := join(prefix, n.DeclName())

		switch d := n.(type) {
		case *Struct:
			v.structDecl(d, path)
		case *Enum:
			v.enum(d, path)
		case *Oneof:
			v.oneof(d, path)
		case *Namespace:
			v.nodes(d.Nodes, path)
		}
	}
}

func (v *validator) structDecl(s *Struct, path string) {
	if !s.Anonymous && s.Name == "" {
		v.add(path, "named struct without a name")
	}

	seen := map[string]bool{}

	for _, m := range s.Members {
		name := slotName(m)
		if name != "" {
			if seen[name] {
				v.add(join(path, name), "duplicate member")
			}

			seen[name] = true
		} else {
			name = m.DeclName()
		}

		memberPath := join(path, name)

		switch d := m.(type) {
		case *Field:
			v.typ(d.Type, memberPath)
		case *Struct:
			v.structDecl(d, memberPath)
		case *Enum:
			v.enum(d, memberPath)
		case *Oneof:
			v.oneof(d, memberPath)
		}
	}
}

// slotName is the name a member occupies in the struct's storage, empty for
// pure type declarations.
func slotName(m Member) string {
	switch d := m.(type) {
	case *Field:
		return d.Name
	case *Oneof:
		return d.Name
	case *Struct:
		return d.VarName
	default:
		return ""
	}
}

func (v *validator) enum(e *Enum, path string) {
	seen := map[string]bool{}

	for _, val := range e.Values {
		if seen[val.Name] {
			v.add(join(path, val.Name), "duplicate enum value")
		}

		seen[val.Name] = true

		if val.Payload != nil {
			v.typ(val.Payload, join(path, val.Name))
		}
	}
}

func (v *validator) oneof(o *Oneof, path string) {
	if len(o.Alternatives) == 0 {
		v.add(path, "oneof without alternatives")
	}

	for _, alt := range o.Alternatives {
		if alt.Type != nil {
			v.typ(alt.Type, join(path, alt.Name))
		}
	}
}

func (v *validator) typ(t Type, path string) {
	switch x := t.(type) {
	case nil:
		v.add(path, "missing type")
	case *Primitive:
		if x.Reified != KindUnknown && !x.Reified.IsPrimitive() {
			v.add(path, "primitive with non-primitive kind %s", x.Reified)
		}
	case *NamedRef:
		if x.Name == "" {
			v.add(path, "reference without a name")
		}
	case *Indirection:
		if !x.Reified.IsIndirection() {
			v.add(path, "indirection with kind %s", x.Reified)
		}

		v.typ(x.Elem, path)
	case *Parameterized:
		if !x.Reified.IsContainer() {
			v.add(path, "parameterized type with kind %s", x.Reified)
		} else if want, ok := arity[x.Reified]; ok && len(x.Args) != want {
			v.add(path, "%s takes %d arguments, got %d", x.Reified, want, len(x.Args))
		} else if len(x.Args) == 0 {
			v.add(path, "%s without arguments", x.Reified)
		}

		for _, a := range x.Args {
			v.typ(a, path)
		}
	case *Inline:
		if x.Struct == nil {
			v.add(path, "inline without a struct")

			return
		}

		v.structDecl(x.Struct, path)
	}
}

var arity = map[Kind]int{
	KindList:         1,
	KindSet:          1,
	KindUnorderedSet: 1,
	KindOptional:     1,
	KindArray:        1,
	KindMap:          2,
	KindUnorderedMap: 2,
	KindPair:         2,
}

// UnresolvedRefs lists, sorted and without duplicates, every NamedRef name in
// m that does not resolve to a top-level declaration. Names resolve either
// plainly or by their dotted namespace path.
func UnresolvedRefs(m *Module) []string {
	declared := map[string]bool{}
	collectDeclared(m.Nodes, "", declared)

	var missing []string

	VisitTypes(m.Nodes, func(_ string, t Type) {
		if ref, ok := t.(*NamedRef); ok && !declared[ref.Name] {
			missing = append(missing, ref.Name)
		}
	})

	slices.Sort(missing)

	return slices.Compact(missing)
}

func collectDeclared(nodes []Node, prefix string, into map[string]bool) {
	for _, n := range nodes {
		if ns, ok := n.(*Namespace); ok {
			collectDeclared(ns.Nodes, join(prefix, ns.Name), into)

			continue
		}

		into[n.DeclName()] = true
		into[join(prefix, n.DeclName())] = true
	}
}

// VisitTypes calls fn for every type reachable from nodes, parents before
// children. path is the dotted location of the owning declaration.
func VisitTypes(nodes []Node, fn func(path string, t Type)) {
	for _, n := range nodes {
		visitNode(n, n.DeclName(), fn)
	}
}

func visitNode(n Node, path string, fn func(string, Type)) {
	switch d := n.(type) {
	case *Namespace:
		for _, child := range d.Nodes {
			visitNode(child, join(path, child.DeclName()), fn)
		}
	case Member:
		visitMember(d, path, fn)
	}
}

func visitMember(m Member, path string, fn func(string, Type)) {
	switch d := m.(type) {
	case *Field:
		visitType(d.Type, path, fn)
	case *Struct:
		for _, inner := range d.Members {
			visitMember(inner, join(path, inner.DeclName()), fn)
		}
	case *Enum:
		for _, v := range d.Values {
			visitType(v.Payload, join(path, v.Name), fn)
		}
	case *Oneof:
		for _, alt := range d.Alternatives {
			visitType(alt.Type, join(path, alt.Name), fn)
		}
	}
}

func visitType(t Type, path string, fn func(string, Type)) {
	if t == nil {
		return
	}

	fn(path, t)

	if in, ok := t.(*Inline); ok && in.Struct != nil {
		visitMember(in.Struct, path, fn)

		return
	}

	for _, c := range Children(t) {
		visitType(c, path, fn)
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}

	if name == "" {
		return prefix
	}

	return prefix + "." + name
}

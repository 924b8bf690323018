package rewrite

import (
	"fmt"
	"slices"

	"astrie/internal/common"
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

// Lift converts inline tagged unions into top-level enums with payloads.
//
// A field of type variant<T1..Tn> (optionally behind Optional or pointer
// wrappers) gets a new scoped enum named PascalCase(field) with values
// Variant0..VariantN-1, value i carrying Ti; the variant in the field type is
// replaced by a NamedRef to the enum. A oneof member becomes an enum named
// PascalCase(oneof) keeping the alternative names, and the member becomes a
// field referencing it. Root-level oneofs are replaced in place.
//
// Typeless alternatives get a monostate payload. When the enum name is
// already declared the owning struct name is prefixed. Manufactured enums are
// inserted at the front of their node list in discovery order.
func Lift(m *ir.Module, opts ...Option) *ir.Module {
	l := &lifter{
		options: newOptions(opts),
		names:   newNames(m),
	}

	m.Nodes = l.nodes(m.Nodes)

	return m
}

type lifter struct {
	options
	names *names
}

func (l *lifter) nodes(nodes []ir.Node) []ir.Node {
	var lifted []ir.Node

	for i, n := range nodes {
		switch d := n.(type) {
		case *ir.Struct:
			lifted = append(lifted, l.structDecl(d)...)
		case *ir.Oneof:
			nodes[i] = l.enumFromOneof(d, d.Name, nil, d.Name)
		case *ir.Namespace:
			d.Nodes = l.nodes(d.Nodes)
		}
	}

	if len(lifted) == 0 {
		return nodes
	}

	return common.Prepend(lifted, nodes)
}

// structDecl lifts the unions of s and of the structs it still nests,
// inner structs first.
func (l *lifter) structDecl(s *ir.Struct) []ir.Node {
	var lifted []ir.Node

	for i, m := range s.Members {
		switch d := m.(type) {
		case *ir.Struct:
			lifted = append(lifted, l.structDecl(d)...)
		case *ir.Field:
			if in, ok := d.Type.(*ir.Inline); ok && in.Struct != nil {
				lifted = append(lifted, l.structDecl(in.Struct)...)
			}

			if e := l.variantField(s, d); e != nil {
				lifted = append(lifted, e)
			}
		case *ir.Oneof:
			path := s.Name + "." + d.Name
			e := l.enumFromOneof(d, l.enumName(s, d.Name, path), s.Namespaces, path)
			s.Members[i] = &ir.Field{Name: d.Name, Type: ir.Ref(e.Name), Attributes: slices.Clone(d.Attributes)}
			lifted = append(lifted, e)
		}
	}

	return lifted
}

// variantField lifts the variant of f, if any, and returns the new enum.
func (l *lifter) variantField(s *ir.Struct, f *ir.Field) *ir.Enum {
	slot := &f.Type
	for {
		ind, ok := (*slot).(*ir.Indirection)
		if !ok {
			break
		}

		slot = &ind.Elem
	}

	variant, ok := (*slot).(*ir.Parameterized)
	if !ok || variant.Reified != ir.KindVariant {
		return nil
	}

	path := s.Name + "." + f.Name
	e := &ir.Enum{
		Name:       l.enumName(s, f.Name, path),
		Namespaces: slices.Clone(s.Namespaces),
		Scoped:     true,
		Values:     make([]*ir.EnumValue, 0, len(variant.Args)),
	}

	for i, arg := range variant.Args {
		e.Values = append(e.Values, &ir.EnumValue{
			Name:    fmt.Sprintf("Variant%d", i),
			Number:  int64(i),
			Payload: l.payload(arg, path+".Variant"+fmt.Sprint(i)),
		})
	}

	*slot = ir.Ref(e.Name)

	return e
}

func (l *lifter) enumFromOneof(o *ir.Oneof, name string, namespaces []string, path string) *ir.Enum {
	e := &ir.Enum{
		Name:       name,
		Namespaces: slices.Clone(namespaces),
		Scoped:     true,
		Attributes: o.Attributes,
		Values:     make([]*ir.EnumValue, 0, len(o.Alternatives)),
	}

	for i, alt := range o.Alternatives {
		e.Values = append(e.Values, &ir.EnumValue{
			Name:       alt.Name,
			Number:     int64(i),
			Attributes: alt.Attributes,
			Payload:    l.payload(alt.Type, path+"."+alt.Name),
		})
	}

	return e
}

func (l *lifter) payload(t ir.Type, path string) ir.Type {
	if t != nil {
		return t
	}

	l.warn(diagnostic.CodeTypelessAlternative, "typeless alternative carries monostate", path)

	return ir.Prim(ir.KindMonostate)
}

// enumName picks PascalCase(member), prefixed by the struct name when that
// name is already declared.
func (l *lifter) enumName(s *ir.Struct, member, path string) string {
	name := common.ToPascalCase(member)
	if !l.names.has(name) {
		return l.names.claim(name)
	}

	prefixed := l.names.claim(s.Name + name)
	l.info(diagnostic.CodeNameCollision, name+" is already declared, using "+prefixed, path)

	return prefixed
}

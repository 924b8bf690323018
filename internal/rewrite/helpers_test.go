package rewrite

import (
	"astrie/internal/ir"
)

func nodeNames(nodes []ir.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.DeclName()
	}

	return out
}

// fieldTypes renders each field of s as "name: type".
func fieldTypes(s *ir.Struct) []string {
	var out []string
	for _, f := range s.Fields() {
		out = append(out, f.Name+": "+ir.TypeString(f.Type))
	}

	return out
}

func structNamed(nodes []ir.Node, name string) *ir.Struct {
	s, _ := ir.FindNode(nodes, name).(*ir.Struct)

	return s
}

func enumNamed(nodes []ir.Node, name string) *ir.Enum {
	e, _ := ir.FindNode(nodes, name).(*ir.Enum)

	return e
}

// shopModule exercises every nesting shape the passes handle.
func shopModule() *ir.Module {
	return &ir.Module{
		Source: "test",
		Nodes: []ir.Node{
			&ir.Struct{Name: "Card", Members: []ir.Member{&ir.Field{Name: "pan", Type: ir.Prim(ir.KindString)}}},
			&ir.Struct{
				Name: "Order",
				Members: []ir.Member{
					&ir.Field{Name: "id", Type: ir.Prim(ir.KindInt64)},
					&ir.Field{Name: "shipping", Type: ir.InlineOf(&ir.Struct{
						Anonymous: true,
						Members: []ir.Member{
							&ir.Field{Name: "city", Type: ir.Prim(ir.KindString)},
							&ir.Field{Name: "geo", Type: ir.Opt(ir.InlineOf(&ir.Struct{
								Anonymous: true,
								Members: []ir.Member{
									&ir.Field{Name: "lat", Type: ir.Prim(ir.KindFloat64)},
								},
							}))},
						},
					})},
					&ir.Struct{Anonymous: true, VarName: "meta", Members: []ir.Member{
						&ir.Field{Name: "created", Type: ir.Prim(ir.KindDateTime)},
					}},
					&ir.Enum{Name: "Status", Values: []*ir.EnumValue{{Name: "Open"}, {Name: "Closed", Number: 1}}},
					&ir.Struct{Name: "Line", Members: []ir.Member{&ir.Field{Name: "sku", Type: ir.Prim(ir.KindString)}}},
					&ir.Field{Name: "lines", Type: ir.List(ir.Ref("Line"))},
					&ir.Field{Name: "id_or_name", Type: ir.VariantOf(ir.Prim(ir.KindInt32), ir.Prim(ir.KindString))},
					&ir.Oneof{Name: "payment", Alternatives: []*ir.Alternative{
						{Name: "card", Type: ir.Ref("Card")},
						{Name: "cash"},
					}},
				},
			},
			&ir.Namespace{Name: "billing", Nodes: []ir.Node{
				&ir.Struct{Name: "Invoice", Members: []ir.Member{
					&ir.Field{Name: "total", Type: ir.InlineOf(&ir.Struct{Anonymous: true, Members: []ir.Member{
						&ir.Field{Name: "cents", Type: ir.Prim(ir.KindInt64)},
					}})},
				}},
			}},
		},
	}
}

// hasNesting reports whether any struct still nests a declaration or an
// inline type.
func hasNesting(nodes []ir.Node) bool {
	found := false

	ir.VisitTypes(nodes, func(_ string, t ir.Type) {
		if _, ok := t.(*ir.Inline); ok {
			found = true
		}
	})

	var check func([]ir.Node)
	check = func(nodes []ir.Node) {
		for _, n := range nodes {
			switch d := n.(type) {
			case *ir.Namespace:
				check(d.Nodes)
			case *ir.Struct:
				for _, m := range d.Members {
					switch m.(type) {
					case *ir.Struct, *ir.Enum:
						found = true
					}
				}
			}
		}
	}
	check(nodes)

	return found
}

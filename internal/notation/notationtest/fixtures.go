// Package notationtest holds IR fixtures shared by the notation tests.
package notationtest

import "astrie/internal/ir"

// Shop returns a module using every declaration and type shape.
func Shop() *ir.Module {
	return &ir.Module{
		Source:     "test",
		Namespaces: []string{"shop"},
		Nodes: []ir.Node{
			&ir.Enum{
				Name:       "Color",
				Scoped:     true,
				Underlying: "uint8",
				Values: []*ir.EnumValue{
					{Name: "Red", Number: 0},
					{Name: "Green", Number: 1, Attributes: ir.Attributes{{Name: "deprecated"}}},
				},
			},
			&ir.Struct{
				Name: "Line",
				Members: []ir.Member{
					&ir.Field{Name: "sku", Type: ir.Prim(ir.KindString)},
					&ir.Field{Name: "qty", Type: ir.Prim(ir.KindUInt32), Attributes: ir.Attributes{{Name: "default", Value: "1"}}},
					&ir.Field{Name: "price", Type: ir.Prim(ir.KindDecimal)},
				},
			},
			&ir.Struct{
				Name:    "Card",
				Members: []ir.Member{&ir.Field{Name: "pan", Type: ir.Prim(ir.KindString)}},
			},
			&ir.Struct{
				Name:       "Order",
				Attributes: ir.Attributes{{Name: "table", Value: "orders"}},
				Members: []ir.Member{
					&ir.Field{Name: "id", Type: ir.Prim(ir.KindInt64), Attributes: ir.Attributes{{Name: "required"}}},
					&ir.Field{Name: "lines", Type: ir.List(ir.Ref("Line"))},
					&ir.Field{Name: "tags", Type: ir.MapOf(ir.Prim(ir.KindString), ir.SetOf(ir.Prim(ir.KindString)))},
					&ir.Field{Name: "shipping", Type: ir.InlineOf(&ir.Struct{
						Anonymous: true,
						Members: []ir.Member{
							&ir.Field{Name: "city", Type: ir.Prim(ir.KindString)},
							&ir.Field{Name: "zip", Type: ir.Prim(ir.KindString)},
						},
					})},
					&ir.Field{Name: "id_or_name", Type: ir.VariantOf(ir.Prim(ir.KindInt32), ir.Prim(ir.KindString))},
					&ir.Field{Name: "note", Type: ir.Opt(ir.Prim(ir.KindString))},
					&ir.Field{Name: "parent", Type: ir.Ptr(ir.Ref("Order"))},
					&ir.Field{Name: "checksum", Type: ir.ArrayOf(ir.Prim(ir.KindUInt8), 16)},
					&ir.Field{Name: "created", Type: ir.Prim(ir.KindDateTime)},
					&ir.Field{Name: "color", Type: ir.Ref("Color")},
					&ir.Oneof{
						Name: "payment",
						Alternatives: []*ir.Alternative{
							{Name: "card", Type: ir.Ref("Card")},
							{Name: "cash"},
						},
					},
					&ir.Enum{
						Name: "Status",
						Values: []*ir.EnumValue{
							{Name: "Open", Number: 0},
							{Name: "Closed", Number: 5},
						},
					},
					&ir.Struct{
						Name: "Audit",
						Members: []ir.Member{
							&ir.Field{Name: "by", Type: ir.Prim(ir.KindString)},
						},
					},
					&ir.Struct{
						Anonymous: true,
						VarName:   "meta",
						Members: []ir.Member{
							&ir.Field{Name: "source", Type: ir.Prim(ir.KindString)},
						},
					},
				},
			},
			&ir.Namespace{
				Name: "billing",
				Nodes: []ir.Node{
					&ir.Struct{
						Name: "Invoice",
						Members: []ir.Member{
							&ir.Field{Name: "order", Type: ir.Ref("Order")},
							&ir.Field{Name: "total", Type: ir.Prim(ir.KindFloat64)},
						},
					},
				},
			},
			&ir.Service{
				Name: "Orders",
				Methods: []*ir.Method{
					{Name: "Get", Request: "GetOrder", Response: "Order"},
				},
			},
		},
	}
}

// Lifted returns a module in the shape produced by sum-type lifting: an
// enum with payloads and a struct referring to it.
func Lifted() *ir.Module {
	return &ir.Module{
		Source: "test",
		Nodes: []ir.Node{
			&ir.Enum{
				Name:   "IdOrName",
				Scoped: true,
				Values: []*ir.EnumValue{
					{Name: "Variant0", Number: 0, Payload: ir.Prim(ir.KindInt32)},
					{Name: "Variant1", Number: 1, Payload: ir.Prim(ir.KindString)},
				},
			},
			&ir.Struct{
				Name: "Lookup",
				Members: []ir.Member{
					&ir.Field{Name: "key", Type: ir.Ref("IdOrName")},
				},
			},
		},
	}
}

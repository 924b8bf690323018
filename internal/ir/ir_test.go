package ir

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderModule() *Module {
	return &Module{
		Source:     "hcl",
		Namespaces: []string{"shop"},
		Nodes: []Node{
			&Struct{
				Name:       "Order",
				Attributes: Attributes{{Name: "table", Value: "orders"}},
				Members: []Member{
					&Field{Name: "id", Type: Prim(KindInt64)},
					&Field{Name: "shipping", Type: InlineOf(&Struct{
						Anonymous: true,
						Members: []Member{
							&Field{Name: "city", Type: Prim(KindString)},
							&Field{Name: "zip", Type: Prim(KindString)},
						},
					})},
					&Field{Name: "lines", Type: List(Ref("Line"))},
					&Oneof{Name: "payment", Alternatives: []*Alternative{
						{Name: "card", Type: Ref("Card")},
						{Name: "cash"},
					}},
				},
			},
			&Struct{Name: "Line", Members: []Member{&Field{Name: "sku", Type: Prim(KindString)}}},
			&Namespace{Name: "billing", Nodes: []Node{
				&Struct{Name: "Invoice", Members: []Member{&Field{Name: "order", Type: Opt(Ref("Order"))}}},
			}},
		},
	}
}

func TestTypeKindMatchesShape(t *testing.T) {
	assert.Equal(t, KindStructRef, Ref("X").Kind())
	assert.Equal(t, KindStructRef, (&NamedRef{Name: "X"}).Kind())
	assert.Equal(t, KindStructRef, InlineOf(&Struct{}).Kind())
	assert.Equal(t, KindOptional, Opt(Prim(KindBool)).Kind())
	assert.Equal(t, KindMap, MapOf(Prim(KindString), Prim(KindInt32)).Kind())
	assert.Equal(t, KindUnknown, Opaque("Foo").Kind())
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"primitive", Prim(KindInt32), "int32"},
		{"opaque", Opaque("money"), "?money"},
		{"ref", Ref("Line"), "Line"},
		{"nested", MapOf(Prim(KindString), List(Ref("Line"))), "map<string, list<Line>>"},
		{"optional", Opt(Prim(KindInt32)), "optional<int32>"},
		{"array", ArrayOf(Prim(KindUInt8), 16), "array<uint8, 16>"},
		{"inline", InlineOf(&Struct{Anonymous: true, Members: []Member{&Field{Name: "a", Type: Prim(KindBool)}}}), "struct{a: bool}"},
		{"nil", nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeString(tt.typ))
		})
	}
}

func TestUnwrapAndChildren(t *testing.T) {
	inner := VariantOf(Prim(KindInt32), Prim(KindString))
	assert.Same(t, inner, Unwrap(Opt(Ptr(inner))))
	assert.Len(t, Children(inner), 2)
	assert.Nil(t, Children(Prim(KindBool)))
}

func TestAttributes(t *testing.T) {
	attrs := Attributes{{Name: "index", Value: "true"}, {Name: "index", Value: "second"}}

	v, ok := attrs.Get("index")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
	assert.False(t, attrs.Has("unique"))
}

func TestShow_Deterministic(t *testing.T) {
	a, b := Show(orderModule()), Show(orderModule())
	require.Equal(t, a, b)

	assert.Contains(t, a, "module source=hcl namespace=shop\n")
	assert.Contains(t, a, `  struct Order [table="orders"]`)
	assert.Contains(t, a, "    field shipping: struct{city: string; zip: string}\n")
	assert.Contains(t, a, "    oneof payment\n      alt card: Card\n      alt cash\n")
	assert.Contains(t, a, "  namespace billing\n    struct Invoice\n      field order: optional<Order>\n")
}

func TestValidate_CleanModule(t *testing.T) {
	m := orderModule()
	assert.Empty(t, Validate(m), spew.Sdump(m))
}

func TestValidate_ReportsShapeMismatch(t *testing.T) {
	m := &Module{Nodes: []Node{
		&Struct{Name: "Bad", Members: []Member{
			&Field{Name: "a", Type: &Indirection{Reified: KindList, Elem: Prim(KindInt32)}},
			&Field{Name: "b", Type: &Parameterized{Reified: KindInt32, Args: []Type{Prim(KindBool)}}},
			&Field{Name: "c", Type: MapOf(Prim(KindString), nil)},
			&Field{Name: "c", Type: Prim(KindList)},
			&Field{Name: "d", Type: Generic(KindMap, Prim(KindString))},
		}},
		&Enum{Name: "E", Values: []*EnumValue{{Name: "A"}, {Name: "A", Number: 1}}},
	}}

	var got []string
	for _, issue := range Validate(m) {
		got = append(got, issue.String())
	}

	assert.Equal(t, []string{
		"Bad.a: indirection with kind list",
		"Bad.b: parameterized type with kind int32",
		"Bad.c: missing type",
		"Bad.c: duplicate member",
		"Bad.c: primitive with non-primitive kind list",
		"Bad.d: map takes 2 arguments, got 1",
		"E.A: duplicate enum value",
	}, got)
}

func TestUnresolvedRefs(t *testing.T) {
	m := orderModule()
	assert.Equal(t, []string{"Card"}, UnresolvedRefs(m))

	m.Nodes = append(m.Nodes, &Struct{Name: "Card"})
	assert.Empty(t, UnresolvedRefs(m))
}

func TestUnresolvedRefs_QualifiedNames(t *testing.T) {
	m := &Module{Nodes: []Node{
		&Namespace{Name: "billing", Nodes: []Node{&Struct{Name: "Invoice"}}},
		&Struct{Name: "Order", Members: []Member{
			&Field{Name: "invoice", Type: Ref("billing.Invoice")},
			&Field{Name: "other", Type: Ref("shipping.Invoice")},
		}},
	}}

	assert.Equal(t, []string{"shipping.Invoice"}, UnresolvedRefs(m))
}

func TestFindNode(t *testing.T) {
	m := orderModule()

	require.NotNil(t, FindNode(m.Nodes, "Line"))
	inv := FindNode(m.Nodes, "billing.Invoice")
	require.NotNil(t, inv)
	assert.Equal(t, "Invoice", inv.DeclName())
	assert.Nil(t, FindNode(m.Nodes, "billing"))
	assert.Nil(t, FindNode(m.Nodes, "Missing"))
}

func TestVisitTypes_ParentsFirst(t *testing.T) {
	m := &Module{Nodes: []Node{&Struct{Name: "S", Members: []Member{
		&Field{Name: "m", Type: MapOf(Prim(KindString), Opt(Ref("T")))},
	}}}}

	var seen []string

	VisitTypes(m.Nodes, func(path string, typ Type) {
		seen = append(seen, path+"="+TypeString(typ))
	})

	assert.Equal(t, []string{
		"S.m=map<string, optional<T>>",
		"S.m=string",
		"S.m=optional<T>",
		"S.m=T",
	}, seen)
}

func TestStructHelpers(t *testing.T) {
	s := &Struct{Name: "S", Members: []Member{
		&Field{Name: "a"},
		&Enum{Name: "E", Values: []*EnumValue{{Name: "X", Payload: Prim(KindInt32)}}},
		&Field{Name: "b"},
	}}

	require.Len(t, s.Fields(), 2)
	assert.Equal(t, "b", s.Fields()[1].Name)
	assert.True(t, s.Members[1].(*Enum).HasPayloads())
}

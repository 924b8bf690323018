package rewrite

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

func TestFlatten_InlineAnonymousField(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "shipping", Type: ir.InlineOf(&ir.Struct{Anonymous: true, Members: []ir.Member{
				&ir.Field{Name: "city", Type: ir.Prim(ir.KindString)},
				&ir.Field{Name: "zip", Type: ir.Prim(ir.KindString)},
			}})},
		}},
	}}

	Flatten(m)

	require.Equal(t, []string{"OrderShipping", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{"city: string", "zip: string"}, fieldTypes(structNamed(m.Nodes, "OrderShipping")))
	assert.Equal(t, []string{"shipping: OrderShipping"}, fieldTypes(structNamed(m.Nodes, "Order")))
	assert.False(t, structNamed(m.Nodes, "OrderShipping").Anonymous)
}

func TestFlatten_AnonymousMemberNaming(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "id", Type: ir.Prim(ir.KindInt64)},
			&ir.Struct{Anonymous: true, VarName: "meta", Members: []ir.Member{
				&ir.Field{Name: "created", Type: ir.Prim(ir.KindDateTime)},
				&ir.Struct{Anonymous: true, VarName: "audit", Members: []ir.Member{
					&ir.Field{Name: "by", Type: ir.Prim(ir.KindString)},
				}},
			}},
		}},
	}}

	Flatten(m)

	require.Equal(t, []string{"AnonymousMetaAudit", "AnonymousMeta", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{"id: int64", "meta: AnonymousMeta"}, fieldTypes(structNamed(m.Nodes, "Order")))
	assert.Equal(t, []string{"created: datetime", "audit: AnonymousMetaAudit"}, fieldTypes(structNamed(m.Nodes, "AnonymousMeta")))
	assert.Empty(t, structNamed(m.Nodes, "AnonymousMeta").VarName)
}

func TestFlatten_NamedMembers(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Struct{Name: "Line", Members: []ir.Member{&ir.Field{Name: "sku", Type: ir.Prim(ir.KindString)}}},
			&ir.Struct{
				Name:       "Customer",
				VarName:    "customer",
				Attributes: ir.Attributes{{Name: "required", Value: "true"}},
				Members:    []ir.Member{&ir.Field{Name: "name", Type: ir.Prim(ir.KindString)}},
			},
			&ir.Enum{Name: "Status", Values: []*ir.EnumValue{{Name: "Open"}}},
		}},
	}}

	Flatten(m)

	require.Equal(t, []string{"Line", "Customer", "Status", "Order"}, nodeNames(m.Nodes))

	order := structNamed(m.Nodes, "Order")
	require.Len(t, order.Members, 1, "a pure type declaration leaves no member")

	field := order.Members[0].(*ir.Field)
	assert.Equal(t, "customer", field.Name)
	assert.Equal(t, ir.Ref("Customer"), field.Type)
	assert.Equal(t, ir.Attributes{{Name: "required", Value: "true"}}, field.Attributes)
	assert.Empty(t, structNamed(m.Nodes, "Customer").Attributes, "attributes stay on the member only")
}

func TestFlatten_AnonymousWithoutVariableIsSpliced(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Point", Members: []ir.Member{
			&ir.Field{Name: "id", Type: ir.Prim(ir.KindInt32)},
			&ir.Struct{Anonymous: true, Members: []ir.Member{
				&ir.Field{Name: "x", Type: ir.Prim(ir.KindFloat32)},
				&ir.Field{Name: "y", Type: ir.Prim(ir.KindFloat32)},
			}},
			&ir.Field{Name: "label", Type: ir.Prim(ir.KindString)},
		}},
	}}

	Flatten(m)

	require.Equal(t, []string{"Point"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{"id: int32", "x: float32", "y: float32", "label: string"}, fieldTypes(structNamed(m.Nodes, "Point")))
}

func TestFlatten_InlineInsideContainers(t *testing.T) {
	anon := func(field string) *ir.Inline {
		return ir.InlineOf(&ir.Struct{Anonymous: true, Members: []ir.Member{
			&ir.Field{Name: field, Type: ir.Prim(ir.KindBool)},
		}})
	}

	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "pair", Type: ir.Generic(ir.KindPair, anon("a"), anon("b"))},
			&ir.Field{Name: "tags", Type: ir.MapOf(ir.Prim(ir.KindString), ir.Ptr(anon("c")))},
		}},
	}}

	Flatten(m)

	require.Equal(t, []string{"OrderPair", "OrderPair2", "OrderTags", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{
		"pair: pair<OrderPair, OrderPair2>",
		"tags: map<string, pointer<OrderTags>>",
	}, fieldTypes(structNamed(m.Nodes, "Order")))
}

func TestFlatten_NamedInlineKeepsName(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "addr", Type: ir.InlineOf(&ir.Struct{Name: "Address", Members: []ir.Member{
				&ir.Field{Name: "city", Type: ir.Prim(ir.KindString)},
			}})},
		}},
	}}

	Flatten(m)

	assert.Equal(t, []string{"Address", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{"addr: Address"}, fieldTypes(structNamed(m.Nodes, "Order")))
}

func TestFlatten_DiscoveryOrderInnerFirst(t *testing.T) {
	m := shopModule()
	Flatten(m)

	assert.Equal(t, []string{
		"OrderShippingGeo",
		"OrderShipping",
		"AnonymousMeta",
		"Status",
		"Line",
		"Card",
		"Order",
		"billing",
	}, nodeNames(m.Nodes), ir.Show(m))

	ns := m.Nodes[len(m.Nodes)-1].(*ir.Namespace)
	assert.Equal(t, []string{"InvoiceTotal", "Invoice"}, nodeNames(ns.Nodes), "namespaces hoist into their own list")
}

func TestFlatten_PreservesSurvivingMemberOrder(t *testing.T) {
	m := shopModule()
	Flatten(m)

	assert.Equal(t, []string{
		"id: int64",
		"shipping: OrderShipping",
		"meta: AnonymousMeta",
		"lines: list<Line>",
		"id_or_name: variant<int32, string>",
	}, fieldTypes(structNamed(m.Nodes, "Order")))

	order := structNamed(m.Nodes, "Order")
	_, lastIsOneof := order.Members[len(order.Members)-1].(*ir.Oneof)
	assert.True(t, lastIsOneof, "oneof members stay for the lifting pass")
}

func TestFlatten_NoNestingAndResolvedRefs(t *testing.T) {
	m := shopModule()
	Flatten(m)

	assert.False(t, hasNesting(m.Nodes), ir.Show(m))
	assert.Empty(t, ir.UnresolvedRefs(m))
	assert.Empty(t, ir.Validate(m))
}

func TestFlatten_Idempotent(t *testing.T) {
	once := Flatten(shopModule())
	twice := Flatten(Flatten(shopModule()))

	require.Equal(t, ir.Show(once), ir.Show(twice))
	assert.Equal(t, once, twice, spew.Sdump(twice))
}

func TestFlatten_GeneratedNameCollision(t *testing.T) {
	var diags diagnostic.Diagnostics

	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "OrderShipping"},
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "shipping", Type: ir.InlineOf(&ir.Struct{Anonymous: true})},
		}},
	}}

	Flatten(m, WithDiagnostics(&diags))

	assert.Equal(t, []string{"OrderShipping2", "OrderShipping", "Order"}, nodeNames(m.Nodes))
	require.Len(t, diags.WithCode(diagnostic.CodeNameCollision), 1)
	assert.Equal(t, "Order.shipping", diags.Infos[0].Path)
}

func TestFlatten_HoistedInheritNamespaces(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Namespaces: []string{"shop", "v1"}, Members: []ir.Member{
			&ir.Enum{Name: "Status"},
		}},
	}}

	Flatten(m)

	assert.Equal(t, []string{"shop", "v1"}, enumNamed(m.Nodes, "Status").Namespaces)
}

func TestFlatten_LeavesUnknownShapes(t *testing.T) {
	var diags diagnostic.Diagnostics

	m := &ir.Module{Nodes: []ir.Node{
		&ir.Service{Name: "Orders"},
		&ir.Struct{Name: "S", Members: []ir.Member{&ir.Field{Name: "broken", Type: &ir.Inline{}}}},
	}}

	Flatten(m, WithDiagnostics(&diags))

	assert.Equal(t, []string{"Orders", "S"}, nodeNames(m.Nodes))
	assert.Len(t, diags.WithCode(diagnostic.CodeAnonymousInline), 1)
}

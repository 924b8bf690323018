package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

func TestLift_VariantField(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "id_or_name", Type: ir.VariantOf(ir.Prim(ir.KindInt32), ir.Prim(ir.KindString))},
		}},
	}}

	Lift(m)

	require.Equal(t, []string{"IdOrName", "Order"}, nodeNames(m.Nodes))

	e := enumNamed(m.Nodes, "IdOrName")
	require.NotNil(t, e)
	assert.True(t, e.Scoped)
	assert.Equal(t, []*ir.EnumValue{
		{Name: "Variant0", Number: 0, Payload: ir.Prim(ir.KindInt32)},
		{Name: "Variant1", Number: 1, Payload: ir.Prim(ir.KindString)},
	}, e.Values)
	assert.Equal(t, []string{"id_or_name: IdOrName"}, fieldTypes(structNamed(m.Nodes, "Order")))
}

func TestLift_VariantBehindOptional(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "maybe", Type: ir.Opt(ir.VariantOf(ir.Prim(ir.KindBool), ir.Ref("Card")))},
			&ir.Field{Name: "plain", Type: ir.List(ir.VariantOf(ir.Prim(ir.KindBool)))},
		}},
	}}

	Lift(m)

	assert.Equal(t, []string{"Maybe", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{
		"maybe: optional<Maybe>",
		"plain: list<variant<bool>>",
	}, fieldTypes(structNamed(m.Nodes, "Order")))
}

func TestLift_OneofMember(t *testing.T) {
	var diags diagnostic.Diagnostics

	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Card"},
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "id", Type: ir.Prim(ir.KindInt64)},
			&ir.Oneof{Name: "payment_method", Alternatives: []*ir.Alternative{
				{Name: "card", Type: ir.Ref("Card"), Attributes: ir.Attributes{{Name: "tag", Value: "1"}}},
				{Name: "cash"},
			}},
			&ir.Field{Name: "note", Type: ir.Prim(ir.KindString)},
		}},
	}}

	Lift(m, WithDiagnostics(&diags))

	require.Equal(t, []string{"PaymentMethod", "Card", "Order"}, nodeNames(m.Nodes))

	e := enumNamed(m.Nodes, "PaymentMethod")
	require.Len(t, e.Values, 2)
	assert.Equal(t, "card", e.Values[0].Name)
	assert.Equal(t, ir.Attributes{{Name: "tag", Value: "1"}}, e.Values[0].Attributes)
	assert.Equal(t, ir.Ref("Card"), e.Values[0].Payload)
	assert.Equal(t, "cash", e.Values[1].Name)
	assert.Equal(t, int64(1), e.Values[1].Number)
	assert.Equal(t, ir.Prim(ir.KindMonostate), e.Values[1].Payload)

	assert.Equal(t, []string{
		"id: int64",
		"payment_method: PaymentMethod",
		"note: string",
	}, fieldTypes(structNamed(m.Nodes, "Order")))

	warnings := diags.WithCode(diagnostic.CodeTypelessAlternative)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Order.payment_method.cash", warnings[0].Path)
}

func TestLift_RootOneofReplacedInPlace(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "A"},
		&ir.Oneof{Name: "Shape", Alternatives: []*ir.Alternative{
			{Name: "circle", Type: ir.Prim(ir.KindFloat64)},
			{Name: "square", Type: ir.Prim(ir.KindFloat64)},
		}},
		&ir.Struct{Name: "B"},
	}}

	Lift(m)

	require.Equal(t, []string{"A", "Shape", "B"}, nodeNames(m.Nodes))
	e, ok := m.Nodes[1].(*ir.Enum)
	require.True(t, ok)
	assert.True(t, e.HasPayloads())
}

func TestLift_NameCollisionPrefixesStruct(t *testing.T) {
	var diags diagnostic.Diagnostics

	m := &ir.Module{Nodes: []ir.Node{
		&ir.Enum{Name: "Status"},
		&ir.Struct{Name: "Order", Members: []ir.Member{
			&ir.Field{Name: "status", Type: ir.VariantOf(ir.Prim(ir.KindInt32))},
		}},
	}}

	Lift(m, WithDiagnostics(&diags))

	assert.Equal(t, []string{"OrderStatus", "Status", "Order"}, nodeNames(m.Nodes))
	assert.Equal(t, []string{"status: OrderStatus"}, fieldTypes(structNamed(m.Nodes, "Order")))
	assert.Len(t, diags.WithCode(diagnostic.CodeNameCollision), 1)
}

func TestLift_DiscoveryOrderInnerFirst(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Outer", Members: []ir.Member{
			&ir.Field{Name: "first", Type: ir.VariantOf(ir.Prim(ir.KindBool))},
			&ir.Struct{Name: "Inner", Members: []ir.Member{
				&ir.Field{Name: "deep", Type: ir.VariantOf(ir.Prim(ir.KindBool))},
			}},
			&ir.Field{Name: "last", Type: ir.VariantOf(ir.Prim(ir.KindBool))},
		}},
	}}

	Lift(m)

	assert.Equal(t, []string{"First", "Deep", "Last", "Outer"}, nodeNames(m.Nodes))
}

func TestLift_InsideNamespace(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Namespace{Name: "billing", Nodes: []ir.Node{
			&ir.Struct{Name: "Invoice", Namespaces: []string{"billing"}, Members: []ir.Member{
				&ir.Field{Name: "amount", Type: ir.VariantOf(ir.Prim(ir.KindInt64), ir.Prim(ir.KindDecimal))},
			}},
		}},
	}}

	Lift(m)

	ns := m.Nodes[0].(*ir.Namespace)
	assert.Equal(t, []string{"Amount", "Invoice"}, nodeNames(ns.Nodes))
	assert.Equal(t, []string{"billing"}, enumNamed(ns.Nodes, "Amount").Namespaces)
}

func TestFlattenThenLift_ReferenceIntegrity(t *testing.T) {
	m := Lift(Flatten(shopModule()))

	assert.Empty(t, ir.UnresolvedRefs(m), ir.Show(m))
	assert.Empty(t, ir.Validate(m))
	assert.False(t, hasNesting(m.Nodes))

	assert.Equal(t, []string{
		"IdOrName",
		"Payment",
		"OrderShippingGeo",
		"OrderShipping",
		"AnonymousMeta",
		"Status",
		"Line",
		"Card",
		"Order",
		"billing",
	}, nodeNames(m.Nodes))

	for _, member := range structNamed(m.Nodes, "Order").Members {
		_, isField := member.(*ir.Field)
		assert.True(t, isField, "%T left in Order", member)
	}
}

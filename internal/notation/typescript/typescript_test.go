package typescript

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/notationtest"
	"astrie/internal/rewrite"
)

func tsTarget(t *testing.T) *lang.Target {
	t.Helper()

	c, err := lang.Default()
	require.NoError(t, err)

	tgt, ok := c.Get(Key)
	require.True(t, ok)

	return tgt
}

func TestEmit_Shop(t *testing.T) {
	e := NewEmitter(tsTarget(t))
	text := e.Walk(rewrite.Flatten(notationtest.Shop()))

	assert.False(t, e.Diagnostics().HasErrors(), spew.Sdump(e.Diagnostics()))
	assert.Empty(t, e.Diagnostics().Warnings, spew.Sdump(e.Diagnostics()))

	for _, want := range []string{
		"// Code generated by astrie. DO NOT EDIT.\n\n",
		"export enum Color {\n  Red = \"Red\",\n  Green = \"Green\",\n}\n",
		"export interface Line {\n  sku: string;\n  qty: number;\n  price: string;\n}\n",
		"export interface Order {\n" +
			"  id: bigint;\n" +
			"  lines: Array<Line>;\n" +
			"  tags: Record<string, Set<string>>;\n" +
			"  shipping: OrderShipping;\n" +
			"  idOrName: number | string;\n" +
			"  note: string | null;\n" +
			"  parent: Order | null;\n" +
			"  checksum: Array<number>;\n" +
			"  created: Date;\n" +
			"  color: Color;\n" +
			"  payment: { card: Card } | { cash: null };\n" +
			"  meta: AnonymousMeta;\n" +
			"}\n",
		"export namespace Billing {\n  export interface Invoice {\n    order: Order;\n    total: number;\n  }\n}\n",
		"export interface Orders {\n  get(request: GetOrder): Promise<Order>;\n}\n",
	} {
		assert.Contains(t, text, want)
	}

	assert.NotContains(t, text, "\n\n\n")
}

func TestEmit_UnionsAndBase(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Oneof{Name: "Shape", Alternatives: []*ir.Alternative{
			{Name: "circle_radius", Type: ir.Prim(ir.KindFloat64)},
			{Name: "none"},
		}},
		notationtest.Lifted().Nodes[0],
		&ir.Struct{Name: "Child", Base: "billing.Account", Members: []ir.Member{
			&ir.Field{Name: "maybe", Type: ir.List(ir.VariantOf(ir.Prim(ir.KindBool), ir.Prim(ir.KindString)))},
		}},
	}}

	text := NewEmitter(tsTarget(t)).Walk(m)

	assert.Contains(t, text, "export type Shape = { circleRadius: number } | { none: null };\n")
	assert.Contains(t, text, "export type IdOrName = number | string;\n")
	assert.Contains(t, text, "export interface Child extends Billing.Account {\n  maybe: Array<boolean | string>;\n}\n")
}

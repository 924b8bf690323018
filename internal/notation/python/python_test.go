package python

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/notationtest"
	"astrie/internal/rewrite"
)

func pyTarget(t *testing.T) *lang.Target {
	t.Helper()

	c, err := lang.Default()
	require.NoError(t, err)

	tgt, ok := c.Get(Key)
	require.True(t, ok)

	return tgt
}

func TestEmit_Shop(t *testing.T) {
	e := NewEmitter(pyTarget(t))
	text := e.Walk(rewrite.Flatten(notationtest.Shop()))

	assert.False(t, e.Diagnostics().HasErrors(), spew.Sdump(e.Diagnostics()))
	assert.True(t, strings.HasPrefix(text, "# Code generated by astrie. DO NOT EDIT.\n\n"+
		"from __future__ import annotations\n\n"+
		"from dataclasses import dataclass, field\n"+
		"from datetime import datetime\n"+
		"from decimal import Decimal\n"+
		"from enum import IntEnum\n"+
		"from typing import Optional, Protocol, Union\n\n\n"), text)

	for _, want := range []string{
		"\n\nclass Color(IntEnum):\n    RED = 0\n    GREEN = 1\n",
		"\n\nclass Status(IntEnum):\n    OPEN = 0\n    CLOSED = 5\n",
		"\n\n@dataclass\nclass Line:\n    sku: str = \"\"\n    qty: int = 0\n    price: Decimal = Decimal(0)\n",
		"\n\n@dataclass\nclass Order:\n" +
			"    id: int = 0\n" +
			"    lines: list[Line] = field(default_factory=list)\n" +
			"    tags: dict[str, set[str]] = field(default_factory=dict)\n" +
			"    shipping: OrderShipping = field(default_factory=OrderShipping)\n" +
			"    id_or_name: Union[int, str] = None\n" +
			"    note: Optional[str] = None\n" +
			"    parent: Optional[Order] = None\n" +
			"    checksum: list[int] = field(default_factory=list)\n" +
			"    created: datetime = field(default_factory=datetime.now)\n" +
			"    color: Color = Color.RED\n" +
			"    payment: Union[Card, None] = None\n" +
			"    meta: AnonymousMeta = field(default_factory=AnonymousMeta)\n",
		"\n\n@dataclass\nclass Invoice:\n    order: Order = field(default_factory=Order)\n    total: float = 0.0\n",
		"\n\nclass Orders(Protocol):\n    def get(self, request: GetOrder) -> Order: ...\n",
	} {
		assert.Contains(t, text, want)
	}

	assert.NotContains(t, text, "\n\n\n\n")
	assert.True(t, strings.HasSuffix(text, ": ...\n"))
}

func TestEmit_DependencyOrder(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Outer", Base: "Root", Members: []ir.Member{&ir.Field{Name: "inner", Type: ir.Ref("Inner")}}},
		&ir.Struct{Name: "Inner"},
		&ir.Struct{Name: "Root", Members: []ir.Member{&ir.Field{Name: "from", Type: ir.Prim(ir.KindUUID)}}},
	}}

	text := NewEmitter(pyTarget(t)).Walk(m)

	inner := strings.Index(text, "class Inner:")
	root := strings.Index(text, "class Root:")
	outer := strings.Index(text, "class Outer(Root):")

	require.NotEqual(t, -1, outer, text)
	assert.Less(t, inner, outer)
	assert.Less(t, root, outer)
	assert.Contains(t, text, "class Inner:\n    pass\n")
	assert.Contains(t, text, "    from_: UUID = field(default_factory=uuid4)\n")
	assert.Contains(t, text, "from uuid import UUID, uuid4\n")
}

func TestEmit_UnionAliases(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Oneof{Name: "Shape", Alternatives: []*ir.Alternative{
			{Name: "circle", Type: ir.Prim(ir.KindFloat64)},
			{Name: "none"},
		}},
		notationtest.Lifted().Nodes[0],
	}}

	text := NewEmitter(pyTarget(t)).Walk(m)

	assert.Contains(t, text, "\n\nShape = Union[float, None]\n")
	assert.Contains(t, text, "\n\nIdOrName = Union[int, str]\n")
	assert.NotContains(t, text, "IntEnum")
}

func TestMergeFrom(t *testing.T) {
	got := mergeFrom([]string{
		"from typing import Union",
		"from dataclasses import field",
		"from typing import Any",
		"from dataclasses import dataclass",
	})

	assert.Equal(t, []string{
		"from dataclasses import dataclass, field",
		"from typing import Any, Union",
	}, got)
}

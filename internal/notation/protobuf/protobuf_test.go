package protobuf

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/notationtest"
	"astrie/internal/rewrite"
)

func protoTarget(t *testing.T) *lang.Target {
	t.Helper()

	c, err := lang.Default()
	require.NoError(t, err)

	tgt, ok := c.Get(Key)
	require.True(t, ok)

	return tgt
}

func TestEmit_Shop(t *testing.T) {
	e := NewEmitter(protoTarget(t))
	text := e.Walk(rewrite.Flatten(notationtest.Shop()))

	assert.True(t, strings.HasPrefix(text, "// Code generated by astrie. DO NOT EDIT.\n\n"+
		"syntax = \"proto3\";\n\n"+
		"package shop;\n\n"+
		"import \"google/protobuf/empty.proto\";\n"+
		"import \"google/protobuf/timestamp.proto\";\n\n"), text)

	for _, want := range []string{
		"enum Color {\n  COLOR_RED = 0;\n  COLOR_GREEN = 1 [deprecated = true];\n}\n",
		"enum Status {\n  STATUS_OPEN = 0;\n  STATUS_CLOSED = 5;\n}\n",
		"message Order {\n" +
			"  int64 id = 1;\n" +
			"  repeated Line lines = 2;\n" +
			"  bytes tags = 3;\n" +
			"  OrderShipping shipping = 4;\n" +
			"  oneof id_or_name {\n" +
			"    int32 id_or_name_0 = 5;\n" +
			"    string id_or_name_1 = 6;\n" +
			"  }\n" +
			"  optional string note = 7;\n" +
			"  Order parent = 8;\n" +
			"  repeated uint32 checksum = 9;\n" +
			"  google.protobuf.Timestamp created = 10;\n" +
			"  Color color = 11;\n" +
			"  oneof payment {\n" +
			"    Card card = 12;\n" +
			"    google.protobuf.Empty cash = 13;\n" +
			"  }\n" +
			"  AnonymousMeta meta = 14;\n" +
			"}\n",
		"message Invoice {\n  Order order = 1;\n  double total = 2;\n}\n",
		"service Orders {\n  rpc Get(GetOrder) returns (Order);\n}\n",
	} {
		assert.Contains(t, text, want)
	}

	tags := e.Diagnostics().WithCode(diagnostic.CodeUnmappedKind)
	require.Len(t, tags, 1, spew.Sdump(e.Diagnostics()))
	assert.Equal(t, "Order.tags", tags[0].Path)
	assert.False(t, e.Diagnostics().HasErrors())
}

func TestEmit_EnumZeroValue(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Enum{Name: "Level", Values: []*ir.EnumValue{{Name: "Low", Number: 1}, {Name: "High", Number: 2}}},
		&ir.Enum{Name: "Mode", Values: []*ir.EnumValue{{Name: "Fast", Number: 3}, {Name: "Off", Number: 0}, {Name: "Quick", Number: 3}}},
	}}

	text := NewEmitter(protoTarget(t)).Walk(m)

	assert.Contains(t, text, "enum Level {\n  LEVEL_UNSPECIFIED = 0;\n  LEVEL_LOW = 1;\n  LEVEL_HIGH = 2;\n}\n")
	assert.Contains(t, text, "enum Mode {\n  option allow_alias = true;\n  MODE_OFF = 0;\n  MODE_FAST = 3;\n  MODE_QUICK = 3;\n}\n")
	assert.NotContains(t, text, "package ")
}

func TestEmit_MessagesForUnions(t *testing.T) {
	m := notationtest.Lifted()
	m.Nodes = append(m.Nodes,
		&ir.Oneof{Name: "Shape", Alternatives: []*ir.Alternative{
			{Name: "radius", Type: ir.Opt(ir.Prim(ir.KindFloat64))},
			{Name: "points", Type: ir.List(ir.Prim(ir.KindInt32))},
		}},
		&ir.Struct{Name: "Child", Base: "Lookup", Members: []ir.Member{
			&ir.Field{Name: "names", Type: ir.Opt(ir.List(ir.Prim(ir.KindString)))},
			&ir.Field{Name: "grid", Type: ir.List(ir.List(ir.Prim(ir.KindInt32)))},
			&ir.Field{Name: "by_id", Type: ir.MapOf(ir.Prim(ir.KindInt64), ir.Ref("Lookup"))},
		}},
	)

	e := NewEmitter(protoTarget(t))
	text := e.Walk(m)

	assert.Contains(t, text, "message IdOrName {\n  oneof value {\n    int32 variant0 = 1;\n    string variant1 = 2;\n  }\n}\n")
	assert.Contains(t, text, "message Shape {\n  oneof shape {\n    double radius = 1;\n    bytes points = 2;\n  }\n}\n")
	assert.Contains(t, text, "message Child {\n"+
		"  Lookup base = 1;\n"+
		"  repeated string names = 2;\n"+
		"  bytes grid = 3;\n"+
		"  map<int64, Lookup> by_id = 4;\n"+
		"}\n")

	paths := make([]string, 0, 2)
	for _, d := range e.Diagnostics().WithCode(diagnostic.CodeUnmappedKind) {
		paths = append(paths, d.Path)
	}

	assert.ElementsMatch(t, []string{"Shape.points", "Child.grid"}, paths)
}

func TestEmit_DropsNestedDeclarations(t *testing.T) {
	m := &ir.Module{Nodes: []ir.Node{
		&ir.Struct{Name: "Outer", Members: []ir.Member{
			&ir.Struct{Name: "Inner"},
			&ir.Field{Name: "x", Type: ir.Prim(ir.KindBool)},
		}},
	}}

	e := NewEmitter(protoTarget(t))
	text := e.Walk(m)

	assert.Contains(t, text, "message Outer {\n  bool x = 1;\n}\n")
	assert.Len(t, e.Diagnostics().WithCode(diagnostic.CodeUnsupportedDecl), 1)
}

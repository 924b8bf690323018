package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrie/internal/diagnostic"
	"astrie/internal/errors"
	"astrie/internal/ir"
)

func TestDefault_Targets(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "1", c.Version)
	assert.Equal(t, []string{"go", "h", "hcl", "json", "proto", "py", "rs", "toml", "ts", "yaml"}, c.Keys())

	for _, key := range c.Keys() {
		tgt, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, key, tgt.Key)
		assert.NotEmpty(t, tgt.FileExt, key)
	}

	_, ok := c.Get("cobol")
	assert.False(t, ok)
}

func TestDefault_Capabilities(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		key     string
		flatten bool
		lift    bool
	}{
		{"json", false, false},
		{"yaml", false, false},
		{"toml", false, false},
		{"hcl", false, false},
		{"go", true, true},
		{"rs", true, true},
		{"h", true, false},
		{"py", true, false},
		{"ts", true, false},
		{"proto", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			tgt, ok := c.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.flatten, tgt.Capabilities.Flatten)
			assert.Equal(t, tt.lift, tgt.Capabilities.LiftSumTypes)
		})
	}
}

func TestTarget_Lowerer(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		key  string
		typ  ir.Type
		want string
	}{
		{"h", ir.MapOf(ir.Prim(ir.KindString), ir.List(ir.Ref("Line"))), "std::map<std::string, std::vector<Line>>"},
		{"h", ir.Unique(ir.Ref("Node")), "std::unique_ptr<Node>"},
		{"h", ir.ArrayOf(ir.Prim(ir.KindUInt8), 16), "std::array<uint8_t, 16>"},
		{"go", ir.ArrayOf(ir.Prim(ir.KindUInt8), 16), "[16]uint8"},
		{"go", ir.ArrayOf(ir.Prim(ir.KindUInt8), 0), "[]uint8"},
		{"rs", ir.ArrayOf(ir.Prim(ir.KindUInt8), 0), "Vec<u8>"},
		{"go", ir.MapOf(ir.Prim(ir.KindString), ir.Opt(ir.Prim(ir.KindInt64))), "map[string]*int64"},
		{"rs", ir.Opt(ir.List(ir.Prim(ir.KindString))), "Option<Vec<String>>"},
		{"rs", ir.Shared(ir.Ref("Config")), "Arc<Config>"},
		{"py", ir.VariantOf(ir.Prim(ir.KindInt32), ir.Prim(ir.KindString)), "Union[int, str]"},
		{"py", ir.TupleOf(ir.Prim(ir.KindBool), ir.Prim(ir.KindFloat64)), "tuple[bool, float]"},
		{"ts", ir.Opt(ir.Prim(ir.KindString)), "string | null"},
		{"ts", ir.TupleOf(ir.Prim(ir.KindInt32), ir.Prim(ir.KindString)), "[number, string]"},
		{"proto", ir.List(ir.Ref("Line")), "repeated Line"},
		{"proto", ir.Prim(ir.KindDateTime), "google.protobuf.Timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"/"+ir.TypeString(tt.typ), func(t *testing.T) {
			tgt, ok := c.Get(tt.key)
			require.True(t, ok)

			var diags diagnostic.Diagnostics

			assert.Equal(t, tt.want, tgt.Lowerer(&diags).TypeName(tt.typ))
			assert.Empty(t, diags.Warnings)
		})
	}
}

func TestTarget_LowererFallback(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	goTarget, _ := c.Get("go")

	var diags diagnostic.Diagnostics

	assert.Equal(t, "any", goTarget.Lowerer(&diags).TypeName(ir.TupleOf(ir.Prim(ir.KindInt32))))
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "go", diags.Warnings[0].Target)

	proto, _ := c.Get("proto")
	diags = diagnostic.Diagnostics{}

	assert.Equal(t, "bytes", proto.Lowerer(&diags).TypeName(ir.VariantOf(ir.Prim(ir.KindInt32))))
	assert.Len(t, diags.Warnings, 1)
}

func TestTarget_DefaultValue(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	rs, _ := c.Get("rs")
	l := rs.Lowerer(nil)

	assert.Equal(t, "Line::default()", l.DefaultValue(ir.Ref("Line")))
	assert.Equal(t, "None", l.DefaultValue(ir.Opt(ir.Prim(ir.KindInt32))))
	assert.Equal(t, "String::new()", l.DefaultValue(ir.Prim(ir.KindString)))
}

func TestTarget_Filename(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		key  string
		base string
		want string
	}{
		{"go", "OrderService", "order_service.go"},
		{"ts", "OrderService", "order-service.ts"},
		{"h", "order", "order.h"},
		{"json", "", "schema.json"},
	}

	for _, tt := range tests {
		tgt, ok := c.Get(tt.key)
		require.True(t, ok)
		assert.Equal(t, tt.want, tgt.Filename(tt.base), tt.key)
	}
}

func TestStyle_Apply(t *testing.T) {
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{StylePascal, "id_or_name", "IdOrName"},
		{StyleCamel, "OrderID", "orderID"},
		{StyleSnake, "OrderID", "order_id"},
		{StyleScreamingSnake, "maxSize", "MAX_SIZE"},
		{StyleUpperSnake, "maxSize", "MAX_SIZE"},
		{StyleKebab, "OrderService", "order-service"},
		{StyleLower, "shop_core", "shopcore"},
		{StylePreserve, "weird_Name", "weird_Name"},
		{"", "weird_Name", "weird_Name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.style)+"/"+tt.in, func(t *testing.T) {
			assert.True(t, tt.style.Valid())
			assert.Equal(t, tt.want, tt.style.Apply(tt.in))
		})
	}

	assert.False(t, Style("Title Case").Valid())
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "types.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad_MergesOverrides(t *testing.T) {
	path := writeFile(t, `
targets:
  go:
    fallback: interface{}
    capabilities: { lift_sum_types: false }
    types:
      decimal: { name: decimal.Decimal, default: decimal.Zero }
    naming: { field: camelCase }
  kt:
    file_ext: kt
    types:
      int32: { name: Int }
`)

	c, err := Load(path)
	require.NoError(t, err)

	goTarget, ok := c.Get("go")
	require.True(t, ok)
	assert.Equal(t, "interface{}", goTarget.Fallback)
	assert.True(t, goTarget.Capabilities.Flatten, "unset flag keeps the default")
	assert.False(t, goTarget.Capabilities.LiftSumTypes)
	assert.Equal(t, "decimal.Decimal", goTarget.Table()[ir.KindDecimal].Name)
	assert.Equal(t, "int64", goTarget.Table()[ir.KindInt64].Name, "other rows survive")
	assert.Equal(t, StyleCamel, goTarget.Naming.Field)
	assert.Equal(t, StylePascal, goTarget.Naming.Struct)
	assert.Equal(t, "//", goTarget.CommentStyle)

	kt, ok := c.Get("kt")
	require.True(t, ok)
	assert.Equal(t, "Int", kt.Table()[ir.KindInt32].Name)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown kind",
			content: "targets:\n  go:\n    types:\n      int128: { name: big.Int }\n",
			errMsg:  `target "go": unknown kind "int128"`,
		},
		{
			name:    "unknown style",
			content: "targets:\n  go:\n    naming: { field: Title }\n",
			errMsg:  `unknown field naming style "Title"`,
		},
		{
			name:    "placeholder beyond arguments",
			content: "targets:\n  go:\n    types:\n      map: { name: \"map[{0}]{2}\" }\n",
			errMsg:  `target "go": kind "map": template "map[{0}]{2}" uses {2} but map has 2 argument(s)`,
		},
		{
			name:    "placeholder in leaf kind",
			content: "targets:\n  go:\n    types:\n      int32: { name: int, default: \"{0}\" }\n",
			errMsg:  `uses {0} but int32 has 0 argument(s)`,
		},
		{
			name:    "malformed yaml",
			content: "targets: [",
			errMsg:  "failed to parse targets YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read targets file")
}

func TestLoad_UnknownKindHint(t *testing.T) {
	_, err := Parse([]byte("targets:\n  x:\n    types:\n      unknown: { name: X }\n"))
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "kind names are lower case")
}

func TestParse_Standalone(t *testing.T) {
	c, err := Parse([]byte("targets:\n  mini:\n    types:\n      bool: { name: flag }\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"mini"}, c.Keys())

	mini, _ := c.Get("mini")
	assert.Equal(t, "mini", mini.FileExt)
	assert.False(t, mini.Capabilities.Flatten)
	assert.Equal(t, "flag", mini.Lowerer(nil).TypeName(ir.Prim(ir.KindBool)))
}

package golang

import (
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"astrie/internal/common"
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/codegen"
	"astrie/internal/subst"
	"astrie/internal/walk"
)

// CodeFormat is the diagnostic code of emitted source gofmt rejects.
const CodeFormat = "go-format"

// knownImports maps identifiers used by type rows and emitted helpers to
// their import paths.
var knownImports = map[string]string{
	"context.Context":   "context",
	"decimal.Decimal":   "github.com/shopspring/decimal",
	"json.RawMessage":   "encoding/json",
	"strconv.FormatInt": "strconv",
	"time.Duration":     "time",
	"time.Time":         "time",
	"url.URL":           "net/url",
	"uuid.UUID":         "github.com/google/uuid",
	"uuid.Nil":          "github.com/google/uuid",
}

// Emitter writes modules as a single Go package. It expects flattened and
// lifted input: nested declarations and oneofs have no Go spelling.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target  *lang.Target
	lower   *subst.Lowerer
	diags   diagnostic.Diagnostics
	imports *codegen.Imports
	enum    *ir.Enum
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithIndent("\t"), walk.WithFlatNamespaces())

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

// Walk renders m, prepends the package clause and imports, then formats the
// result. Source that fails to format is returned as is with an error
// diagnostic.
func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.imports = codegen.NewImports(knownImports)
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Passthrough = true
	e.lower.Qualify = e.typeName

	body := e.Walker.Walk(m)

	var sb strings.Builder

	sb.WriteString(codegen.Header(e.target))
	sb.WriteString("package " + e.packageName(m) + "\n\n")
	sb.WriteString(e.importBlock())
	sb.WriteString(body)

	src := []byte(sb.String())

	out, err := imports.Process(fileName, src, &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		e.diags.AddError(CodeFormat, "emitted source does not format: "+err.Error(), Key, "")

		return string(src)
	}

	return string(out)
}

func (e *Emitter) packageName(m *ir.Module) string {
	if ns, ok := common.Last(m.Namespaces); ok {
		if name := lang.StyleLower.Apply(ns); name != "" {
			return name
		}
	}

	return "schema"
}

func (e *Emitter) importBlock() string {
	if e.imports.Len() == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("import (\n")

	for _, p := range e.imports.Lines() {
		sb.WriteString("\t" + strconv.Quote(p) + "\n")
	}

	sb.WriteString(")\n\n")

	return sb.String()
}

func (e *Emitter) goType(t ir.Type) string {
	return e.imports.Scan(e.lower.TypeName(t))
}

// typeName renders a declaration name. Namespaces collapse into the one
// package, so only the last segment is kept.
func (e *Emitter) typeName(name string) string {
	return e.target.Naming.Struct.Apply(codegen.LastSegment(name))
}

func (e *Emitter) StructOpen(s *ir.Struct, _ walk.Context) string {
	out := "type " + e.typeName(s.Name) + " struct {\n"

	if s.Base != "" {
		out += "\t" + e.typeName(s.Base) + "\n"
	}

	return out
}

func (e *Emitter) StructClose(*ir.Struct, walk.Context) string {
	return "}\n\n"
}

// Field writes one struct field. A json tag carrying the source name is
// added unless the attributes already hold one.
func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	attrs := f.Attributes
	if !attrs.Has("json") {
		attrs = append(ir.Attributes{{Name: "json", Value: f.Name}}, attrs...)
	}

	tag, skipped := formatTag(attrs)
	for _, name := range skipped {
		e.diags.AddWarning(diagnostic.CodeDroppedAttribute, "attribute "+strconv.Quote(name)+" has no struct tag spelling", Key, fieldPath(ctx, f))
	}

	return "\t" + e.target.Naming.Field.Apply(f.Name) + " " + e.goType(f.Type) + " `" + tag + "`\n"
}

// OverrideMember drops nested declarations left by a configuration that
// disabled flattening or lifting.
func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	if _, ok := m.(*ir.Field); ok {
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" has no Go spelling, dropped", Key, ctx.Parent.Name)

	return "", true
}

func (e *Emitter) Oneof(o *ir.Oneof, _ walk.Context) string {
	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "oneof "+o.Name+" has no Go spelling, dropped", Key, o.Name)

	return ""
}

func (e *Emitter) EnumOpen(en *ir.Enum, _ walk.Context) string {
	e.enum = en
	name := e.typeName(en.Name)

	if en.HasPayloads() {
		return "type " + name + " interface {\n\tis" + name + "()\n}\n\n"
	}

	return "type " + name + " " + e.underlying(en) + "\n\nconst (\n"
}

func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, _ walk.Context) string {
	enum := e.typeName(e.enum.Name)
	name := e.constName(v)

	if !e.enum.HasPayloads() {
		return "\t" + name + " " + enum + " = " + strconv.FormatInt(v.Number, 10) + "\n"
	}

	var body string

	if v.Payload != nil && v.Payload.Kind() != ir.KindMonostate {
		body = "\tValue " + e.goType(v.Payload) + " `json:\"value\"`\n"
	}

	return "type " + name + " struct {\n" + body + "}\n\n" +
		"func (" + name + ") is" + enum + "() {}\n\n"
}

func (e *Emitter) EnumClose(en *ir.Enum, _ walk.Context) string {
	if en.HasPayloads() {
		return ""
	}

	name := e.typeName(en.Name)

	var sb strings.Builder

	sb.WriteString(")\n\n")
	sb.WriteString("func (v " + name + ") String() string {\n\tswitch v {\n")

	seen := map[int64]bool{}

	for _, v := range en.Values {
		if seen[v.Number] {
			continue
		}

		seen[v.Number] = true
		sb.WriteString("\tcase " + e.constName(v) + ":\n\t\treturn " + strconv.Quote(v.Name) + "\n")
	}

	sb.WriteString("\tdefault:\n\t\treturn \"" + name + "(\" + strconv.FormatInt(int64(v), 10) + \")\"\n\t}\n}\n\n")
	e.imports.Scan("strconv.FormatInt")

	return sb.String()
}

func (e *Emitter) constName(v *ir.EnumValue) string {
	return e.target.Naming.Constant.Apply(e.typeName(e.enum.Name) + "_" + v.Name)
}

// underlying maps the enum representation to a Go integer type.
func (e *Emitter) underlying(en *ir.Enum) string {
	if k, ok := ir.ParseKind(en.Underlying); ok && k.IsInteger() {
		if row, ok := e.target.Table().Lookup(k); ok {
			return row.Name
		}
	}

	if _, ok := builtins[en.Underlying]; ok && en.Underlying != "string" && en.Underlying != "bool" {
		return en.Underlying
	}

	return "int"
}

// Service writes an interface with one context-aware method per RPC.
func (e *Emitter) Service(s *ir.Service, _ walk.Context) string {
	var sb strings.Builder

	sb.WriteString("type " + e.typeName(s.Name) + " interface {\n")

	for _, m := range s.Methods {
		sb.WriteString("\t" + lang.StylePascal.Apply(m.Name) + "(ctx context.Context, req *" + e.typeName(m.Request) +
			") (*" + e.typeName(m.Response) + ", error)\n")
	}

	sb.WriteString("}\n\n")
	e.imports.Scan("context.Context")

	return sb.String()
}

func fieldPath(ctx walk.Context, f *ir.Field) string {
	if ctx.Parent == nil {
		return f.Name
	}

	return ctx.Parent.Name + "." + f.Name
}

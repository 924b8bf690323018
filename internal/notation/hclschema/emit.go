package hclschema

import (
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/walk"
)

var constructorNames = func() map[ir.Kind]string {
	m := map[ir.Kind]string{}
	for name, k := range indirections {
		m[k] = name
	}

	for name, k := range containers {
		m[k] = name
	}

	m[ir.KindArray] = "array"

	return m
}()

// Emitter writes modules in the HCL schema notation. It keeps the module
// structure as is: nested declarations, oneofs and variants all have a
// native spelling.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target *lang.Target
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithIndent("  "))

	return e
}

func (e *Emitter) Key() string          { return Key }
func (e *Emitter) Target() *lang.Target { return e.target }

// Walk renders m and normalizes the layout with hclwrite.
func (e *Emitter) Walk(m *ir.Module) string {
	out := hclwrite.Format([]byte(e.Walker.Walk(m)))

	return strings.TrimRight(string(out), "\n") + "\n"
}

func (e *Emitter) Header(m *ir.Module, _ walk.Context) string {
	if len(m.Namespaces) == 0 {
		return ""
	}

	quoted := make([]string, len(m.Namespaces))
	for i, ns := range m.Namespaces {
		quoted[i] = quote(ns)
	}

	return "namespace = [" + strings.Join(quoted, ", ") + "]\n\n"
}

func (e *Emitter) NamespaceOpen(ns *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "namespace " + quote(ns.Name) + " {\n"
}

func (e *Emitter) NamespaceClose(_ *ir.Namespace, ctx walk.Context) string {
	return closeBlock(ctx)
}

func (e *Emitter) StructOpen(s *ir.Struct, ctx walk.Context) string {
	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "struct ")

	if !s.Anonymous {
		sb.WriteString(quote(s.Name) + " ")
	}

	sb.WriteString("{\n")

	in := ctx.Nest().Indent()

	if s.VarName != "" {
		sb.WriteString(in + "var = " + quote(s.VarName) + "\n")
	}

	if s.Base != "" {
		sb.WriteString(in + "base = " + name(s.Base) + "\n")
	}

	if s.Record {
		sb.WriteString(in + "record = true\n")
	}

	if s.Abstract {
		sb.WriteString(in + "abstract = true\n")
	}

	sb.WriteString(attributesLine(s.Attributes, in))

	return sb.String()
}

func (e *Emitter) StructClose(_ *ir.Struct, ctx walk.Context) string {
	return closeBlock(ctx)
}

func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	in := ctx.Nest().Indent()

	return ctx.Indent() + "field " + quote(f.Name) + " {\n" +
		in + "type = " + e.WalkType(f.Type) + "\n" +
		attributesLine(f.Attributes, in) +
		ctx.Indent() + "}\n"
}

func (e *Emitter) EnumOpen(en *ir.Enum, ctx walk.Context) string {
	in := ctx.Nest().Indent()
	out := ctx.Indent() + "enum " + quote(en.Name) + " {\n"

	if en.Scoped {
		out += in + "scoped = true\n"
	}

	if en.Underlying != "" {
		out += in + "underlying = " + quote(en.Underlying) + "\n"
	}

	return out + attributesLine(en.Attributes, in)
}

func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, ctx walk.Context) string {
	in := ctx.Nest().Indent()
	out := ctx.Indent() + "value " + quote(v.Name) + " {\n" +
		in + "number = " + strconv.FormatInt(v.Number, 10) + "\n"

	if v.Payload != nil {
		out += in + "payload = " + e.WalkType(v.Payload) + "\n"
	}

	return out + attributesLine(v.Attributes, in) + ctx.Indent() + "}\n"
}

func (e *Emitter) EnumClose(_ *ir.Enum, ctx walk.Context) string {
	return closeBlock(ctx)
}

func (e *Emitter) Oneof(o *ir.Oneof, ctx walk.Context) string {
	inner := ctx.Nest()
	in := inner.Indent()

	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "oneof " + quote(o.Name) + " {\n")
	sb.WriteString(attributesLine(o.Attributes, in))

	for _, a := range o.Alternatives {
		sb.WriteString(in + "alt " + quote(a.Name) + " {\n")

		if a.Type != nil {
			sb.WriteString(inner.Nest().Indent() + "type = " + e.WalkType(a.Type) + "\n")
		}

		sb.WriteString(attributesLine(a.Attributes, inner.Nest().Indent()))
		sb.WriteString(in + "}\n")
	}

	sb.WriteString(closeBlock(ctx))

	return sb.String()
}

func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	inner := ctx.Nest()
	in := inner.Indent()
	deeper := inner.Nest().Indent()

	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "service " + quote(s.Name) + " {\n")
	sb.WriteString(attributesLine(s.Attributes, in))

	for _, m := range s.Methods {
		sb.WriteString(in + "rpc " + quote(m.Name) + " {\n")

		if m.Request != "" {
			sb.WriteString(deeper + "request = " + name(m.Request) + "\n")
		}

		if m.Response != "" {
			sb.WriteString(deeper + "response = " + name(m.Response) + "\n")
		}

		sb.WriteString(attributesLine(m.Attributes, deeper))
		sb.WriteString(in + "}\n")
	}

	sb.WriteString(closeBlock(ctx))

	return sb.String()
}

func (e *Emitter) PrimitiveType(t *ir.Primitive) string {
	if t.Reified == ir.KindUnknown {
		return "opaque(" + quote(t.Spelling) + ")"
	}

	return t.Reified.String()
}

func (e *Emitter) NamedRefType(t *ir.NamedRef) string {
	return name(t.Name)
}

func (e *Emitter) IndirectionType(t *ir.Indirection) string {
	return constructorNames[t.Reified] + "(" + e.WalkType(t.Elem) + ")"
}

func (e *Emitter) ParameterizedType(t *ir.Parameterized) string {
	args := make([]string, 0, len(t.Args)+1)
	for _, a := range t.Args {
		args = append(args, e.WalkType(a))
	}

	if t.Reified == ir.KindArray {
		args = append(args, strconv.Itoa(t.Len))
	}

	return constructorNames[t.Reified] + "(" + strings.Join(args, ", ") + ")"
}

// InlineType renders the fields of an inline struct as an object type.
// Nested declarations and the struct name have no spelling there.
func (e *Emitter) InlineType(t *ir.Inline) string {
	if t.Struct == nil || len(t.Struct.Fields()) == 0 {
		return "object({})"
	}

	parts := make([]string, 0, len(t.Struct.Members))
	for _, f := range t.Struct.Fields() {
		parts = append(parts, key(f.Name)+" = "+e.WalkType(f.Type))
	}

	return "object({ " + strings.Join(parts, ", ") + " })"
}

func closeBlock(ctx walk.Context) string {
	if ctx.Level == 0 {
		return "}\n\n"
	}

	return ctx.Indent() + "}\n"
}

func attributesLine(attrs ir.Attributes, indent string) string {
	if len(attrs) == 0 {
		return ""
	}

	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = key(a.Name) + " = " + quote(a.Value)
	}

	return indent + "attributes = { " + strings.Join(parts, ", ") + " }\n"
}

func quote(s string) string {
	return string(hclwrite.TokensForValue(cty.StringVal(s)).Bytes())
}

// key renders an object key, bare when it is an identifier.
func key(s string) string {
	if hclsyntax.ValidIdentifier(s) {
		return s
	}

	return quote(s)
}

// name renders a declaration reference as a traversal when every segment is
// an identifier, else as a string.
func name(s string) string {
	for _, part := range strings.Split(s, ".") {
		if !hclsyntax.ValidIdentifier(part) {
			return quote(s)
		}
	}

	return s
}

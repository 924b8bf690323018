// Package protobuf writes modules as proto3 definitions.
//
// Namespaces collapse into the file's package. Struct bases become a
// leading "base" field, variant fields become oneof blocks and enums
// always start at zero.
package protobuf

import (
	"strconv"
	"strings"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/codegen"
	"astrie/internal/subst"
	"astrie/internal/walk"
)

// Key is the notation key of protobuf output.
const Key = "proto"

var knownImports = map[string]string{
	"google.protobuf.Duration":  `import "google/protobuf/duration.proto";`,
	"google.protobuf.Empty":     `import "google/protobuf/empty.proto";`,
	"google.protobuf.Timestamp": `import "google/protobuf/timestamp.proto";`,
}

const empty = "google.protobuf.Empty"

// Emitter writes proto3. It expects flattened input.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target  *lang.Target
	lower   *subst.Lowerer
	diags   diagnostic.Diagnostics
	imports *codegen.Imports
	number  int
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithIndent("  "), walk.WithFlatNamespaces())

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.imports = codegen.NewImports(knownImports)
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Qualify = e.messageName

	body := e.Walker.Walk(m)

	var sb strings.Builder

	sb.WriteString(codegen.Header(e.target))
	sb.WriteString("syntax = \"proto3\";\n\n")

	if len(m.Namespaces) > 0 {
		parts := make([]string, len(m.Namespaces))
		for i, ns := range m.Namespaces {
			parts[i] = e.target.Naming.Namespace.Apply(ns)
		}

		sb.WriteString("package " + strings.Join(parts, ".") + ";\n\n")
	}

	if e.imports.Len() > 0 {
		sb.WriteString(strings.Join(e.imports.Lines(), "\n") + "\n\n")
	}

	sb.WriteString(body)

	return codegen.Tidy(sb.String())
}

func (e *Emitter) messageName(name string) string {
	return e.target.Naming.Struct.Apply(codegen.LastSegment(name))
}

func (e *Emitter) fieldName(name string) string {
	return e.target.Naming.Field.Apply(name)
}

func (e *Emitter) next() string {
	e.number++

	return strconv.Itoa(e.number)
}

func (e *Emitter) StructOpen(s *ir.Struct, ctx walk.Context) string {
	e.number = 0

	head := "message " + e.messageName(s.Name) + " {\n"
	if s.Base != "" {
		head += ctx.Nest().Indent() + e.messageName(s.Base) + " base = " + e.next() + ";\n"
	}

	return head
}

func (e *Emitter) StructClose(*ir.Struct, walk.Context) string {
	return "}\n\n"
}

func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	path := ctx.Parent.Name + "." + f.Name

	if p, ok := f.Type.(*ir.Parameterized); ok && p.Reified == ir.KindVariant {
		alts := make([]*ir.Alternative, len(p.Args))
		for i, a := range p.Args {
			alts[i] = &ir.Alternative{Name: f.Name + "_" + strconv.Itoa(i), Type: a}
		}

		return e.oneof(f.Name, alts, path, ctx)
	}

	return ctx.Indent() + e.fieldType(f.Type, path) + " " + e.fieldName(f.Name) + " = " + e.next() + options(f.Attributes) + ";\n"
}

func (e *Emitter) Oneof(o *ir.Oneof, ctx walk.Context) string {
	if ctx.Parent != nil {
		return e.oneof(o.Name, o.Alternatives, ctx.Parent.Name+"."+o.Name, ctx)
	}

	// proto has no free-standing oneof, so it gets a message of its own.
	e.number = 0

	return "message " + e.messageName(o.Name) + " {\n" + e.oneof(o.Name, o.Alternatives, o.Name, ctx.Nest()) + "}\n\n"
}

func (e *Emitter) oneof(name string, alts []*ir.Alternative, path string, ctx walk.Context) string {
	in := ctx.Nest().Indent()

	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "oneof " + e.fieldName(name) + " {\n")

	for _, a := range alts {
		sb.WriteString(in + e.altType(a.Type, path+"."+a.Name) + " " + e.fieldName(a.Name) + " = " + e.next() + options(a.Attributes) + ";\n")
	}

	sb.WriteString(ctx.Indent() + "}\n")

	return sb.String()
}

// fieldType lowers a message field type. Shapes proto cannot nest, such as
// a repeated field of maps, become bytes.
func (e *Emitter) fieldType(t ir.Type, path string) string {
	if !representable(t) {
		return e.degrade(t, path)
	}

	// Repeated and map fields are never optional.
	if ind, ok := t.(*ir.Indirection); ok && ind.Reified == ir.KindOptional && collection(ind.Elem) {
		t = ind.Elem
	}

	return e.imports.Scan(e.lower.TypeName(t))
}

// altType lowers a oneof alternative; alternatives are implicitly optional
// and cannot repeat.
func (e *Emitter) altType(t ir.Type, path string) string {
	if t == nil {
		return e.imports.Scan(empty)
	}

	if ind, ok := t.(*ir.Indirection); ok && ind.Reified == ir.KindOptional {
		t = ind.Elem
	}

	if !element(t) {
		return e.degrade(t, path)
	}

	return e.imports.Scan(e.lower.TypeName(t))
}

func (e *Emitter) degrade(t ir.Type, path string) string {
	e.diags.AddWarning(diagnostic.CodeUnmappedKind, ir.TypeString(t)+" has no proto3 field form, written as bytes", Key, path)

	return "bytes"
}

func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	switch m.(type) {
	case *ir.Field, *ir.Oneof:
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" is not flattened, dropped", Key, ctx.Parent.Name)

	return "", true
}

// OverrideNode writes enums in one piece, since proto3 needs the zero value
// first.
func (e *Emitter) OverrideNode(n ir.Node, ctx walk.Context) (string, bool) {
	en, ok := n.(*ir.Enum)
	if !ok {
		return "", false
	}

	if en.HasPayloads() {
		e.number = 0

		alts := make([]*ir.Alternative, len(en.Values))
		for i, v := range en.Values {
			alts[i] = &ir.Alternative{Name: v.Name, Type: v.Payload, Attributes: v.Attributes}
		}

		return "message " + e.messageName(en.Name) + " {\n" + e.oneof("value", alts, en.Name, ctx.Nest()) + "}\n\n", true
	}

	return e.enum(en, ctx), true
}

func (e *Emitter) enum(en *ir.Enum, ctx walk.Context) string {
	in := ctx.Nest().Indent()
	prefix := e.target.Naming.Constant.Apply(en.Name) + "_"

	values := zeroFirst(en.Values)

	var sb strings.Builder

	sb.WriteString("enum " + e.messageName(en.Name) + " {\n")

	if aliased(values) {
		sb.WriteString(in + "option allow_alias = true;\n")
	}

	if len(values) == 0 || values[0].Number != 0 {
		sb.WriteString(in + prefix + "UNSPECIFIED = 0;\n")
	}

	for _, v := range values {
		sb.WriteString(in + prefix + e.target.Naming.Constant.Apply(v.Name) + " = " +
			strconv.FormatInt(v.Number, 10) + options(v.Attributes) + ";\n")
	}

	sb.WriteString("}\n\n")

	return sb.String()
}

func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	in := ctx.Nest().Indent()

	var sb strings.Builder

	sb.WriteString("service " + e.messageName(s.Name) + " {\n")

	for _, m := range s.Methods {
		sb.WriteString(in + "rpc " + lang.StylePascal.Apply(m.Name) + "(" + e.rpcType(m.Request) + ") returns (" + e.rpcType(m.Response) + ");\n")
	}

	sb.WriteString("}\n\n")

	return sb.String()
}

func (e *Emitter) rpcType(name string) string {
	if name == "" {
		return e.imports.Scan(empty)
	}

	return e.messageName(name)
}

// zeroFirst moves the first zero-numbered value to the front.
func zeroFirst(values []*ir.EnumValue) []*ir.EnumValue {
	for i, v := range values {
		if v.Number == 0 {
			out := make([]*ir.EnumValue, 0, len(values))
			out = append(out, v)
			out = append(out, values[:i]...)

			return append(out, values[i+1:]...)
		}
	}

	return values
}

func aliased(values []*ir.EnumValue) bool {
	seen := map[int64]bool{}
	for _, v := range values {
		if seen[v.Number] {
			return true
		}

		seen[v.Number] = true
	}

	return false
}

func options(attrs ir.Attributes) string {
	if attrs.Has("deprecated") {
		return " [deprecated = true]"
	}

	return ""
}

func collection(t ir.Type) bool {
	switch t.Kind() {
	case ir.KindList, ir.KindArray, ir.KindSet, ir.KindUnorderedSet, ir.KindMap, ir.KindUnorderedMap:
		return true
	default:
		return false
	}
}

// element reports whether t can be a repeated element or a map value.
func element(t ir.Type) bool {
	switch v := t.(type) {
	case *ir.Indirection:
		return v.Reified != ir.KindOptional && element(v.Elem)
	case *ir.Parameterized:
		return !collection(v) && v.Reified != ir.KindVariant
	default:
		return true
	}
}

func mapKey(t ir.Type) bool {
	p, ok := t.(*ir.Primitive)
	if !ok {
		return false
	}

	return p.Reified.IsInteger() || p.Reified == ir.KindString || p.Reified == ir.KindBool
}

func representable(t ir.Type) bool {
	switch v := t.(type) {
	case *ir.Indirection:
		return representable(v.Elem)
	case *ir.Parameterized:
		switch {
		case v.Reified == ir.KindMap || v.Reified == ir.KindUnorderedMap:
			return len(v.Args) == 2 && mapKey(v.Args[0]) && element(v.Args[1])
		case collection(v):
			return len(v.Args) > 0 && element(v.Args[0])
		case v.Reified == ir.KindVariant:
			return false
		}
	}

	return true
}

// Package typescript writes modules as TypeScript declarations:
// interfaces, string enums and union types.
package typescript

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

// Key is the notation key of TypeScript output.
const Key = "ts"

// Emitter writes TypeScript. It expects flattened input.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target *lang.Target
	lower  *subst.Lowerer
	diags  diagnostic.Diagnostics
	enum   *ir.Enum
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithIndent("  "))

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Qualify = e.path
	e.lower.Override = e.override

	return codegen.Tidy(codegen.Header(e.target) + e.Walker.Walk(m))
}

// override spells variants as union types, which the table cannot express
// because the arguments are joined with " | ".
func (e *Emitter) override(t ir.Type) (string, bool) {
	p, ok := t.(*ir.Parameterized)
	if !ok || p.Reified != ir.KindVariant {
		return "", false
	}

	parts := make([]string, len(p.Args))
	for i, a := range p.Args {
		parts[i] = e.lower.TypeName(a)
	}

	return strings.Join(parts, " | "), true
}

func (e *Emitter) path(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if i == len(parts)-1 {
			parts[i] = e.target.Naming.Struct.Apply(p)
		} else {
			parts[i] = e.target.Naming.Namespace.Apply(p)
		}
	}

	return strings.Join(parts, ".")
}

func (e *Emitter) property(name string) string {
	return e.target.Naming.Field.Apply(name)
}

func (e *Emitter) NamespaceOpen(ns *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "export namespace " + e.target.Naming.Namespace.Apply(ns.Name) + " {\n"
}

func (e *Emitter) NamespaceClose(_ *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "}\n\n"
}

func (e *Emitter) StructOpen(s *ir.Struct, ctx walk.Context) string {
	head := ctx.Indent() + "export interface " + e.target.Naming.Struct.Apply(s.Name)
	if s.Base != "" {
		head += " extends " + e.path(s.Base)
	}

	return head + " {\n"
}

func (e *Emitter) StructClose(_ *ir.Struct, ctx walk.Context) string {
	return ctx.Indent() + "}\n\n"
}

func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	return ctx.Indent() + e.property(f.Name) + ": " + e.lower.TypeName(f.Type) + ";\n"
}

// Oneof writes a union of single-property objects, one per alternative.
func (e *Emitter) Oneof(o *ir.Oneof, ctx walk.Context) string {
	parts := make([]string, len(o.Alternatives))
	for i, a := range o.Alternatives {
		t := "null"
		if a.Type != nil {
			t = e.lower.TypeName(a.Type)
		}

		parts[i] = "{ " + e.property(a.Name) + ": " + t + " }"
	}

	union := strings.Join(parts, " | ")

	if ctx.Parent == nil {
		return ctx.Indent() + "export type " + e.target.Naming.Struct.Apply(o.Name) + " = " + union + ";\n\n"
	}

	return ctx.Indent() + e.property(o.Name) + ": " + union + ";\n"
}

func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	switch m.(type) {
	case *ir.Field, *ir.Oneof:
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" is not flattened, dropped", Key, ctx.Parent.Name)

	return "", true
}

// EnumOpen writes a string enum, or a union type alias for enums with
// payloads.
func (e *Emitter) EnumOpen(en *ir.Enum, ctx walk.Context) string {
	e.enum = en
	name := e.target.Naming.Struct.Apply(en.Name)

	if en.HasPayloads() {
		parts := make([]string, len(en.Values))
		for i, v := range en.Values {
			parts[i] = "null"
			if v.Payload != nil {
				parts[i] = e.lower.TypeName(v.Payload)
			}
		}

		return ctx.Indent() + "export type " + name + " = " + strings.Join(parts, " | ") + ";\n\n"
	}

	return ctx.Indent() + "export enum " + name + " {\n"
}

func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, ctx walk.Context) string {
	if e.enum.HasPayloads() {
		return ""
	}

	return ctx.Indent() + e.target.Naming.Constant.Apply(v.Name) + " = " + strconv.Quote(v.Name) + ",\n"
}

func (e *Emitter) EnumClose(en *ir.Enum, ctx walk.Context) string {
	if en.HasPayloads() {
		return ""
	}

	return ctx.Indent() + "}\n\n"
}

// Service writes an interface of promise-returning methods.
func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	in := ctx.Nest().Indent()

	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "export interface " + e.target.Naming.Struct.Apply(s.Name) + " {\n")

	for _, m := range s.Methods {
		sb.WriteString(in + e.property(m.Name) + "(request: " + e.path(m.Request) + "): Promise<" + e.path(m.Response) + ">;\n")
	}

	sb.WriteString(ctx.Indent() + "}\n\n")

	return sb.String()
}

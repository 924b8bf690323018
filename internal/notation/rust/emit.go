// Package rust writes modules as Rust source: structs, C-like enums, enums
// with payloads for lifted sum types and traits for services.
package rust

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

// Key is the notation key of Rust output.
const Key = "rs"

var knownImports = map[string]string{
	"BTreeMap":  "use std::collections::BTreeMap;",
	"BTreeSet":  "use std::collections::BTreeSet;",
	"HashMap":   "use std::collections::HashMap;",
	"HashSet":   "use std::collections::HashSet;",
	"Arc":       "use std::sync::Arc;",
	"Duration":  "use std::time::Duration;",
	"DateTime":  "use chrono::{DateTime, Utc};",
	"NaiveDate": "use chrono::NaiveDate;",
	"NaiveTime": "use chrono::NaiveTime;",
	"Uuid":      "use uuid::Uuid;",
	"Decimal":   "use rust_decimal::Decimal;",
}

var keywords = codegen.Keywords(`
	as async await break const continue crate dyn else enum extern false fn
	for if impl in let loop match mod move mut pub ref return self static
	struct super trait true type unsafe use where while`)

// Emitter writes Rust. It expects flattened and lifted input.
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
	e.Walker = walk.New(e)

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

// Walk renders m. Use declarations are collected during the walk and placed
// after the banner.
func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.imports = codegen.NewImports(knownImports)
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Qualify = e.path

	body := e.Walker.Walk(m)

	var sb strings.Builder

	sb.WriteString(codegen.Header(e.target))

	if e.imports.Len() > 0 {
		sb.WriteString(strings.Join(e.imports.Lines(), "\n") + "\n\n")
	}

	sb.WriteString(body)

	return codegen.Tidy(sb.String())
}

// path renders a reference; namespace segments become module paths.
func (e *Emitter) path(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if i == len(parts)-1 {
			parts[i] = e.target.Naming.Struct.Apply(p)
		} else {
			parts[i] = e.target.Naming.Namespace.Apply(p)
		}
	}

	return strings.Join(parts, "::")
}

func (e *Emitter) rsType(t ir.Type) string {
	return e.imports.Scan(e.lower.TypeName(t))
}

func (e *Emitter) field(name string) string {
	return codegen.Escape(e.target.Naming.Field.Apply(name), keywords, func(s string) string { return "r#" + s })
}

func (e *Emitter) NamespaceOpen(ns *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "pub mod " + e.target.Naming.Namespace.Apply(ns.Name) + " {\n" +
		ctx.Nest().Indent() + "use super::*;\n\n"
}

func (e *Emitter) NamespaceClose(_ *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "}\n\n"
}

func (e *Emitter) StructOpen(s *ir.Struct, ctx walk.Context) string {
	in := ctx.Nest().Indent()
	out := ctx.Indent() + "#[derive(Debug, Clone, PartialEq)]\n" +
		ctx.Indent() + "pub struct " + e.path(s.Name) + " {\n"

	if s.Base != "" {
		out += in + "pub base: " + e.path(s.Base) + ",\n"
	}

	return out
}

func (e *Emitter) StructClose(_ *ir.Struct, ctx walk.Context) string {
	return ctx.Indent() + "}\n\n"
}

func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	return ctx.Indent() + "pub " + e.field(f.Name) + ": " + e.rsType(f.Type) + ",\n"
}

// OverrideMember drops declarations a disabled flatten or lift pass left in
// place.
func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	if _, ok := m.(*ir.Field); ok {
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" has no Rust spelling, dropped", Key, ctx.Parent.Name)

	return "", true
}

func (e *Emitter) Oneof(o *ir.Oneof, _ walk.Context) string {
	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "oneof "+o.Name+" has no Rust spelling, dropped", Key, o.Name)

	return ""
}

func (e *Emitter) EnumOpen(en *ir.Enum, ctx walk.Context) string {
	e.enum = en

	if en.HasPayloads() {
		return ctx.Indent() + "#[derive(Debug, Clone, PartialEq)]\n" +
			ctx.Indent() + "pub enum " + e.path(en.Name) + " {\n"
	}

	out := ctx.Indent() + "#[derive(Debug, Clone, Copy, PartialEq, Eq, Hash)]\n"
	if repr := e.repr(en); repr != "" {
		out += ctx.Indent() + "#[repr(" + repr + ")]\n"
	}

	return out + ctx.Indent() + "pub enum " + e.path(en.Name) + " {\n"
}

// EnumValue writes a unit variant with its discriminant, or a tuple variant
// carrying the payload. Monostate payloads become unit variants.
func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, ctx walk.Context) string {
	name := e.target.Naming.Constant.Apply(v.Name)

	if !e.enum.HasPayloads() {
		return ctx.Indent() + name + " = " + strconv.FormatInt(v.Number, 10) + ",\n"
	}

	if v.Payload == nil || v.Payload.Kind() == ir.KindMonostate {
		return ctx.Indent() + name + ",\n"
	}

	return ctx.Indent() + name + "(" + e.rsType(v.Payload) + "),\n"
}

func (e *Emitter) EnumClose(_ *ir.Enum, ctx walk.Context) string {
	return ctx.Indent() + "}\n\n"
}

func (e *Emitter) repr(en *ir.Enum) string {
	k, ok := ir.ParseKind(en.Underlying)
	if !ok || !k.IsInteger() {
		return ""
	}

	row, ok := e.target.Table().Lookup(k)
	if !ok {
		return ""
	}

	return row.Name
}

// Service writes a trait with one method per RPC.
func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	in := ctx.Nest().Indent()

	var sb strings.Builder

	sb.WriteString(ctx.Indent() + "pub trait " + e.path(s.Name) + " {\n")

	for _, m := range s.Methods {
		sb.WriteString(in + "fn " + e.field(m.Name) + "(&self, request: " + e.path(m.Request) +
			") -> Result<" + e.path(m.Response) + ", Box<dyn std::error::Error>>;\n")
	}

	sb.WriteString(ctx.Indent() + "}\n\n")

	return sb.String()
}

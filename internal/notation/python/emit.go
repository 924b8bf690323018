// Package python writes modules as Python dataclasses.
package python

import (
	"sort"
	"strconv"
	"strings"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/notation/codegen"
	"astrie/internal/rewrite"
	"astrie/internal/subst"
	"astrie/internal/walk"
)

// Key is the notation key of Python output.
const Key = "py"

var knownImports = map[string]string{
	"datetime":     "from datetime import datetime",
	"datetime.now": "from datetime import datetime",
	"date":         "from datetime import date",
	"date.today":   "from datetime import date",
	"time":         "from datetime import time",
	"timedelta":    "from datetime import timedelta",
	"Decimal":      "from decimal import Decimal",
	"UUID":         "from uuid import UUID",
	"uuid4":        "from uuid import uuid4",
	"Any":          "from typing import Any",
	"Optional":     "from typing import Optional",
	"Union":        "from typing import Union",
	"field":        "from dataclasses import field",
}

var keywords = codegen.Keywords(`
	False None True and as assert async await break class continue def del
	elif else except finally for from global if import in is lambda nonlocal
	not or pass raise return try while with yield`)

// Emitter writes Python. It expects flattened input; oneofs and variants
// become typing.Union.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target  *lang.Target
	lower   *subst.Lowerer
	diags   diagnostic.Diagnostics
	imports *codegen.Imports
	enums   map[string]*ir.Enum
	enum    *ir.Enum
	members int
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithFlatNamespaces())

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

// Walk renders m with classes in dependency order, since default factories
// name other classes when the class body runs.
func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.imports = codegen.NewImports(knownImports)
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Qualify = e.className
	e.enums = map[string]*ir.Enum{}
	collectEnums(m.Nodes, e.enums)

	flat := *m
	flat.Nodes = flatten(m.Nodes)

	ordered, ok := rewrite.OrderByDependency(flat.Nodes)
	if !ok {
		e.diags.AddWarning(diagnostic.CodeDependencyCycle, "classes hold each other by value, source order kept", Key, "")
	}

	flat.Nodes = ordered

	body := e.Walker.Walk(&flat)

	var sb strings.Builder

	sb.WriteString(codegen.Header(e.target))
	sb.WriteString("from __future__ import annotations\n")

	if lines := mergeFrom(e.imports.Lines()); len(lines) > 0 {
		sb.WriteString("\n" + strings.Join(lines, "\n") + "\n")
	}

	sb.WriteString(body)

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func (e *Emitter) className(name string) string {
	return e.target.Naming.Struct.Apply(codegen.LastSegment(name))
}

func (e *Emitter) pyType(t ir.Type) string {
	return e.imports.Scan(e.lower.TypeName(t))
}

func (e *Emitter) attr(name string) string {
	return codegen.Escape(e.target.Naming.Field.Apply(name), keywords, func(s string) string { return s + "_" })
}

// defaultValue picks the field default: the first member of a referenced
// enum, otherwise the table default.
func (e *Emitter) defaultValue(t ir.Type) string {
	if ref, ok := t.(*ir.NamedRef); ok {
		if en, isEnum := e.enums[codegen.LastSegment(ref.Name)]; isEnum && !en.HasPayloads() {
			if len(en.Values) == 0 {
				return "None"
			}

			return e.className(en.Name) + "." + e.target.Naming.Constant.Apply(en.Values[0].Name)
		}
	}

	return e.imports.Scan(e.lower.DefaultValue(t))
}

func (e *Emitter) StructOpen(s *ir.Struct, _ walk.Context) string {
	e.members = 0
	e.imports.Add("from dataclasses import dataclass")

	head := "class " + e.className(s.Name)
	if s.Base != "" {
		head += "(" + e.className(s.Base) + ")"
	}

	return "\n\n@dataclass\n" + head + ":\n"
}

func (e *Emitter) StructClose(*ir.Struct, walk.Context) string {
	if e.members == 0 {
		return "    pass\n"
	}

	return ""
}

func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	e.members++

	out := ctx.Indent() + e.attr(f.Name) + ": " + e.pyType(f.Type)
	if def := e.defaultValue(f.Type); def != "" {
		out += " = " + def
	}

	return out + "\n"
}

// Oneof writes a member oneof as a Union field defaulting to None, and a
// top-level one as a type alias.
func (e *Emitter) Oneof(o *ir.Oneof, ctx walk.Context) string {
	union := e.union(o.Alternatives)

	if ctx.Parent == nil {
		return "\n\n" + e.className(o.Name) + " = " + union + "\n"
	}

	e.members++

	return ctx.Indent() + e.attr(o.Name) + ": " + union + " = None\n"
}

func (e *Emitter) union(alts []*ir.Alternative) string {
	args := make([]ir.Type, len(alts))
	for i, a := range alts {
		args[i] = a.Type
		if a.Type == nil {
			args[i] = ir.Prim(ir.KindMonostate)
		}
	}

	return e.pyType(ir.VariantOf(args...))
}

func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	switch m.(type) {
	case *ir.Field, *ir.Oneof:
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" is not flattened, dropped", Key, ctx.Parent.Name)

	return "", true
}

// EnumOpen writes an IntEnum, or a Union alias for enums with payloads.
func (e *Emitter) EnumOpen(en *ir.Enum, _ walk.Context) string {
	e.enum = en

	if en.HasPayloads() {
		alts := make([]*ir.Alternative, len(en.Values))
		for i, v := range en.Values {
			alts[i] = &ir.Alternative{Name: v.Name, Type: v.Payload}
		}

		return "\n\n" + e.className(en.Name) + " = " + e.union(alts) + "\n"
	}

	e.imports.Add("from enum import IntEnum")

	return "\n\nclass " + e.className(en.Name) + "(IntEnum):\n"
}

func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, ctx walk.Context) string {
	if e.enum.HasPayloads() {
		return ""
	}

	return ctx.Indent() + e.target.Naming.Constant.Apply(v.Name) + " = " + strconv.FormatInt(v.Number, 10) + "\n"
}

func (e *Emitter) EnumClose(en *ir.Enum, _ walk.Context) string {
	if !en.HasPayloads() && len(en.Values) == 0 {
		return "    pass\n"
	}

	return ""
}

// Service writes a typing.Protocol with one method per RPC.
func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	e.imports.Add("from typing import Protocol")

	var sb strings.Builder

	sb.WriteString("\n\nclass " + e.className(s.Name) + "(Protocol):\n")

	for _, m := range s.Methods {
		sb.WriteString(ctx.Nest().Indent() + "def " + e.attr(m.Name) + "(self, request: " +
			e.className(m.Request) + ") -> " + e.className(m.Response) + ": ...\n")
	}

	if len(s.Methods) == 0 {
		sb.WriteString("    pass\n")
	}

	return sb.String()
}

// mergeFrom joins "from m import a" lines of the same module into one.
func mergeFrom(lines []string) []string {
	names := map[string][]string{}

	var modules []string

	for _, l := range lines {
		module, name, ok := strings.Cut(strings.TrimPrefix(l, "from "), " import ")
		if !ok {
			continue
		}

		if _, seen := names[module]; !seen {
			modules = append(modules, module)
		}

		names[module] = append(names[module], name)
	}

	sort.Strings(modules)

	out := make([]string, 0, len(modules))
	for _, m := range modules {
		sort.Strings(names[m])
		out = append(out, "from "+m+" import "+strings.Join(names[m], ", "))
	}

	return out
}

// flatten lifts namespace contents to the top level: a Python module has
// one namespace.
func flatten(nodes []ir.Node) []ir.Node {
	var out []ir.Node

	for _, n := range nodes {
		if ns, ok := n.(*ir.Namespace); ok {
			out = append(out, flatten(ns.Nodes)...)

			continue
		}

		out = append(out, n)
	}

	return out
}

func collectEnums(nodes []ir.Node, into map[string]*ir.Enum) {
	for _, n := range nodes {
		switch d := n.(type) {
		case *ir.Enum:
			into[d.Name] = d
		case *ir.Namespace:
			collectEnums(d.Nodes, into)
		}
	}
}

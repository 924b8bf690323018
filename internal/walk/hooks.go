package walk

import "astrie/internal/ir"

// Hooks supplies the text of every piece of a module. Each hook returns the
// text to append; an empty string emits nothing.
type Hooks interface {
	Header(m *ir.Module, ctx Context) string
	Footer(m *ir.Module, ctx Context) string

	NamespaceOpen(ns *ir.Namespace, ctx Context) string
	NamespaceClose(ns *ir.Namespace, ctx Context) string

	StructOpen(s *ir.Struct, ctx Context) string
	StructClose(s *ir.Struct, ctx Context) string
	Field(f *ir.Field, ctx Context) string

	EnumOpen(e *ir.Enum, ctx Context) string
	EnumValue(v *ir.EnumValue, last bool, ctx Context) string
	EnumClose(e *ir.Enum, ctx Context) string

	// Oneof receives oneofs left in place, as members or at the top level.
	Oneof(o *ir.Oneof, ctx Context) string
	Service(s *ir.Service, ctx Context) string

	PrimitiveType(t *ir.Primitive) string
	NamedRefType(t *ir.NamedRef) string
	IndirectionType(t *ir.Indirection) string
	ParameterizedType(t *ir.Parameterized) string
	InlineType(t *ir.Inline) string
}

// NopHooks implements Hooks with empty output, except NamedRefType which
// returns the referenced name.
type NopHooks struct{}

var _ Hooks = NopHooks{}

func (NopHooks) Header(*ir.Module, Context) string             { return "" }
func (NopHooks) Footer(*ir.Module, Context) string             { return "" }
func (NopHooks) NamespaceOpen(*ir.Namespace, Context) string   { return "" }
func (NopHooks) NamespaceClose(*ir.Namespace, Context) string  { return "" }
func (NopHooks) StructOpen(*ir.Struct, Context) string         { return "" }
func (NopHooks) StructClose(*ir.Struct, Context) string        { return "" }
func (NopHooks) Field(*ir.Field, Context) string               { return "" }
func (NopHooks) EnumOpen(*ir.Enum, Context) string             { return "" }
func (NopHooks) EnumValue(*ir.EnumValue, bool, Context) string { return "" }
func (NopHooks) EnumClose(*ir.Enum, Context) string            { return "" }
func (NopHooks) Oneof(*ir.Oneof, Context) string               { return "" }
func (NopHooks) Service(*ir.Service, Context) string           { return "" }
func (NopHooks) PrimitiveType(*ir.Primitive) string            { return "" }
func (NopHooks) NamedRefType(t *ir.NamedRef) string            { return t.Name }
func (NopHooks) IndirectionType(*ir.Indirection) string        { return "" }
func (NopHooks) ParameterizedType(*ir.Parameterized) string    { return "" }
func (NopHooks) InlineType(*ir.Inline) string                  { return "" }

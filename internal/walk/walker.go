package walk

import (
	"strings"

	"astrie/internal/ir"
)

// Pass identifies one traversal of the module.
//
//go:generate go tool stringer -type=Pass -linecomment -output=pass_string.go
type Pass int

const (
	// PassNormal emits full declarations.
	PassNormal Pass = iota // normal
	// PassDeclare runs before PassNormal for grammars that need forward
	// declarations.
	PassDeclare // declare
)

// Context is handed to every hook.
type Context struct {
	Pass  Pass
	Level int
	// Unit is one level of indentation.
	Unit string
	// Namespaces is the path of enclosing namespace nodes.
	Namespaces []string
	// Parent is the struct owning the current member, nil at the top level.
	Parent *ir.Struct
}

// Indent returns the indentation for the current level.
func (c Context) Indent() string {
	return strings.Repeat(c.Unit, c.Level)
}

// Nest returns the context one level deeper.
func (c Context) Nest() Context {
	c.Level++

	return c
}

// NodeOverrider lets an emitter take over dispatch of a top-level node.
// Returning false falls back to the default traversal.
type NodeOverrider interface {
	OverrideNode(n ir.Node, ctx Context) (string, bool)
}

// MemberOverrider lets an emitter take over dispatch of a struct member.
type MemberOverrider interface {
	OverrideMember(m ir.Member, ctx Context) (string, bool)
}

// Walker drives Hooks over a module.
type Walker struct {
	hooks         Hooks
	passes        []Pass
	unit          string
	flatNamespace bool
}

// Option configures a Walker.
type Option func(*Walker)

// WithPasses sets the passes run by Walk, in order. The default is a single
// PassNormal.
func WithPasses(passes ...Pass) Option {
	return func(w *Walker) {
		w.passes = passes
	}
}

// WithIndent sets the indentation unit. The default is four spaces.
func WithIndent(unit string) Option {
	return func(w *Walker) {
		w.unit = unit
	}
}

// WithFlatNamespaces keeps namespace contents at the namespace's own level.
func WithFlatNamespaces() Option {
	return func(w *Walker) {
		w.flatNamespace = true
	}
}

// New returns a Walker calling h.
func New(h Hooks, opts ...Option) *Walker {
	w := &Walker{
		hooks:  h,
		passes: []Pass{PassNormal},
		unit:   "    ",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Walk renders m: the header, every configured pass over the nodes, then the
// footer.
func (w *Walker) Walk(m *ir.Module) string {
	var sb strings.Builder

	base := Context{Unit: w.unit, Namespaces: m.Namespaces}
	if len(w.passes) > 0 {
		base.Pass = w.passes[0]
	}

	sb.WriteString(w.hooks.Header(m, base))

	for _, p := range w.passes {
		ctx := base
		ctx.Pass = p

		for _, n := range m.Nodes {
			sb.WriteString(w.WalkNode(n, ctx))
		}
	}

	sb.WriteString(w.hooks.Footer(m, base))

	return sb.String()
}

// WalkNode dispatches one top-level node.
func (w *Walker) WalkNode(n ir.Node, ctx Context) string {
	if o, ok := w.hooks.(NodeOverrider); ok {
		if s, handled := o.OverrideNode(n, ctx); handled {
			return s
		}
	}

	switch d := n.(type) {
	case *ir.Struct:
		return w.WalkStruct(d, ctx)
	case *ir.Enum:
		return w.WalkEnum(d, ctx)
	case *ir.Namespace:
		return w.WalkNamespace(d, ctx)
	case *ir.Service:
		return w.hooks.Service(d, ctx)
	case *ir.Oneof:
		return w.hooks.Oneof(d, ctx)
	default:
		return ""
	}
}

// WalkNamespace renders a namespace and its nodes.
func (w *Walker) WalkNamespace(ns *ir.Namespace, ctx Context) string {
	var sb strings.Builder

	sb.WriteString(w.hooks.NamespaceOpen(ns, ctx))

	inner := ctx
	if !w.flatNamespace {
		inner = ctx.Nest()
	}

	inner.Namespaces = append(append([]string(nil), ctx.Namespaces...), ns.Name)

	for _, n := range ns.Nodes {
		sb.WriteString(w.WalkNode(n, inner))
	}

	sb.WriteString(w.hooks.NamespaceClose(ns, ctx))

	return sb.String()
}

// WalkStruct renders the open hook, every member one level deeper, and the
// close hook.
func (w *Walker) WalkStruct(s *ir.Struct, ctx Context) string {
	var sb strings.Builder

	sb.WriteString(w.hooks.StructOpen(s, ctx))

	inner := ctx.Nest()
	inner.Parent = s

	for _, m := range s.Members {
		sb.WriteString(w.WalkMember(m, inner))
	}

	sb.WriteString(w.hooks.StructClose(s, ctx))

	return sb.String()
}

// WalkMember dispatches one struct member. Members may be full declarations
// when the emitter skipped flattening or lifting.
func (w *Walker) WalkMember(m ir.Member, ctx Context) string {
	if o, ok := w.hooks.(MemberOverrider); ok {
		if s, handled := o.OverrideMember(m, ctx); handled {
			return s
		}
	}

	switch d := m.(type) {
	case *ir.Field:
		return w.hooks.Field(d, ctx)
	case *ir.Oneof:
		return w.hooks.Oneof(d, ctx)
	case *ir.Enum:
		return w.WalkEnum(d, ctx)
	case *ir.Struct:
		return w.WalkStruct(d, ctx)
	default:
		return ""
	}
}

// WalkEnum renders the open hook, every value (flagging the last one), and
// the close hook.
func (w *Walker) WalkEnum(e *ir.Enum, ctx Context) string {
	var sb strings.Builder

	sb.WriteString(w.hooks.EnumOpen(e, ctx))

	inner := ctx.Nest()
	for i, v := range e.Values {
		sb.WriteString(w.hooks.EnumValue(v, i == len(e.Values)-1, inner))
	}

	sb.WriteString(w.hooks.EnumClose(e, ctx))

	return sb.String()
}

// WalkType dispatches the five type shapes to their hooks.
func (w *Walker) WalkType(t ir.Type) string {
	switch v := t.(type) {
	case *ir.Primitive:
		return w.hooks.PrimitiveType(v)
	case *ir.NamedRef:
		return w.hooks.NamedRefType(v)
	case *ir.Indirection:
		return w.hooks.IndirectionType(v)
	case *ir.Parameterized:
		return w.hooks.ParameterizedType(v)
	case *ir.Inline:
		return w.hooks.InlineType(v)
	default:
		return ""
	}
}

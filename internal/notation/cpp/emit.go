// Package cpp writes modules as a C++17 header.
//
// Declarations are ordered so that every type is defined before it is held
// by value, and a forward declaration pass lets pointers refer to types
// defined later.
package cpp

import (
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

// Key is the notation key of C++ header output.
const Key = "h"

var knownIncludes = map[string]string{
	"int8_t":                                "<cstdint>",
	"uint8_t":                               "<cstdint>",
	"int16_t":                               "<cstdint>",
	"uint16_t":                              "<cstdint>",
	"int32_t":                               "<cstdint>",
	"uint32_t":                              "<cstdint>",
	"int64_t":                               "<cstdint>",
	"uint64_t":                              "<cstdint>",
	"std::string":                           "<string>",
	"std::vector":                           "<vector>",
	"std::array":                            "<array>",
	"std::map":                              "<map>",
	"std::unordered_map":                    "<unordered_map>",
	"std::set":                              "<set>",
	"std::unordered_set":                    "<unordered_set>",
	"std::optional":                         "<optional>",
	"std::nullopt":                          "<optional>",
	"std::variant":                          "<variant>",
	"std::monostate":                        "<variant>",
	"std::tuple":                            "<tuple>",
	"std::pair":                             "<utility>",
	"std::unique_ptr":                       "<memory>",
	"std::shared_ptr":                       "<memory>",
	"std::chrono::seconds":                  "<chrono>",
	"std::chrono::nanoseconds":              "<chrono>",
	"std::chrono::year_month_day":           "<chrono>",
	"std::chrono::system_clock::time_point": "<chrono>",
}

var keywords = codegen.Keywords(`
	alignas alignof and asm auto bool break case catch char class const
	constexpr continue decltype default delete do double else enum explicit
	export extern false float for friend goto if inline int long mutable
	namespace new noexcept not nullptr operator or private protected public
	register return short signed sizeof static struct switch template this
	throw true try typedef typeid typename union unsigned using virtual void
	volatile while xor`)

// Emitter writes C++ headers. It expects flattened input; oneofs and sum
// types become std::variant.
type Emitter struct {
	*walk.Walker
	walk.NopHooks

	target   *lang.Target
	lower    *subst.Lowerer
	diags    diagnostic.Diagnostics
	includes *codegen.Imports
	enum     *ir.Enum
}

// NewEmitter returns an emitter configured by target.
func NewEmitter(target *lang.Target) *Emitter {
	e := &Emitter{target: target}
	e.Walker = walk.New(e, walk.WithPasses(walk.PassDeclare, walk.PassNormal), walk.WithFlatNamespaces())

	return e
}

func (e *Emitter) Key() string                          { return Key }
func (e *Emitter) Target() *lang.Target                 { return e.target }
func (e *Emitter) Diagnostics() *diagnostic.Diagnostics { return &e.diags }

// Walk renders a dependency ordered copy of m, then prepends the include
// guard and the includes the emitted types need.
func (e *Emitter) Walk(m *ir.Module) string {
	e.diags = diagnostic.Diagnostics{}
	e.includes = codegen.NewImports(knownIncludes)
	e.lower = e.target.Lowerer(&e.diags)
	e.lower.Qualify = e.path

	ordered := *m
	ordered.Nodes = e.order(m.Nodes, "")

	body := e.Walker.Walk(&ordered)

	var sb strings.Builder

	sb.WriteString(codegen.Header(e.target))
	sb.WriteString("#pragma once\n\n")

	for _, inc := range e.includes.Lines() {
		sb.WriteString("#include " + inc + "\n")
	}

	if e.includes.Len() > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(body)

	return codegen.Tidy(sb.String())
}

// order sorts nodes by by-value dependency, recursing into namespaces.
// Namespaces are copied so the caller's module is left as is.
func (e *Emitter) order(nodes []ir.Node, path string) []ir.Node {
	out, ok := rewrite.OrderByDependency(nodes)
	if !ok {
		e.diags.AddWarning(diagnostic.CodeDependencyCycle, "declarations hold each other by value, source order kept", Key, path)
	}

	for i, n := range out {
		ns, isNS := n.(*ir.Namespace)
		if !isNS {
			continue
		}

		cp := *ns
		cp.Nodes = e.order(ns.Nodes, joinPath(path, ns.Name))
		out[i] = &cp
	}

	return out
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

	return strings.Join(parts, "::")
}

func (e *Emitter) cppType(t ir.Type) string {
	return e.includes.Scan(e.lower.TypeName(t))
}

func (e *Emitter) member(name string) string {
	return codegen.Escape(e.target.Naming.Field.Apply(name), keywords, func(s string) string { return s + "_" })
}

func (e *Emitter) Header(m *ir.Module, _ walk.Context) string {
	var sb strings.Builder

	for _, ns := range m.Namespaces {
		sb.WriteString("namespace " + e.target.Naming.Namespace.Apply(ns) + " {\n")
	}

	if len(m.Namespaces) > 0 {
		sb.WriteString("\n")
	}

	return sb.String()
}

func (e *Emitter) Footer(m *ir.Module, _ walk.Context) string {
	var sb strings.Builder

	for i := len(m.Namespaces) - 1; i >= 0; i-- {
		sb.WriteString("}  // namespace " + e.target.Naming.Namespace.Apply(m.Namespaces[i]) + "\n")
	}

	return sb.String()
}

// OverrideNode limits the declare pass to forward declarations of structs.
func (e *Emitter) OverrideNode(n ir.Node, ctx walk.Context) (string, bool) {
	if ctx.Pass != walk.PassDeclare {
		return "", false
	}

	switch d := n.(type) {
	case *ir.Struct:
		return ctx.Indent() + "struct " + e.target.Naming.Struct.Apply(d.Name) + ";\n", true
	case *ir.Namespace:
		if !hasStructs(d) {
			return "", true
		}

		return "", false
	default:
		return "", true
	}
}

func (e *Emitter) NamespaceOpen(ns *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "namespace " + e.target.Naming.Namespace.Apply(ns.Name) + " {\n"
}

func (e *Emitter) NamespaceClose(ns *ir.Namespace, ctx walk.Context) string {
	return ctx.Indent() + "}  // namespace " + e.target.Naming.Namespace.Apply(ns.Name) + "\n\n"
}

func (e *Emitter) StructOpen(s *ir.Struct, ctx walk.Context) string {
	head := ctx.Indent() + "struct " + e.target.Naming.Struct.Apply(s.Name)
	if s.Base != "" {
		head += " : public " + e.path(s.Base)
	}

	return "\n" + head + " {\n"
}

func (e *Emitter) StructClose(_ *ir.Struct, ctx walk.Context) string {
	return ctx.Indent() + "};\n\n"
}

// Field writes a member, initialized when the table has a default.
func (e *Emitter) Field(f *ir.Field, ctx walk.Context) string {
	out := ctx.Indent() + e.cppType(f.Type) + " " + e.member(f.Name)

	if def := e.includes.Scan(e.lower.DefaultValue(f.Type)); def != "" {
		out += " = " + def
	}

	return out + ";\n"
}

// Oneof writes a oneof member as a std::variant over its alternatives, or a
// top-level oneof as an alias of one.
func (e *Emitter) Oneof(o *ir.Oneof, ctx walk.Context) string {
	variant := e.variant(o.Alternatives)

	if ctx.Parent == nil {
		return ctx.Indent() + "using " + e.target.Naming.Struct.Apply(o.Name) + " = " + variant + ";\n\n"
	}

	return ctx.Indent() + variant + " " + e.member(o.Name) + ";\n"
}

func (e *Emitter) variant(alts []*ir.Alternative) string {
	args := make([]ir.Type, len(alts))
	for i, a := range alts {
		args[i] = a.Type
		if a.Type == nil {
			args[i] = ir.Prim(ir.KindMonostate)
		}
	}

	return e.cppType(ir.VariantOf(args...))
}

// OverrideMember drops nested declarations a disabled flatten pass left in
// place; C++ could nest them, but the dependency order would not hold.
func (e *Emitter) OverrideMember(m ir.Member, ctx walk.Context) (string, bool) {
	switch m.(type) {
	case *ir.Field, *ir.Oneof:
		return "", false
	}

	e.diags.AddWarning(diagnostic.CodeUnsupportedDecl, "nested "+m.DeclName()+" is not flattened, dropped", Key, ctx.Parent.Name)

	return "", true
}

func (e *Emitter) EnumOpen(en *ir.Enum, ctx walk.Context) string {
	e.enum = en
	name := e.target.Naming.Struct.Apply(en.Name)

	if en.HasPayloads() {
		alts := make([]*ir.Alternative, len(en.Values))
		for i, v := range en.Values {
			alts[i] = &ir.Alternative{Name: v.Name, Type: v.Payload}
		}

		return "\n" + ctx.Indent() + "using " + name + " = " + e.variant(alts) + ";\n\n"
	}

	head := "enum "
	if en.Scoped {
		head = "enum class "
	}

	head += name

	if k, ok := ir.ParseKind(en.Underlying); ok && k.IsInteger() {
		head += " : " + e.cppType(ir.Prim(k))
	}

	return "\n" + ctx.Indent() + head + " {\n"
}

func (e *Emitter) EnumValue(v *ir.EnumValue, _ bool, ctx walk.Context) string {
	if e.enum.HasPayloads() {
		return ""
	}

	return ctx.Indent() + e.target.Naming.Constant.Apply(v.Name) + " = " + strconv.FormatInt(v.Number, 10) + ",\n"
}

func (e *Emitter) EnumClose(en *ir.Enum, ctx walk.Context) string {
	if en.HasPayloads() {
		return ""
	}

	return ctx.Indent() + "};\n\n"
}

// Service writes an abstract class with one pure virtual method per RPC.
func (e *Emitter) Service(s *ir.Service, ctx walk.Context) string {
	in := ctx.Nest().Indent()
	name := e.target.Naming.Struct.Apply(s.Name)

	var sb strings.Builder

	sb.WriteString("\n" + ctx.Indent() + "class " + name + " {\n")
	sb.WriteString(ctx.Indent() + "public:\n")
	sb.WriteString(in + "virtual ~" + name + "() = default;\n")

	for _, m := range s.Methods {
		sb.WriteString(in + "virtual " + e.path(m.Response) + " " + e.member(m.Name) +
			"(const " + e.path(m.Request) + "& request) = 0;\n")
	}

	sb.WriteString(ctx.Indent() + "};\n\n")

	return sb.String()
}

func hasStructs(ns *ir.Namespace) bool {
	for _, n := range ns.Nodes {
		switch d := n.(type) {
		case *ir.Struct:
			return true
		case *ir.Namespace:
			if hasStructs(d) {
				return true
			}
		}
	}

	return false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}

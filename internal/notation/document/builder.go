package document

import (
	"astrie/internal/ir"
	"astrie/internal/walk"
)

// builder assembles a Document while the walker traverses a module. Every
// hook appends to the item list on top of the stack; struct and namespace
// hooks push and pop their own lists.
type builder struct {
	*walk.Walker
	walk.NopHooks

	doc   *Document
	stack []*[]*Item
	enum  []*Item
}

func newBuilder() *builder {
	b := &builder{}
	b.Walker = walk.New(b, walk.WithIndent(""))

	return b
}

// FromModule converts m into a document.
func FromModule(m *ir.Module) *Document {
	b := newBuilder()
	b.Walk(m)

	return b.doc
}

func (b *builder) push(list *[]*Item) { b.stack = append(b.stack, list) }
func (b *builder) pop()               { b.stack = b.stack[:len(b.stack)-1] }

func (b *builder) add(it *Item) {
	top := b.stack[len(b.stack)-1]
	*top = append(*top, it)
}

func (b *builder) Header(m *ir.Module, _ walk.Context) string {
	b.doc = &Document{
		Version:    CurrentVersion,
		Source:     m.Source,
		Namespaces: cloneStrings(m.Namespaces),
		Items:      []*Item{},
	}
	b.stack = nil
	b.push(&b.doc.Items)

	return ""
}

func (b *builder) NamespaceOpen(ns *ir.Namespace, _ walk.Context) string {
	it := &Item{Kind: ItemNamespace, Name: ns.Name}
	b.add(it)
	b.push(&it.Items)

	return ""
}

func (b *builder) NamespaceClose(*ir.Namespace, walk.Context) string {
	b.pop()

	return ""
}

func (b *builder) StructOpen(s *ir.Struct, _ walk.Context) string {
	it := &Item{
		Kind:       ItemStruct,
		Name:       s.Name,
		Namespaces: cloneStrings(s.Namespaces),
		Attributes: attrs(s.Attributes),
		Anonymous:  s.Anonymous,
		VarName:    s.VarName,
		Record:     s.Record,
		Abstract:   s.Abstract,
		Base:       s.Base,
	}
	b.add(it)
	b.push(&it.Members)

	return ""
}

func (b *builder) StructClose(*ir.Struct, walk.Context) string {
	b.pop()

	return ""
}

func (b *builder) Field(f *ir.Field, _ walk.Context) string {
	b.add(&Item{
		Kind:       ItemField,
		Name:       f.Name,
		Attributes: attrs(f.Attributes),
		Type:       b.typeExpr(f.Type),
	})

	return ""
}

func (b *builder) EnumOpen(e *ir.Enum, _ walk.Context) string {
	it := &Item{
		Kind:       ItemEnum,
		Name:       e.Name,
		Namespaces: cloneStrings(e.Namespaces),
		Attributes: attrs(e.Attributes),
		Scoped:     e.Scoped,
		Underlying: e.Underlying,
	}
	b.add(it)
	b.enum = append(b.enum, it)

	return ""
}

func (b *builder) EnumValue(v *ir.EnumValue, _ bool, _ walk.Context) string {
	e := b.enum[len(b.enum)-1]
	e.Values = append(e.Values, &Value{
		Name:       v.Name,
		Number:     v.Number,
		Attributes: attrs(v.Attributes),
		Payload:    b.typeExpr(v.Payload),
	})

	return ""
}

func (b *builder) EnumClose(*ir.Enum, walk.Context) string {
	b.enum = b.enum[:len(b.enum)-1]

	return ""
}

func (b *builder) Oneof(o *ir.Oneof, _ walk.Context) string {
	it := &Item{Kind: ItemOneof, Name: o.Name, Attributes: attrs(o.Attributes)}

	for _, a := range o.Alternatives {
		it.Alternatives = append(it.Alternatives, &Alt{
			Name:       a.Name,
			Type:       b.typeExpr(a.Type),
			Attributes: attrs(a.Attributes),
		})
	}

	b.add(it)

	return ""
}

func (b *builder) Service(s *ir.Service, _ walk.Context) string {
	it := &Item{Kind: ItemService, Name: s.Name, Attributes: attrs(s.Attributes)}

	for _, m := range s.Methods {
		it.Methods = append(it.Methods, &Method{
			Name:       m.Name,
			Request:    m.Request,
			Response:   m.Response,
			Attributes: attrs(m.Attributes),
		})
	}

	b.add(it)

	return ""
}

func (b *builder) typeExpr(t ir.Type) *TypeExpr {
	switch v := t.(type) {
	case *ir.Primitive:
		return &TypeExpr{Form: FormPrimitive, Kind: v.Reified.String(), Spelling: v.Spelling}
	case *ir.NamedRef:
		te := &TypeExpr{Form: FormRef, Name: v.Name}
		if v.Reified != ir.KindStructRef && v.Reified != ir.KindUnknown {
			te.Kind = v.Reified.String()
		}

		return te
	case *ir.Indirection:
		return &TypeExpr{Form: FormIndirection, Kind: v.Reified.String(), Elem: b.typeExpr(v.Elem)}
	case *ir.Parameterized:
		te := &TypeExpr{Form: FormGeneric, Kind: v.Reified.String(), Len: v.Len}
		for _, a := range v.Args {
			te.Args = append(te.Args, b.typeExpr(a))
		}

		return te
	case *ir.Inline:
		return &TypeExpr{Form: FormInline, Struct: b.inline(v.Struct)}
	default:
		return nil
	}
}

// inline renders an inline struct through the walker into a scratch list.
func (b *builder) inline(s *ir.Struct) *Item {
	if s == nil {
		return nil
	}

	var scratch []*Item

	b.push(&scratch)
	b.WalkStruct(s, walk.Context{})
	b.pop()

	return scratch[0]
}

func attrs(in ir.Attributes) []Attr {
	if len(in) == 0 {
		return nil
	}

	out := make([]Attr, len(in))
	for i, a := range in {
		out[i] = Attr{Name: a.Name, Value: a.Value}
	}

	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}

	return append([]string(nil), in...)
}

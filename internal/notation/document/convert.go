package document

import (
	"strconv"

	"github.com/Masterminds/semver/v3"

	"astrie/internal/errors"
	"astrie/internal/ir"
)

var supported = semver.MustParse("1.0.0")

var supportedRange = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}

	return c
}()

// CheckVersion rejects document versions outside SupportedVersions. An
// empty version is treated as CurrentVersion.
func CheckVersion(version string) error {
	if version == "" {
		version = CurrentVersion
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "invalid document version %q", version)
	}

	if !supportedRange.Check(v) {
		return errors.WithHintf(
			errors.Newf("unsupported document version %s", v),
			"this build reads versions %s (current %s)", SupportedVersions, supported,
		)
	}

	return nil
}

// ToModule converts a document back into a module.
func ToModule(d *Document) (*ir.Module, error) {
	if err := CheckVersion(d.Version); err != nil {
		return nil, err
	}

	nodes, err := toNodes(d.Items, "items")
	if err != nil {
		return nil, err
	}

	return &ir.Module{
		Source:     d.Source,
		Namespaces: cloneStrings(d.Namespaces),
		Nodes:      nodes,
	}, nil
}

func toNodes(items []*Item, path string) ([]ir.Node, error) {
	nodes := make([]ir.Node, 0, len(items))

	for i, it := range items {
		p := index(path, i)
		if it == nil {
			return nil, errors.Newf("%s: empty item", p)
		}

		var (
			n   ir.Node
			err error
		)

		switch it.Kind {
		case ItemStruct:
			n, err = toStruct(it, p)
		case ItemEnum:
			n, err = toEnum(it, p)
		case ItemOneof:
			n, err = toOneof(it, p)
		case ItemService:
			n = toService(it)
		case ItemNamespace:
			var children []ir.Node

			children, err = toNodes(it.Items, p+".items")
			n = &ir.Namespace{Name: it.Name, Nodes: children}
		default:
			err = errors.Newf("%s: %q is not a top-level item kind", p, it.Kind)
		}

		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

func toStruct(it *Item, path string) (*ir.Struct, error) {
	s := &ir.Struct{
		Name:       it.Name,
		Namespaces: cloneStrings(it.Namespaces),
		Attributes: toAttrs(it.Attributes),
		Anonymous:  it.Anonymous,
		VarName:    it.VarName,
		Record:     it.Record,
		Abstract:   it.Abstract,
		Base:       it.Base,
	}

	for i, m := range it.Members {
		p := index(path+".members", i)
		if m == nil {
			return nil, errors.Newf("%s: empty member", p)
		}

		var (
			member ir.Member
			err    error
		)

		switch m.Kind {
		case ItemField:
			var t ir.Type

			t, err = toType(m.Type, p+".type")
			member = &ir.Field{Name: m.Name, Type: t, Attributes: toAttrs(m.Attributes)}
		case ItemStruct:
			member, err = toStruct(m, p)
		case ItemEnum:
			member, err = toEnum(m, p)
		case ItemOneof:
			member, err = toOneof(m, p)
		default:
			err = errors.Newf("%s: %q is not a struct member kind", p, m.Kind)
		}

		if err != nil {
			return nil, err
		}

		s.Members = append(s.Members, member)
	}

	return s, nil
}

func toEnum(it *Item, path string) (*ir.Enum, error) {
	e := &ir.Enum{
		Name:       it.Name,
		Namespaces: cloneStrings(it.Namespaces),
		Attributes: toAttrs(it.Attributes),
		Scoped:     it.Scoped,
		Underlying: it.Underlying,
	}

	for i, v := range it.Values {
		p := index(path+".values", i)
		if v == nil {
			return nil, errors.Newf("%s: empty value", p)
		}

		var payload ir.Type

		if v.Payload != nil {
			var err error

			if payload, err = toType(v.Payload, p+".payload"); err != nil {
				return nil, err
			}
		}

		e.Values = append(e.Values, &ir.EnumValue{
			Name:       v.Name,
			Number:     v.Number,
			Attributes: toAttrs(v.Attributes),
			Payload:    payload,
		})
	}

	return e, nil
}

func toOneof(it *Item, path string) (*ir.Oneof, error) {
	o := &ir.Oneof{Name: it.Name, Attributes: toAttrs(it.Attributes)}

	for i, a := range it.Alternatives {
		p := index(path+".alternatives", i)
		if a == nil {
			return nil, errors.Newf("%s: empty alternative", p)
		}

		var t ir.Type

		if a.Type != nil {
			var err error

			if t, err = toType(a.Type, p+".type"); err != nil {
				return nil, err
			}
		}

		o.Alternatives = append(o.Alternatives, &ir.Alternative{
			Name:       a.Name,
			Type:       t,
			Attributes: toAttrs(a.Attributes),
		})
	}

	return o, nil
}

func toService(it *Item) *ir.Service {
	s := &ir.Service{Name: it.Name, Attributes: toAttrs(it.Attributes)}

	for _, m := range it.Methods {
		if m == nil {
			continue
		}

		s.Methods = append(s.Methods, &ir.Method{
			Name:       m.Name,
			Request:    m.Request,
			Response:   m.Response,
			Attributes: toAttrs(m.Attributes),
		})
	}

	return s
}

func toType(te *TypeExpr, path string) (ir.Type, error) {
	if te == nil {
		return nil, errors.Newf("%s: missing type", path)
	}

	switch te.Form {
	case FormPrimitive:
		k, err := kind(te.Kind, path)
		if err != nil {
			return nil, err
		}

		if !k.IsPrimitive() && k != ir.KindUnknown {
			return nil, errors.Newf("%s: %s is not a primitive kind", path, k)
		}

		return &ir.Primitive{Reified: k, Spelling: te.Spelling}, nil

	case FormRef:
		if te.Name == "" {
			return nil, errors.Newf("%s: reference without a name", path)
		}

		ref := ir.Ref(te.Name)
		if te.Kind != "" {
			k, err := kind(te.Kind, path)
			if err != nil {
				return nil, err
			}

			ref.Reified = k
		}

		return ref, nil

	case FormIndirection:
		k, err := kind(te.Kind, path)
		if err != nil {
			return nil, err
		}

		if !k.IsIndirection() {
			return nil, errors.Newf("%s: %s is not an indirection kind", path, k)
		}

		elem, err := toType(te.Elem, path+".elem")
		if err != nil {
			return nil, err
		}

		return &ir.Indirection{Reified: k, Elem: elem}, nil

	case FormGeneric:
		k, err := kind(te.Kind, path)
		if err != nil {
			return nil, err
		}

		if !k.IsContainer() || k == ir.KindOptional {
			return nil, errors.Newf("%s: %s is not a container kind", path, k)
		}

		p := &ir.Parameterized{Reified: k, Len: te.Len}

		for i, a := range te.Args {
			arg, err := toType(a, index(path+".args", i))
			if err != nil {
				return nil, err
			}

			p.Args = append(p.Args, arg)
		}

		return p, nil

	case FormInline:
		if te.Struct == nil {
			return ir.InlineOf(nil), nil
		}

		s, err := toStruct(te.Struct, path+".struct")
		if err != nil {
			return nil, err
		}

		return ir.InlineOf(s), nil

	default:
		return nil, errors.Newf("%s: unknown type form %q", path, te.Form)
	}
}

func kind(name, path string) (ir.Kind, error) {
	if name == "" {
		return ir.KindUnknown, errors.Newf("%s: missing kind", path)
	}

	k, ok := ir.ParseKind(name)
	if !ok {
		return ir.KindUnknown, errors.Newf("%s: unknown kind %q", path, name)
	}

	return k, nil
}

func toAttrs(in []Attr) ir.Attributes {
	if len(in) == 0 {
		return nil
	}

	out := make(ir.Attributes, len(in))
	for i, a := range in {
		out[i] = ir.Attribute{Name: a.Name, Value: a.Value}
	}

	return out
}

func index(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

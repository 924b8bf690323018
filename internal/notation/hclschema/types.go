package hclschema

import (
	"strings"

	"github.com/hashicorp/hcl/v2"

	"astrie/internal/ir"
)

// arity of the fixed-size constructors; variant and tuple take one or more.
var arity = map[string]int{
	"list":          1,
	"set":           1,
	"unordered_set": 1,
	"optional":      1,
	"ptr":           1,
	"unique":        1,
	"shared":        1,
	"map":           2,
	"unordered_map": 2,
	"pair":          2,
	"array":         2,
	"object":        1,
	"opaque":        1,
}

var indirections = map[string]ir.Kind{
	"optional": ir.KindOptional,
	"ptr":      ir.KindPointer,
	"unique":   ir.KindUniquePtr,
	"shared":   ir.KindSharedPtr,
}

var containers = map[string]ir.Kind{
	"list":          ir.KindList,
	"set":           ir.KindSet,
	"unordered_set": ir.KindUnorderedSet,
	"map":           ir.KindMap,
	"unordered_map": ir.KindUnorderedMap,
	"pair":          ir.KindPair,
	"variant":       ir.KindVariant,
	"tuple":         ir.KindTuple,
}

func parseType(expr hcl.Expression) (ir.Type, error) {
	if name, ok := traversalName(expr); ok {
		if k, ok := ir.ParseKind(name); ok && k.IsPrimitive() {
			return ir.Prim(k), nil
		}

		if k, ok := ir.ParseKind(name); ok && k != ir.KindStructRef {
			return nil, errAt(expr.Range(), "%s needs type arguments, e.g. %s(...)", name, name)
		}

		return ir.Ref(name), nil
	}

	call, diags := hcl.ExprCall(expr)
	if diags.HasErrors() {
		return nil, errAt(expr.Range(), "invalid type expression")
	}

	if n, fixed := arity[call.Name]; fixed && len(call.Arguments) != n {
		return nil, errAt(call.NameRange, "%s takes %d argument(s), got %d", call.Name, n, len(call.Arguments))
	}

	switch call.Name {
	case "object":
		return parseObject(call.Arguments[0])

	case "opaque":
		spelling, err := stringValue(call.Arguments[0])
		if err != nil {
			return nil, err
		}

		return ir.Opaque(spelling), nil

	case "array":
		elem, err := parseType(call.Arguments[0])
		if err != nil {
			return nil, err
		}

		n, err := intValue(call.Arguments[1])
		if err != nil {
			return nil, err
		}

		if n <= 0 {
			return nil, errAt(call.Arguments[1].Range(), "array length must be positive")
		}

		return ir.ArrayOf(elem, int(n)), nil
	}

	args := make([]ir.Type, 0, len(call.Arguments))

	for _, a := range call.Arguments {
		t, err := parseType(a)
		if err != nil {
			return nil, err
		}

		args = append(args, t)
	}

	if k, ok := indirections[call.Name]; ok {
		return &ir.Indirection{Reified: k, Elem: args[0]}, nil
	}

	k, ok := containers[call.Name]
	if !ok {
		return nil, errAt(call.NameRange, "unknown type constructor %q", call.Name)
	}

	if len(args) == 0 {
		return nil, errAt(call.NameRange, "%s needs at least one type", call.Name)
	}

	return ir.Generic(k, args...), nil
}

// parseObject reads object({ name = type, ... }) as an anonymous inline
// struct, fields in source order.
func parseObject(expr hcl.Expression) (ir.Type, error) {
	pairs, diags := hcl.ExprMap(expr)
	if diags.HasErrors() {
		return nil, errAt(expr.Range(), "object() takes a map of field types")
	}

	s := &ir.Struct{Anonymous: true}

	for _, p := range pairs {
		name := hcl.ExprAsKeyword(p.Key)
		if name == "" {
			var err error

			if name, err = stringValue(p.Key); err != nil {
				return nil, err
			}
		}

		t, err := parseType(p.Value)
		if err != nil {
			return nil, err
		}

		s.Members = append(s.Members, &ir.Field{Name: name, Type: t})
	}

	return ir.InlineOf(s), nil
}

// traversalName returns the dotted name of a bare traversal like
// billing.Invoice.
func traversalName(expr hcl.Expression) (string, bool) {
	trav, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return "", false
	}

	parts := make([]string, 0, len(trav))

	for _, step := range trav {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			parts = append(parts, s.Name)
		case hcl.TraverseAttr:
			parts = append(parts, s.Name)
		default:
			return "", false
		}
	}

	return strings.Join(parts, "."), true
}

package hclschema

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"astrie/internal/ir"
	"astrie/internal/plugin"
)

// Key is the notation key of the HCL schema notation.
const Key = "hcl"

const fileName = "schema.hcl"

// Frontend parses HCL schemas.
type Frontend struct{}

func (Frontend) Key() string { return Key }

// Parse parses src. Declarations keep their source order across block types.
func (Frontend) Parse(src []byte) (*ir.Module, error) {
	file, diags := hclsyntax.ParseConfig(src, fileName, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fromDiagnostics(diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, plugin.NewParseError(Key, 0, 0, "unexpected body type %T", file.Body)
	}

	m := &ir.Module{Source: Key}

	if err := allowAttrs(body, "namespace"); err != nil {
		return nil, err
	}

	if attr, ok := body.Attributes["namespace"]; ok {
		ns, err := stringList(attr.Expr)
		if err != nil {
			return nil, err
		}

		m.Namespaces = ns
	}

	nodes, err := parseNodes(body)
	if err != nil {
		return nil, err
	}

	m.Nodes = nodes

	return m, nil
}

func parseNodes(body *hclsyntax.Body) ([]ir.Node, error) {
	var nodes []ir.Node

	for _, b := range body.Blocks {
		var (
			n   ir.Node
			err error
		)

		switch b.Type {
		case "struct":
			n, err = parseStruct(b)
		case "enum":
			n, err = parseEnum(b)
		case "oneof":
			n, err = parseOneof(b)
		case "service":
			n, err = parseService(b)
		case "namespace":
			n, err = parseNamespace(b)
		default:
			err = errAt(b.TypeRange, "unexpected %q block at top level", b.Type)
		}

		if err != nil {
			return nil, err
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

func parseNamespace(b *hclsyntax.Block) (*ir.Namespace, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := allowAttrs(b.Body); err != nil {
		return nil, err
	}

	nodes, err := parseNodes(b.Body)
	if err != nil {
		return nil, err
	}

	return &ir.Namespace{Name: name, Nodes: nodes}, nil
}

func parseStruct(b *hclsyntax.Block) (*ir.Struct, error) {
	name, err := label(b, false)
	if err != nil {
		return nil, err
	}

	if err := allowAttrs(b.Body, "attributes", "var", "base", "record", "abstract"); err != nil {
		return nil, err
	}

	s := &ir.Struct{Name: name, Anonymous: name == ""}

	if s.Attributes, err = attributes(b.Body); err != nil {
		return nil, err
	}

	if s.VarName, err = optString(b.Body, "var"); err != nil {
		return nil, err
	}

	if s.Base, err = optName(b.Body, "base"); err != nil {
		return nil, err
	}

	if s.Record, err = optBool(b.Body, "record"); err != nil {
		return nil, err
	}

	if s.Abstract, err = optBool(b.Body, "abstract"); err != nil {
		return nil, err
	}

	if s.Anonymous && s.VarName == "" && len(b.Body.Blocks) == 0 {
		return nil, errAt(b.TypeRange, "anonymous struct without members or var")
	}

	for _, mb := range b.Body.Blocks {
		var (
			m   ir.Member
			err error
		)

		switch mb.Type {
		case "field":
			m, err = parseField(mb)
		case "struct":
			m, err = parseStruct(mb)
		case "enum":
			m, err = parseEnum(mb)
		case "oneof":
			m, err = parseOneof(mb)
		default:
			err = errAt(mb.TypeRange, "unexpected %q block in struct %q", mb.Type, name)
		}

		if err != nil {
			return nil, err
		}

		s.Members = append(s.Members, m)
	}

	return s, nil
}

func parseField(b *hclsyntax.Block) (*ir.Field, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := leaf(b, "type", "attributes"); err != nil {
		return nil, err
	}

	attr, ok := b.Body.Attributes["type"]
	if !ok {
		return nil, errAt(b.Body.SrcRange, "field %q has no type", name)
	}

	t, err := parseType(attr.Expr)
	if err != nil {
		return nil, err
	}

	attrs, err := attributes(b.Body)
	if err != nil {
		return nil, err
	}

	return &ir.Field{Name: name, Type: t, Attributes: attrs}, nil
}

func parseEnum(b *hclsyntax.Block) (*ir.Enum, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := allowAttrs(b.Body, "attributes", "scoped", "underlying"); err != nil {
		return nil, err
	}

	e := &ir.Enum{Name: name}

	if e.Attributes, err = attributes(b.Body); err != nil {
		return nil, err
	}

	if e.Scoped, err = optBool(b.Body, "scoped"); err != nil {
		return nil, err
	}

	if e.Underlying, err = optString(b.Body, "underlying"); err != nil {
		return nil, err
	}

	next := int64(0)

	for _, vb := range b.Body.Blocks {
		if vb.Type != "value" {
			return nil, errAt(vb.TypeRange, "unexpected %q block in enum %q", vb.Type, name)
		}

		v, err := parseValue(vb, next)
		if err != nil {
			return nil, err
		}

		e.Values = append(e.Values, v)
		next = v.Number + 1
	}

	return e, nil
}

// parseValue numbers values without an explicit number one past the
// previous value.
func parseValue(b *hclsyntax.Block, next int64) (*ir.EnumValue, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := leaf(b, "number", "payload", "attributes"); err != nil {
		return nil, err
	}

	v := &ir.EnumValue{Name: name, Number: next}

	if attr, ok := b.Body.Attributes["number"]; ok {
		if v.Number, err = intValue(attr.Expr); err != nil {
			return nil, err
		}
	}

	if attr, ok := b.Body.Attributes["payload"]; ok {
		if v.Payload, err = parseType(attr.Expr); err != nil {
			return nil, err
		}
	}

	if v.Attributes, err = attributes(b.Body); err != nil {
		return nil, err
	}

	return v, nil
}

func parseOneof(b *hclsyntax.Block) (*ir.Oneof, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := allowAttrs(b.Body, "attributes"); err != nil {
		return nil, err
	}

	o := &ir.Oneof{Name: name}

	if o.Attributes, err = attributes(b.Body); err != nil {
		return nil, err
	}

	for _, ab := range b.Body.Blocks {
		if ab.Type != "alt" {
			return nil, errAt(ab.TypeRange, "unexpected %q block in oneof %q", ab.Type, name)
		}

		altName, err := label(ab, true)
		if err != nil {
			return nil, err
		}

		if err := leaf(ab, "type", "attributes"); err != nil {
			return nil, err
		}

		alt := &ir.Alternative{Name: altName}

		if attr, ok := ab.Body.Attributes["type"]; ok {
			if alt.Type, err = parseType(attr.Expr); err != nil {
				return nil, err
			}
		}

		if alt.Attributes, err = attributes(ab.Body); err != nil {
			return nil, err
		}

		o.Alternatives = append(o.Alternatives, alt)
	}

	return o, nil
}

func parseService(b *hclsyntax.Block) (*ir.Service, error) {
	name, err := label(b, true)
	if err != nil {
		return nil, err
	}

	if err := allowAttrs(b.Body, "attributes"); err != nil {
		return nil, err
	}

	s := &ir.Service{Name: name}

	if s.Attributes, err = attributes(b.Body); err != nil {
		return nil, err
	}

	for _, rb := range b.Body.Blocks {
		if rb.Type != "rpc" {
			return nil, errAt(rb.TypeRange, "unexpected %q block in service %q", rb.Type, name)
		}

		rpcName, err := label(rb, true)
		if err != nil {
			return nil, err
		}

		if err := leaf(rb, "request", "response", "attributes"); err != nil {
			return nil, err
		}

		m := &ir.Method{Name: rpcName}

		if m.Request, err = optName(rb.Body, "request"); err != nil {
			return nil, err
		}

		if m.Response, err = optName(rb.Body, "response"); err != nil {
			return nil, err
		}

		if m.Attributes, err = attributes(rb.Body); err != nil {
			return nil, err
		}

		s.Methods = append(s.Methods, m)
	}

	return s, nil
}

// label returns the single block label. Unlabeled blocks are allowed only
// when required is false.
func label(b *hclsyntax.Block, required bool) (string, error) {
	switch {
	case len(b.Labels) == 1:
		return b.Labels[0], nil
	case len(b.Labels) == 0 && !required:
		return "", nil
	case len(b.Labels) == 0:
		return "", errAt(b.TypeRange, "%s block needs a name", b.Type)
	default:
		return "", errAt(b.LabelRanges[1], "%s block takes one name, got %d", b.Type, len(b.Labels))
	}
}

// leaf rejects nested blocks and unknown attributes.
func leaf(b *hclsyntax.Block, allowed ...string) error {
	if len(b.Body.Blocks) > 0 {
		nb := b.Body.Blocks[0]

		return errAt(nb.TypeRange, "unexpected %q block in %s", nb.Type, b.Type)
	}

	return allowAttrs(b.Body, allowed...)
}

// allowAttrs rejects attributes not in allowed, reporting the first one in
// source order.
func allowAttrs(body *hclsyntax.Body, allowed ...string) error {
	var bad []*hclsyntax.Attribute

	for name, attr := range body.Attributes {
		ok := false

		for _, a := range allowed {
			if name == a {
				ok = true

				break
			}
		}

		if !ok {
			bad = append(bad, attr)
		}
	}

	if len(bad) == 0 {
		return nil
	}

	sort.Slice(bad, func(i, j int) bool {
		return bad[i].SrcRange.Start.Byte < bad[j].SrcRange.Start.Byte
	})

	return errAt(bad[0].NameRange, "unexpected attribute %q", bad[0].Name)
}

// attributes reads the ordered `attributes = { name = value }` map.
func attributes(body *hclsyntax.Body) (ir.Attributes, error) {
	attr, ok := body.Attributes["attributes"]
	if !ok {
		return nil, nil
	}

	pairs, diags := hcl.ExprMap(attr.Expr)
	if diags.HasErrors() {
		return nil, fromDiagnostics(diags)
	}

	out := make(ir.Attributes, 0, len(pairs))

	for _, p := range pairs {
		name := hcl.ExprAsKeyword(p.Key)
		if name == "" {
			s, err := stringValue(p.Key)
			if err != nil {
				return nil, err
			}

			name = s
		}

		value, err := stringValue(p.Value)
		if err != nil {
			return nil, err
		}

		out = append(out, ir.Attribute{Name: name, Value: value})
	}

	return out, nil
}

func optString(body *hclsyntax.Body, name string) (string, error) {
	attr, ok := body.Attributes[name]
	if !ok {
		return "", nil
	}

	return stringValue(attr.Expr)
}

// optName reads a declaration name given either as a bare (possibly dotted)
// identifier or as a string.
func optName(body *hclsyntax.Body, name string) (string, error) {
	attr, ok := body.Attributes[name]
	if !ok {
		return "", nil
	}

	if n, ok := traversalName(attr.Expr); ok {
		return n, nil
	}

	return stringValue(attr.Expr)
}

func optBool(body *hclsyntax.Body, name string) (bool, error) {
	attr, ok := body.Attributes[name]
	if !ok {
		return false, nil
	}

	v, err := value(attr.Expr, cty.Bool)
	if err != nil {
		return false, err
	}

	return v.True(), nil
}

func stringValue(expr hcl.Expression) (string, error) {
	v, err := value(expr, cty.String)
	if err != nil {
		return "", err
	}

	return v.AsString(), nil
}

func intValue(expr hcl.Expression) (int64, error) {
	v, err := value(expr, cty.Number)
	if err != nil {
		return 0, err
	}

	n, acc := v.AsBigFloat().Int64()
	if acc != 0 {
		return 0, errAt(expr.Range(), "expected a whole number")
	}

	return n, nil
}

func stringList(expr hcl.Expression) ([]string, error) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		s, err := stringValue(expr)
		if err != nil {
			return nil, fromDiagnostics(diags)
		}

		return []string{s}, nil
	}

	out := make([]string, 0, len(exprs))

	for _, e := range exprs {
		s, err := stringValue(e)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// value evaluates a constant expression and converts it to want.
func value(expr hcl.Expression, want cty.Type) (cty.Value, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fromDiagnostics(diags)
	}

	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, errAt(expr.Range(), "expected a %s value", want.FriendlyName())
	}

	v, err := convert.Convert(v, want)
	if err != nil {
		return cty.NilVal, errAt(expr.Range(), "expected a %s value: %s", want.FriendlyName(), err)
	}

	return v, nil
}

func errAt(rng hcl.Range, format string, args ...any) *plugin.ParseError {
	return plugin.NewParseError(Key, rng.Start.Line, rng.Start.Column, format, args...)
}

func fromDiagnostics(diags hcl.Diagnostics) *plugin.ParseError {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}

		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}

		pe := &plugin.ParseError{Notation: Key, Msg: msg, Err: diags}
		if d.Subject != nil {
			pe.Line, pe.Column = d.Subject.Start.Line, d.Subject.Start.Column
		}

		return pe
	}

	return &plugin.ParseError{Notation: Key, Msg: diags.Error(), Err: diags}
}

package golang

import (
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"astrie/internal/errors"
	"astrie/internal/ir"
	"astrie/internal/plugin"
)

// Key is the notation key of Go source.
const Key = "go"

const fileName = "schema.go"

var builtins = map[string]ir.Kind{
	"bool":    ir.KindBool,
	"int8":    ir.KindInt8,
	"uint8":   ir.KindUInt8,
	"byte":    ir.KindUInt8,
	"int16":   ir.KindInt16,
	"uint16":  ir.KindUInt16,
	"int32":   ir.KindInt32,
	"uint32":  ir.KindUInt32,
	"int64":   ir.KindInt64,
	"uint64":  ir.KindUInt64,
	"int":     ir.KindInt64,
	"uint":    ir.KindUInt64,
	"float32": ir.KindFloat32,
	"float64": ir.KindFloat64,
	"string":  ir.KindString,
	"rune":    ir.KindChar,
}

var qualified = map[string]ir.Kind{
	"time.Time":       ir.KindDateTime,
	"time.Duration":   ir.KindDuration,
	"uuid.UUID":       ir.KindUUID,
	"url.URL":         ir.KindURL,
	"decimal.Decimal": ir.KindDecimal,
}

// Frontend parses Go source.
type Frontend struct{}

func (Frontend) Key() string { return Key }

func (Frontend) Parse(src []byte) (*ir.Module, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, fileName, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fromScanner(err)
	}

	r := newReader(fset)
	r.collect(file)

	nodes, err := r.nodes(file)
	if err != nil {
		return nil, err
	}

	return &ir.Module{
		Source:     Key,
		Namespaces: []string{file.Name.Name},
		Nodes:      nodes,
	}, nil
}

type constant struct {
	name string
	expr ast.Expr
	iota int64
}

type reader struct {
	fset *token.FileSet

	specs   map[string]*ast.TypeSpec
	consts  map[string][]constant
	sealed  map[string]bool
	markers map[string]string

	resolving map[string]bool
}

func newReader(fset *token.FileSet) *reader {
	return &reader{
		fset:      fset,
		specs:     map[string]*ast.TypeSpec{},
		consts:    map[string][]constant{},
		sealed:    map[string]bool{},
		markers:   map[string]string{},
		resolving: map[string]bool{},
	}
}

// collect indexes type specs, typed constants and marker methods so that
// declarations may appear in any order.
func (r *reader) collect(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					r.specs[ts.Name.Name] = ts

					if it, ok := ts.Type.(*ast.InterfaceType); ok && isSealed(ts.Name.Name, it) {
						r.sealed[ts.Name.Name] = true
					}
				}
			case token.CONST:
				r.collectConsts(d)
			}
		case *ast.FuncDecl:
			if recv, iface, ok := marker(d); ok {
				r.markers[recv] = iface
			}
		}
	}
}

// collectConsts follows Go's implicit repetition: a spec without type and
// values repeats the previous ones with the next iota.
func (r *reader) collectConsts(d *ast.GenDecl) {
	var (
		typ    string
		values []ast.Expr
	)

	for i, spec := range d.Specs {
		vs := spec.(*ast.ValueSpec)

		if vs.Type != nil || len(vs.Values) > 0 {
			typ = ""
			if id, ok := vs.Type.(*ast.Ident); ok {
				typ = id.Name
			}

			values = vs.Values
		}

		if typ == "" {
			continue
		}

		for j, name := range vs.Names {
			if name.Name == "_" || j >= len(values) {
				continue
			}

			r.consts[typ] = append(r.consts[typ], constant{name: name.Name, expr: values[j], iota: int64(i)})
		}
	}
}

func isSealed(name string, it *ast.InterfaceType) bool {
	if it.Methods == nil || len(it.Methods.List) != 1 {
		return false
	}

	m := it.Methods.List[0]
	if len(m.Names) != 1 || m.Names[0].Name != "is"+name {
		return false
	}

	ft, ok := m.Type.(*ast.FuncType)

	return ok && ft.Params.NumFields() == 0 && ft.Results.NumFields() == 0
}

// marker matches `func (T) isX() {}` and returns T and X.
func marker(d *ast.FuncDecl) (recv, iface string, ok bool) {
	if d.Recv == nil || len(d.Recv.List) != 1 || !strings.HasPrefix(d.Name.Name, "is") {
		return "", "", false
	}

	if d.Type.Params.NumFields() != 0 || d.Type.Results.NumFields() != 0 {
		return "", "", false
	}

	t := d.Recv.List[0].Type
	if star, isStar := t.(*ast.StarExpr); isStar {
		t = star.X
	}

	id, isIdent := t.(*ast.Ident)
	if !isIdent {
		return "", "", false
	}

	return id.Name, strings.TrimPrefix(d.Name.Name, "is"), true
}

func (r *reader) isWrapper(name string) bool {
	iface, ok := r.markers[name]

	return ok && r.sealed[iface]
}

func (r *reader) nodes(file *ast.File) ([]ir.Node, error) {
	var nodes []ir.Node

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			n, err := r.node(spec.(*ast.TypeSpec), file)
			if err != nil {
				return nil, err
			}

			if n != nil {
				nodes = append(nodes, n)
			}
		}
	}

	return nodes, nil
}

// node converts one type spec. It returns nil for specs that only exist to
// support another declaration: enum payload wrappers and aliases.
func (r *reader) node(ts *ast.TypeSpec, file *ast.File) (ir.Node, error) {
	name := ts.Name.Name

	if ts.Assign.IsValid() {
		return nil, nil
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		if r.isWrapper(name) {
			return nil, nil
		}

		return r.structDecl(name, t)

	case *ast.InterfaceType:
		if r.sealed[name] {
			return r.sumEnum(name, file)
		}

		if svc, ok := r.service(name, t); ok {
			return svc, nil
		}

		return nil, nil

	case *ast.Ident:
		if _, basic := builtins[t.Name]; basic && len(r.consts[name]) > 0 {
			return r.enumDecl(name, t.Name)
		}
	}

	return nil, nil
}

func (r *reader) structDecl(name string, st *ast.StructType) (*ir.Struct, error) {
	s := &ir.Struct{Name: name}

	for _, f := range st.Fields.List {
		attrs, err := r.tagAttributes(f)
		if err != nil {
			return nil, err
		}

		if len(f.Names) == 0 {
			embedded := typeName(f.Type)
			if s.Base == "" && embedded != "" && len(s.Members) == 0 {
				s.Base = embedded

				continue
			}

			t, err := r.typeOf(f.Type)
			if err != nil {
				return nil, err
			}

			s.Members = append(s.Members, &ir.Field{Name: fieldName(embedded, attrs), Type: t, Attributes: attrs})

			continue
		}

		for _, n := range f.Names {
			if n.Name == "_" {
				continue
			}

			t, err := r.typeOf(f.Type)
			if err != nil {
				return nil, err
			}

			s.Members = append(s.Members, &ir.Field{Name: fieldName(n.Name, attrs), Type: t, Attributes: attrs})
		}
	}

	return s, nil
}

func (r *reader) enumDecl(name, underlying string) (*ir.Enum, error) {
	e := &ir.Enum{Name: name, Underlying: underlying}

	for _, c := range r.consts[name] {
		n, ok := evalConst(c.expr, c.iota)
		if !ok {
			return nil, r.errAt(c.expr, "cannot evaluate constant %s", c.name)
		}

		e.Values = append(e.Values, &ir.EnumValue{Name: trimPrefix(c.name, name), Number: n})
	}

	return e, nil
}

// sumEnum builds a payload enum from the wrapper structs implementing the
// sealed interface, in declaration order.
func (r *reader) sumEnum(name string, file *ast.File) (*ir.Enum, error) {
	e := &ir.Enum{Name: name, Scoped: true}

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)

			st, isStruct := ts.Type.(*ast.StructType)
			if !isStruct || r.markers[ts.Name.Name] != name {
				continue
			}

			payload, err := r.payload(st)
			if err != nil {
				return nil, err
			}

			e.Values = append(e.Values, &ir.EnumValue{
				Name:    trimPrefix(ts.Name.Name, name),
				Number:  int64(len(e.Values)),
				Payload: payload,
			})
		}
	}

	return e, nil
}

// payload reads a wrapper struct: no fields is Monostate, a single Value
// field is its type, anything else an inline struct.
func (r *reader) payload(st *ast.StructType) (ir.Type, error) {
	fields := st.Fields.List

	switch {
	case len(fields) == 0:
		return ir.Prim(ir.KindMonostate), nil
	case len(fields) == 1 && len(fields[0].Names) == 1 && fields[0].Names[0].Name == "Value":
		return r.typeOf(fields[0].Type)
	default:
		s, err := r.structDecl("", st)
		if err != nil {
			return nil, err
		}

		s.Anonymous = true

		return ir.InlineOf(s), nil
	}
}

// service matches interfaces whose methods all take (context.Context, *Req)
// and return (*Resp, error).
func (r *reader) service(name string, it *ast.InterfaceType) (*ir.Service, bool) {
	if it.Methods == nil || len(it.Methods.List) == 0 {
		return nil, false
	}

	svc := &ir.Service{Name: name}

	for _, m := range it.Methods.List {
		ft, ok := m.Type.(*ast.FuncType)
		if !ok || len(m.Names) != 1 {
			return nil, false
		}

		params := flatTypes(ft.Params)
		results := flatTypes(ft.Results)

		if len(params) != 2 || typeName(params[0]) != "context.Context" || len(results) != 2 || typeName(results[1]) != "error" {
			return nil, false
		}

		req, resp := typeName(deref(params[1])), typeName(deref(results[0]))
		if req == "" || resp == "" {
			return nil, false
		}

		svc.Methods = append(svc.Methods, &ir.Method{Name: m.Names[0].Name, Request: req, Response: resp})
	}

	return svc, true
}

func (r *reader) typeOf(e ast.Expr) (ir.Type, error) {
	switch t := e.(type) {
	case *ast.Ident:
		if k, ok := builtins[t.Name]; ok {
			return ir.Prim(k), nil
		}

		if t.Name == "any" {
			return ir.Opaque("any"), nil
		}

		return r.named(t)

	case *ast.SelectorExpr:
		name := typeName(t)
		if k, ok := qualified[name]; ok {
			return ir.Prim(k), nil
		}

		return ir.Opaque(name), nil

	case *ast.StarExpr:
		elem, err := r.typeOf(t.X)
		if err != nil {
			return nil, err
		}

		return ir.Ptr(elem), nil

	case *ast.ParenExpr:
		return r.typeOf(t.X)

	case *ast.ArrayType:
		return r.arrayOf(t)

	case *ast.MapType:
		key, err := r.typeOf(t.Key)
		if err != nil {
			return nil, err
		}

		if st, ok := t.Value.(*ast.StructType); ok && st.Fields.NumFields() == 0 {
			return ir.SetOf(key), nil
		}

		value, err := r.typeOf(t.Value)
		if err != nil {
			return nil, err
		}

		return ir.MapOf(key, value), nil

	case *ast.StructType:
		s, err := r.structDecl("", t)
		if err != nil {
			return nil, err
		}

		s.Anonymous = true

		return ir.InlineOf(s), nil

	case *ast.InterfaceType:
		if t.Methods.NumFields() == 0 {
			return ir.Opaque("any"), nil
		}

		return nil, r.errAt(t, "interface types with methods cannot be field types")

	default:
		return nil, r.errAt(e, "unsupported type expression %T", e)
	}
}

func (r *reader) arrayOf(t *ast.ArrayType) (ir.Type, error) {
	if t.Len == nil {
		if id, ok := t.Elt.(*ast.Ident); ok && (id.Name == "byte" || id.Name == "uint8") {
			return ir.Prim(ir.KindBytes), nil
		}

		elem, err := r.typeOf(t.Elt)
		if err != nil {
			return nil, err
		}

		return ir.List(elem), nil
	}

	n, ok := evalConst(t.Len, 0)
	if !ok || n <= 0 {
		return nil, r.errAt(t.Len, "array length must be a positive constant")
	}

	elem, err := r.typeOf(t.Elt)
	if err != nil {
		return nil, err
	}

	return ir.ArrayOf(elem, int(n)), nil
}

// named resolves a declared identifier. Enums, structs and sealed interfaces
// are referenced by name; other named types are replaced by their
// underlying type.
func (r *reader) named(id *ast.Ident) (ir.Type, error) {
	ts, ok := r.specs[id.Name]
	if !ok {
		return ir.Ref(id.Name), nil
	}

	switch t := ts.Type.(type) {
	case *ast.StructType, *ast.InterfaceType:
		return ir.Ref(id.Name), nil
	case *ast.Ident:
		if _, basic := builtins[t.Name]; basic && len(r.consts[id.Name]) > 0 && !ts.Assign.IsValid() {
			return ir.Ref(id.Name), nil
		}
	}

	if r.resolving[id.Name] {
		return nil, r.errAt(id, "type %s refers to itself", id.Name)
	}

	r.resolving[id.Name] = true
	defer delete(r.resolving, id.Name)

	return r.typeOf(ts.Type)
}

// tagAttributes turns a struct tag into attributes, keys in tag order.
func (r *reader) tagAttributes(f *ast.Field) (ir.Attributes, error) {
	if f.Tag == nil {
		return nil, nil
	}

	tag, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return nil, r.errAt(f.Tag, "malformed struct tag")
	}

	attrs, ok := parseTag(tag)
	if !ok {
		return nil, r.errAt(f.Tag, "malformed struct tag %q", tag)
	}

	return attrs, nil
}

func (r *reader) errAt(n ast.Node, format string, args ...any) error {
	pos := r.fset.Position(n.Pos())

	return plugin.NewParseError(Key, pos.Line, pos.Column, format, args...)
}

func fromScanner(err error) error {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]

		return &plugin.ParseError{
			Notation: Key,
			Line:     first.Pos.Line,
			Column:   first.Pos.Column,
			Msg:      first.Msg,
			Err:      err,
		}
	}

	return &plugin.ParseError{Notation: Key, Msg: err.Error(), Err: err}
}

// fieldName prefers the json tag name over the Go identifier.
func fieldName(ident string, attrs ir.Attributes) string {
	if v, ok := attrs.Get("json"); ok {
		name, _, _ := strings.Cut(v, ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return ident
}

// trimPrefix drops the type name from a constant or wrapper name:
// ColorRed and Color_Red both become Red.
func trimPrefix(name, typ string) string {
	rest, ok := strings.CutPrefix(name, typ)
	if !ok {
		return name
	}

	rest = strings.TrimPrefix(rest, "_")
	if rest == "" {
		return name
	}

	return rest
}

func typeName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	case *ast.StarExpr:
		return typeName(t.X)
	}

	return ""
}

func deref(e ast.Expr) ast.Expr {
	if star, ok := e.(*ast.StarExpr); ok {
		return star.X
	}

	return e
}

// flatTypes lists one type per parameter, expanding `a, b T`.
func flatTypes(fl *ast.FieldList) []ast.Expr {
	if fl == nil {
		return nil
	}

	var out []ast.Expr

	for _, f := range fl.List {
		n := len(f.Names)
		if n == 0 {
			n = 1
		}

		for range n {
			out = append(out, f.Type)
		}
	}

	return out
}

// evalConst evaluates the integer constant expressions enum declarations
// and array lengths use. References to other constants are not resolved.
func evalConst(e ast.Expr, iota int64) (int64, bool) {
	switch v := e.(type) {
	case *ast.BasicLit:
		if v.Kind != token.INT {
			return 0, false
		}

		n, err := strconv.ParseInt(v.Value, 0, 64)

		return n, err == nil

	case *ast.Ident:
		return iota, v.Name == "iota"

	case *ast.ParenExpr:
		return evalConst(v.X, iota)

	case *ast.UnaryExpr:
		x, ok := evalConst(v.X, iota)
		if !ok {
			return 0, false
		}

		switch v.Op {
		case token.ADD:
			return x, true
		case token.SUB:
			return -x, true
		case token.XOR:
			return ^x, true
		}

	case *ast.BinaryExpr:
		x, okx := evalConst(v.X, iota)
		y, oky := evalConst(v.Y, iota)

		if !okx || !oky {
			return 0, false
		}

		return binary(v.Op, x, y)

	case *ast.CallExpr:
		// conversions such as Color(3)
		if _, ok := v.Fun.(*ast.Ident); ok && len(v.Args) == 1 {
			return evalConst(v.Args[0], iota)
		}
	}

	return 0, false
}

func binary(op token.Token, x, y int64) (int64, bool) {
	switch op {
	case token.ADD:
		return x + y, true
	case token.SUB:
		return x - y, true
	case token.MUL:
		return x * y, true
	case token.QUO:
		if y == 0 {
			return 0, false
		}

		return x / y, true
	case token.REM:
		if y == 0 {
			return 0, false
		}

		return x % y, true
	case token.SHL:
		if y < 0 || y > 63 {
			return 0, false
		}

		return x << y, true
	case token.SHR:
		if y < 0 || y > 63 {
			return 0, false
		}

		return x >> y, true
	case token.OR:
		return x | y, true
	case token.AND:
		return x & y, true
	case token.XOR:
		return x ^ y, true
	case token.AND_NOT:
		return x &^ y, true
	default:
		return 0, false
	}
}

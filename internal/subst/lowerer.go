package subst

import (
	"strconv"

	"astrie/internal/common"
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
)

// Entry is one table row: the name template and the default-value template
// of a kind.
type Entry struct {
	Name    string
	Default string
}

// Table maps kinds to their templates for one target.
type Table map[ir.Kind]Entry

// Lookup returns the entry for k.
func (t Table) Lookup(k ir.Kind) (Entry, bool) {
	e, ok := t[k]

	return e, ok
}

// Lowerer turns canonical types into target text.
type Lowerer struct {
	Table Table
	// Fallback is the opaque text for kinds without a row. When empty the
	// bytes row is used, then "unknown".
	Fallback string
	// Qualify rewrites referenced declaration names, e.g. to add a namespace.
	Qualify func(name string) string
	// Override replaces lowering of specific types; returning false defers
	// to the table.
	Override func(t ir.Type) (string, bool)
	// Passthrough emits the source spelling of unclassified primitives.
	Passthrough bool
	// Diagnostics receives a warning per degraded kind.
	Diagnostics *diagnostic.Diagnostics
	// Target names the back end in diagnostics.
	Target string

	warned map[string]bool
}

// TypeName lowers t. It never fails: anything the table cannot express
// becomes the fallback text.
func (l *Lowerer) TypeName(t ir.Type) string {
	if t != nil && l.Override != nil {
		if s, ok := l.Override(t); ok {
			return s
		}
	}

	switch v := t.(type) {
	case *ir.Primitive:
		if v.Reified == ir.KindUnknown && v.Spelling != "" && l.Passthrough {
			return v.Spelling
		}

		// A primitive has no children to fill placeholders with.
		if e, ok := l.row(v.Reified); ok {
			if highest, variadic := Placeholders(e.Name); highest < 0 && !variadic {
				return e.Name
			}
		}

		return l.degrade(v.Reified, ir.TypeString(v))

	case *ir.NamedRef:
		return l.qualify(v.Name)

	case *ir.Indirection:
		child := l.TypeName(v.Elem)

		if e, ok := l.row(v.Reified); ok {
			return Substitute(e.Name, []string{child}, l.fallbackText())
		}

		if e, ok := l.row(ir.KindOptional); ok {
			return Substitute(e.Name, []string{child}, l.fallbackText())
		}

		return child

	case *ir.Parameterized:
		k := containerKind(v)

		e, ok := l.row(k)
		if !ok {
			return l.degrade(k, ir.TypeString(v))
		}

		return Substitute(e.Name, l.args(v), l.fallbackText())

	case *ir.Inline:
		if v.Struct != nil && !v.Struct.Anonymous && v.Struct.Name != "" {
			return l.qualify(v.Struct.Name)
		}

		return l.degrade(ir.KindStructRef, "anonymous inline struct")

	default:
		return l.degrade(ir.KindUnknown, "missing type")
	}
}

// DefaultValue lowers the default-value template of t. Types whose row has
// no default lower to "".
func (l *Lowerer) DefaultValue(t ir.Type) string {
	switch v := t.(type) {
	case *ir.Primitive:
		return l.Table[v.Reified].Default
	case *ir.NamedRef:
		return Substitute(l.Table[ir.KindStructRef].Default, []string{l.qualify(v.Name)}, l.fallbackText())
	case *ir.Inline:
		return Substitute(l.Table[ir.KindStructRef].Default, []string{l.TypeName(v)}, l.fallbackText())
	case *ir.Indirection:
		e, ok := l.Table[v.Reified]
		if !ok {
			e = l.Table[ir.KindOptional]
		}

		return Substitute(e.Default, []string{l.TypeName(v.Elem)}, l.fallbackText())
	case *ir.Parameterized:
		return Substitute(l.Table[containerKind(v)].Default, l.args(v), l.fallbackText())
	default:
		return ""
	}
}

// containerKind picks the row for p. An array without a length has nothing
// to put in its length slot and is spelled as a list.
func containerKind(p *ir.Parameterized) ir.Kind {
	if p.Reified == ir.KindArray && p.Len <= 0 {
		return ir.KindList
	}

	return p.Reified
}

// row returns the entry of k when it has a name template. Rows that only
// carry a default do not name a type.
func (l *Lowerer) row(k ir.Kind) (Entry, bool) {
	e, ok := l.Table[k]

	return e, ok && e.Name != ""
}

func (l *Lowerer) args(p *ir.Parameterized) []string {
	out := make([]string, 0, len(p.Args)+1)
	for _, a := range p.Args {
		out = append(out, l.TypeName(a))
	}

	if p.Reified == ir.KindArray && p.Len > 0 {
		out = append(out, strconv.Itoa(p.Len))
	}

	return out
}

func (l *Lowerer) qualify(name string) string {
	if l.Qualify != nil {
		return l.Qualify(name)
	}

	return name
}

func (l *Lowerer) fallbackText() string {
	if l.Fallback != "" {
		return l.Fallback
	}

	if e, ok := l.Table[ir.KindBytes]; ok && e.Name != "" {
		return e.Name
	}

	return common.UnknownStr
}

// degrade reports an unmappable kind once per distinct type and returns the
// fallback text.
func (l *Lowerer) degrade(k ir.Kind, what string) string {
	text := l.fallbackText()

	if l.Diagnostics != nil {
		msg := "no " + k.String() + " mapping for " + what + ", using " + text
		if !l.warned[msg] {
			if l.warned == nil {
				l.warned = map[string]bool{}
			}

			l.warned[msg] = true
			l.Diagnostics.AddWarning(diagnostic.CodeUnmappedKind, msg, l.Target, "")
		}
	}

	return text
}

package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeString renders t in a compact, notation-neutral form, e.g.
// "map<string, list<Line>>" or "optional<int32>".
func TypeString(t Type) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *Primitive:
		if v.Reified == KindUnknown && v.Spelling != "" {
			return "?" + v.Spelling
		}

		return v.Reified.String()
	case *NamedRef:
		return v.Name
	case *Indirection:
		return v.Reified.String() + "<" + TypeString(v.Elem) + ">"
	case *Parameterized:
		args := make([]string, 0, len(v.Args)+1)
		for _, a := range v.Args {
			args = append(args, TypeString(a))
		}

		if v.Reified == KindArray && v.Len > 0 {
			args = append(args, strconv.Itoa(v.Len))
		}

		return v.Reified.String() + "<" + strings.Join(args, ", ") + ">"
	case *Inline:
		if v.Struct == nil {
			return "struct{}"
		}

		parts := make([]string, 0, len(v.Struct.Members))
		for _, f := range v.Struct.Fields() {
			parts = append(parts, f.Name+": "+TypeString(f.Type))
		}

		head := "struct"
		if !v.Struct.Anonymous && v.Struct.Name != "" {
			head += " " + v.Struct.Name
		}

		return head + "{" + strings.Join(parts, "; ") + "}"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Show renders a deterministic indented dump of m. Two modules with the same
// structure always produce the same text.
func Show(m *Module) string {
	var sb strings.Builder

	sb.WriteString("module")

	if m.Source != "" {
		sb.WriteString(" source=" + m.Source)
	}

	if len(m.Namespaces) > 0 {
		sb.WriteString(" namespace=" + strings.Join(m.Namespaces, "."))
	}

	sb.WriteString("\n")

	for _, n := range m.Nodes {
		showNode(&sb, n, 1)
	}

	return sb.String()
}

func showNode(sb *strings.Builder, n Node, depth int) {
	switch v := n.(type) {
	case *Struct:
		showStruct(sb, v, depth)
	case *Enum:
		showEnum(sb, v, depth)
	case *Oneof:
		showOneof(sb, v, depth)
	case *Namespace:
		line(sb, depth, "namespace "+v.Name)

		for _, child := range v.Nodes {
			showNode(sb, child, depth+1)
		}
	case *Service:
		line(sb, depth, "service "+v.Name+showAttrs(v.Attributes))

		for _, meth := range v.Methods {
			line(sb, depth+1, fmt.Sprintf("rpc %s(%s) -> %s%s", meth.Name, meth.Request, meth.Response, showAttrs(meth.Attributes)))
		}
	}
}

func showStruct(sb *strings.Builder, s *Struct, depth int) {
	head := "struct " + s.Name
	if s.Anonymous {
		head = "struct <anonymous>"
	}

	var flags []string
	if s.VarName != "" {
		flags = append(flags, "var="+s.VarName)
	}

	if s.Base != "" {
		flags = append(flags, "base="+s.Base)
	}

	if s.Record {
		flags = append(flags, "record")
	}

	if s.Abstract {
		flags = append(flags, "abstract")
	}

	if len(flags) > 0 {
		head += " (" + strings.Join(flags, " ") + ")"
	}

	line(sb, depth, head+showAttrs(s.Attributes))

	for _, m := range s.Members {
		switch v := m.(type) {
		case *Field:
			line(sb, depth+1, "field "+v.Name+": "+TypeString(v.Type)+showAttrs(v.Attributes))
		case *Struct:
			showStruct(sb, v, depth+1)
		case *Enum:
			showEnum(sb, v, depth+1)
		case *Oneof:
			showOneof(sb, v, depth+1)
		}
	}
}

func showEnum(sb *strings.Builder, e *Enum, depth int) {
	head := "enum " + e.Name
	if e.Scoped {
		head += " scoped"
	}

	if e.Underlying != "" {
		head += " : " + e.Underlying
	}

	line(sb, depth, head+showAttrs(e.Attributes))

	for _, v := range e.Values {
		text := fmt.Sprintf("value %s = %d", v.Name, v.Number)
		if v.Payload != nil {
			text += " (" + TypeString(v.Payload) + ")"
		}

		line(sb, depth+1, text+showAttrs(v.Attributes))
	}
}

func showOneof(sb *strings.Builder, o *Oneof, depth int) {
	line(sb, depth, "oneof "+o.Name+showAttrs(o.Attributes))

	for _, alt := range o.Alternatives {
		text := "alt " + alt.Name
		if alt.Type != nil {
			text += ": " + TypeString(alt.Type)
		}

		line(sb, depth+1, text+showAttrs(alt.Attributes))
	}
}

func showAttrs(attrs Attributes) string {
	if len(attrs) == 0 {
		return ""
	}

	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Name + "=" + strconv.Quote(a.Value)
	}

	return " [" + strings.Join(parts, " ") + "]"
}

func line(sb *strings.Builder, depth int, text string) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(text)
	sb.WriteString("\n")
}

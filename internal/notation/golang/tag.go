package golang

import (
	"strconv"
	"strings"

	"astrie/internal/ir"
)

// parseTag splits a struct tag into its key:"value" pairs in order. It
// follows the conventional format reflect.StructTag.Lookup reads, which
// only offers lookup by key and so cannot keep the order.
func parseTag(tag string) (ir.Attributes, bool) {
	var attrs ir.Attributes

	for {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			return attrs, true
		}

		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}

		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, false
		}

		name := tag[:i]
		tag = tag[i+1:]

		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}

		if i >= len(tag) {
			return nil, false
		}

		value, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return nil, false
		}

		attrs = append(attrs, ir.Attribute{Name: name, Value: value})
		tag = tag[i+1:]
	}
}

// formatTag renders attributes whose names are valid tag keys. The
// second result lists the names that could not be rendered.
func formatTag(attrs ir.Attributes) (string, []string) {
	var (
		parts   []string
		skipped []string
	)

	for _, a := range attrs {
		if !validTagKey(a.Name) || strings.ContainsRune(a.Value, '`') {
			skipped = append(skipped, a.Name)

			continue
		}

		parts = append(parts, a.Name+":"+strconv.Quote(a.Value))
	}

	return strings.Join(parts, " "), skipped
}

func validTagKey(name string) bool {
	if name == "" {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c == ':' || c == '"' || c == 0x7f || c == '`' {
			return false
		}
	}

	return true
}

package subst

import (
	"strconv"
	"strings"
)

const variadic = "..."

// Substitute fills template: {i} becomes args[i] (missing when i is out of
// range) and {...} becomes all args joined by ", ". Braces that do not form
// a placeholder are copied as is.
func Substitute(template string, args []string, missing string) string {
	if !strings.Contains(template, "{") {
		return template
	}

	var sb strings.Builder

	sb.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			sb.WriteByte(template[i])
			i++

			continue
		}

		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			sb.WriteString(template[i:])

			break
		}

		inner := template[i+1 : i+end]

		switch {
		case inner == variadic:
			sb.WriteString(strings.Join(args, ", "))
		case isIndex(inner):
			n, _ := strconv.Atoi(inner)
			if n < len(args) {
				sb.WriteString(args[n])
			} else {
				sb.WriteString(missing)
			}
		default:
			sb.WriteByte('{')
			i++

			continue
		}

		i += end + 1
	}

	return sb.String()
}

func isIndex(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Placeholders reports the highest positional index used by template, -1 when
// there is none, and whether the template uses {...}.
func Placeholders(template string) (highest int, variadicUsed bool) {
	highest = -1

	for rest := template; ; {
		start := strings.IndexByte(rest, '{')
		if start < 0 {
			return highest, variadicUsed
		}

		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return highest, variadicUsed
		}

		inner := rest[start+1 : start+end]

		switch {
		case inner == variadic:
			variadicUsed = true
		case isIndex(inner):
			n, _ := strconv.Atoi(inner)
			highest = max(highest, n)
		}

		rest = rest[start+1:]
	}
}

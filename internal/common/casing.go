package common

import (
	"strings"
	"unicode"
)

// Words splits an identifier into its words.
// Separators (_, -, space, .) always split; case transitions split too:
//   - "OrderID" -> ["Order", "ID"]
//   - "id_or_name" -> ["id", "or", "name"]
//   - "XMLParser" -> ["XML", "Parser"]
func Words(s string) []string {
	if s == "" {
		return nil
	}

	var (
		words   []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	// lower -> Upper: "orderID" splits before 'I'
	if !unicode.IsUpper(prev) && !isSeparator(prev) {
		return true
	}

	// end of acronym: "XMLParser" splits before 'P'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// Uncapitalize lower-cases the first rune and leaves the rest untouched.
func Uncapitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}

// ToPascalCase converts any casing to PascalCase ("id_or_name" -> "IdOrName").
// Acronyms keep their case ("OrderID" stays "OrderID").
func ToPascalCase(s string) string {
	var sb strings.Builder
	for _, w := range Words(s) {
		sb.WriteString(Capitalize(w))
	}

	return sb.String()
}

// ToCamelCase converts any casing to camelCase ("OrderID" -> "orderID").
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(strings.ToLower(words[0]))

	for _, w := range words[1:] {
		sb.WriteString(Capitalize(w))
	}

	return sb.String()
}

// ToSnakeCase converts any casing to snake_case ("HTTPSConnection" -> "https_connection").
func ToSnakeCase(s string) string {
	return joinLower(Words(s), "_")
}

// ToKebabCase converts any casing to kebab-case.
func ToKebabCase(s string) string {
	return joinLower(Words(s), "-")
}

// ToScreamingSnakeCase converts any casing to SCREAMING_SNAKE_CASE.
func ToScreamingSnakeCase(s string) string {
	return strings.ToUpper(ToSnakeCase(s))
}

func joinLower(words []string, sep string) string {
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}

	return strings.Join(words, sep)
}

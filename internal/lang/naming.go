package lang

import (
	"strings"

	"astrie/internal/common"
)

// Style is a naming convention applied to declared identifiers.
type Style string

const (
	StylePreserve       Style = "preserve"
	StylePascal         Style = "PascalCase"
	StyleCamel          Style = "camelCase"
	StyleSnake          Style = "snake_case"
	StyleScreamingSnake Style = "SCREAMING_SNAKE_CASE"
	StyleUpperSnake     Style = "UPPER_SNAKE_CASE"
	StyleKebab          Style = "kebab-case"
	StyleLower          Style = "lowercase"
)

// Valid reports whether s is a known style. The empty style means preserve.
func (s Style) Valid() bool {
	switch s {
	case "", StylePreserve, StylePascal, StyleCamel, StyleSnake,
		StyleScreamingSnake, StyleUpperSnake, StyleKebab, StyleLower:
		return true
	default:
		return false
	}
}

// Apply renders name in the style.
func (s Style) Apply(name string) string {
	switch s {
	case StylePascal:
		return common.ToPascalCase(name)
	case StyleCamel:
		return common.ToCamelCase(name)
	case StyleSnake:
		return common.ToSnakeCase(name)
	case StyleScreamingSnake, StyleUpperSnake:
		return common.ToScreamingSnakeCase(name)
	case StyleKebab:
		return common.ToKebabCase(name)
	case StyleLower:
		return strings.ToLower(strings.Join(common.Words(name), ""))
	default:
		return name
	}
}

// Naming is the set of conventions of one target.
type Naming struct {
	Struct    Style `yaml:"struct,omitempty"`
	Field     Style `yaml:"field,omitempty"`
	Constant  Style `yaml:"constant,omitempty"`
	Namespace Style `yaml:"namespace,omitempty"`
	File      Style `yaml:"file,omitempty"`
}

type namedStyle struct {
	role  string
	style Style
}

func (n Naming) styles() []namedStyle {
	return []namedStyle{
		{"struct", n.Struct},
		{"field", n.Field},
		{"constant", n.Constant},
		{"namespace", n.Namespace},
		{"file", n.File},
	}
}

func (n *Naming) merge(o Naming) {
	if o.Struct != "" {
		n.Struct = o.Struct
	}

	if o.Field != "" {
		n.Field = o.Field
	}

	if o.Constant != "" {
		n.Constant = o.Constant
	}

	if o.Namespace != "" {
		n.Namespace = o.Namespace
	}

	if o.File != "" {
		n.File = o.File
	}
}

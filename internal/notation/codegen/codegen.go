// Package codegen holds the pieces source back ends share: the generated
// file banner, import collection and identifier escaping.
package codegen

import (
	"regexp"
	"sort"
	"strings"

	"astrie/internal/lang"
)

// Banner is the text of the first comment of every generated file.
const Banner = "Code generated by astrie. DO NOT EDIT."

// Header returns the banner as a line comment of target, followed by a
// blank line.
func Header(t *lang.Target) string {
	style := t.CommentStyle
	if style == "" {
		style = "//"
	}

	return style + " " + Banner + "\n\n"
}

var tokenRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:(?:\.|::)[A-Za-z_][A-Za-z0-9_]*)*`)

// Imports records the imports required by identifiers appearing in emitted
// type text.
type Imports struct {
	known map[string]string
	used  map[string]bool
}

// NewImports returns an empty set resolving identifiers through known,
// which maps an identifier as written (e.g. "time.Time", "BTreeMap",
// "std::vector") to its import line.
func NewImports(known map[string]string) *Imports {
	return &Imports{known: known, used: map[string]bool{}}
}

// Scan records the imports of every known identifier in text and returns
// text unchanged.
func (im *Imports) Scan(text string) string {
	for _, tok := range tokenRe.FindAllString(text, -1) {
		if line, ok := im.known[tok]; ok {
			im.used[line] = true
		}
	}

	return text
}

// Add records an import line directly.
func (im *Imports) Add(line string) {
	im.used[line] = true
}

// Lines returns the recorded import lines, sorted.
func (im *Imports) Lines() []string {
	lines := make([]string, 0, len(im.used))
	for l := range im.used {
		lines = append(lines, l)
	}

	sort.Strings(lines)

	return lines
}

// Len returns the number of recorded imports.
func (im *Imports) Len() int { return len(im.used) }

// Escape returns name unchanged unless it is in keywords, in which case
// escape renders it.
func Escape(name string, keywords map[string]bool, escape func(string) string) string {
	if keywords[name] {
		return escape(name)
	}

	return name
}

// Keywords builds a keyword set from a whitespace separated list.
func Keywords(list string) map[string]bool {
	words := strings.Fields(list)

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}

	return set
}

// LastSegment drops the namespace path of a dotted declaration name.
func LastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}

	return name
}

var (
	blankBeforeCloseRe = regexp.MustCompile(`\n\n+([ \t]*[}\]])`)
	blankRunRe         = regexp.MustCompile(`\n{3,}`)
)

// Tidy removes blank lines before closing braces, collapses runs of blank
// lines and ends the text with a single newline.
func Tidy(s string) string {
	s = blankBeforeCloseRe.ReplaceAllString(s, "\n$1")
	s = blankRunRe.ReplaceAllString(s, "\n\n")

	return strings.TrimRight(s, "\n") + "\n"
}

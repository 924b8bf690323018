package lang

import (
	"sort"

	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/subst"
)

// Capabilities tells the pipeline which normalizing passes a target needs.
type Capabilities struct {
	// Flatten hoists nested and inline structs to the top level.
	Flatten bool
	// LiftSumTypes turns variants and oneofs into payload-carrying enums.
	LiftSumTypes bool
}

// TypeEntry is the yaml form of a substitution row.
type TypeEntry struct {
	Name    string `yaml:"name"`
	Default string `yaml:"default,omitempty"`
}

// Target is the resolved configuration of one back end.
type Target struct {
	Key          string
	FileExt      string
	CommentStyle string
	Fallback     string
	Capabilities Capabilities
	Naming       Naming

	table subst.Table
}

// Table returns the substitution table of the target.
func (t *Target) Table() subst.Table {
	return t.table
}

// Lowerer returns a type lowerer over the target's table, reporting
// degradations into diags.
func (t *Target) Lowerer(diags *diagnostic.Diagnostics) *subst.Lowerer {
	return &subst.Lowerer{
		Table:       t.table,
		Fallback:    t.Fallback,
		Diagnostics: diags,
		Target:      t.Key,
	}
}

// Filename returns the output file name for a module called base.
func (t *Target) Filename(base string) string {
	if base == "" {
		base = "schema"
	}

	name := t.Naming.File.Apply(base)
	if t.FileExt == "" {
		return name
	}

	return name + "." + t.FileExt
}

// Catalog is the set of known targets.
type Catalog struct {
	Version string
	targets map[string]*Target
}

// Get returns the target registered under key.
func (c *Catalog) Get(key string) (*Target, bool) {
	t, ok := c.targets[key]

	return t, ok
}

// Keys returns the target keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.targets))
	for k := range c.targets {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func buildTable(rows map[string]TypeEntry) subst.Table {
	table := make(subst.Table, len(rows))

	for name, row := range rows {
		k, _ := ir.ParseKind(name)
		table[k] = subst.Entry{Name: row.Name, Default: row.Default}
	}

	return table
}

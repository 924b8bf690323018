package lang

import (
	_ "embed"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"astrie/internal/errors"
	"astrie/internal/ir"
	"astrie/internal/subst"
)

//go:embed targets.yaml
var defaultTargets []byte

// catalogFile is the on-disk layout of targets.yaml and of user overrides.
type catalogFile struct {
	Version string                 `yaml:"version"`
	Targets map[string]*targetFile `yaml:"targets"`
}

type targetFile struct {
	FileExt      string               `yaml:"file_ext"`
	CommentStyle *string              `yaml:"comment_style"`
	Fallback     string               `yaml:"fallback"`
	Capabilities capabilitiesFile     `yaml:"capabilities"`
	Types        map[string]TypeEntry `yaml:"types"`
	Naming       Naming               `yaml:"naming"`
}

// capabilitiesFile keeps unset flags distinguishable from false so an
// override can change one flag only.
type capabilitiesFile struct {
	Flatten      *bool `yaml:"flatten"`
	LiftSumTypes *bool `yaml:"lift_sum_types"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Load("")
}

// Load returns the built-in catalog with the overrides of the YAML file at
// path merged on top. An empty path loads the defaults only.
func Load(path string) (*Catalog, error) {
	base, err := parseFile(defaultTargets)
	if err != nil {
		return nil, errors.Wrap(err, "built-in targets")
	}

	if path != "" {
		override, err := readFile(path)
		if err != nil {
			return nil, err
		}

		base.merge(override)
	}

	return build(base)
}

// LoadFile loads a standalone catalog from path, without the defaults.
func LoadFile(path string) (*Catalog, error) {
	cf, err := readFile(path)
	if err != nil {
		return nil, err
	}

	return build(cf)
}

// Parse parses YAML data into a standalone Catalog.
func Parse(data []byte) (*Catalog, error) {
	cf, err := parseFile(data)
	if err != nil {
		return nil, err
	}

	return build(cf)
}

func readFile(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read targets file %s", path)
	}

	cf, err := parseFile(data)
	if err != nil {
		return nil, errors.Wrapf(err, "targets file %s", path)
	}

	return cf, nil
}

func parseFile(data []byte) (*catalogFile, error) {
	var cf catalogFile

	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, errors.Wrap(err, "failed to parse targets YAML")
	}

	applyDefaults(&cf)

	return &cf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(cf *catalogFile) {
	if cf.Version == "" {
		cf.Version = "1"
	}

	if cf.Targets == nil {
		cf.Targets = map[string]*targetFile{}
	}

	for key, t := range cf.Targets {
		if t == nil {
			cf.Targets[key] = &targetFile{}
		}
	}
}

// merge overlays o onto cf: scalar fields replace when set, type rows and
// naming styles replace per entry.
func (cf *catalogFile) merge(o *catalogFile) {
	for key, ot := range o.Targets {
		t, ok := cf.Targets[key]
		if !ok {
			cf.Targets[key] = ot

			continue
		}

		if ot.FileExt != "" {
			t.FileExt = ot.FileExt
		}

		if ot.CommentStyle != nil {
			t.CommentStyle = ot.CommentStyle
		}

		if ot.Fallback != "" {
			t.Fallback = ot.Fallback
		}

		if ot.Capabilities.Flatten != nil {
			t.Capabilities.Flatten = ot.Capabilities.Flatten
		}

		if ot.Capabilities.LiftSumTypes != nil {
			t.Capabilities.LiftSumTypes = ot.Capabilities.LiftSumTypes
		}

		if t.Types == nil && len(ot.Types) > 0 {
			t.Types = make(map[string]TypeEntry, len(ot.Types))
		}

		for name, row := range ot.Types {
			t.Types[name] = row
		}

		t.Naming.merge(ot.Naming)
	}
}

func build(cf *catalogFile) (*Catalog, error) {
	if err := validate(cf); err != nil {
		return nil, err
	}

	c := &Catalog{Version: cf.Version, targets: make(map[string]*Target, len(cf.Targets))}

	for key, tf := range cf.Targets {
		t := &Target{
			Key:      key,
			FileExt:  tf.FileExt,
			Fallback: tf.Fallback,
			Naming:   tf.Naming,
			table:    buildTable(tf.Types),
		}

		if t.FileExt == "" {
			t.FileExt = key
		}

		if tf.CommentStyle != nil {
			t.CommentStyle = *tf.CommentStyle
		}

		if tf.Capabilities.Flatten != nil {
			t.Capabilities.Flatten = *tf.Capabilities.Flatten
		}

		if tf.Capabilities.LiftSumTypes != nil {
			t.Capabilities.LiftSumTypes = *tf.Capabilities.LiftSumTypes
		}

		c.targets[key] = t
	}

	return c, nil
}

// validate rejects unknown kind names and naming styles. Keys are visited in
// sorted order so the first error reported is stable.
func validate(cf *catalogFile) error {
	keys := make([]string, 0, len(cf.Targets))
	for k := range cf.Targets {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if key == "" {
			return errors.New("target with empty key")
		}

		t := cf.Targets[key]

		kinds := make([]string, 0, len(t.Types))
		for name := range t.Types {
			kinds = append(kinds, name)
		}

		sort.Strings(kinds)

		for _, name := range kinds {
			k, ok := ir.ParseKind(name)
			if !ok || k == ir.KindUnknown {
				return errors.WithHint(
					errors.Newf("target %q: unknown kind %q", key, name),
					"kind names are lower case, e.g. int32, unordered_map, struct_ref",
				)
			}

			entry := t.Types[name]
			for _, tmpl := range []string{entry.Name, entry.Default} {
				if err := checkTemplate(k, tmpl); err != nil {
					return errors.Wrapf(err, "target %q: kind %q", key, name)
				}
			}
		}

		for _, ns := range t.Naming.styles() {
			if !ns.style.Valid() {
				return errors.Newf("target %q: unknown %s naming style %q", key, ns.role, ns.style)
			}
		}
	}

	return nil
}

// slots is the number of arguments a kind's templates receive: the lowered
// type arguments, plus the length for arrays and the name for struct_ref.
// Kinds missing here are leaves and take none.
var slots = map[ir.Kind]int{
	ir.KindList:         1,
	ir.KindSet:          1,
	ir.KindUnorderedSet: 1,
	ir.KindOptional:     1,
	ir.KindPointer:      1,
	ir.KindUniquePtr:    1,
	ir.KindSharedPtr:    1,
	ir.KindStructRef:    1,
	ir.KindMap:          2,
	ir.KindUnorderedMap: 2,
	ir.KindPair:         2,
	ir.KindArray:        2,
}

// checkTemplate rejects positional placeholders a kind never fills. Variant
// and tuple take any number of arguments.
func checkTemplate(k ir.Kind, tmpl string) error {
	if k == ir.KindVariant || k == ir.KindTuple {
		return nil
	}

	highest, _ := subst.Placeholders(tmpl)
	if n := slots[k]; highest >= n {
		return errors.Newf("template %q uses {%d} but %s has %d argument(s)", tmpl, highest, k, n)
	}

	return nil
}

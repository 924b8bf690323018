// Package notation registers the built-in front ends and back ends.
package notation

import (
	"astrie/internal/errors"
	"astrie/internal/lang"
	"astrie/internal/notation/cpp"
	"astrie/internal/notation/document"
	"astrie/internal/notation/golang"
	"astrie/internal/notation/hclschema"
	"astrie/internal/notation/protobuf"
	"astrie/internal/notation/python"
	"astrie/internal/notation/rust"
	"astrie/internal/notation/typescript"
	"astrie/internal/plugin"
)

var documentCodecs = []document.Codec{document.JSON{}, document.YAML{}, document.TOML{}}

// emitters builds the source back ends from their target configuration.
var emitters = map[string]func(*lang.Target) plugin.Backend{
	golang.Key:     func(t *lang.Target) plugin.Backend { return golang.NewEmitter(t) },
	rust.Key:       func(t *lang.Target) plugin.Backend { return rust.NewEmitter(t) },
	cpp.Key:        func(t *lang.Target) plugin.Backend { return cpp.NewEmitter(t) },
	python.Key:     func(t *lang.Target) plugin.Backend { return python.NewEmitter(t) },
	typescript.Key: func(t *lang.Target) plugin.Backend { return typescript.NewEmitter(t) },
	protobuf.Key:   func(t *lang.Target) plugin.Backend { return protobuf.NewEmitter(t) },
	hclschema.Key:  func(t *lang.Target) plugin.Backend { return hclschema.NewEmitter(t) },
}

// RegisterAll binds every built-in notation. Back ends take their target
// from catalog; a back end whose key the catalog lacks is an error.
func RegisterAll(regs *plugin.Registries, catalog *lang.Catalog) error {
	for _, c := range documentCodecs {
		if err := regs.Frontends.Register(c.Key(), func() plugin.Frontend { return document.NewFrontend(c) }); err != nil {
			return err
		}

		target, err := targetOf(catalog, c.Key())
		if err != nil {
			return err
		}

		if err := regs.Backends.Register(c.Key(), func() plugin.Backend { return document.NewBackend(c, target) }); err != nil {
			return err
		}
	}

	for _, fe := range []plugin.Frontend{hclschema.Frontend{}, golang.Frontend{}} {
		if err := regs.Frontends.Register(fe.Key(), func() plugin.Frontend { return fe }); err != nil {
			return err
		}
	}

	for key, build := range emitters {
		target, err := targetOf(catalog, key)
		if err != nil {
			return err
		}

		if err := regs.Backends.Register(key, func() plugin.Backend { return build(target) }); err != nil {
			return err
		}
	}

	return nil
}

// NewRegistries returns registries holding every built-in notation.
func NewRegistries(catalog *lang.Catalog) (*plugin.Registries, error) {
	regs := plugin.NewRegistries()
	if err := RegisterAll(regs, catalog); err != nil {
		return nil, err
	}

	return regs, nil
}

func targetOf(catalog *lang.Catalog, key string) (*lang.Target, error) {
	t, ok := catalog.Get(key)
	if !ok {
		return nil, errors.Newf("target %q missing from the type catalog", key)
	}

	return t, nil
}

package document

import (
	"astrie/internal/diagnostic"
	"astrie/internal/ir"
	"astrie/internal/lang"
	"astrie/internal/plugin"
	"astrie/internal/walk"
)

// Frontend reads documents in the syntax of its codec.
type Frontend struct {
	codec Codec
}

// NewFrontend returns a front end over c.
func NewFrontend(c Codec) *Frontend {
	return &Frontend{codec: c}
}

func (f *Frontend) Key() string { return f.codec.Key() }

// Parse decodes src. The module keeps the document's source notation, or
// this front end's key when the document names none.
func (f *Frontend) Parse(src []byte) (*ir.Module, error) {
	d, err := f.codec.Decode(src)
	if err != nil {
		return nil, err
	}

	m, err := ToModule(d)
	if err != nil {
		return nil, &plugin.ParseError{Notation: f.Key(), Msg: err.Error(), Err: err}
	}

	if m.Source == "" {
		m.Source = f.Key()
	}

	return m, nil
}

// Backend writes documents in the syntax of its codec. The builder collects
// the document during the walk; Footer encodes it.
type Backend struct {
	*builder

	codec  Codec
	target *lang.Target
	diags  diagnostic.Diagnostics
}

// NewBackend returns a back end over c configured by target.
func NewBackend(c Codec, target *lang.Target) *Backend {
	be := &Backend{builder: &builder{}, codec: c, target: target}
	be.Walker = walk.New(be, walk.WithIndent(""))

	return be
}

func (b *Backend) Key() string                          { return b.codec.Key() }
func (b *Backend) Target() *lang.Target                 { return b.target }
func (b *Backend) Diagnostics() *diagnostic.Diagnostics { return &b.diags }

func (b *Backend) Footer(*ir.Module, walk.Context) string {
	data, err := b.codec.Encode(b.doc)
	if err != nil {
		b.diags.AddError("encode", err.Error(), b.Key(), "")

		return ""
	}

	return string(data)
}

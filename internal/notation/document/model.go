package document

// CurrentVersion is written into emitted documents.
const CurrentVersion = "1"

// SupportedVersions is the semver range accepted by the front ends.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// Item kinds.
const (
	ItemStruct    = "struct"
	ItemEnum      = "enum"
	ItemOneof     = "oneof"
	ItemNamespace = "namespace"
	ItemService   = "service"
	ItemField     = "field"
)

// Type expression forms.
const (
	FormPrimitive   = "primitive"
	FormRef         = "ref"
	FormIndirection = "indirection"
	FormGeneric     = "generic"
	FormInline      = "inline"
)

// Document is the root of a canonical document.
type Document struct {
	Version    string   `json:"version" yaml:"version" toml:"version"`
	Source     string   `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Namespaces []string `json:"namespaces,omitempty" yaml:"namespaces,omitempty,flow" toml:"namespaces,omitempty"`
	Items      []*Item  `json:"items" yaml:"items" toml:"items"`
}

// Item is one declaration. Which fields are meaningful depends on Kind.
type Item struct {
	Kind       string   `json:"kind" yaml:"kind" toml:"kind"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Namespaces []string `json:"namespaces,omitempty" yaml:"namespaces,omitempty,flow" toml:"namespaces,omitempty"`
	Attributes []Attr   `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`

	Anonymous bool    `json:"anonymous,omitempty" yaml:"anonymous,omitempty" toml:"anonymous,omitempty"`
	VarName   string  `json:"var_name,omitempty" yaml:"var_name,omitempty" toml:"var_name,omitempty"`
	Record    bool    `json:"record,omitempty" yaml:"record,omitempty" toml:"record,omitempty"`
	Abstract  bool    `json:"abstract,omitempty" yaml:"abstract,omitempty" toml:"abstract,omitempty"`
	Base      string  `json:"base,omitempty" yaml:"base,omitempty" toml:"base,omitempty"`
	Members   []*Item `json:"members,omitempty" yaml:"members,omitempty" toml:"members,omitempty"`

	Type *TypeExpr `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`

	Values     []*Value `json:"values,omitempty" yaml:"values,omitempty" toml:"values,omitempty"`
	Scoped     bool     `json:"scoped,omitempty" yaml:"scoped,omitempty" toml:"scoped,omitempty"`
	Underlying string   `json:"underlying,omitempty" yaml:"underlying,omitempty" toml:"underlying,omitempty"`

	Alternatives []*Alt `json:"alternatives,omitempty" yaml:"alternatives,omitempty" toml:"alternatives,omitempty"`

	Methods []*Method `json:"methods,omitempty" yaml:"methods,omitempty" toml:"methods,omitempty"`

	Items []*Item `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
}

// Attr is one attribute; a list keeps source order.
type Attr struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Value string `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Value is one enumerator.
type Value struct {
	Name       string    `json:"name" yaml:"name" toml:"name"`
	Number     int64     `json:"number" yaml:"number" toml:"number"`
	Attributes []Attr    `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Payload    *TypeExpr `json:"payload,omitempty" yaml:"payload,omitempty" toml:"payload,omitempty"`
}

// Alt is one oneof alternative. A missing type is a typeless alternative.
type Alt struct {
	Name       string    `json:"name" yaml:"name" toml:"name"`
	Type       *TypeExpr `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Attributes []Attr    `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Method is one service RPC.
type Method struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Request    string `json:"request,omitempty" yaml:"request,omitempty" toml:"request,omitempty"`
	Response   string `json:"response,omitempty" yaml:"response,omitempty" toml:"response,omitempty"`
	Attributes []Attr `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// TypeExpr is a type. Form selects the IR shape:
//
//	primitive    kind, spelling (opaque types have kind "unknown")
//	ref          name, kind when not struct_ref
//	indirection  kind, elem
//	generic      kind, args, len (arrays)
//	inline       struct
type TypeExpr struct {
	Form     string      `json:"form" yaml:"form" toml:"form"`
	Kind     string      `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Name     string      `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Spelling string      `json:"spelling,omitempty" yaml:"spelling,omitempty" toml:"spelling,omitempty"`
	Elem     *TypeExpr   `json:"elem,omitempty" yaml:"elem,omitempty" toml:"elem,omitempty"`
	Args     []*TypeExpr `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	Len      int         `json:"len,omitempty" yaml:"len,omitempty" toml:"len,omitempty"`
	Struct   *Item       `json:"struct,omitempty" yaml:"struct,omitempty" toml:"struct,omitempty"`
}

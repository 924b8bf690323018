package ir

// Type is a canonical type expression. It is a closed sum: the only
// implementations are *Primitive, *NamedRef, *Indirection, *Parameterized
// and *Inline. Each owns its children exclusively.
type Type interface {
	// Kind reports the canonical classification; it always agrees with the shape.
	Kind() Kind
	isType()
}

// Primitive is a scalar leaf.
type Primitive struct {
	Reified Kind
	// Spelling keeps the source text for kinds the front end could not
	// classify (Reified == KindUnknown). Back ends may pass it through.
	Spelling string
}

// NamedRef is a non-owning link to a declaration by name.
type NamedRef struct {
	Name    string
	Reified Kind // KindStructRef unless the front end knows better
}

// Indirection wraps one owned child with optionality or pointer semantics.
// Reified is one of KindPointer, KindUniquePtr, KindSharedPtr, KindOptional.
type Indirection struct {
	Reified Kind
	Elem    Type
}

// Parameterized is a container or tuple; argument order is semantic.
type Parameterized struct {
	Reified Kind
	Args    []Type
	// Len is the fixed length of a KindArray, 0 when unspecified.
	Len int
}

// Inline is a struct declared directly in a type position.
type Inline struct {
	Struct *Struct
}

func (t *Primitive) Kind() Kind { return t.Reified }

func (t *NamedRef) Kind() Kind {
	if t.Reified == KindUnknown {
		return KindStructRef
	}

	return t.Reified
}

func (t *Indirection) Kind() Kind   { return t.Reified }
func (t *Parameterized) Kind() Kind { return t.Reified }
func (t *Inline) Kind() Kind        { return KindStructRef }

func (*Primitive) isType()     {}
func (*NamedRef) isType()      {}
func (*Indirection) isType()   {}
func (*Parameterized) isType() {}
func (*Inline) isType()        {}

// Prim returns a Primitive of kind k.
func Prim(k Kind) *Primitive { return &Primitive{Reified: k} }

// Opaque returns an unclassified Primitive carrying its source spelling.
func Opaque(spelling string) *Primitive {
	return &Primitive{Reified: KindUnknown, Spelling: spelling}
}

// Ref returns a NamedRef to a struct or enum declaration.
func Ref(name string) *NamedRef { return &NamedRef{Name: name, Reified: KindStructRef} }

// Ptr returns a raw pointer to elem.
func Ptr(elem Type) *Indirection { return &Indirection{Reified: KindPointer, Elem: elem} }

// Opt returns an optional elem.
func Opt(elem Type) *Indirection { return &Indirection{Reified: KindOptional, Elem: elem} }

// Unique returns a uniquely owned pointer to elem.
func Unique(elem Type) *Indirection { return &Indirection{Reified: KindUniquePtr, Elem: elem} }

// Shared returns a shared owner of elem.
func Shared(elem Type) *Indirection { return &Indirection{Reified: KindSharedPtr, Elem: elem} }

// Generic returns a Parameterized of kind k over args.
func Generic(k Kind, args ...Type) *Parameterized {
	return &Parameterized{Reified: k, Args: args}
}

// List returns list<elem>.
func List(elem Type) *Parameterized { return Generic(KindList, elem) }

// SetOf returns set<elem>.
func SetOf(elem Type) *Parameterized { return Generic(KindSet, elem) }

// MapOf returns map<key, value>.
func MapOf(key, value Type) *Parameterized { return Generic(KindMap, key, value) }

// TupleOf returns tuple<elems...>.
func TupleOf(elems ...Type) *Parameterized { return Generic(KindTuple, elems...) }

// VariantOf returns variant<alts...>.
func VariantOf(alts ...Type) *Parameterized { return Generic(KindVariant, alts...) }

// ArrayOf returns a fixed-length array of elem.
func ArrayOf(elem Type, n int) *Parameterized {
	return &Parameterized{Reified: KindArray, Args: []Type{elem}, Len: n}
}

// InlineOf returns an Inline wrapping s.
func InlineOf(s *Struct) *Inline { return &Inline{Struct: s} }

// Children returns the owned child types of t, in order.
func Children(t Type) []Type {
	switch v := t.(type) {
	case *Indirection:
		if v.Elem == nil {
			return nil
		}

		return []Type{v.Elem}
	case *Parameterized:
		return v.Args
	default:
		return nil
	}
}

// Unwrap strips Indirection layers and returns the innermost type.
func Unwrap(t Type) Type {
	for {
		ind, ok := t.(*Indirection)
		if !ok || ind.Elem == nil {
			return t
		}

		t = ind.Elem
	}
}

package ir

// Attribute is one opaque name/value metadata pair.
type Attribute struct {
	Name  string
	Value string
}

// Attributes keeps metadata in source order. Names may repeat.
type Attributes []Attribute

// Get returns the value of the first attribute called name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}

	return "", false
}

// Has reports whether an attribute called name is present.
func (a Attributes) Has(name string) bool {
	_, ok := a.Get(name)

	return ok
}

// Member is anything a Struct can contain: *Field, *Oneof, *Enum or *Struct.
type Member interface {
	DeclName() string
	isMember()
}

// Node is anything a Module or Namespace can contain at its top level:
// *Enum, *Struct, *Namespace, *Service or *Oneof.
type Node interface {
	DeclName() string
	isNode()
}

// Field is a named, typed slot of a struct.
type Field struct {
	Name       string
	Type       Type
	Attributes Attributes
}

// EnumValue is one enumerator. Payload is nil unless sum-type lifting
// produced the enum.
type EnumValue struct {
	Name       string
	Number     int64
	Attributes Attributes
	Payload    Type
}

// Enum is an enumeration declaration.
type Enum struct {
	Name       string
	Namespaces []string
	Values     []*EnumValue
	Attributes Attributes
	Scoped     bool
	// Underlying names the representation type, e.g. "uint8". Empty means default.
	Underlying string
}

// HasPayloads reports whether any value carries a payload.
func (e *Enum) HasPayloads() bool {
	for _, v := range e.Values {
		if v.Payload != nil {
			return true
		}
	}

	return false
}

// Alternative is one arm of a Oneof. A nil Type is a typeless alternative.
type Alternative struct {
	Name       string
	Type       Type
	Attributes Attributes
}

// Oneof is a source-native tagged union.
type Oneof struct {
	Name         string
	Alternatives []*Alternative
	Attributes   Attributes
}

// Struct is a record declaration.
type Struct struct {
	Name       string
	Namespaces []string
	Members    []Member
	Attributes Attributes

	// Anonymous structs have no declared name.
	Anonymous bool
	// VarName is set when the struct also occupies a field slot of its parent.
	VarName string

	Record   bool
	Abstract bool
	// Base is the single base type name, empty when none.
	Base string
}

// Fields returns the Field members in order.
func (s *Struct) Fields() []*Field {
	var out []*Field

	for _, m := range s.Members {
		if f, ok := m.(*Field); ok {
			out = append(out, f)
		}
	}

	return out
}

// Namespace groups nodes under a name.
type Namespace struct {
	Name  string
	Nodes []Node
}

// Method is one RPC of a Service.
type Method struct {
	Name       string
	Request    string
	Response   string
	Attributes Attributes
}

// Service is carried through the pipeline untouched.
type Service struct {
	Name       string
	Methods    []*Method
	Attributes Attributes
}

// Module is one parsed schema document.
type Module struct {
	// Source is the notation key of the front end that produced the module.
	Source     string
	Namespaces []string
	Nodes      []Node
}

func (f *Field) DeclName() string     { return f.Name }
func (e *Enum) DeclName() string      { return e.Name }
func (o *Oneof) DeclName() string     { return o.Name }
func (s *Struct) DeclName() string    { return s.Name }
func (n *Namespace) DeclName() string { return n.Name }
func (s *Service) DeclName() string   { return s.Name }

func (*Field) isMember()  {}
func (*Oneof) isMember()  {}
func (*Enum) isMember()   {}
func (*Struct) isMember() {}

func (*Enum) isNode()      {}
func (*Struct) isNode()    {}
func (*Namespace) isNode() {}
func (*Service) isNode()   {}
func (*Oneof) isNode()     {}

// FindNode returns the first node called name in nodes, searching
// namespaces by their dotted path ("billing.Invoice").
func FindNode(nodes []Node, name string) Node {
	for _, n := range nodes {
		if n.DeclName() == name {
			if _, isNS := n.(*Namespace); !isNS {
				return n
			}
		}
	}

	for _, n := range nodes {
		ns, ok := n.(*Namespace)
		if !ok || len(name) <= len(ns.Name)+1 || name[:len(ns.Name)+1] != ns.Name+"." {
			continue
		}

		if found := FindNode(ns.Nodes, name[len(ns.Name)+1:]); found != nil {
			return found
		}
	}

	return nil
}

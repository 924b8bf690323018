package ir

import "astrie/internal/common"

// Kind is the canonical, notation-independent classification of a type.
// The zero value is KindUnknown.
type Kind uint8

const (
	KindUnknown Kind = iota

	KindBool
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindChar
	KindDateTime
	KindDate
	KindTime
	KindDuration
	KindUUID
	KindDecimal
	KindURL
	KindEmail

	KindList
	KindMap
	KindSet
	KindTuple
	KindOptional
	KindVariant
	KindPair
	KindMonostate // the "no value" marker
	KindArray
	KindUnorderedMap
	KindUnorderedSet

	KindPointer
	KindUniquePtr
	KindSharedPtr

	KindStructRef

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:      common.UnknownStr,
	KindBool:         "bool",
	KindInt8:         "int8",
	KindUInt8:        "uint8",
	KindInt16:        "int16",
	KindUInt16:       "uint16",
	KindInt32:        "int32",
	KindUInt32:       "uint32",
	KindInt64:        "int64",
	KindUInt64:       "uint64",
	KindFloat32:      "float32",
	KindFloat64:      "float64",
	KindString:       "string",
	KindBytes:        "bytes",
	KindChar:         "char",
	KindDateTime:     "datetime",
	KindDate:         "date",
	KindTime:         "time",
	KindDuration:     "duration",
	KindUUID:         "uuid",
	KindDecimal:      "decimal",
	KindURL:          "url",
	KindEmail:        "email",
	KindList:         "list",
	KindMap:          "map",
	KindSet:          "set",
	KindTuple:        "tuple",
	KindOptional:     "optional",
	KindVariant:      "variant",
	KindPair:         "pair",
	KindMonostate:    "monostate",
	KindArray:        "array",
	KindUnorderedMap: "unordered_map",
	KindUnorderedSet: "unordered_set",
	KindPointer:      "pointer",
	KindUniquePtr:    "unique_ptr",
	KindSharedPtr:    "shared_ptr",
	KindStructRef:    "struct_ref",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = Kind(k)
	}

	return m
}()

// String returns the stable lower-case name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return common.UnknownStr
	}

	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]

	return k, ok
}

// Kinds returns every kind in declaration order, KindUnknown first.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := range kindCount {
		out = append(out, k)
	}

	return out
}

// IsPrimitive reports whether the kind is a scalar leaf (Monostate included).
func (k Kind) IsPrimitive() bool {
	return (k >= KindBool && k <= KindEmail) || k == KindMonostate
}

// IsContainer reports whether the kind takes type arguments.
func (k Kind) IsContainer() bool {
	switch k {
	case KindList, KindMap, KindSet, KindTuple, KindOptional, KindVariant,
		KindPair, KindArray, KindUnorderedMap, KindUnorderedSet:
		return true
	default:
		return false
	}
}

// IsOwnership reports whether the kind is a pointer-like owner.
func (k Kind) IsOwnership() bool {
	return k == KindPointer || k == KindUniquePtr || k == KindSharedPtr
}

// IsIndirection reports whether the kind is valid on an Indirection.
func (k Kind) IsIndirection() bool {
	return k.IsOwnership() || k == KindOptional
}

// IsInteger reports whether the kind is a fixed-width integer.
func (k Kind) IsInteger() bool {
	return k >= KindInt8 && k <= KindUInt64
}

// IsNumeric reports whether the kind is an integer, a float or a decimal.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k == KindFloat32 || k == KindFloat64 || k == KindDecimal
}

// IsUnsigned reports whether the kind is an unsigned integer.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64:
		return true
	default:
		return false
	}
}

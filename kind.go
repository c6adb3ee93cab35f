package cdata

// Kind identifies the shape category of a Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindEnum
	KindStruct
	KindUnion
	KindPointer
	KindArray
	KindTypedef
	KindPadding
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindPrimitive: "primitive",
	KindEnum:      "enum",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindPointer:   "pointer",
	KindArray:     "array",
	KindTypedef:   "typedef",
	KindPadding:   "padding",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Composite reports whether instances of this kind own child instances.
func (k Kind) Composite() bool {
	switch k {
	case KindStruct, KindUnion, KindArray:
		return true
	}
	return false
}

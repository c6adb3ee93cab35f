package cdata

import "github.com/membank/cdata/errors"

// Class selects how a primitive's bytes encode a value.
type Class uint8

const (
	ClassInt   Class = iota // signed two's complement
	ClassUint               // unsigned
	ClassFloat              // IEEE 754 binary32/binary64
	ClassBool               // single byte, 0 or 1
	ClassChar               // single byte, rendered as a character
)

var classNames = [...]string{
	ClassInt:   "int",
	ClassUint:  "uint",
	ClassFloat: "float",
	ClassBool:  "bool",
	ClassChar:  "char",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// Primitive is a fixed-size scalar type.
type Primitive struct {
	name   string
	size   int
	align  int
	class  Class
	native bool
}

// NewPrimitive defines a custom scalar. Sizes follow C: integers are
// 1, 2, 4, or 8 bytes, floats 4 or 8, bool and char exactly 1.
// Alignment must be a power of two no larger than the size.
func NewPrimitive(name string, size, align int, class Class) (*Primitive, error) {
	if name == "" {
		return nil, errors.InvalidDefinition("primitive", "empty type name")
	}
	switch class {
	case ClassInt, ClassUint:
		if size != 1 && size != 2 && size != 4 && size != 8 {
			return nil, errors.InvalidDefinition(name, "integer size must be 1, 2, 4, or 8 bytes")
		}
	case ClassFloat:
		if size != 4 && size != 8 {
			return nil, errors.InvalidDefinition(name, "float size must be 4 or 8 bytes")
		}
	case ClassBool, ClassChar:
		if size != 1 {
			return nil, errors.InvalidDefinition(name, "bool and char are 1 byte")
		}
	default:
		return nil, errors.InvalidDefinition(name, "unknown primitive class")
	}
	if align < 1 || align > size || align&(align-1) != 0 {
		return nil, errors.InvalidDefinition(name, "alignment must be a power of two no larger than the size")
	}
	return &Primitive{name: name, size: size, align: align, class: class}, nil
}

func (p *Primitive) Name() string { return p.name }
func (p *Primitive) Kind() Kind   { return KindPrimitive }
func (p *Primitive) Size() int    { return p.size }
func (p *Primitive) Align() int   { return p.align }
func (p *Primitive) Native() bool { return p.native }

// Class returns the value encoding.
func (p *Primitive) Class() Class { return p.class }

// Signed reports whether values are sign-extended.
func (p *Primitive) Signed() bool { return p.class == ClassInt }

// New returns a zero-valued instance.
func (p *Primitive) New() *Instance { return &Instance{typ: p} }

func native(name string, size, align int, class Class) *Primitive {
	return &Primitive{name: name, size: size, align: align, class: class, native: true}
}

// The native C scalar types under the LP64 data model.
var (
	Char      = native("char", 1, 1, ClassChar)
	SChar     = native("signed char", 1, 1, ClassInt)
	UChar     = native("unsigned char", 1, 1, ClassUint)
	Bool      = native("_Bool", 1, 1, ClassBool)
	Short     = native("short", 2, 2, ClassInt)
	UShort    = native("unsigned short", 2, 2, ClassUint)
	Int       = native("int", 4, 4, ClassInt)
	UInt      = native("unsigned int", 4, 4, ClassUint)
	Long      = native("long", 8, 8, ClassInt)
	ULong     = native("unsigned long", 8, 8, ClassUint)
	LongLong  = native("long long", 8, 8, ClassInt)
	ULongLong = native("unsigned long long", 8, 8, ClassUint)
	Float     = native("float", 4, 4, ClassFloat)
	Double    = native("double", 8, 8, ClassFloat)
)

var nativesByName = map[string]*Primitive{}

func init() {
	for _, p := range []*Primitive{
		Char, SChar, UChar, Bool, Short, UShort, Int, UInt,
		Long, ULong, LongLong, ULongLong, Float, Double,
	} {
		nativesByName[p.name] = p
	}
}

// NativeType looks up a predeclared scalar by its C name.
func NativeType(name string) (Type, bool) {
	p, ok := nativesByName[name]
	if !ok {
		return nil, false
	}
	return p, true
}

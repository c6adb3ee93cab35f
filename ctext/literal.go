package ctext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/membank/cdata"
)

// Literal renders an instance as a C expression reproducing its value:
// plain literals for scalars, compound literals with designated
// initializers for structs, brace lists for arrays, NULL or a cast
// address for pointers.
func Literal(inst *cdata.Instance) string {
	switch t := cdata.Underlying(inst.Type()).(type) {
	case *cdata.Primitive:
		return primitiveLiteral(inst, t)

	case *cdata.EnumType:
		if name, ok := inst.EnumName(); ok {
			return name
		}
		return strconv.FormatUint(inst.Uint(), 10)

	case *cdata.PaddingType:
		return byteList(inst.Bytes())

	case *cdata.StructType:
		return compoundLiteral(inst, t.Fields(), Specifier(inst.Type()))

	case *cdata.UnionType:
		// a union literal may designate only one member; use the first
		fields := t.Fields()
		if len(fields) == 0 {
			return fmt.Sprintf("(%s){0}", Specifier(inst.Type()))
		}
		return compoundLiteral(inst, fields[:1], Specifier(inst.Type()))

	case *cdata.ArrayType:
		return arrayLiteral(inst, t)

	case *cdata.PointerType:
		return pointerLiteral(inst, t)
	}
	return "0"
}

func primitiveLiteral(inst *cdata.Instance, t *cdata.Primitive) string {
	switch t.Class() {
	case cdata.ClassChar:
		return charLiteral(inst.Byte())
	case cdata.ClassBool:
		if inst.Bool() {
			return "1"
		}
		return "0"
	case cdata.ClassInt:
		return strconv.FormatInt(inst.Int(), 10)
	case cdata.ClassFloat:
		s := strconv.FormatFloat(inst.Float(), 'g', -1, 64)
		if !strings.ContainsAny(s, ".einEIN") {
			s += ".0"
		}
		if t.Size() == 4 {
			s += "f"
		}
		return s
	default:
		return strconv.FormatUint(inst.Uint(), 10) + "u"
	}
}

// charLiteral renders printable ASCII directly and everything else as
// a hex escape.
func charLiteral(b byte) string {
	switch b {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case 0:
		return `'\0'`
	}
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("'%c'", b)
	}
	return fmt.Sprintf("'\\x%02x'", b)
}

func compoundLiteral(inst *cdata.Instance, fields []cdata.Field, specifier string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		child, err := inst.Field(f.Name)
		if err != nil {
			parts[i] = fmt.Sprintf(".%s = 0", f.Name)
			continue
		}
		parts[i] = fmt.Sprintf(".%s = %s", f.Name, Literal(child))
	}
	return fmt.Sprintf("(%s){\n%s\n}", specifier, indent(strings.Join(parts, ",\n")))
}

func arrayLiteral(inst *cdata.Instance, t *cdata.ArrayType) string {
	if ep, ok := cdata.Underlying(t.Elem()).(*cdata.Primitive); ok && ep.Class() == cdata.ClassChar {
		return stringLiteral(inst)
	}
	parts := make([]string, inst.Len())
	for i := range parts {
		child, err := inst.Index(i)
		if err != nil {
			parts[i] = "0"
			continue
		}
		parts[i] = Literal(child)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// stringLiteral renders a char array as a C string when its bytes form
// a NUL-padded printable string, falling back to a char brace list.
func stringLiteral(inst *cdata.Instance) string {
	chars := make([]byte, inst.Len())
	for i := range chars {
		child, _ := inst.Index(i)
		chars[i] = child.Byte()
	}
	text := strings.TrimRight(string(chars), "\x00")
	for _, c := range []byte(text) {
		if c < 0x20 || c >= 0x7f {
			parts := make([]string, len(chars))
			for i, b := range chars {
				parts[i] = charLiteral(b)
			}
			return "{" + strings.Join(parts, ", ") + "}"
		}
	}
	return strconv.Quote(text)
}

// pointerLiteral prefers the live target's address, then the stored
// raw address, then NULL.
func pointerLiteral(inst *cdata.Instance, t *cdata.PointerType) string {
	addr, ok := uint64(0), false
	if target := inst.Deref(); target != nil {
		addr, ok = target.Addr()
	}
	if !ok {
		addr, ok = inst.TargetAddr()
	}
	if !ok || addr == 0 {
		return "NULL"
	}
	return fmt.Sprintf("(%s)0x%x", Declare(t, ""), addr)
}

func byteList(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = charLiteral(b)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

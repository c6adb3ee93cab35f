package cdata

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the instance recursively for debugging: primitives
// show their value, structs and unions show {field: value, ...},
// arrays show [v, v, ...] (char arrays as a quoted string), a null
// pointer shows NULL, and a wired pointer shows its target's
// rendering rather than an address. A pointer back into an instance
// currently being rendered shows "..." so cycles terminate.
func (i *Instance) String() string {
	var b strings.Builder
	i.render(&b, make(map[*Instance]bool))
	return b.String()
}

func (i *Instance) render(b *strings.Builder, onStack map[*Instance]bool) {
	if onStack[i] {
		b.WriteString("...")
		return
	}
	onStack[i] = true
	defer delete(onStack, i)

	switch t := Underlying(i.typ).(type) {
	case *Primitive:
		i.renderScalar(b, t)

	case *EnumType:
		if name, ok := t.NameOf(i.bits); ok {
			b.WriteString(name)
		} else {
			b.WriteString(strconv.FormatUint(i.bits, 10))
		}

	case *PaddingType:
		b.WriteString(strconv.Quote(string(i.raw)))

	case *StructType, *UnionType:
		fs := compositeFields(i.typ)
		b.WriteByte('{')
		for n, f := range fs {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			i.kids[n].render(b, onStack)
		}
		b.WriteByte('}')

	case *ArrayType:
		if ep, ok := Underlying(t.elem).(*Primitive); ok && ep.class == ClassChar {
			chars := make([]byte, len(i.kids))
			for n, k := range i.kids {
				chars[n] = byte(k.bits)
			}
			b.WriteString(strconv.Quote(string(chars)))
			return
		}
		b.WriteByte('[')
		for n, k := range i.kids {
			if n > 0 {
				b.WriteString(", ")
			}
			k.render(b, onStack)
		}
		b.WriteByte(']')

	case *PointerType:
		switch {
		case i.deref != nil:
			i.deref.render(b, onStack)
		case i.hasTarget:
			fmt.Fprintf(b, "0x%x", i.target)
		default:
			b.WriteString("NULL")
		}

	default:
		b.WriteString("<invalid>")
	}
}

func (i *Instance) renderScalar(b *strings.Builder, t *Primitive) {
	switch t.class {
	case ClassInt:
		b.WriteString(strconv.FormatInt(i.Int(), 10))
	case ClassUint:
		b.WriteString(strconv.FormatUint(i.bits, 10))
	case ClassFloat:
		bits := 64
		if t.size == 4 {
			bits = 32
		}
		b.WriteString(strconv.FormatFloat(i.Float(), 'g', -1, bits))
	case ClassBool:
		b.WriteString(strconv.FormatBool(i.bits != 0))
	case ClassChar:
		b.WriteString(strconv.QuoteRune(rune(i.bits)))
	}
}

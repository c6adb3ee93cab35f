package ctext

import (
	"fmt"
	"strings"

	"github.com/membank/cdata"
)

// Declare renders a C variable declaration of type t for the given
// identifier, without the terminating semicolon: "int x", "char *p",
// "int (*p)[4]", "struct foo f".
func Declare(t cdata.Type, identifier string) string {
	return strings.TrimRight(declare(t, identifier), " ")
}

// declare builds the declaration inside out: arrays and pointers wrap
// the declarator, everything else contributes the leading specifier.
func declare(t cdata.Type, decl string) string {
	switch u := t.(type) {
	case *cdata.PointerType:
		inner := "*" + decl
		pointee := u.Pointee()
		if pointee == nil {
			// unbound forward pointer, the declared name is all we have
			return fmt.Sprintf("%s %s", strings.TrimSuffix(u.Name(), "*"), inner)
		}
		if _, isArr := pointee.(*cdata.ArrayType); isArr {
			inner = "(" + inner + ")"
		}
		return declare(pointee, inner)

	case *cdata.ArrayType:
		return declare(u.Elem(), fmt.Sprintf("%s[%d]", decl, u.Count()))

	case *cdata.PaddingType:
		return fmt.Sprintf("char %s[%d]", decl, t.Size())

	default:
		return fmt.Sprintf("%s %s", Specifier(t), decl)
	}
}

// Specifier returns the type specifier used in declarations: the bare
// name for primitives and typedefs, tagged names for structs, unions,
// and enums.
func Specifier(t cdata.Type) string {
	switch t.Kind() {
	case cdata.KindStruct:
		return "struct " + t.Name()
	case cdata.KindUnion:
		return "union " + t.Name()
	case cdata.KindEnum:
		return "enum " + t.Name()
	default:
		return t.Name()
	}
}

// Prototype returns the C forward declaration of a type: "struct foo;"
// for tagged types, empty for everything else.
func Prototype(t cdata.Type) string {
	switch t.Kind() {
	case cdata.KindStruct, cdata.KindUnion, cdata.KindEnum:
		return Specifier(t) + ";"
	}
	return ""
}

// Definition returns the full C definition of a type, empty for types
// that have none (native primitives, pointers, arrays, padding). Doc
// strings attached to the type and its members are emitted as block
// comments.
func Definition(t cdata.Type) string {
	switch u := t.(type) {
	case *cdata.StructType:
		return withDoc(u.Doc, compositeDefinition("struct", u.Name(), memberDecls(u.Fields())))

	case *cdata.UnionType:
		return withDoc(u.Doc, compositeDefinition("union", u.Name(), memberDecls(u.Fields())))

	case *cdata.EnumType:
		members := u.Members()
		lines := make([]string, len(members))
		for i, m := range members {
			line := fmt.Sprintf("%s = %d", m.Name, m.Value)
			if i < len(members)-1 {
				line += ","
			}
			if m.Doc != "" {
				line = comment(m.Doc) + "\n" + line
			}
			lines[i] = line
		}
		body := fmt.Sprintf("enum %s {\n%s\n};", u.Name(), indent(strings.Join(lines, "\n")))
		return withDoc(u.Doc, body)

	case *cdata.TypedefType:
		return withDoc(u.Doc, fmt.Sprintf("typedef %s;", Declare(u.Base(), u.Name())))
	}
	return ""
}

func memberDecls(fields []cdata.Field) string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = Declare(f.Type, f.Name) + ";"
	}
	return strings.Join(lines, "\n")
}

func compositeDefinition(tag, name, members string) string {
	return fmt.Sprintf("%s %s {\n%s\n};", tag, name, indent(members))
}

func withDoc(doc, definition string) string {
	if doc == "" {
		return definition
	}
	return comment(doc) + "\n" + definition
}

// comment wraps text in a C block comment, one leading star per line.
func comment(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) == 1 {
		return "/* " + lines[0] + " */"
	}
	var b strings.Builder
	b.WriteString("/*\n")
	for _, line := range lines {
		b.WriteString(" * ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(" */")
	return b.String()
}

// indent prefixes every line with four spaces.
func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

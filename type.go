package cdata

import (
	"fmt"

	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Type describes a C-compatible data layout. Size, alignment, and (for
// structs) field offsets are computed once at construction and cached on
// the concrete type.
//
// Type values are immutable after construction, with one exception: a
// forward pointer created by ForwardPointer is completed later via Bind.
type Type interface {
	// Name returns the display name: "int", "foo", "char*", "int[4]".
	Name() string
	// Kind returns the shape category.
	Kind() Kind
	// Size returns the byte size of the packed representation.
	Size() int
	// Align returns the required address alignment, at least 1.
	Align() int
	// Native reports whether this is a predeclared C type rather than a
	// user definition. Header generation omits natives.
	Native() bool
	// New returns a zero-valued instance of this type. Struct, union,
	// and array instances are constructed recursively.
	New() *Instance
}

// Field is one named member of a struct or union.
type Field struct {
	Name string
	Type Type
}

// Fields supplies per-field overrides to NewWith. Values may be Go
// scalars (integers, floats, bool, byte, rune), strings for char
// arrays, byte slices for padding and char arrays, or ready-made
// instances adopted by exact type match.
type Fields map[string]any

// Equal reports whether two types describe the same layout. Types
// compare by kind and name, so a pointer bound by ForwardPointer equals
// the directly constructed pointer to the same pointee, and two
// independently built "foo" structs are interchangeable.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.Name() == b.Name()
}

// Underlying resolves typedef chains to the type that defines the
// storage shape. Non-typedef types return themselves.
func Underlying(t Type) Type {
	for {
		td, ok := t.(*TypedefType)
		if !ok {
			return t
		}
		t = td.base
	}
}

// checkName validates a user-supplied type or field name as a C
// identifier. what labels the error ("struct", "field", ...).
func checkName(what, name string) *errors.Error {
	if name == "" {
		return errors.InvalidDefinition(what, "empty name")
	}
	if !abi.IsCIdent(name) {
		return errors.InvalidDefinition(what, fmt.Sprintf("%q is not a valid C identifier", name))
	}
	return nil
}

// checkFields validates a struct or union field list: names must be
// unique, valid identifiers, and every type non-nil.
func checkFields(typeName string, fields []Field) *errors.Error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if e := checkName("field", f.Name); e != nil {
			e.Type = typeName
			return e
		}
		if seen[f.Name] {
			return errors.InvalidDefinition(typeName, fmt.Sprintf("duplicate field %q", f.Name))
		}
		seen[f.Name] = true
		if f.Type == nil {
			return errors.InvalidDefinition(typeName, fmt.Sprintf("field %q has no type", f.Name))
		}
	}
	return nil
}

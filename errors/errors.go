package errors

import (
	"fmt"
	"strings"
)

// Op indicates which operation produced the error
type Op string

const (
	OpDefine  Op = "define"  // type construction
	OpBuild   Op = "build"   // instance construction
	OpAccess  Op = "access"  // field and element lookup
	OpSet     Op = "set"     // value assignment
	OpPack    Op = "pack"    // instance to bytes
	OpUnpack  Op = "unpack"  // bytes to instance
	OpAlloc   Op = "alloc"   // address assignment
	OpWrite   Op = "write"   // memory image writes
	OpResolve Op = "resolve" // address lookup
	OpParse   Op = "parse"   // definition file parsing
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch      Kind = "type_mismatch"
	KindUnknownField      Kind = "unknown_field"
	KindUnresolvedAddress Kind = "unresolved_address"
	KindAddressConflict   Kind = "address_conflict"
	KindSizeMismatch      Kind = "size_mismatch"
	KindInvalidDefinition Kind = "invalid_definition"
	KindInvalidInput      Kind = "invalid_input"
	KindOutOfBounds       Kind = "out_of_bounds"
)

// Sentinels for kind-only matching with the standard errors.Is.
// A target with an empty Op matches any operation.
var (
	ErrTypeMismatch      = &Error{Kind: KindTypeMismatch}
	ErrUnknownField      = &Error{Kind: KindUnknownField}
	ErrUnresolvedAddress = &Error{Kind: KindUnresolvedAddress}
	ErrAddressConflict   = &Error{Kind: KindAddressConflict}
	ErrSizeMismatch      = &Error{Kind: KindSizeMismatch}
	ErrInvalidDefinition = &Error{Kind: KindInvalidDefinition}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrOutOfBounds       = &Error{Kind: KindOutOfBounds}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Op     Op
	Kind   Kind
	Type   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an
// empty Op matches on Kind alone, so the package sentinels work with
// the standard errors.Is regardless of which operation failed.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Op != "" && t.Op != e.Op {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the data type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(op Op, path []string, typeName string, value any) *Error {
	return &Error{
		Op:     op,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("value %v not valid for %s", value, typeName),
		Value:  value,
	}
}

// UnknownField creates an unknown field error
func UnknownField(op Op, path []string, typeName, fieldName string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnknownField,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("no field %q", fieldName),
	}
}

// UnresolvedAddress creates an error for a pointer whose target has no address
func UnresolvedAddress(op Op, path []string, typeName string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnresolvedAddress,
		Path:   path,
		Type:   typeName,
		Detail: "pointed-to instance has no address",
	}
}

// AddressConflict creates an error for overlapping address reservations
func AddressConflict(op Op, name string, addr, end uint64) *Error {
	return &Error{
		Op:     op,
		Kind:   KindAddressConflict,
		Detail: fmt.Sprintf("%s at [%#x, %#x) overlaps reserved memory", name, addr, end),
		Value:  addr,
	}
}

// SizeMismatch creates an error for a byte buffer of the wrong length
func SizeMismatch(op Op, path []string, typeName string, got, want int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindSizeMismatch,
		Path:   path,
		Type:   typeName,
		Detail: fmt.Sprintf("got %d bytes, want %d", got, want),
		Value:  got,
	}
}

// InvalidDefinition creates a type construction error
func InvalidDefinition(typeName, detail string) *Error {
	return &Error{
		Op:     OpDefine,
		Kind:   KindInvalidDefinition,
		Type:   typeName,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(op Op, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(op Op, path []string, index, length int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(op Op, kind Kind, cause error, detail string) *Error {
	return &Error{
		Op:     op,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

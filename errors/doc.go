// Package errors provides structured error types for the cdata library.
//
// Errors are categorized by Op (which operation failed) and Kind (error
// category). The Error type includes rich context: field path, type name,
// offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpSet, errors.KindTypeMismatch).
//		Path("my_foo", "bar").
//		Type("int").
//		Value(1 << 40).
//		Detail("value out of range").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.OpSet, path, "int", v)
//	err := errors.AddressConflict(errors.OpAlloc, "my_foo", 0x2000, 0x2010)
//
// All errors implement the standard error interface and support errors.Is/As.
// Kind-only sentinels match regardless of operation:
//
//	if errors.Is(err, errors.ErrAddressConflict) { ... }
package errors

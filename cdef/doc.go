// Package cdef loads type definitions from TOML files.
//
// A definition file declares an optional target and a sequence of
// types:
//
//	target = { ptr_size = 8, ptr_align = 8 }
//
//	[[type]]
//	name = "foo"
//	kind = "struct"
//	field = [
//	    { name = "bar", type = "int" },
//	    { name = "baz", type = "*char" },
//	]
//
// Type expressions are native C scalar names, previously declared type
// names, "*T" for pointers, "[N]T" for fixed arrays, and "pad(N)" for
// explicit padding runs. A pointer may name a struct or union declared
// later in the same file; such forward pointers are bound when the
// whole file has loaded, which is how self-referential and mutually
// recursive types are written.
package cdef

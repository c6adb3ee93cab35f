// Package cdata describes C-compatible data layouts as first-class Go
// values and materializes them as exact binary memory images, without
// running a C compiler.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	cdata/               Types (primitive, enum, struct, union, pointer,
//	                     array, typedef, padding), layout arithmetic,
//	                     and the instance model
//	├── codec/           Packing and unpacking instances to C-ABI bytes
//	├── alloc/           Address assignment over reachable instance graphs
//	├── memimage/        Memory images, file and WASM memory adapters,
//	                     address indexing and pointer resolution
//	├── ctext/           C declarations, literals, and header generation
//	├── cdef/            TOML definition file loader
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Define a type, build an instance, give it an address, pack it:
//
//	foo, _ := cdata.NewStruct("foo",
//	    cdata.Field{Name: "bar", Type: cdata.Int},
//	    cdata.Field{Name: "baz", Type: cdata.PointerTo(cdata.Char)},
//	)
//	inst, _ := foo.NewWith(cdata.Fields{"bar": 1234})
//
//	end, _ := alloc.Alloc(inst, 0x2000)
//	data, _ := codec.Pack(inst)
//
// # Layout Rules
//
// Struct fields are placed in declaration order, each offset rounded up
// to the field's alignment; total size rounds up to the struct's
// alignment, the maximum field alignment. Union fields all share
// offset 0. Pointer width and alignment come from a Target, LP64 (8/8)
// by default.
//
// # Ownership and Identity
//
// Struct, union, and array instances exclusively own their children; a
// pointer references its target without owning it. Instances compare
// by identity, never by value, which keeps shared references and
// cyclic pointer graphs well defined: Instance.All visits each
// reachable instance exactly once and terminates on cycles.
//
// # Thread Safety
//
// Types are immutable after construction and safe to share. An
// instance graph is not synchronized; confine it to one goroutine or
// guard it externally.
package cdata

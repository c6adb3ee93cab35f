// Package memimage writes packed instance graphs into addressable
// memory images and maps raw addresses back to instances.
//
// A Memory is anything that accepts byte writes at 64-bit addresses: an
// in-core Buffer, a file through io.WriterAt, or a live WebAssembly
// linear memory through wazero. Write packs every addressed storage
// root reachable from a graph and stores it at its address.
//
// Unpacking bytes recovers pointer fields as raw addresses only. An
// Index over the written instances plus Resolve turns those raw
// addresses back into wired references where the types agree.
package memimage

// Package ctext renders types and instances as C source text.
//
// It consumes only the read-only metadata the core exposes, field
// lists, member lists, names and kinds, and produces declarations,
// prototypes, full definitions, compound literals, and complete header
// files. Nothing here affects layout or packing.
package ctext

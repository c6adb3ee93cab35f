// Package codec converts instance trees to and from their C-ABI byte
// representation.
//
// The byte order is a codec-level option, never a per-type property;
// the default is little-endian. Packing writes struct fields at their
// cached offsets, union fields over the shared offset-0 bytes in
// declaration order, and array elements at stride offsets. Padding
// bytes between fields are always zero.
//
// Pointers pack as the numeric address of their target: the wired
// target's address when set (an unresolved target address is an
// error), the stored target address otherwise, and zero bytes for a
// null pointer. Unpacking recovers raw addresses only; it never
// invents object identity.
//
//	enc := codec.NewEncoder(codec.DefaultOptions())
//	data, err := enc.Pack(inst)
//
// Package-level Pack and Unpack use a shared little-endian codec.
package codec

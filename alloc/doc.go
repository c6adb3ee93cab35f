// Package alloc assigns concrete memory addresses to instance graphs.
//
// An Allocator walks every instance reachable from a root in the order
// defined by Instance.All and gives each storage root a non-overlapping,
// alignment-respecting address. Instances owned by a struct, union, or
// array live inside their owner's storage and are never placed
// separately. Addresses assigned by hand before the walk are honored:
// their ranges are reserved and checked for conflicts but the instances
// are not moved.
//
// Allocator state is explicit. There is no process-wide cursor, so
// independent graphs can be allocated into disjoint regions by separate
// Allocator values, or packed contiguously by chaining Alloc calls on
// one Allocator.
package alloc

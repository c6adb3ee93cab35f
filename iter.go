package cdata

import "iter"

// All returns every instance reachable from this one, each exactly
// once. The order is a public contract the allocator depends on:
// pre-order, self first, then owned children in declaration or index
// order with each child's subtree visited fully before the next, then
// the pointer target. An identity-keyed visited set makes the walk
// terminate on cyclic pointer graphs. The sequence is lazy and
// restartable.
func (i *Instance) All() iter.Seq[*Instance] {
	return func(yield func(*Instance) bool) {
		seen := make(map[*Instance]bool)
		i.visit(seen, yield)
	}
}

func (i *Instance) visit(seen map[*Instance]bool, yield func(*Instance) bool) bool {
	if i == nil || seen[i] {
		return true
	}
	seen[i] = true
	if !yield(i) {
		return false
	}
	for _, k := range i.kids {
		if !k.visit(seen, yield) {
			return false
		}
	}
	if i.deref != nil {
		return i.deref.visit(seen, yield)
	}
	return true
}

// TotalSize returns the number of bytes of distinct storage reachable
// from root: the sizes of all reachable storage roots, where an owned
// instance counts only when no owner of it is itself reachable.
func TotalSize(root *Instance) int {
	reach := make(map[*Instance]bool)
	for inst := range root.All() {
		reach[inst] = true
	}
	total := 0
	for inst := range reach {
		covered := false
		for o := inst.owner; o != nil; o = o.owner {
			if reach[o] {
				covered = true
				break
			}
		}
		if !covered {
			total += inst.typ.Size()
		}
	}
	return total
}

// IterTypes returns the types a type refers to or contains, dependency
// first, then the type itself, each name exactly once. Struct and
// union fields, array elements, pointer pointees, and typedef bases
// are dependencies. Self-referential types terminate because a type's
// name is marked before its dependencies are walked.
func IterTypes(t Type) iter.Seq[Type] {
	return func(yield func(Type) bool) {
		seen := make(map[string]bool)
		visitType(t, seen, yield)
	}
}

func visitType(t Type, seen map[string]bool, yield func(Type) bool) bool {
	if t == nil || seen[t.Name()] {
		return true
	}
	seen[t.Name()] = true

	switch u := t.(type) {
	case *StructType:
		for _, f := range u.fields {
			if !visitType(f.Type, seen, yield) {
				return false
			}
		}
	case *UnionType:
		for _, f := range u.fields {
			if !visitType(f.Type, seen, yield) {
				return false
			}
		}
	case *ArrayType:
		if !visitType(u.elem, seen, yield) {
			return false
		}
	case *PointerType:
		if !visitType(u.pointee, seen, yield) {
			return false
		}
	case *TypedefType:
		if !visitType(u.base, seen, yield) {
			return false
		}
	}
	return yield(t)
}

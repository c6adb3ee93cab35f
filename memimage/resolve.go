package memimage

import (
	"go.uber.org/zap"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
)

// Resolve wires pointer instances back to object identity. For every
// reachable pointer that carries a stored target address but no live
// target, it looks the address up in idx and sets the dereference when
// the indexed instance's type matches the declared pointee. An
// addressed instance of the wrong type is a TypeMismatch.
//
// Wiring a pointer can make more of the graph reachable, so Resolve
// repeats the walk until a pass wires nothing new. It returns how many
// pointers it wired and how many stayed unresolved because their
// address is absent from the index.
func Resolve(root *cdata.Instance, idx *Index) (resolved, missing int, err error) {
	if root == nil {
		return 0, 0, errors.InvalidInput(errors.OpResolve, "nil root instance")
	}
	for {
		pending := unresolvedPointers(root)
		wired := 0
		missing = 0
		for _, ptr := range pending {
			addr, _ := ptr.TargetAddr()
			target, found := idx.At(addr)
			if !found {
				missing++
				continue
			}
			pt := cdata.Underlying(ptr.Type()).(*cdata.PointerType)
			if !cdata.Equal(target.Type(), pt.Pointee()) {
				return resolved, missing, errors.New(errors.OpResolve, errors.KindTypeMismatch).
					Type(pt.Name()).
					Value(addr).
					Detail("instance at %#x is %s, pointee is %s",
						addr, target.Type().Name(), pt.Pointee().Name()).
					Build()
			}
			if derr := ptr.SetDeref(target); derr != nil {
				return resolved, missing, derr
			}
			resolved++
			wired++
			Logger().Debug("resolved pointer",
				zap.String("type", pt.Name()),
				zap.Uint64("addr", addr))
		}
		if wired == 0 {
			return resolved, missing, nil
		}
	}
}

// unresolvedPointers snapshots the reachable pointers that have a
// stored target address but no live target, so wiring during the pass
// cannot disturb the walk.
func unresolvedPointers(root *cdata.Instance) []*cdata.Instance {
	var out []*cdata.Instance
	for inst := range root.All() {
		if _, ok := cdata.Underlying(inst.Type()).(*cdata.PointerType); !ok {
			continue
		}
		if inst.Deref() != nil {
			continue
		}
		if _, ok := inst.TargetAddr(); !ok {
			continue
		}
		out = append(out, inst)
	}
	return out
}

package alloc

import (
	"go.uber.org/zap"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// span is one reserved address range, end exclusive.
type span struct {
	start uint64
	end   uint64
}

// Allocator hands out non-overlapping memory addresses. It keeps a
// sorted ledger of every range it has reserved, so chained Alloc calls
// and hand-placed instances can never silently collide.
//
// The zero value is ready to use.
type Allocator struct {
	spans []span
}

// New returns an empty allocator.
func New() *Allocator { return &Allocator{} }

// Reserve marks [start, start+size) as occupied without binding it to
// an instance, e.g. an MMIO hole the allocator must route around.
// Overlap with an already reserved range is an AddressConflict.
func (a *Allocator) Reserve(start uint64, size int) error {
	end, ok := abi.Extent(start, size)
	if !ok {
		return errors.InvalidInput(errors.OpAlloc, "reserved region overflows the address space")
	}
	if err := a.reserve("reserved region", start, end); err != nil {
		return err
	}
	return nil
}

// Alloc walks every instance reachable from root and assigns an address
// to each storage root that has none, starting at base and respecting
// each type's alignment. Storage roots that already carry an address
// keep it; their ranges are reserved and an overlap with any other
// reserved range fails with AddressConflict.
//
// Owned instances are skipped: a struct, union, or array field lives
// inside its owner's storage and derives its address from the owner.
//
// Alloc returns the end cursor, one past the highest byte it placed or
// passed, so calls can be chained into contiguous regions. Re-running
// Alloc over a fully addressed graph changes nothing and returns the
// same cursor.
func (a *Allocator) Alloc(root *cdata.Instance, base uint64) (uint64, error) {
	if root == nil {
		return base, errors.InvalidInput(errors.OpAlloc, "nil root instance")
	}

	cursor := base
	for inst := range root.All() {
		if inst != root && inst.Owner() != nil {
			continue
		}
		size := inst.Type().Size()

		if addr, ok := inst.Addr(); ok {
			end, fits := abi.Extent(addr, size)
			if !fits {
				return cursor, a.overflow(inst, addr, size)
			}
			if err := a.reserve(inst.Type().Name(), addr, end); err != nil {
				return cursor, err
			}
			if end > cursor {
				cursor = end
			}
			continue
		}

		addr, end, err := a.place(inst, cursor, size)
		if err != nil {
			return cursor, err
		}
		inst.SetAddr(addr)
		cursor = end

		Logger().Debug("placed instance",
			zap.String("type", inst.Type().Name()),
			zap.Uint64("addr", addr),
			zap.Int("size", size))
	}
	return cursor, nil
}

// place finds the lowest aligned address at or after cursor whose range
// does not overlap the ledger, reserves it, and returns it with its
// exclusive end.
func (a *Allocator) place(inst *cdata.Instance, cursor uint64, size int) (uint64, uint64, error) {
	align := inst.Type().Align()
	addr := abi.AlignAddr(cursor, align)
	for {
		end, fits := abi.Extent(addr, size)
		if !fits {
			return 0, 0, a.overflow(inst, addr, size)
		}
		next, free := a.firstOverlap(addr, end)
		if free {
			if err := a.reserve(inst.Type().Name(), addr, end); err != nil {
				return 0, 0, err
			}
			return addr, end, nil
		}
		// skip past the occupant and retry at the next aligned slot
		addr = abi.AlignAddr(next, align)
	}
}

// firstOverlap reports whether [start, end) is free; when it is not,
// it returns the end of the first overlapping reserved range.
func (a *Allocator) firstOverlap(start, end uint64) (uint64, bool) {
	if start == end {
		return 0, true
	}
	i := a.search(start)
	if i < len(a.spans) && a.spans[i].start < end {
		return a.spans[i].end, false
	}
	return 0, true
}

// reserve inserts [start, end) into the sorted ledger. Zero-size ranges
// reserve nothing.
func (a *Allocator) reserve(what string, start, end uint64) *errors.Error {
	if start == end {
		return nil
	}
	i := a.search(start)
	if i < len(a.spans) && a.spans[i].start < end {
		return errors.AddressConflict(errors.OpAlloc, what, start, end)
	}
	a.spans = append(a.spans, span{})
	copy(a.spans[i+1:], a.spans[i:])
	a.spans[i] = span{start: start, end: end}
	return nil
}

// search returns the index of the first span whose end is above addr.
func (a *Allocator) search(addr uint64) int {
	lo, hi := 0, len(a.spans)
	for lo < hi {
		mid := (lo + hi) / 2
		if a.spans[mid].end <= addr {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (a *Allocator) overflow(inst *cdata.Instance, addr uint64, size int) *errors.Error {
	return errors.New(errors.OpAlloc, errors.KindInvalidInput).
		Type(inst.Type().Name()).
		Value(addr).
		Detail("%d bytes at %#x overflow the address space", size, addr).
		Build()
}

// Alloc assigns addresses with a fresh single-use allocator. Use an
// explicit Allocator to chain several graphs into one region.
func Alloc(root *cdata.Instance, base uint64) (uint64, error) {
	return New().Alloc(root, base)
}

package memimage

import (
	"sort"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Index maps addresses to the instances occupying them, for resolving
// unpacked raw addresses back to object identity.
type Index struct {
	byAddr  map[uint64]*cdata.Instance
	entries []indexEntry
	sorted  bool
}

type indexEntry struct {
	start uint64
	end   uint64
	inst  *cdata.Instance
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byAddr: make(map[uint64]*cdata.Instance)}
}

// Add records one addressed instance. An instance without an address
// cannot be indexed.
func (x *Index) Add(inst *cdata.Instance) error {
	addr, ok := inst.Addr()
	if !ok {
		return errors.New(errors.OpResolve, errors.KindUnresolvedAddress).
			Type(inst.Type().Name()).
			Detail("instance has no address to index").
			Build()
	}
	end, ok := abi.Extent(addr, inst.Type().Size())
	if !ok {
		return errors.InvalidInput(errors.OpResolve, "instance extent overflows the address space")
	}
	x.byAddr[addr] = inst
	x.entries = append(x.entries, indexEntry{start: addr, end: end, inst: inst})
	x.sorted = false
	return nil
}

// AddGraph indexes every addressed storage root reachable from root
// and returns how many it added.
func (x *Index) AddGraph(root *cdata.Instance) int {
	added := 0
	for inst := range root.All() {
		if inst != root && inst.Owner() != nil {
			continue
		}
		if _, ok := inst.Addr(); !ok {
			continue
		}
		if err := x.Add(inst); err == nil {
			added++
		}
	}
	return added
}

// At returns the instance whose address is exactly addr.
func (x *Index) At(addr uint64) (*cdata.Instance, bool) {
	inst, ok := x.byAddr[addr]
	return inst, ok
}

// Covering returns the instance whose occupied range contains addr,
// preferring an exact start match when ranges were indexed twice.
func (x *Index) Covering(addr uint64) (*cdata.Instance, bool) {
	if inst, ok := x.byAddr[addr]; ok {
		return inst, true
	}
	if !x.sorted {
		sort.Slice(x.entries, func(i, j int) bool {
			return x.entries[i].start < x.entries[j].start
		})
		x.sorted = true
	}
	i := sort.Search(len(x.entries), func(n int) bool {
		return x.entries[n].start > addr
	})
	if i > 0 && addr < x.entries[i-1].end {
		return x.entries[i-1].inst, true
	}
	return nil, false
}

// Len returns the number of indexed instances.
func (x *Index) Len() int { return len(x.entries) }

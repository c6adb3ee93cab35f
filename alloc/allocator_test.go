package alloc

import (
	stderrors "errors"
	"testing"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
)

func mustStruct(t *testing.T, name string, fields ...cdata.Field) *cdata.StructType {
	t.Helper()
	st, err := cdata.NewStruct(name, fields...)
	if err != nil {
		t.Fatalf("NewStruct(%s): %v", name, err)
	}
	return st
}

// The worked scenario: struct foo { int bar; char *baz; } is 16 bytes
// with 8-byte alignment. Allocating it at 0x2000 with a wired char
// target places the char immediately after the struct.
func TestAllocScenario(t *testing.T) {
	foo := mustStruct(t, "foo",
		cdata.Field{Name: "bar", Type: cdata.Int},
		cdata.Field{Name: "baz", Type: cdata.PointerTo(cdata.Char)},
	)
	if foo.Size() != 16 || foo.Align() != 8 {
		t.Fatalf("layout: size %d align %d, want 16 and 8", foo.Size(), foo.Align())
	}

	myFoo, err := foo.NewWith(cdata.Fields{"bar": 1234})
	if err != nil {
		t.Fatalf("NewWith: %v", err)
	}
	c := cdata.Char.New()
	baz, _ := myFoo.Field("baz")
	if err := baz.SetDeref(c); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	end, err := Alloc(myFoo, 0x2000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if end != 0x2011 {
		t.Errorf("end cursor = %#x, want 0x2011", end)
	}
	if addr, ok := myFoo.Addr(); !ok || addr != 0x2000 {
		t.Errorf("myFoo.Addr() = %#x, %v, want 0x2000", addr, ok)
	}
	if addr, ok := c.Addr(); !ok || addr != 0x2010 {
		t.Errorf("c.Addr() = %#x, %v, want 0x2010", addr, ok)
	}
}

func TestAllocAlignsEachInstance(t *testing.T) {
	// A 1-byte char before an 8-byte-aligned struct forces 7 bytes of
	// alignment padding between them.
	pair := mustStruct(t, "pair",
		cdata.Field{Name: "c", Type: cdata.PointerTo(cdata.Char)},
		cdata.Field{Name: "d", Type: cdata.PointerTo(cdata.Double)},
	)
	inst := pair.New()
	c := cdata.Char.New()
	d := cdata.Double.New()
	for name, target := range map[string]*cdata.Instance{"c": c, "d": d} {
		f, _ := inst.Field(name)
		if err := f.SetDeref(target); err != nil {
			t.Fatalf("SetDeref(%s): %v", name, err)
		}
	}

	end, err := Alloc(inst, 0x1000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	for _, target := range []*cdata.Instance{inst, c, d} {
		addr, ok := target.Addr()
		if !ok {
			t.Fatalf("%s has no address", target.Type().Name())
		}
		if align := uint64(target.Type().Align()); addr%align != 0 {
			t.Errorf("%s at %#x violates alignment %d", target.Type().Name(), addr, align)
		}
	}

	// pair is 16 bytes at 0x1000, char lands at 0x1010, double rounds
	// up to 0x1018 and ends at 0x1020.
	if addr, _ := c.Addr(); addr != 0x1010 {
		t.Errorf("char at %#x, want 0x1010", addr)
	}
	if addr, _ := d.Addr(); addr != 0x1018 {
		t.Errorf("double at %#x, want 0x1018", addr)
	}
	if end != 0x1020 {
		t.Errorf("end cursor = %#x, want 0x1020", end)
	}
}

func TestAllocIdempotent(t *testing.T) {
	list := mustStruct(t, "list",
		cdata.Field{Name: "head", Type: cdata.PointerTo(cdata.Int)},
	)
	root := list.New()
	head := cdata.Int.New()
	f, _ := root.Field("head")
	if err := f.SetDeref(head); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	end1, err := Alloc(root, 0x4000)
	if err != nil {
		t.Fatalf("first Alloc: %v", err)
	}
	addr1, _ := root.Addr()
	head1, _ := head.Addr()

	end2, err := Alloc(root, 0x4000)
	if err != nil {
		t.Fatalf("second Alloc: %v", err)
	}
	if end2 != end1 {
		t.Errorf("second end = %#x, first = %#x", end2, end1)
	}
	if a, _ := root.Addr(); a != addr1 {
		t.Errorf("root moved from %#x to %#x", addr1, a)
	}
	if a, _ := head.Addr(); a != head1 {
		t.Errorf("head moved from %#x to %#x", head1, a)
	}
}

func TestAllocManualAddressIsland(t *testing.T) {
	holder := mustStruct(t, "holder",
		cdata.Field{Name: "p", Type: cdata.PointerTo(cdata.Int)},
	)
	root := holder.New()
	island := cdata.Int.New()
	island.SetAddr(0xF000)
	f, _ := root.Field("p")
	if err := f.SetDeref(island); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	end, err := Alloc(root, 0x2000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if addr, _ := island.Addr(); addr != 0xF000 {
		t.Errorf("manual address changed to %#x", addr)
	}
	if addr, _ := root.Addr(); addr != 0x2000 {
		t.Errorf("root at %#x, want 0x2000", addr)
	}
	// the cursor covers the island so a chained call cannot land on it
	if end != 0xF004 {
		t.Errorf("end cursor = %#x, want 0xf004", end)
	}
}

func TestAllocAddressConflict(t *testing.T) {
	holder := mustStruct(t, "conflict_holder",
		cdata.Field{Name: "a", Type: cdata.PointerTo(cdata.Long)},
		cdata.Field{Name: "b", Type: cdata.PointerTo(cdata.Long)},
	)
	root := holder.New()
	x := cdata.Long.New()
	y := cdata.Long.New()
	x.SetAddr(0x3000)
	y.SetAddr(0x3004) // overlaps x's [0x3000, 0x3008)
	fa, _ := root.Field("a")
	fb, _ := root.Field("b")
	if err := fa.SetDeref(x); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}
	if err := fb.SetDeref(y); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	_, err := Alloc(root, 0x1000)
	if err == nil {
		t.Fatal("overlapping manual addresses did not fail")
	}
	if !stderrors.Is(err, errors.ErrAddressConflict) {
		t.Errorf("error %v is not an AddressConflict", err)
	}
}

func TestAllocRoutesAroundReservedRegion(t *testing.T) {
	a := New()
	if err := a.Reserve(0x1000, 0x100); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	inst := cdata.Long.New()
	end, err := a.Alloc(inst, 0x1000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if addr, _ := inst.Addr(); addr != 0x1100 {
		t.Errorf("instance at %#x, want 0x1100 after the hole", addr)
	}
	if end != 0x1108 {
		t.Errorf("end cursor = %#x, want 0x1108", end)
	}
}

func TestAllocChainedCalls(t *testing.T) {
	a := New()
	first := cdata.Long.New()
	second := cdata.Int.New()

	end, err := a.Alloc(first, 0x2000)
	if err != nil {
		t.Fatalf("first Alloc: %v", err)
	}
	end, err = a.Alloc(second, end)
	if err != nil {
		t.Fatalf("second Alloc: %v", err)
	}

	f, _ := first.Addr()
	s, _ := second.Addr()
	if f != 0x2000 || s != 0x2008 {
		t.Errorf("addresses %#x and %#x, want 0x2000 and 0x2008", f, s)
	}
	if end != 0x200c {
		t.Errorf("end cursor = %#x, want 0x200c", end)
	}
}

func TestAllocCyclicGraphTerminates(t *testing.T) {
	next := cdata.ForwardPointer("node")
	node := mustStruct(t, "node",
		cdata.Field{Name: "value", Type: cdata.Int},
		cdata.Field{Name: "next", Type: next},
	)
	if err := next.Bind(node); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	a := node.New()
	b := node.New()
	fa, _ := a.Field("next")
	fb, _ := b.Field("next")
	if err := fa.SetDeref(b); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}
	if err := fb.SetDeref(a); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	end, err := Alloc(a, 0x8000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	aAddr, _ := a.Addr()
	bAddr, _ := b.Addr()
	if aAddr != 0x8000 || bAddr != 0x8010 {
		t.Errorf("addresses %#x and %#x, want 0x8000 and 0x8010", aAddr, bAddr)
	}
	if end != 0x8020 {
		t.Errorf("end cursor = %#x, want 0x8020", end)
	}
}

func TestAllocSkipsOwnedInstances(t *testing.T) {
	inner := mustStruct(t, "inner", cdata.Field{Name: "x", Type: cdata.Int})
	outer := mustStruct(t, "outer",
		cdata.Field{Name: "first", Type: inner},
		cdata.Field{Name: "second", Type: inner},
	)
	root := outer.New()

	end, err := Alloc(root, 0x100)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if end != 0x108 {
		t.Errorf("end cursor = %#x, want 0x108 (one outer, nothing else)", end)
	}

	// owned fields derive addresses from the root instead of getting
	// their own reservations
	second, _ := root.Field("second")
	if addr, ok := second.Addr(); !ok || addr != 0x104 {
		t.Errorf("second.Addr() = %#x, %v, want derived 0x104", addr, ok)
	}
}

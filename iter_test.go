package cdata

import (
	"testing"
)

// list builds the linked-node type used by the traversal tests:
// struct node { int value; node *next; }.
func nodeType(t *testing.T) *StructType {
	t.Helper()
	next := ForwardPointer("node")
	node := mustStruct(t, "node",
		Field{"value", Int},
		Field{"next", next},
	)
	if err := next.Bind(node); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	return node
}

func collect(i *Instance) []*Instance {
	var out []*Instance
	for inst := range i.All() {
		out = append(out, inst)
	}
	return out
}

func TestAllOrder(t *testing.T) {
	foo := mustStruct(t, "foo",
		Field{"bar", Int},
		Field{"baz", PointerTo(Char)},
	)
	inst := foo.New()
	bar, _ := inst.Field("bar")
	baz, _ := inst.Field("baz")
	c := Char.New()
	if err := baz.SetDeref(c); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	got := collect(inst)
	want := []*Instance{inst, bar, baz, c}
	if len(got) != len(want) {
		t.Fatalf("length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: wrong instance", i)
		}
	}
}

func TestAllSharedTarget(t *testing.T) {
	two := mustStruct(t, "two",
		Field{"p", PointerTo(Char)},
		Field{"q", PointerTo(Char)},
	)
	inst := two.New()
	c := Char.New()
	p, _ := inst.Field("p")
	q, _ := inst.Field("q")
	if err := p.SetDeref(c); err != nil {
		t.Fatalf("SetDeref p: %v", err)
	}
	if err := q.SetDeref(c); err != nil {
		t.Fatalf("SetDeref q: %v", err)
	}

	seen := 0
	for inst := range inst.All() {
		if inst == c {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("shared target visited %d times, want 1", seen)
	}
}

func TestAllCycleTerminates(t *testing.T) {
	node := nodeType(t)

	a := node.New()
	b := node.New()
	an, _ := a.Field("next")
	bn, _ := b.Field("next")
	if err := an.SetDeref(b); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}
	if err := bn.SetDeref(a); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	got := collect(a)
	// a, a.value, a.next, b, b.value, b.next
	if len(got) != 6 {
		t.Fatalf("length: got %d, want 6", len(got))
	}
	if got[0] != a || got[3] != b {
		t.Error("traversal order: want a before b")
	}
}

func TestAllRestartable(t *testing.T) {
	node := nodeType(t)
	a := node.New()
	an, _ := a.Field("next")
	if err := an.SetDeref(a); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	seq := a.All()
	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}
	if first != second || first != 3 {
		t.Errorf("runs: got %d then %d, want 3 both times", first, second)
	}

	// early break must not disturb later runs
	for range seq {
		break
	}
	third := 0
	for range seq {
		third++
	}
	if third != 3 {
		t.Errorf("after break: got %d, want 3", third)
	}
}

func TestTotalSize(t *testing.T) {
	foo := mustStruct(t, "foo",
		Field{"bar", Int},
		Field{"baz", PointerTo(Char)},
	)
	inst := foo.New()
	baz, _ := inst.Field("baz")
	c := Char.New()
	if err := baz.SetDeref(c); err != nil {
		t.Fatalf("SetDeref: %v", err)
	}

	if got := TotalSize(inst); got != 17 {
		t.Errorf("TotalSize: got %d, want 17", got)
	}

	// an owned field alone is its own storage
	bar, _ := inst.Field("bar")
	if got := TotalSize(bar); got != 4 {
		t.Errorf("TotalSize(field): got %d, want 4", got)
	}
}

func TestIterTypes(t *testing.T) {
	t.Run("dependency_order", func(t *testing.T) {
		foo := mustStruct(t, "foo",
			Field{"bar", Int},
			Field{"baz", PointerTo(Char)},
		)
		var names []string
		for typ := range IterTypes(foo) {
			names = append(names, typ.Name())
		}
		want := []string{"int", "char", "char*", "foo"}
		if len(names) != len(want) {
			t.Fatalf("length: got %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("self_referential", func(t *testing.T) {
		node := nodeType(t)
		var names []string
		for typ := range IterTypes(node) {
			names = append(names, typ.Name())
		}
		want := []string{"int", "node*", "node"}
		if len(names) != len(want) {
			t.Fatalf("length: got %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("position %d: got %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("shared_dependency_once", func(t *testing.T) {
		inner := mustStruct(t, "inner", Field{"x", Int})
		outer := mustStruct(t, "outer",
			Field{"a", inner},
			Field{"b", inner},
		)
		count := 0
		for typ := range IterTypes(outer) {
			if typ.Name() == "inner" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("inner yielded %d times, want 1", count)
		}
	})
}

package cdata

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	t.Run("struct_with_values", func(t *testing.T) {
		foo := mustStruct(t, "foo",
			Field{"bar", Int},
			Field{"baz", PointerTo(Char)},
		)
		inst, err := foo.NewWith(Fields{"bar": 1234})
		if err != nil {
			t.Fatalf("NewWith: %v", err)
		}
		if got := inst.String(); got != "{bar: 1234, baz: NULL}" {
			t.Errorf("String: got %q", got)
		}
	})

	t.Run("pointer_shows_target_value", func(t *testing.T) {
		p := PointerTo(Int).New()
		target := Int.New()
		if err := target.SetInt(-5); err != nil {
			t.Fatalf("SetInt: %v", err)
		}
		if err := p.SetDeref(target); err != nil {
			t.Fatalf("SetDeref: %v", err)
		}
		if got := p.String(); got != "-5" {
			t.Errorf("String: got %q, want -5", got)
		}
	})

	t.Run("pointer_with_raw_address", func(t *testing.T) {
		p := PointerTo(Int).New()
		p.SetTargetAddr(0x2010)
		if got := p.String(); got != "0x2010" {
			t.Errorf("String: got %q, want 0x2010", got)
		}
	})

	t.Run("cycle_renders_finitely", func(t *testing.T) {
		node := nodeType(t)
		a := node.New()
		an, _ := a.Field("next")
		if err := an.SetDeref(a); err != nil {
			t.Fatalf("SetDeref: %v", err)
		}
		got := a.String()
		if !strings.Contains(got, "...") {
			t.Errorf("String: got %q, want cycle marker", got)
		}
	})

	t.Run("char_array_as_string", func(t *testing.T) {
		arr := mustArray(t, Char, 4)
		inst := arr.New()
		if err := inst.Set("hi"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := inst.String(); got != `"hi\x00\x00"` {
			t.Errorf("String: got %q", got)
		}
	})

	t.Run("int_array", func(t *testing.T) {
		arr := mustArray(t, Int, 3)
		inst := arr.New()
		e1, _ := inst.Index(1)
		if err := e1.SetInt(9); err != nil {
			t.Fatalf("SetInt: %v", err)
		}
		if got := inst.String(); got != "[0, 9, 0]" {
			t.Errorf("String: got %q", got)
		}
	})

	t.Run("enum_member_name", func(t *testing.T) {
		e, err := NewEnum("state", 4, EnumMember{Name: "IDLE"}, EnumMember{Name: "BUSY"})
		if err != nil {
			t.Fatalf("NewEnum: %v", err)
		}
		inst := e.New()
		if err := inst.SetEnum("BUSY"); err != nil {
			t.Fatalf("SetEnum: %v", err)
		}
		if got := inst.String(); got != "BUSY" {
			t.Errorf("String: got %q, want BUSY", got)
		}
		if err := inst.Set(42); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := inst.String(); got != "42" {
			t.Errorf("String: got %q, want 42", got)
		}
	})

	t.Run("bool_and_char", func(t *testing.T) {
		b := Bool.New()
		if err := b.SetBool(true); err != nil {
			t.Fatalf("SetBool: %v", err)
		}
		if got := b.String(); got != "true" {
			t.Errorf("bool: got %q", got)
		}

		c := Char.New()
		if err := c.Set('x'); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if got := c.String(); got != "'x'" {
			t.Errorf("char: got %q", got)
		}
	})
}

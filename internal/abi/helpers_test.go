package abi

import (
	"math"
	"testing"
)

func TestAlignTo(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		align  int
		want   int
	}{
		{"zero_offset", 0, 8, 0},
		{"already_aligned", 16, 8, 16},
		{"round_up", 1, 4, 4},
		{"round_up_by_7", 9, 8, 16},
		{"align_one", 13, 1, 13},
		{"align_zero", 13, 0, 13},
		{"non_power_of_two", 5, 3, 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AlignTo(tc.offset, tc.align); got != tc.want {
				t.Errorf("AlignTo(%d, %d) = %d, want %d", tc.offset, tc.align, got, tc.want)
			}
		})
	}
}

func TestAlignAddr(t *testing.T) {
	if got := AlignAddr(0x2001, 8); got != 0x2008 {
		t.Errorf("AlignAddr(0x2001, 8) = %#x, want 0x2008", got)
	}
	if got := AlignAddr(0x2000, 8); got != 0x2000 {
		t.Errorf("AlignAddr(0x2000, 8) = %#x, want 0x2000", got)
	}
	if got := AlignAddr(7, 0); got != 7 {
		t.Errorf("AlignAddr(7, 0) = %d, want 7", got)
	}
}

func TestSafeMul(t *testing.T) {
	if v, ok := SafeMul(16, 4); !ok || v != 64 {
		t.Errorf("SafeMul(16, 4) = %d, %v", v, ok)
	}
	if _, ok := SafeMul(math.MaxInt, 2); ok {
		t.Error("SafeMul(MaxInt, 2) should overflow")
	}
	if _, ok := SafeMul(-1, 2); ok {
		t.Error("SafeMul(-1, 2) should be rejected")
	}
	if v, ok := SafeMul(0, math.MaxInt); !ok || v != 0 {
		t.Errorf("SafeMul(0, MaxInt) = %d, %v", v, ok)
	}
}

func TestExtent(t *testing.T) {
	if end, ok := Extent(0x2000, 16); !ok || end != 0x2010 {
		t.Errorf("Extent(0x2000, 16) = %#x, %v", end, ok)
	}
	if _, ok := Extent(math.MaxUint64, 1); ok {
		t.Error("Extent(MaxUint64, 1) should overflow")
	}
}

func TestIsCIdent(t *testing.T) {
	valid := []string{"x", "_x", "foo_bar", "Foo9", "_"}
	invalid := []string{"", "9x", "foo-bar", "foo bar", "foo.bar", "café"}

	for _, s := range valid {
		if !IsCIdent(s) {
			t.Errorf("IsCIdent(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsCIdent(s) {
			t.Errorf("IsCIdent(%q) = true, want false", s)
		}
	}
}

func TestSignedBounds(t *testing.T) {
	tests := []struct {
		size int
		min  int64
		max  int64
	}{
		{1, -128, 127},
		{2, -32768, 32767},
		{4, math.MinInt32, math.MaxInt32},
		{8, math.MinInt64, math.MaxInt64},
	}
	for _, tc := range tests {
		if got := MinSignedValue(tc.size); got != tc.min {
			t.Errorf("MinSignedValue(%d) = %d, want %d", tc.size, got, tc.min)
		}
		if got := MaxSignedValue(tc.size); got != tc.max {
			t.Errorf("MaxSignedValue(%d) = %d, want %d", tc.size, got, tc.max)
		}
	}
}

func TestMaxUnsignedValue(t *testing.T) {
	if got := MaxUnsignedValue(1); got != 255 {
		t.Errorf("MaxUnsignedValue(1) = %d, want 255", got)
	}
	if got := MaxUnsignedValue(8); got != math.MaxUint64 {
		t.Errorf("MaxUnsignedValue(8) = %d", got)
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		name string
		raw  uint64
		size int
		want int64
	}{
		{"positive_byte", 0x7f, 1, 127},
		{"negative_byte", 0xff, 1, -1},
		{"negative_short", 0x8000, 2, -32768},
		{"negative_int", 0xfffffb2e, 4, -1234},
		{"full_width", 0xffffffffffffffff, 8, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SignExtend(tc.raw, tc.size); got != tc.want {
				t.Errorf("SignExtend(%#x, %d) = %d, want %d", tc.raw, tc.size, got, tc.want)
			}
		})
	}
}

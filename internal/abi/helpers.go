package abi

import (
	"math"

	"fortio.org/safecast"
)

// AlignTo rounds offset up to the next multiple of align. Alignments of zero
// or one leave the offset unchanged. Alignments are not required to be powers
// of two, so this uses modular arithmetic rather than bit masking.
func AlignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	r := offset % align
	if r == 0 {
		return offset
	}
	return offset + (align - r)
}

// AlignAddr rounds a 64-bit address up to the next multiple of align.
func AlignAddr(addr uint64, align int) uint64 {
	if align <= 1 {
		return addr
	}
	a, err := safecast.Conv[uint64](align)
	if err != nil {
		return addr
	}
	r := addr % a
	if r == 0 {
		return addr
	}
	return addr + (a - r)
}

// SafeMul multiplies two non-negative ints, reporting overflow.
func SafeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if b != 0 && a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// SafeAddU64 adds two addresses, reporting overflow.
func SafeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// Extent returns the exclusive end address of a region of the given size,
// reporting overflow of the 64-bit address space.
func Extent(addr uint64, size int) (uint64, bool) {
	s, err := safecast.Conv[uint64](size)
	if err != nil {
		return 0, false
	}
	return SafeAddU64(addr, s)
}

// IsCIdent reports whether s is a valid C identifier.
func IsCIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// MinSignedValue and MaxSignedValue bound the representable range of a
// little- or big-endian two's complement integer of the given byte size.
func MinSignedValue(size int) int64 {
	if size >= 8 {
		return math.MinInt64
	}
	return -(int64(1) << (size*8 - 1))
}

func MaxSignedValue(size int) int64 {
	if size >= 8 {
		return math.MaxInt64
	}
	return (int64(1) << (size*8 - 1)) - 1
}

// MaxUnsignedValue bounds the representable range of an unsigned integer of
// the given byte size.
func MaxUnsignedValue(size int) uint64 {
	if size >= 8 {
		return math.MaxUint64
	}
	return (uint64(1) << (size * 8)) - 1
}

// SignExtend interprets the low size bytes of raw as a two's complement
// signed integer and extends it to 64 bits.
func SignExtend(raw uint64, size int) int64 {
	if size >= 8 {
		return int64(raw)
	}
	shift := uint(64 - size*8)
	return int64(raw<<shift) >> shift
}

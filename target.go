package cdata

import "github.com/membank/cdata/errors"

// Target fixes the platform-dependent parts of a layout: pointer width and
// alignment. The zero value behaves like DefaultTarget.
type Target struct {
	PtrSize  int
	PtrAlign int
}

// DefaultTarget is the LP64 model used by the predeclared native types.
var DefaultTarget = Target{PtrSize: 8, PtrAlign: 8}

// NewTarget validates a pointer width and alignment pair.
func NewTarget(ptrSize, ptrAlign int) (Target, error) {
	switch ptrSize {
	case 1, 2, 4, 8:
	default:
		return Target{}, errors.InvalidDefinition("target",
			"pointer size must be 1, 2, 4, or 8 bytes")
	}
	if ptrAlign < 1 || ptrAlign > ptrSize || ptrSize%ptrAlign != 0 {
		return Target{}, errors.InvalidDefinition("target",
			"pointer alignment must divide pointer size")
	}
	return Target{PtrSize: ptrSize, PtrAlign: ptrAlign}, nil
}

// norm substitutes DefaultTarget for the zero value.
func (t Target) norm() Target {
	if t.PtrSize == 0 {
		return DefaultTarget
	}
	return t
}

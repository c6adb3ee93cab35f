package cdata

import (
	"fmt"

	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// ArrayType is a fixed-length sequence of one element type. Elements
// are placed at multiples of the stride, the element size rounded up to
// the element alignment.
type ArrayType struct {
	elem   Type
	count  int
	stride int
	size   int
}

// NewArray defines an array of count elements. Zero-length arrays are
// rejected.
func NewArray(elem Type, count int) (*ArrayType, error) {
	if elem == nil {
		return nil, errors.InvalidDefinition("array", "nil element type")
	}
	if count < 1 {
		return nil, errors.InvalidDefinition("array",
			fmt.Sprintf("length must be positive, got %d", count))
	}
	stride := abi.AlignTo(elem.Size(), elem.Align())
	size, ok := abi.SafeMul(stride, count)
	if !ok {
		return nil, errors.InvalidDefinition("array", "total size overflows")
	}
	return &ArrayType{elem: elem, count: count, stride: stride, size: size}, nil
}

func (at *ArrayType) Name() string {
	return fmt.Sprintf("%s[%d]", at.elem.Name(), at.count)
}

func (at *ArrayType) Kind() Kind   { return KindArray }
func (at *ArrayType) Size() int    { return at.size }
func (at *ArrayType) Align() int   { return at.elem.Align() }
func (at *ArrayType) Native() bool { return false }

// Elem returns the element type.
func (at *ArrayType) Elem() Type { return at.elem }

// Count returns the declared length.
func (at *ArrayType) Count() int { return at.count }

// Stride returns the element-to-element distance in bytes.
func (at *ArrayType) Stride() int { return at.stride }

// New returns an instance with every element recursively zero-valued.
func (at *ArrayType) New() *Instance {
	inst := &Instance{typ: at}
	inst.kids = make([]*Instance, at.count)
	for i := range inst.kids {
		k := at.elem.New()
		k.owner = inst
		k.slot = i
		inst.kids[i] = k
	}
	return inst
}

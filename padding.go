package cdata

import (
	"fmt"

	"github.com/membank/cdata/errors"
)

// PaddingType is an explicit run of bytes with no interpretation. A
// padding instance remembers whatever was unpacked into it and
// reproduces those bytes when packed; fresh instances pack as zeros.
// It declares as a char array and is native: it never appears in
// generated definitions.
type PaddingType struct {
	length int
}

// NewPadding defines a padding run of length bytes.
func NewPadding(length int) (*PaddingType, error) {
	if length < 1 {
		return nil, errors.InvalidDefinition("padding",
			fmt.Sprintf("length must be positive, got %d", length))
	}
	return &PaddingType{length: length}, nil
}

func (pt *PaddingType) Name() string { return fmt.Sprintf("char[%d]", pt.length) }
func (pt *PaddingType) Kind() Kind   { return KindPadding }
func (pt *PaddingType) Size() int    { return pt.length }
func (pt *PaddingType) Align() int   { return 1 }
func (pt *PaddingType) Native() bool { return true }

// New returns an instance holding zero bytes.
func (pt *PaddingType) New() *Instance {
	return &Instance{typ: pt, raw: make([]byte, pt.length)}
}

package cdata

import (
	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// UnionType is an ordered sequence of named fields that all share
// offset 0. Size is the largest field size rounded up to the union's
// alignment, which is the maximum field alignment. Each field instance
// keeps its own value; packing serializes every field over the shared
// bytes in declaration order.
type UnionType struct {
	// Doc is an optional comment emitted above the generated C
	// definition.
	Doc string

	name   string
	fields []Field
	index  map[string]int
	size   int
	align  int
}

// NewUnion defines a union type.
func NewUnion(name string, fields ...Field) (*UnionType, error) {
	if e := checkName("union", name); e != nil {
		return nil, e
	}
	if e := checkFields(name, fields); e != nil {
		return nil, e
	}

	ut := &UnionType{
		name:   name,
		fields: append([]Field(nil), fields...),
		index:  make(map[string]int, len(fields)),
		align:  1,
	}

	maxSize := 0
	for i, f := range fields {
		if s := f.Type.Size(); s > maxSize {
			maxSize = s
		}
		if a := f.Type.Align(); a > ut.align {
			ut.align = a
		}
		ut.index[f.Name] = i
	}
	ut.size = abi.AlignTo(maxSize, ut.align)
	return ut, nil
}

func (ut *UnionType) Name() string { return ut.name }
func (ut *UnionType) Kind() Kind   { return KindUnion }
func (ut *UnionType) Size() int    { return ut.size }
func (ut *UnionType) Align() int   { return ut.align }
func (ut *UnionType) Native() bool { return false }

// Fields returns the declared fields in order.
func (ut *UnionType) Fields() []Field {
	return append([]Field(nil), ut.fields...)
}

// New returns an instance with every field recursively zero-valued.
func (ut *UnionType) New() *Instance {
	inst := &Instance{typ: ut}
	inst.adoptChildren(ut.fields)
	return inst
}

// NewWith returns an instance with at most one field override, the C
// union initialization rule.
func (ut *UnionType) NewWith(overrides Fields) (*Instance, error) {
	if len(overrides) > 1 {
		return nil, errors.New(errors.OpBuild, errors.KindInvalidInput).
			Type(ut.name).
			Detail("a union initializes at most one field, got %d", len(overrides)).
			Build()
	}
	inst := ut.New()
	if err := inst.applyOverrides(overrides); err != nil {
		return nil, err
	}
	return inst, nil
}

package cdata

import (
	"github.com/membank/cdata/internal/abi"
)

// StructType is an ordered sequence of named fields laid out with C
// padding rules. Field offsets are computed at construction: each
// field's offset is its predecessor's end rounded up to the field's
// alignment, and the total size rounds up to the struct's alignment,
// which is the maximum field alignment.
type StructType struct {
	// Doc is an optional comment emitted above the generated C
	// definition.
	Doc string

	name    string
	fields  []Field
	offsets []int
	index   map[string]int
	size    int
	align   int
}

// NewStruct defines a struct type. The field order is the declaration
// order and determines the memory layout. An empty field list yields a
// zero-size struct with alignment 1.
func NewStruct(name string, fields ...Field) (*StructType, error) {
	if e := checkName("struct", name); e != nil {
		return nil, e
	}
	if e := checkFields(name, fields); e != nil {
		return nil, e
	}

	st := &StructType{
		name:    name,
		fields:  append([]Field(nil), fields...),
		offsets: make([]int, len(fields)),
		index:   make(map[string]int, len(fields)),
		align:   1,
	}

	cursor := 0
	for i, f := range fields {
		a := f.Type.Align()
		cursor = abi.AlignTo(cursor, a)
		st.offsets[i] = cursor
		cursor += f.Type.Size()
		if a > st.align {
			st.align = a
		}
		st.index[f.Name] = i
	}
	st.size = abi.AlignTo(cursor, st.align)
	return st, nil
}

func (st *StructType) Name() string { return st.name }
func (st *StructType) Kind() Kind   { return KindStruct }
func (st *StructType) Size() int    { return st.size }
func (st *StructType) Align() int   { return st.align }
func (st *StructType) Native() bool { return false }

// Fields returns the declared fields in order.
func (st *StructType) Fields() []Field {
	return append([]Field(nil), st.fields...)
}

// Offsets returns each field's byte offset, index-aligned with Fields.
func (st *StructType) Offsets() []int {
	return append([]int(nil), st.offsets...)
}

// OffsetOf returns the byte offset of a named field.
func (st *StructType) OffsetOf(name string) (int, bool) {
	i, ok := st.index[name]
	if !ok {
		return 0, false
	}
	return st.offsets[i], true
}

// New returns an instance with every field recursively zero-valued.
func (st *StructType) New() *Instance {
	inst := &Instance{typ: st}
	inst.adoptChildren(st.fields)
	return inst
}

// NewWith returns an instance with the given field overrides applied.
// Override values follow Instance.Set conversions; an *Instance value
// is adopted in place of the default child and must match the field's
// type exactly.
func (st *StructType) NewWith(overrides Fields) (*Instance, error) {
	inst := st.New()
	if err := inst.applyOverrides(overrides); err != nil {
		return nil, err
	}
	return inst, nil
}

package cdata

import (
	"math"
	"sort"

	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Instance is a runtime value bound to exactly one Type. Instances
// compare by identity, never by value: two structurally identical
// instances are distinct, which is what makes shared references and
// cyclic pointer graphs well defined.
//
// Struct, union, and array instances exclusively own their children.
// Pointer instances reference their target without owning it and
// additionally carry a stored target address that exists independently
// of the reference (a pointer unpacked from bytes knows an address but
// no instance; a freshly wired pointer knows an instance but perhaps no
// address yet).
type Instance struct {
	typ   Type
	owner *Instance
	slot  int

	addr    uint64
	hasAddr bool

	// scalar value bits for primitives and enums
	bits uint64
	// recorded bytes for padding
	raw []byte
	// owned children for structs, unions, and arrays
	kids []*Instance

	// pointer state
	deref     *Instance
	target    uint64
	hasTarget bool
}

// Type returns the type this instance is bound to.
func (i *Instance) Type() Type { return i.typ }

// Owner returns the struct, union, or array instance this one is a
// field or element of, nil for storage roots.
func (i *Instance) Owner() *Instance { return i.owner }

// adoptChildren builds and owns one child per field.
func (i *Instance) adoptChildren(fields []Field) {
	i.kids = make([]*Instance, len(fields))
	for n, f := range fields {
		k := f.Type.New()
		k.owner = i
		k.slot = n
		i.kids[n] = k
	}
}

// Addr returns the instance's memory address. An owned instance
// without an explicit address derives one from its owner: the owner's
// address plus the field or element offset. Returns false while
// neither is available.
func (i *Instance) Addr() (uint64, bool) {
	if i.hasAddr {
		return i.addr, true
	}
	if i.owner != nil {
		base, ok := i.owner.Addr()
		if !ok {
			return 0, false
		}
		return base + uint64(i.ownerOffset()), true
	}
	return 0, false
}

// SetAddr assigns an explicit memory address. The codec never calls
// this; only the allocator and callers do.
func (i *Instance) SetAddr(addr uint64) {
	i.addr = addr
	i.hasAddr = true
}

// ClearAddr removes an explicit address. An owned instance falls back
// to deriving its address from its owner.
func (i *Instance) ClearAddr() {
	i.addr = 0
	i.hasAddr = false
}

// ownerOffset returns this instance's byte offset inside its owner.
func (i *Instance) ownerOffset() int {
	switch t := Underlying(i.owner.typ).(type) {
	case *StructType:
		return t.offsets[i.slot]
	case *UnionType:
		return 0
	case *ArrayType:
		return i.slot * t.stride
	}
	return 0
}

// Scalar reads. Reads are lenient: they convert the stored value to
// the requested shape and return zero for non-scalar instances. Writes
// are the type-checked side.

// Int returns the value as a signed integer.
func (i *Instance) Int() int64 {
	switch t := Underlying(i.typ).(type) {
	case *Primitive:
		switch t.class {
		case ClassInt:
			return abi.SignExtend(i.bits, t.size)
		case ClassFloat:
			return int64(math.Float64frombits(i.bits))
		default:
			return int64(i.bits)
		}
	case *EnumType:
		return int64(i.bits)
	}
	return 0
}

// Uint returns the value as an unsigned integer.
func (i *Instance) Uint() uint64 {
	switch t := Underlying(i.typ).(type) {
	case *Primitive:
		switch t.class {
		case ClassInt:
			return uint64(abi.SignExtend(i.bits, t.size))
		case ClassFloat:
			return uint64(math.Float64frombits(i.bits))
		default:
			return i.bits
		}
	case *EnumType:
		return i.bits
	}
	return 0
}

// Float returns the value as a float.
func (i *Instance) Float() float64 {
	switch t := Underlying(i.typ).(type) {
	case *Primitive:
		switch t.class {
		case ClassFloat:
			return math.Float64frombits(i.bits)
		case ClassInt:
			return float64(abi.SignExtend(i.bits, t.size))
		default:
			return float64(i.bits)
		}
	case *EnumType:
		return float64(i.bits)
	}
	return 0
}

// Bool returns whether the value is non-zero.
func (i *Instance) Bool() bool {
	switch Underlying(i.typ).(type) {
	case *Primitive, *EnumType:
		return i.bits != 0
	}
	return false
}

// Byte returns the value as a single byte, for char instances.
func (i *Instance) Byte() byte { return byte(i.bits) }

// Bytes returns a copy of a padding instance's recorded bytes, nil for
// other kinds.
func (i *Instance) Bytes() []byte {
	if i.raw == nil {
		return nil
	}
	return append([]byte(nil), i.raw...)
}

// SetInt assigns a signed integer, range-checked against the type.
func (i *Instance) SetInt(v int64) error {
	if e := i.setScalar(scalarVal{i: v, isInt: true}); e != nil {
		return e
	}
	return nil
}

// SetUint assigns an unsigned integer, range-checked against the type.
func (i *Instance) SetUint(v uint64) error {
	if e := i.setScalar(scalarVal{u: v, isUint: true}); e != nil {
		return e
	}
	return nil
}

// SetFloat assigns a floating point value. Only float instances accept
// it; 4-byte floats reject values outside float32 range.
func (i *Instance) SetFloat(v float64) error {
	if e := i.setScalar(scalarVal{f: v, isFloat: true}); e != nil {
		return e
	}
	return nil
}

// SetBool assigns a truth value to a bool instance.
func (i *Instance) SetBool(v bool) error {
	if e := i.setScalar(scalarVal{b: v, isBool: true}); e != nil {
		return e
	}
	return nil
}

// scalarVal carries one Go scalar through the class dispatch.
type scalarVal struct {
	i       int64
	u       uint64
	f       float64
	b       bool
	isInt   bool
	isUint  bool
	isFloat bool
	isBool  bool
}

func (i *Instance) setScalar(v scalarVal) *errors.Error {
	switch t := Underlying(i.typ).(type) {
	case *Primitive:
		return i.setPrimitive(t, v)
	case *EnumType:
		return i.setEnumValue(t, v)
	}
	return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), v.describe())
}

func (v scalarVal) describe() any {
	switch {
	case v.isInt:
		return v.i
	case v.isUint:
		return v.u
	case v.isFloat:
		return v.f
	default:
		return v.b
	}
}

func (i *Instance) setPrimitive(t *Primitive, v scalarVal) *errors.Error {
	switch t.class {
	case ClassInt:
		var n int64
		switch {
		case v.isInt:
			n = v.i
		case v.isUint:
			if v.u > uint64(abi.MaxSignedValue(t.size)) {
				return i.rangeError(t, v.u)
			}
			n = int64(v.u)
		default:
			return errors.TypeMismatch(errors.OpSet, nil, t.name, v.describe())
		}
		if n < abi.MinSignedValue(t.size) || n > abi.MaxSignedValue(t.size) {
			return i.rangeError(t, n)
		}
		i.bits = uint64(n)

	case ClassUint, ClassChar:
		var n uint64
		switch {
		case v.isUint:
			n = v.u
		case v.isInt:
			if v.i < 0 {
				return i.rangeError(t, v.i)
			}
			n = uint64(v.i)
		default:
			return errors.TypeMismatch(errors.OpSet, nil, t.name, v.describe())
		}
		if n > abi.MaxUnsignedValue(t.size) {
			return i.rangeError(t, n)
		}
		i.bits = n

	case ClassFloat:
		var f float64
		switch {
		case v.isFloat:
			f = v.f
		case v.isInt:
			f = float64(v.i)
		case v.isUint:
			f = float64(v.u)
		default:
			return errors.TypeMismatch(errors.OpSet, nil, t.name, v.describe())
		}
		if t.size == 4 {
			if !math.IsInf(f, 0) && math.IsInf(float64(float32(f)), 0) {
				return i.rangeError(t, f)
			}
			// quantize so pack and unpack reproduce the stored value
			f = float64(float32(f))
		}
		i.bits = math.Float64bits(f)

	case ClassBool:
		switch {
		case v.isBool:
			if v.b {
				i.bits = 1
			} else {
				i.bits = 0
			}
		case v.isInt, v.isUint:
			if v.i != 0 || v.u != 0 {
				i.bits = 1
			} else {
				i.bits = 0
			}
		default:
			return errors.TypeMismatch(errors.OpSet, nil, t.name, v.describe())
		}
	}
	return nil
}

func (i *Instance) setEnumValue(t *EnumType, v scalarVal) *errors.Error {
	var n uint64
	switch {
	case v.isUint:
		n = v.u
	case v.isInt:
		if v.i < 0 {
			return i.rangeError(t, v.i)
		}
		n = uint64(v.i)
	default:
		return errors.TypeMismatch(errors.OpSet, nil, t.name, v.describe())
	}
	if n > maxForSize(t.size) {
		return i.rangeError(t, n)
	}
	i.bits = n
	return nil
}

func (i *Instance) rangeError(t Type, v any) *errors.Error {
	return errors.New(errors.OpSet, errors.KindTypeMismatch).
		Type(t.Name()).
		Value(v).
		Detail("value %v out of range", v).
		Build()
}

// SetEnum assigns a declared enum member by name.
func (i *Instance) SetEnum(name string) error {
	et, ok := Underlying(i.typ).(*EnumType)
	if !ok {
		return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), name)
	}
	v, ok := et.Lookup(name)
	if !ok {
		return errors.New(errors.OpSet, errors.KindTypeMismatch).
			Type(et.name).
			Value(name).
			Detail("no member named %q", name).
			Build()
	}
	i.bits = v
	return nil
}

// EnumName returns the declared member name for the current value.
func (i *Instance) EnumName() (string, bool) {
	et, ok := Underlying(i.typ).(*EnumType)
	if !ok {
		return "", false
	}
	return et.NameOf(i.bits)
}

// SetBytes assigns raw bytes. Padding instances require the exact
// length; char arrays accept up to their length and zero-fill the rest.
func (i *Instance) SetBytes(b []byte) error {
	if e := i.setBytes(b); e != nil {
		return e
	}
	return nil
}

func (i *Instance) setBytes(b []byte) *errors.Error {
	switch t := Underlying(i.typ).(type) {
	case *PaddingType:
		if len(b) != t.length {
			return errors.SizeMismatch(errors.OpSet, nil, t.Name(), len(b), t.length)
		}
		copy(i.raw, b)
		return nil
	case *ArrayType:
		ep, ok := Underlying(t.elem).(*Primitive)
		if !ok || ep.size != 1 {
			return errors.TypeMismatch(errors.OpSet, nil, t.Name(), b)
		}
		if len(b) > t.count {
			return errors.SizeMismatch(errors.OpSet, nil, t.Name(), len(b), t.count)
		}
		for n, k := range i.kids {
			if n < len(b) {
				k.bits = uint64(b[n])
			} else {
				k.bits = 0
			}
		}
		return nil
	}
	return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), b)
}

// Set assigns a Go value, dispatching on the instance's kind:
//
//   - primitives and enums take integers, floats, bools, bytes, and
//     runes per their class; enums additionally take a member name.
//   - char arrays take a string or byte slice of at most their length.
//   - padding takes a byte slice of exactly its length.
//   - pointers take nil (clear) or a target *Instance.
//   - structs and unions take a Fields map of nested overrides.
//
// Everything else is a TypeMismatch.
func (i *Instance) Set(v any) error {
	if e := i.set(v); e != nil {
		return e
	}
	return nil
}

func (i *Instance) set(v any) *errors.Error {
	switch t := Underlying(i.typ).(type) {
	case *Primitive, *EnumType:
		return i.setScalarAny(v)

	case *PaddingType:
		b, ok := v.([]byte)
		if !ok {
			return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), v)
		}
		return i.setBytes(b)

	case *ArrayType:
		switch b := v.(type) {
		case string:
			return i.setBytes([]byte(b))
		case []byte:
			return i.setBytes(b)
		}
		return errors.TypeMismatch(errors.OpSet, nil, t.Name(), v)

	case *PointerType:
		switch tv := v.(type) {
		case nil:
			return i.setDeref(nil)
		case *Instance:
			return i.setDeref(tv)
		}
		return errors.TypeMismatch(errors.OpSet, nil, t.Name(), v)

	case *StructType:
		switch m := v.(type) {
		case Fields:
			return i.applyOverrides(m)
		case map[string]any:
			return i.applyOverrides(m)
		}
		return errors.TypeMismatch(errors.OpSet, nil, t.Name(), v)

	case *UnionType:
		var m Fields
		switch mv := v.(type) {
		case Fields:
			m = mv
		case map[string]any:
			m = mv
		default:
			return errors.TypeMismatch(errors.OpSet, nil, t.Name(), v)
		}
		if len(m) > 1 {
			return errors.New(errors.OpSet, errors.KindInvalidInput).
				Type(t.Name()).
				Detail("a union takes at most one field, got %d", len(m)).
				Build()
		}
		return i.applyOverrides(m)
	}
	return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), v)
}

// setScalarAny folds the Go numeric types down to one scalarVal.
func (i *Instance) setScalarAny(v any) *errors.Error {
	switch n := v.(type) {
	case int:
		return i.setScalar(scalarVal{i: int64(n), isInt: true})
	case int8:
		return i.setScalar(scalarVal{i: int64(n), isInt: true})
	case int16:
		return i.setScalar(scalarVal{i: int64(n), isInt: true})
	case int32:
		return i.setScalar(scalarVal{i: int64(n), isInt: true})
	case int64:
		return i.setScalar(scalarVal{i: n, isInt: true})
	case uint:
		return i.setScalar(scalarVal{u: uint64(n), isUint: true})
	case uint8:
		return i.setScalar(scalarVal{u: uint64(n), isUint: true})
	case uint16:
		return i.setScalar(scalarVal{u: uint64(n), isUint: true})
	case uint32:
		return i.setScalar(scalarVal{u: uint64(n), isUint: true})
	case uint64:
		return i.setScalar(scalarVal{u: n, isUint: true})
	case float32:
		return i.setScalar(scalarVal{f: float64(n), isFloat: true})
	case float64:
		return i.setScalar(scalarVal{f: n, isFloat: true})
	case bool:
		return i.setScalar(scalarVal{b: n, isBool: true})
	case string:
		if et, ok := Underlying(i.typ).(*EnumType); ok {
			if val, found := et.Lookup(n); found {
				i.bits = val
				return nil
			}
			return errors.New(errors.OpSet, errors.KindTypeMismatch).
				Type(et.name).
				Value(n).
				Detail("no member named %q", n).
				Build()
		}
		if p, ok := Underlying(i.typ).(*Primitive); ok && p.class == ClassChar && len(n) == 1 {
			return i.setScalar(scalarVal{u: uint64(n[0]), isUint: true})
		}
	}
	return errors.TypeMismatch(errors.OpSet, nil, i.typ.Name(), v)
}

// Field returns the owned child with the given name.
func (i *Instance) Field(name string) (*Instance, error) {
	idx, e := i.fieldIndex(errors.OpAccess, name)
	if e != nil {
		return nil, e
	}
	return i.kids[idx], nil
}

// FieldNames returns the declared field names in order, nil for
// non-composite instances.
func (i *Instance) FieldNames() []string {
	fs := compositeFields(i.typ)
	if fs == nil {
		return nil
	}
	names := make([]string, len(fs))
	for n, f := range fs {
		names[n] = f.Name
	}
	return names
}

// SetField assigns one field. An *Instance value is adopted in place
// of the current child (exact type match required); other values
// follow Set conversions.
func (i *Instance) SetField(name string, v any) error {
	idx, e := i.fieldIndex(errors.OpSet, name)
	if e != nil {
		return e
	}
	if inst, ok := v.(*Instance); ok {
		if e := i.adopt(idx, inst); e != nil {
			return prependPath(e, name)
		}
		return nil
	}
	if e := i.kids[idx].set(v); e != nil {
		return prependPath(e, name)
	}
	return nil
}

func (i *Instance) fieldIndex(op errors.Op, name string) (int, *errors.Error) {
	switch t := Underlying(i.typ).(type) {
	case *StructType:
		if idx, ok := t.index[name]; ok {
			return idx, nil
		}
		return 0, errors.UnknownField(op, nil, t.name, name)
	case *UnionType:
		if idx, ok := t.index[name]; ok {
			return idx, nil
		}
		return 0, errors.UnknownField(op, nil, t.name, name)
	}
	return 0, errors.New(op, errors.KindTypeMismatch).
		Type(i.typ.Name()).
		Detail("%s has no fields", i.typ.Name()).
		Build()
}

// compositeFields returns the declared fields of a struct or union
// type, nil otherwise.
func compositeFields(t Type) []Field {
	switch u := Underlying(t).(type) {
	case *StructType:
		return u.fields
	case *UnionType:
		return u.fields
	}
	return nil
}

// Len returns the number of owned children: the array length or the
// field count. Zero for scalar and pointer instances.
func (i *Instance) Len() int { return len(i.kids) }

// Index returns an array element.
func (i *Instance) Index(n int) (*Instance, error) {
	at, ok := Underlying(i.typ).(*ArrayType)
	if !ok {
		return nil, errors.New(errors.OpAccess, errors.KindTypeMismatch).
			Type(i.typ.Name()).
			Detail("%s is not an array", i.typ.Name()).
			Build()
	}
	if n < 0 || n >= at.count {
		return nil, errors.OutOfBounds(errors.OpAccess, nil, n, at.count)
	}
	return i.kids[n], nil
}

// Deref returns the pointed-at instance, nil for a null pointer.
func (i *Instance) Deref() *Instance { return i.deref }

// SetDeref wires the pointer at target, or clears it with nil. The
// target's type must equal the declared pointee type. The target is
// referenced, never owned.
func (i *Instance) SetDeref(target *Instance) error {
	if e := i.setDeref(target); e != nil {
		return e
	}
	return nil
}

func (i *Instance) setDeref(target *Instance) *errors.Error {
	pt, ok := Underlying(i.typ).(*PointerType)
	if !ok {
		return errors.New(errors.OpSet, errors.KindTypeMismatch).
			Type(i.typ.Name()).
			Detail("%s is not a pointer", i.typ.Name()).
			Build()
	}
	if target == nil {
		i.deref = nil
		return nil
	}
	if !pt.Bound() {
		return errors.InvalidDefinition(pt.Name(), "pointer target type is not bound yet")
	}
	if !Equal(target.typ, pt.pointee) {
		return errors.New(errors.OpSet, errors.KindTypeMismatch).
			Type(pt.Name()).
			Value(target.typ.Name()).
			Detail("target type %s does not match pointee %s", target.typ.Name(), pt.pointee.Name()).
			Build()
	}
	i.deref = target
	return nil
}

// TargetAddr returns the stored pointed-at address. It is independent
// of Deref: unpacking stores the raw address here without recovering
// the instance.
func (i *Instance) TargetAddr() (uint64, bool) {
	return i.target, i.hasTarget
}

// SetTargetAddr stores a pointed-at address.
func (i *Instance) SetTargetAddr(addr uint64) {
	i.target = addr
	i.hasTarget = true
}

// ClearTargetAddr removes the stored pointed-at address.
func (i *Instance) ClearTargetAddr() {
	i.target = 0
	i.hasTarget = false
}

// applyOverrides assigns field overrides in declaration order and
// reports any name that is not a declared field.
func (i *Instance) applyOverrides(overrides Fields) *errors.Error {
	if len(overrides) == 0 {
		return nil
	}
	fs := compositeFields(i.typ)
	applied := 0
	for idx, f := range fs {
		v, ok := overrides[f.Name]
		if !ok {
			continue
		}
		applied++
		if inst, isInst := v.(*Instance); isInst {
			if e := i.adopt(idx, inst); e != nil {
				return prependPath(e, f.Name)
			}
			continue
		}
		if e := i.kids[idx].set(v); e != nil {
			return prependPath(e, f.Name)
		}
	}
	if applied < len(overrides) {
		unknown := make([]string, 0, len(overrides)-applied)
		for name := range overrides {
			if _, e := i.fieldIndex(errors.OpBuild, name); e != nil {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		return errors.UnknownField(errors.OpBuild, nil, i.typ.Name(), unknown[0])
	}
	return nil
}

// adopt replaces the owned child in slot idx with v. The types must
// match exactly, v must not already have an owner, and v must not
// contain this instance.
func (i *Instance) adopt(idx int, v *Instance) *errors.Error {
	if v == nil {
		return errors.New(errors.OpBuild, errors.KindInvalidInput).
			Type(i.typ.Name()).
			Detail("cannot adopt nil instance").
			Build()
	}
	want := compositeFields(i.typ)[idx].Type
	if !Equal(v.typ, want) {
		return errors.New(errors.OpBuild, errors.KindTypeMismatch).
			Type(want.Name()).
			Value(v.typ.Name()).
			Detail("instance type %s does not match field type %s", v.typ.Name(), want.Name()).
			Build()
	}
	if v.owner != nil {
		return errors.New(errors.OpBuild, errors.KindInvalidInput).
			Type(i.typ.Name()).
			Detail("instance already has an owner").
			Build()
	}
	for a := i; a != nil; a = a.owner {
		if a == v {
			return errors.New(errors.OpBuild, errors.KindInvalidInput).
				Type(i.typ.Name()).
				Detail("instance cannot contain itself").
				Build()
		}
	}
	old := i.kids[idx]
	old.owner = nil
	old.slot = 0
	v.owner = i
	v.slot = idx
	i.kids[idx] = v
	return nil
}

func prependPath(e *errors.Error, elem string) *errors.Error {
	e.Path = append([]string{elem}, e.Path...)
	return e
}

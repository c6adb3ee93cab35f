package cdata

import "github.com/membank/cdata/errors"

// PointerType points at a pointee type. Width and alignment come from
// the Target it was created for, not from the pointee.
//
// A pointer to a type that does not exist yet is created with
// ForwardPointer and completed later with Bind; layout never depends on
// the pointee, so an unbound pointer is usable as a field type. This is
// how self-referential structs are built.
type PointerType struct {
	pointee Type
	fwdName string
	size    int
	align   int
}

// PointerTo returns a pointer to pointee under DefaultTarget.
func PointerTo(pointee Type) *PointerType {
	return DefaultTarget.PointerTo(pointee)
}

// PointerTo returns a pointer to pointee with this target's width.
func (t Target) PointerTo(pointee Type) *PointerType {
	n := t.norm()
	return &PointerType{pointee: pointee, size: n.PtrSize, align: n.PtrAlign}
}

// ForwardPointer returns an unbound pointer to a type known only by
// name, under DefaultTarget.
func ForwardPointer(pointeeName string) *PointerType {
	return DefaultTarget.ForwardPointer(pointeeName)
}

// ForwardPointer returns an unbound pointer with this target's width.
func (t Target) ForwardPointer(pointeeName string) *PointerType {
	n := t.norm()
	return &PointerType{fwdName: pointeeName, size: n.PtrSize, align: n.PtrAlign}
}

// Bind completes a forward pointer. The pointee's name must match the
// name the pointer was declared with.
func (p *PointerType) Bind(pointee Type) error {
	if p.pointee != nil {
		return errors.InvalidDefinition(p.Name(), "pointer already bound")
	}
	if pointee == nil {
		return errors.InvalidDefinition(p.Name(), "cannot bind nil pointee")
	}
	if pointee.Name() != p.fwdName {
		return errors.New(errors.OpDefine, errors.KindInvalidDefinition).
			Type(p.Name()).
			Detail("pointee %q does not match declared name %q", pointee.Name(), p.fwdName).
			Build()
	}
	p.pointee = pointee
	return nil
}

func (p *PointerType) Name() string {
	if p.pointee != nil {
		return p.pointee.Name() + "*"
	}
	return p.fwdName + "*"
}

func (p *PointerType) Kind() Kind   { return KindPointer }
func (p *PointerType) Size() int    { return p.size }
func (p *PointerType) Align() int   { return p.align }
func (p *PointerType) Native() bool { return false }

// Pointee returns the pointed-at type, nil while unbound.
func (p *PointerType) Pointee() Type { return p.pointee }

// Bound reports whether the pointee is known.
func (p *PointerType) Bound() bool { return p.pointee != nil }

// New returns a null pointer instance: no target, no stored address.
func (p *PointerType) New() *Instance { return &Instance{typ: p} }

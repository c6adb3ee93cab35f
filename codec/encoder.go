package codec

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Encoder serializes instance trees. Safe for concurrent use.
type Encoder struct {
	order binary.ByteOrder
}

// NewEncoder creates an encoder with the given options.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{order: opts.order()}
}

// Pack returns the C-ABI byte representation of an instance: exactly
// Type().Size() bytes with padding zeroed.
func (e *Encoder) Pack(inst *cdata.Instance) ([]byte, error) {
	buf := make([]byte, inst.Type().Size())
	if err := e.pack(inst, buf, nil); err != nil {
		return nil, err
	}
	return buf, nil
}

// PackInto serializes an instance into a caller-supplied buffer whose
// length must equal the instance's size. The buffer is zeroed first.
func (e *Encoder) PackInto(inst *cdata.Instance, buf []byte) error {
	size := inst.Type().Size()
	if len(buf) != size {
		return errors.SizeMismatch(errors.OpPack, nil, inst.Type().Name(), len(buf), size)
	}
	clear(buf)
	if err := e.pack(inst, buf, nil); err != nil {
		return err
	}
	return nil
}

// pack writes inst into buf, which is exactly inst's size and already
// zeroed.
func (e *Encoder) pack(inst *cdata.Instance, buf []byte, path []string) *errors.Error {
	switch t := cdata.Underlying(inst.Type()).(type) {
	case *cdata.Primitive:
		e.packPrimitive(inst, t, buf)
		return nil

	case *cdata.EnumType:
		putUint(e.order, buf, t.Size(), inst.Uint())
		return nil

	case *cdata.PaddingType:
		copy(buf, inst.Bytes())
		return nil

	case *cdata.PointerType:
		return e.packPointer(inst, t, buf, path)

	case *cdata.StructType, *cdata.UnionType:
		for _, f := range planFor(inst.Type()) {
			child, err := inst.Field(f.name)
			if err != nil {
				return errors.Wrap(errors.OpPack, errors.KindUnknownField, err, "field lookup")
			}
			end := f.offset + f.typ.Size()
			if err := e.pack(child, buf[f.offset:end:end], append(path, f.name)); err != nil {
				return err
			}
		}
		return nil

	case *cdata.ArrayType:
		stride := t.Stride()
		for i := 0; i < t.Count(); i++ {
			child, err := inst.Index(i)
			if err != nil {
				return errors.Wrap(errors.OpPack, errors.KindOutOfBounds, err, "element lookup")
			}
			off := i * stride
			end := off + t.Elem().Size()
			if err := e.pack(child, buf[off:end:end], append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	}

	return errors.New(errors.OpPack, errors.KindInvalidInput).
		Type(inst.Type().Name()).
		Path(path...).
		Detail("cannot pack %s", inst.Type().Kind()).
		Build()
}

func (e *Encoder) packPrimitive(inst *cdata.Instance, t *cdata.Primitive, buf []byte) {
	switch t.Class() {
	case cdata.ClassFloat:
		if t.Size() == 4 {
			e.order.PutUint32(buf, math.Float32bits(float32(inst.Float())))
		} else {
			e.order.PutUint64(buf, math.Float64bits(inst.Float()))
		}
	case cdata.ClassInt:
		putUint(e.order, buf, t.Size(), uint64(inst.Int()))
	default:
		putUint(e.order, buf, t.Size(), inst.Uint())
	}
}

// packPointer writes the pointed-at address: the wired target's
// address when a target is set, the stored target address otherwise,
// zeros for null. A wired target without an address is an error; the
// allocator has to run first.
func (e *Encoder) packPointer(inst *cdata.Instance, t *cdata.PointerType, buf []byte, path []string) *errors.Error {
	var addr uint64
	switch {
	case inst.Deref() != nil:
		a, ok := inst.Deref().Addr()
		if !ok {
			return errors.UnresolvedAddress(errors.OpPack, clonePath(path), t.Name())
		}
		addr = a
	default:
		a, ok := inst.TargetAddr()
		if !ok {
			// null pointer, buf is already zero
			return nil
		}
		addr = a
	}

	if addr > abi.MaxUnsignedValue(t.Size()) {
		return errors.New(errors.OpPack, errors.KindTypeMismatch).
			Type(t.Name()).
			Path(clonePath(path)...).
			Value(addr).
			Detail("address %#x does not fit a %d-byte pointer", addr, t.Size()).
			Build()
	}
	putUint(e.order, buf, t.Size(), addr)
	return nil
}

// clonePath pins down a path slice that was built with append.
func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return append([]string(nil), path...)
}

package codec

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Decoder builds instance trees from C-ABI bytes. Safe for concurrent
// use.
type Decoder struct {
	order binary.ByteOrder
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{order: opts.order()}
}

// Unpack builds a fresh instance tree from data, whose length must
// equal the type's size exactly. Pointer fields receive the raw
// address found in the buffer as their stored target address (zero
// means null); their targets stay unset because bytes alone cannot
// recover object identity.
func (d *Decoder) Unpack(t cdata.Type, data []byte) (*cdata.Instance, error) {
	if len(data) != t.Size() {
		return nil, errors.SizeMismatch(errors.OpUnpack, nil, t.Name(), len(data), t.Size())
	}
	inst := t.New()
	if err := d.unpack(inst, data, nil); err != nil {
		return nil, err
	}
	return inst, nil
}

// UnpackInto reads data into an existing instance tree in place,
// preserving identity: every holder of a reference into the tree
// observes the new values. Pointer fields update only their stored
// target address; wired targets are left alone.
func (d *Decoder) UnpackInto(inst *cdata.Instance, data []byte) error {
	size := inst.Type().Size()
	if len(data) != size {
		return errors.SizeMismatch(errors.OpUnpack, nil, inst.Type().Name(), len(data), size)
	}
	if err := d.unpack(inst, data, nil); err != nil {
		return err
	}
	return nil
}

func (d *Decoder) unpack(inst *cdata.Instance, data []byte, path []string) *errors.Error {
	switch t := cdata.Underlying(inst.Type()).(type) {
	case *cdata.Primitive:
		return d.unpackPrimitive(inst, t, data, path)

	case *cdata.EnumType:
		if err := inst.SetUint(readUint(d.order, data, t.Size())); err != nil {
			return wrapSet(err, path)
		}
		return nil

	case *cdata.PaddingType:
		if err := inst.SetBytes(data); err != nil {
			return wrapSet(err, path)
		}
		return nil

	case *cdata.PointerType:
		addr := readUint(d.order, data, t.Size())
		if addr == 0 {
			inst.ClearTargetAddr()
		} else {
			inst.SetTargetAddr(addr)
		}
		return nil

	case *cdata.StructType, *cdata.UnionType:
		for _, f := range planFor(inst.Type()) {
			child, err := inst.Field(f.name)
			if err != nil {
				return errors.Wrap(errors.OpUnpack, errors.KindUnknownField, err, "field lookup")
			}
			end := f.offset + f.typ.Size()
			if err := d.unpack(child, data[f.offset:end], append(path, f.name)); err != nil {
				return err
			}
		}
		return nil

	case *cdata.ArrayType:
		stride := t.Stride()
		for i := 0; i < t.Count(); i++ {
			child, err := inst.Index(i)
			if err != nil {
				return errors.Wrap(errors.OpUnpack, errors.KindOutOfBounds, err, "element lookup")
			}
			off := i * stride
			if err := d.unpack(child, data[off:off+t.Elem().Size()], append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil
	}

	return errors.New(errors.OpUnpack, errors.KindInvalidInput).
		Type(inst.Type().Name()).
		Path(path...).
		Detail("cannot unpack %s", inst.Type().Kind()).
		Build()
}

func (d *Decoder) unpackPrimitive(inst *cdata.Instance, t *cdata.Primitive, data []byte, path []string) *errors.Error {
	var err error
	switch t.Class() {
	case cdata.ClassFloat:
		if t.Size() == 4 {
			err = inst.SetFloat(float64(math.Float32frombits(d.order.Uint32(data))))
		} else {
			err = inst.SetFloat(math.Float64frombits(d.order.Uint64(data)))
		}
	case cdata.ClassInt:
		raw := readUint(d.order, data, t.Size())
		err = inst.SetInt(abi.SignExtend(raw, t.Size()))
	case cdata.ClassBool:
		err = inst.SetBool(data[0] != 0)
	default:
		err = inst.SetUint(readUint(d.order, data, t.Size()))
	}
	if err != nil {
		return wrapSet(err, path)
	}
	return nil
}

// wrapSet re-labels a value assignment error as an unpack failure and
// attaches the field path.
func wrapSet(err error, path []string) *errors.Error {
	e := errors.Wrap(errors.OpUnpack, errors.KindInvalidInput, err, "assign decoded value")
	e.Path = clonePath(path)
	return e
}

package memimage

import (
	"io"

	"fortio.org/safecast"
	"github.com/tetratelabs/wazero/api"

	"github.com/membank/cdata/errors"
	"github.com/membank/cdata/internal/abi"
)

// Memory is an addressable byte store. Addresses are absolute; an
// implementation over a windowed backing store translates them itself.
type Memory interface {
	// ReadAt returns n bytes starting at addr.
	ReadAt(addr uint64, n int) ([]byte, error)
	// WriteAt stores data starting at addr.
	WriteAt(addr uint64, data []byte) error
}

// Buffer is an in-core memory image covering the fixed address window
// [base, base+len). Bytes start zeroed.
type Buffer struct {
	base uint64
	data []byte
}

// NewBuffer creates a zeroed image of size bytes whose first byte has
// address base.
func NewBuffer(base uint64, size int) *Buffer {
	return &Buffer{base: base, data: make([]byte, size)}
}

// Base returns the address of the first byte.
func (b *Buffer) Base() uint64 { return b.base }

// Bytes returns the backing slice, aliased not copied, for handing to
// file writers.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) ReadAt(addr uint64, n int) ([]byte, error) {
	off, err := b.offset(errors.OpResolve, addr, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.data[off:])
	return out, nil
}

func (b *Buffer) WriteAt(addr uint64, data []byte) error {
	off, err := b.offset(errors.OpWrite, addr, len(data))
	if err != nil {
		return err
	}
	copy(b.data[off:], data)
	return nil
}

// offset translates an absolute address range to a slice offset,
// bounds-checked against the window.
func (b *Buffer) offset(op errors.Op, addr uint64, n int) (int, *errors.Error) {
	end, ok := abi.Extent(addr, n)
	if !ok || addr < b.base || end > b.base+uint64(len(b.data)) {
		return 0, errors.New(op, errors.KindOutOfBounds).
			Value(addr).
			Detail("range [%#x, %#x) outside image [%#x, %#x)",
				addr, end, b.base, b.base+uint64(len(b.data))).
			Build()
	}
	return int(addr - b.base), nil
}

// FileMemory adapts an io.WriterAt, typically an *os.File, as a
// Memory. Reads work when the writer also implements io.ReaderAt.
type FileMemory struct {
	w io.WriterAt
}

// NewFileMemory wraps a positional writer.
func NewFileMemory(w io.WriterAt) *FileMemory {
	return &FileMemory{w: w}
}

func (f *FileMemory) WriteAt(addr uint64, data []byte) error {
	off, err := safecast.Conv[int64](addr)
	if err != nil {
		return errors.New(errors.OpWrite, errors.KindOutOfBounds).
			Value(addr).
			Detail("address %#x exceeds the file offset range", addr).
			Build()
	}
	if _, werr := f.w.WriteAt(data, off); werr != nil {
		return errors.Wrap(errors.OpWrite, errors.KindInvalidInput, werr, "positional write failed")
	}
	return nil
}

func (f *FileMemory) ReadAt(addr uint64, n int) ([]byte, error) {
	r, ok := f.w.(io.ReaderAt)
	if !ok {
		return nil, errors.InvalidInput(errors.OpResolve, "underlying writer does not support reads")
	}
	off, err := safecast.Conv[int64](addr)
	if err != nil {
		return nil, errors.New(errors.OpResolve, errors.KindOutOfBounds).
			Value(addr).
			Detail("address %#x exceeds the file offset range", addr).
			Build()
	}
	out := make([]byte, n)
	if _, rerr := r.ReadAt(out, off); rerr != nil {
		return nil, errors.Wrap(errors.OpResolve, errors.KindInvalidInput, rerr, "positional read failed")
	}
	return out, nil
}

// WasmMemory adapts a wazero linear memory as a Memory, so packed C
// data can be staged directly inside a running guest. Linear memory is
// a 32-bit address space; addresses beyond it are out of bounds.
type WasmMemory struct {
	mem api.Memory
}

// NewWasmMemory wraps a module's exported linear memory.
func NewWasmMemory(mem api.Memory) *WasmMemory {
	return &WasmMemory{mem: mem}
}

func (w *WasmMemory) WriteAt(addr uint64, data []byte) error {
	off, err := safecast.Conv[uint32](addr)
	if err != nil {
		return w.oob(errors.OpWrite, addr, len(data))
	}
	if !w.mem.Write(off, data) {
		return w.oob(errors.OpWrite, addr, len(data))
	}
	return nil
}

func (w *WasmMemory) ReadAt(addr uint64, n int) ([]byte, error) {
	off, err := safecast.Conv[uint32](addr)
	if err != nil {
		return nil, w.oob(errors.OpResolve, addr, n)
	}
	count, err := safecast.Conv[uint32](n)
	if err != nil {
		return nil, w.oob(errors.OpResolve, addr, n)
	}
	view, ok := w.mem.Read(off, count)
	if !ok {
		return nil, w.oob(errors.OpResolve, addr, n)
	}
	// wazero returns a view of linear memory; copy it out
	out := make([]byte, n)
	copy(out, view)
	return out, nil
}

func (w *WasmMemory) oob(op errors.Op, addr uint64, n int) *errors.Error {
	return errors.New(op, errors.KindOutOfBounds).
		Value(addr).
		Detail("range [%#x, +%d) outside linear memory of %d bytes", addr, n, w.mem.Size()).
		Build()
}

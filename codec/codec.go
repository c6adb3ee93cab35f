package codec

import (
	"encoding/binary"

	"github.com/membank/cdata"
)

// Options configures codec behavior.
type Options struct {
	// ByteOrder selects the endianness of every primitive value.
	// nil means little-endian.
	ByteOrder binary.ByteOrder
}

// DefaultOptions returns the default codec configuration.
func DefaultOptions() Options {
	return Options{ByteOrder: binary.LittleEndian}
}

func (o Options) order() binary.ByteOrder {
	if o.ByteOrder == nil {
		return binary.LittleEndian
	}
	return o.ByteOrder
}

var (
	defaultEncoder = NewEncoder(DefaultOptions())
	defaultDecoder = NewDecoder(DefaultOptions())
)

// Pack serializes an instance with the default little-endian codec.
func Pack(inst *cdata.Instance) ([]byte, error) {
	return defaultEncoder.Pack(inst)
}

// Unpack deserializes bytes into a fresh instance tree with the
// default little-endian codec.
func Unpack(t cdata.Type, data []byte) (*cdata.Instance, error) {
	return defaultDecoder.Unpack(t, data)
}

// readUint reads a size-byte unsigned integer.
func readUint(order binary.ByteOrder, b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}

// putUint writes a size-byte unsigned integer.
func putUint(order binary.ByteOrder, b []byte, size int, v uint64) {
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint64(b, v)
	}
}

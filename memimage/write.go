package memimage

import (
	"go.uber.org/zap"

	"github.com/membank/cdata"
	"github.com/membank/cdata/codec"
	"github.com/membank/cdata/errors"
)

// Write packs every addressed storage root reachable from root and
// stores it in mem at its address. Owned instances are covered by
// their owner's bytes and are not written separately; storage roots
// without an address are skipped, so run the allocator first when the
// whole graph should land in the image.
//
// A nil encoder uses the default little-endian codec.
func Write(mem Memory, root *cdata.Instance, enc *codec.Encoder) error {
	if root == nil {
		return errors.InvalidInput(errors.OpWrite, "nil root instance")
	}
	if enc == nil {
		enc = codec.NewEncoder(codec.DefaultOptions())
	}

	for inst := range root.All() {
		if inst != root && inst.Owner() != nil {
			continue
		}
		addr, ok := inst.Addr()
		if !ok {
			continue
		}
		data, err := enc.Pack(inst)
		if err != nil {
			return err
		}
		if err := mem.WriteAt(addr, data); err != nil {
			return err
		}
		Logger().Debug("wrote instance",
			zap.String("type", inst.Type().Name()),
			zap.Uint64("addr", addr),
			zap.Int("size", len(data)))
	}
	return nil
}

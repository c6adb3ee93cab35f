package codec

import (
	"sync"

	"github.com/membank/cdata"
)

// planField is one member of a compiled composite layout.
type planField struct {
	name   string
	offset int
	typ    cdata.Type
}

// plans memoizes per-type field layouts so repeated pack and unpack
// calls skip the metadata queries. Types are immutable after
// construction, so a cached plan never goes stale.
var plans sync.Map // cdata.Type -> []planField

// planFor returns the compiled field list for a struct or union type,
// nil for other kinds. Union fields all carry offset 0.
func planFor(t cdata.Type) []planField {
	if cached, ok := plans.Load(t); ok {
		return cached.([]planField)
	}

	var fields []planField
	switch u := cdata.Underlying(t).(type) {
	case *cdata.StructType:
		fs := u.Fields()
		offs := u.Offsets()
		fields = make([]planField, len(fs))
		for i, f := range fs {
			fields[i] = planField{name: f.Name, offset: offs[i], typ: f.Type}
		}
	case *cdata.UnionType:
		fs := u.Fields()
		fields = make([]planField, len(fs))
		for i, f := range fs {
			fields[i] = planField{name: f.Name, typ: f.Type}
		}
	default:
		return nil
	}

	actual, _ := plans.LoadOrStore(t, fields)
	return actual.([]planField)
}

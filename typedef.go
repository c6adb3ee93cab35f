package cdata

import "github.com/membank/cdata/errors"

// TypedefType is a named alias. Layout delegates to the base type;
// instances carry the alias as their type but store values in the base
// type's shape. Aliases compare equal only to aliases with the same
// name, never to their base type.
type TypedefType struct {
	// Doc is an optional comment emitted above the generated C
	// definition.
	Doc string

	name string
	base Type
}

// NewTypedef defines an alias for base.
func NewTypedef(name string, base Type) (*TypedefType, error) {
	if e := checkName("typedef", name); e != nil {
		return nil, e
	}
	if base == nil {
		return nil, errors.InvalidDefinition(name, "nil base type")
	}
	return &TypedefType{name: name, base: base}, nil
}

func (td *TypedefType) Name() string { return td.name }
func (td *TypedefType) Kind() Kind   { return KindTypedef }
func (td *TypedefType) Size() int    { return td.base.Size() }
func (td *TypedefType) Align() int   { return td.base.Align() }
func (td *TypedefType) Native() bool { return false }

// Base returns the aliased type.
func (td *TypedefType) Base() Type { return td.base }

// New returns an instance shaped like the base type but typed as the
// alias.
func (td *TypedefType) New() *Instance {
	inst := td.base.New()
	inst.typ = td
	return inst
}

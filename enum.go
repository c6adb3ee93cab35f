package cdata

import (
	"fmt"

	"github.com/membank/cdata/errors"
)

// EnumMember is one named enumeration constant. Leave Explicit false to
// take the previous member's value plus one, C style; the first member
// defaults to 0.
type EnumMember struct {
	Name     string
	Value    uint64
	Explicit bool
	// Doc is an optional comment emitted above the member in the
	// generated C definition.
	Doc string
}

// EnumType is a sized unsigned integer with named constants. The core
// packs and unpacks it as its underlying integer; the member list is
// metadata for symbolic lookups and header generation. Values outside
// the member list are legal, as in C.
type EnumType struct {
	// Doc is an optional comment emitted above the generated C
	// definition.
	Doc string

	name    string
	size    int
	members []EnumMember
	byName  map[string]uint64
}

// NewEnum defines an enumeration of the given byte size (1, 2, 4, or
// 8). At least one member is required. Member values must fit the
// size; duplicate values are allowed and alias each other, duplicate
// names are not.
func NewEnum(name string, size int, members ...EnumMember) (*EnumType, error) {
	if e := checkName("enum", name); e != nil {
		return nil, e
	}
	switch size {
	case 1, 2, 4, 8:
	default:
		return nil, errors.InvalidDefinition(name, "enum size must be 1, 2, 4, or 8 bytes")
	}
	if len(members) == 0 {
		return nil, errors.InvalidDefinition(name, "empty enum")
	}

	et := &EnumType{
		name:    name,
		size:    size,
		members: make([]EnumMember, 0, len(members)),
		byName:  make(map[string]uint64, len(members)),
	}

	limit := maxForSize(size)
	next := uint64(0)
	for _, m := range members {
		if e := checkName("enum member", m.Name); e != nil {
			e.Type = name
			return nil, e
		}
		if _, dup := et.byName[m.Name]; dup {
			return nil, errors.InvalidDefinition(name, fmt.Sprintf("member %q defined twice", m.Name))
		}
		v := next
		if m.Explicit {
			v = m.Value
		}
		if v > limit {
			return nil, errors.InvalidDefinition(name,
				fmt.Sprintf("member %q value %d out of range for %d-byte enum", m.Name, v, size))
		}
		m.Value = v
		m.Explicit = true
		et.members = append(et.members, m)
		et.byName[m.Name] = v
		next = v + 1
	}
	return et, nil
}

func maxForSize(size int) uint64 {
	if size >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*size) - 1
}

func (et *EnumType) Name() string { return et.name }
func (et *EnumType) Kind() Kind   { return KindEnum }
func (et *EnumType) Size() int    { return et.size }
func (et *EnumType) Align() int   { return et.size }
func (et *EnumType) Native() bool { return false }

// Members returns the declared members with resolved values.
func (et *EnumType) Members() []EnumMember {
	return append([]EnumMember(nil), et.members...)
}

// Lookup returns the value of a named member.
func (et *EnumType) Lookup(name string) (uint64, bool) {
	v, ok := et.byName[name]
	return v, ok
}

// NameOf returns the first declared member with the given value.
func (et *EnumType) NameOf(value uint64) (string, bool) {
	for _, m := range et.members {
		if m.Value == value {
			return m.Name, true
		}
	}
	return "", false
}

// New returns a zero-valued instance. Zero need not be a declared
// member.
func (et *EnumType) New() *Instance { return &Instance{typ: et} }

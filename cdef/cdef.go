package cdef

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"fortio.org/safecast"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
)

// Registry holds the types declared by one definition file, in
// declaration order, with name lookup.
type Registry struct {
	target cdata.Target
	names  map[string]cdata.Type
	order  []cdata.Type
}

// Target returns the pointer model the file declared, DefaultTarget
// when it declared none.
func (r *Registry) Target() cdata.Target { return r.target }

// Lookup returns a declared type by name. Native scalar names resolve
// too.
func (r *Registry) Lookup(name string) (cdata.Type, bool) {
	if t, ok := r.names[name]; ok {
		return t, true
	}
	return cdata.NativeType(name)
}

// Types returns the declared types in declaration order.
func (r *Registry) Types() []cdata.Type {
	return append([]cdata.Type(nil), r.order...)
}

// file mirrors the TOML document shape.
type file struct {
	Target *targetDef `toml:"target"`
	Types  []typeDef  `toml:"type"`
}

type targetDef struct {
	PtrSize  int `toml:"ptr_size"`
	PtrAlign int `toml:"ptr_align"`
}

type typeDef struct {
	Name   string      `toml:"name"`
	Kind   string      `toml:"kind"`
	Doc    string      `toml:"doc"`
	Fields []fieldDef  `toml:"field"`
	Member []memberDef `toml:"member"`
	Base   string      `toml:"base"`
	Size   int         `toml:"size"`
}

type fieldDef struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type memberDef struct {
	Name  string `toml:"name"`
	Value *int64 `toml:"value"`
	Doc   string `toml:"doc"`
}

// Load reads and parses a definition file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.OpParse, errors.KindInvalidInput, err, "read definition file")
	}
	return Parse(data)
}

// Parse builds a Registry from TOML definition text.
func Parse(data []byte) (*Registry, error) {
	var doc file
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.OpParse, errors.KindInvalidInput, err, "decode TOML")
	}

	target := cdata.DefaultTarget
	if doc.Target != nil {
		t, err := cdata.NewTarget(doc.Target.PtrSize, doc.Target.PtrAlign)
		if err != nil {
			return nil, err
		}
		target = t
	}

	loader := &loader{
		reg: &Registry{target: target, names: make(map[string]cdata.Type)},
	}
	for _, td := range doc.Types {
		if err := loader.declare(td); err != nil {
			return nil, err
		}
	}
	if err := loader.bindForwards(); err != nil {
		return nil, err
	}
	return loader.reg, nil
}

// loader tracks forward pointers that await their pointee.
type loader struct {
	reg      *Registry
	forwards []forward
}

type forward struct {
	ptr  *cdata.PointerType
	name string
	// where records the declaring type and field for error messages
	where string
}

func (l *loader) declare(td typeDef) error {
	if td.Name == "" {
		return errors.New(errors.OpParse, errors.KindInvalidDefinition).
			Detail("type declaration without a name").
			Build()
	}
	if _, exists := l.reg.Lookup(td.Name); exists {
		return errors.New(errors.OpParse, errors.KindInvalidDefinition).
			Type(td.Name).
			Detail("type %q declared twice", td.Name).
			Build()
	}

	var t cdata.Type
	var err error
	switch td.Kind {
	case "struct":
		t, err = l.declareComposite(td, false)
	case "union":
		t, err = l.declareComposite(td, true)
	case "enum":
		t, err = l.declareEnum(td)
	case "typedef":
		t, err = l.declareTypedef(td)
	default:
		return errors.New(errors.OpParse, errors.KindInvalidDefinition).
			Type(td.Name).
			Detail("unknown kind %q, want struct, union, enum, or typedef", td.Kind).
			Build()
	}
	if err != nil {
		return err
	}
	l.reg.names[td.Name] = t
	l.reg.order = append(l.reg.order, t)
	return nil
}

func (l *loader) declareComposite(td typeDef, isUnion bool) (cdata.Type, error) {
	fields := make([]cdata.Field, len(td.Fields))
	for i, fd := range td.Fields {
		ft, err := l.parseType(fd.Type, td.Name+"."+fd.Name)
		if err != nil {
			return nil, err
		}
		fields[i] = cdata.Field{Name: fd.Name, Type: ft}
	}
	if isUnion {
		ut, err := cdata.NewUnion(td.Name, fields...)
		if err != nil {
			return nil, err
		}
		ut.Doc = td.Doc
		return ut, nil
	}
	st, err := cdata.NewStruct(td.Name, fields...)
	if err != nil {
		return nil, err
	}
	st.Doc = td.Doc
	return st, nil
}

func (l *loader) declareEnum(td typeDef) (cdata.Type, error) {
	size := td.Size
	if size == 0 {
		size = 4
	}
	members := make([]cdata.EnumMember, len(td.Member))
	for i, md := range td.Member {
		m := cdata.EnumMember{Name: md.Name, Doc: md.Doc}
		if md.Value != nil {
			v, err := safecast.Conv[uint64](*md.Value)
			if err != nil {
				return nil, errors.New(errors.OpParse, errors.KindInvalidDefinition).
					Type(td.Name).
					Path(md.Name).
					Detail("member value %d is negative", *md.Value).
					Build()
			}
			m.Value = v
			m.Explicit = true
		}
		members[i] = m
	}
	et, err := cdata.NewEnum(td.Name, size, members...)
	if err != nil {
		return nil, err
	}
	et.Doc = td.Doc
	return et, nil
}

func (l *loader) declareTypedef(td typeDef) (cdata.Type, error) {
	if td.Base == "" {
		return nil, errors.New(errors.OpParse, errors.KindInvalidDefinition).
			Type(td.Name).
			Detail("typedef without a base type").
			Build()
	}
	base, err := l.parseType(td.Base, td.Name)
	if err != nil {
		return nil, err
	}
	tt, err := cdata.NewTypedef(td.Name, base)
	if err != nil {
		return nil, err
	}
	tt.Doc = td.Doc
	return tt, nil
}

// parseType resolves one type expression. where names the declaring
// type and field for error context.
func (l *loader) parseType(expr, where string) (cdata.Type, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return nil, l.exprError(where, expr, "empty type expression")

	case strings.HasPrefix(expr, "*"):
		rest := strings.TrimSpace(expr[1:])
		if t, ok := l.reg.Lookup(rest); ok {
			return l.reg.target.PointerTo(t), nil
		}
		// a bare name may be declared later in the file
		if isIdent(rest) {
			ptr := l.reg.target.ForwardPointer(rest)
			l.forwards = append(l.forwards, forward{ptr: ptr, name: rest, where: where})
			return ptr, nil
		}
		inner, err := l.parseType(rest, where)
		if err != nil {
			return nil, err
		}
		return l.reg.target.PointerTo(inner), nil

	case strings.HasPrefix(expr, "["):
		end := strings.IndexByte(expr, ']')
		if end < 0 {
			return nil, l.exprError(where, expr, "missing ] in array type")
		}
		count, err := strconv.Atoi(strings.TrimSpace(expr[1:end]))
		if err != nil {
			return nil, l.exprError(where, expr, "array length is not an integer")
		}
		elem, err := l.parseType(expr[end+1:], where)
		if err != nil {
			return nil, err
		}
		return cdata.NewArray(elem, count)

	case strings.HasPrefix(expr, "pad(") && strings.HasSuffix(expr, ")"):
		n, err := strconv.Atoi(strings.TrimSpace(expr[4 : len(expr)-1]))
		if err != nil {
			return nil, l.exprError(where, expr, "padding length is not an integer")
		}
		return cdata.NewPadding(n)

	default:
		if t, ok := l.reg.Lookup(expr); ok {
			return t, nil
		}
		return nil, l.exprError(where, expr, "unknown type")
	}
}

// bindForwards completes every forward pointer now that the whole file
// is declared.
func (l *loader) bindForwards() error {
	for _, f := range l.forwards {
		t, ok := l.reg.names[f.name]
		if !ok {
			return errors.New(errors.OpParse, errors.KindInvalidDefinition).
				Path(f.where).
				Detail("pointer to %q, which the file never declares", f.name).
				Build()
		}
		if err := f.ptr.Bind(t); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) exprError(where, expr, detail string) *errors.Error {
	return errors.New(errors.OpParse, errors.KindInvalidDefinition).
		Path(where).
		Detail("%s: %q", detail, expr).
		Build()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

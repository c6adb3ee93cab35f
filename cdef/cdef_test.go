package cdef

import (
	stderrors "errors"
	"testing"

	"github.com/membank/cdata"
	"github.com/membank/cdata/errors"
)

const fixtureDoc = `
target = { ptr_size = 8, ptr_align = 8 }

[[type]]
name = "color"
kind = "enum"
member = [
    { name = "RED" },
    { name = "GREEN" },
    { name = "BLUE", value = 10 },
]

[[type]]
name = "word_t"
kind = "typedef"
base = "unsigned int"

[[type]]
name = "foo"
kind = "struct"
doc = "A test fixture record."
field = [
    { name = "bar", type = "int" },
    { name = "baz", type = "*char" },
    { name = "tag", type = "color" },
    { name = "name", type = "[8]char" },
    { name = "gap", type = "pad(4)" },
]

[[type]]
name = "value"
kind = "union"
field = [
    { name = "as_int", type = "int" },
    { name = "as_float", type = "float" },
]
`

func TestParseFixture(t *testing.T) {
	reg, err := Parse([]byte(fixtureDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := len(reg.Types()); got != 4 {
		t.Fatalf("declared %d types, want 4", got)
	}

	foo, ok := reg.Lookup("foo")
	if !ok {
		t.Fatal("foo not declared")
	}
	st, ok := foo.(*cdata.StructType)
	if !ok {
		t.Fatalf("foo is %T, want struct", foo)
	}
	// int(4) + pad(4) + char*(8) + color(4) + char[8] + pad(4), then
	// the tail rounds to 8
	if off, _ := st.OffsetOf("baz"); off != 8 {
		t.Errorf("baz at offset %d, want 8", off)
	}
	if off, _ := st.OffsetOf("tag"); off != 16 {
		t.Errorf("tag at offset %d, want 16", off)
	}
	if off, _ := st.OffsetOf("name"); off != 20 {
		t.Errorf("name at offset %d, want 20", off)
	}
	if st.Size() != 32 {
		t.Errorf("size %d, want 32", st.Size())
	}
	if st.Doc != "A test fixture record." {
		t.Errorf("doc = %q", st.Doc)
	}

	color, _ := reg.Lookup("color")
	et, ok := color.(*cdata.EnumType)
	if !ok {
		t.Fatalf("color is %T, want enum", color)
	}
	if v, _ := et.Lookup("GREEN"); v != 1 {
		t.Errorf("GREEN = %d, want 1", v)
	}
	if v, _ := et.Lookup("BLUE"); v != 10 {
		t.Errorf("BLUE = %d, want 10", v)
	}

	word, _ := reg.Lookup("word_t")
	if word.Size() != 4 || word.Kind() != cdata.KindTypedef {
		t.Errorf("word_t: size %d kind %s", word.Size(), word.Kind())
	}

	val, _ := reg.Lookup("value")
	if val.Size() != 4 || val.Kind() != cdata.KindUnion {
		t.Errorf("value: size %d kind %s", val.Size(), val.Kind())
	}
}

func TestParseSelfReferentialStruct(t *testing.T) {
	reg, err := Parse([]byte(`
[[type]]
name = "node"
kind = "struct"
field = [
    { name = "value", type = "int" },
    { name = "next", type = "*node" },
]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	node, _ := reg.Lookup("node")
	st := node.(*cdata.StructType)
	if st.Size() != 16 {
		t.Errorf("node size %d, want 16", st.Size())
	}

	// the forward pointer is bound, so wiring a cycle works
	a := node.New()
	b := node.New()
	next, _ := a.Field("next")
	if err := next.SetDeref(b); err != nil {
		t.Fatalf("SetDeref through bound forward pointer: %v", err)
	}
}

func TestParseMutualRecursion(t *testing.T) {
	reg, err := Parse([]byte(`
[[type]]
name = "even"
kind = "struct"
field = [ { name = "odd", type = "*odd" } ]

[[type]]
name = "odd"
kind = "struct"
field = [ { name = "even", type = "*even" } ]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := reg.Lookup("even"); !ok {
		t.Error("even not declared")
	}
	if _, ok := reg.Lookup("odd"); !ok {
		t.Error("odd not declared")
	}
}

func TestParseILP32Target(t *testing.T) {
	reg, err := Parse([]byte(`
target = { ptr_size = 4, ptr_align = 4 }

[[type]]
name = "small"
kind = "struct"
field = [
    { name = "p", type = "*char" },
    { name = "n", type = "int" },
]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	small, _ := reg.Lookup("small")
	if small.Size() != 8 {
		t.Errorf("ILP32 struct size %d, want 8", small.Size())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown kind", `
[[type]]
name = "x"
kind = "bitfield"
`},
		{"unknown field type", `
[[type]]
name = "x"
kind = "struct"
field = [ { name = "a", type = "quux" } ]
`},
		{"unbound forward pointer", `
[[type]]
name = "x"
kind = "struct"
field = [ { name = "a", type = "*nothere" } ]
`},
		{"duplicate name", `
[[type]]
name = "x"
kind = "struct"
field = [ { name = "a", type = "int" } ]

[[type]]
name = "x"
kind = "struct"
field = [ { name = "a", type = "int" } ]
`},
		{"typedef without base", `
[[type]]
name = "x"
kind = "typedef"
`},
		{"bad array length", `
[[type]]
name = "x"
kind = "struct"
field = [ { name = "a", type = "[zero]int" } ]
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatal("malformed document parsed without error")
			}
			if !stderrors.Is(err, errors.ErrInvalidDefinition) {
				t.Errorf("error %v is not an InvalidDefinition", err)
			}
		})
	}
}

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/membank/cdata"
	"github.com/membank/cdata/cdef"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <def.toml> [type...]",
	Short: "Show field offsets, sizes, and padding",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cdef.Load(args[0])
		if err != nil {
			return err
		}

		types, err := selectTypes(reg, args[1:])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, t := range types {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printLayout(out, t)
		}
		return nil
	},
}

// selectTypes resolves the requested names, or every declared type
// when none are named.
func selectTypes(reg *cdef.Registry, names []string) ([]cdata.Type, error) {
	if len(names) == 0 {
		return reg.Types(), nil
	}
	types := make([]cdata.Type, len(names))
	for i, name := range names {
		t, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("type %q is not declared", name)
		}
		types[i] = t
	}
	return types, nil
}

func printLayout(out io.Writer, t cdata.Type) {
	fmt.Fprintf(out, "%s: size %d, align %d\n", describeType(t), t.Size(), t.Align())

	st, ok := cdata.Underlying(t).(*cdata.StructType)
	if !ok {
		if ut, isUnion := cdata.Underlying(t).(*cdata.UnionType); isUnion {
			w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			for _, f := range ut.Fields() {
				fmt.Fprintf(w, "  %s\t%s\toffset 0\tsize %d\n", f.Name, f.Type.Name(), f.Type.Size())
			}
			w.Flush()
		}
		return
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fields := st.Fields()
	offsets := st.Offsets()
	cursor := 0
	for i, f := range fields {
		if gap := offsets[i] - cursor; gap > 0 {
			fmt.Fprintf(w, "  --\tpadding\toffset %d\tsize %d\n", cursor, gap)
		}
		fmt.Fprintf(w, "  %s\t%s\toffset %d\tsize %d\n", f.Name, f.Type.Name(), offsets[i], f.Type.Size())
		cursor = offsets[i] + f.Type.Size()
	}
	if gap := st.Size() - cursor; gap > 0 {
		fmt.Fprintf(w, "  --\tpadding\toffset %d\tsize %d\n", cursor, gap)
	}
	w.Flush()
}

func describeType(t cdata.Type) string {
	switch t.Kind() {
	case cdata.KindStruct, cdata.KindUnion, cdata.KindEnum:
		return strings.TrimSpace(t.Kind().String() + " " + t.Name())
	default:
		return t.Name()
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/membank/cdata/cdef"
	"github.com/membank/cdata/ctext"
)

var (
	headerOut     string
	headerGuard   string
	headerDoc     string
	headerInclude []string
	headerNative  bool
)

var headerCmd = &cobra.Command{
	Use:   "header <def.toml> [type...]",
	Short: "Generate a C header for the declared types",
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

		text := ctext.Header(ctext.HeaderOptions{
			Doc:           headerDoc,
			Guard:         headerGuard,
			Includes:      headerInclude,
			IncludeNative: headerNative,
		}, types...)

		if headerOut == "" || headerOut == "-" {
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		}
		return os.WriteFile(headerOut, []byte(text), 0o644)
	},
}

func init() {
	headerCmd.Flags().StringVarP(&headerOut, "output", "o", "", "output file (default stdout)")
	headerCmd.Flags().StringVar(&headerGuard, "guard", "", "include guard name (default derived)")
	headerCmd.Flags().StringVar(&headerDoc, "doc", "", "top-of-file comment")
	headerCmd.Flags().StringArrayVar(&headerInclude, "include", nil, "literal include line, repeatable")
	headerCmd.Flags().BoolVar(&headerNative, "native", false, "also emit native types")
}

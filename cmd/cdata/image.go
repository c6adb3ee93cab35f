package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/membank/cdata/alloc"
	"github.com/membank/cdata/cdef"
	"github.com/membank/cdata/memimage"
)

var (
	imageRoot string
	imageBase string
	imageOut  string
)

var imageCmd = &cobra.Command{
	Use:   "image <def.toml>",
	Short: "Build a binary memory image of a zero-valued instance graph",
	Long: `image instantiates the root type with default values, assigns
addresses starting at the base, and writes the packed bytes to a file.
The file's first byte corresponds to the base address.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if imageRoot == "" {
			return fmt.Errorf("--root is required")
		}
		reg, err := cdef.Load(args[0])
		if err != nil {
			return err
		}
		t, ok := reg.Lookup(imageRoot)
		if !ok {
			return fmt.Errorf("type %q is not declared", imageRoot)
		}
		base, err := strconv.ParseUint(imageBase, 0, 64)
		if err != nil {
			return fmt.Errorf("bad base address %q: %w", imageBase, err)
		}

		inst := t.New()
		end, err := alloc.Alloc(inst, base)
		if err != nil {
			return err
		}

		mem := memimage.NewBuffer(base, int(end-base))
		if err := memimage.Write(mem, inst, nil); err != nil {
			return err
		}
		if err := os.WriteFile(imageOut, mem.Bytes(), 0o644); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes covering [%#x, %#x)\n",
			len(mem.Bytes()), base, end)
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVar(&imageRoot, "root", "", "root type to instantiate")
	imageCmd.Flags().StringVar(&imageBase, "base", "0x0", "base address, e.g. 0x2000")
	imageCmd.Flags().StringVarP(&imageOut, "output", "o", "image.bin", "output file")
}

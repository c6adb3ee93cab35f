// Command cdata inspects and materializes C data layout definitions.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/membank/cdata/alloc"
	"github.com/membank/cdata/memimage"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cdata",
	Short: "C data layout toolkit",
	Long: `cdata builds C-compatible memory images without a C compiler.

Types are declared in TOML definition files; the tool computes their
ABI layout, generates headers, and packs instance graphs into binary
images.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			l, err := zap.NewDevelopment()
			if err == nil {
				alloc.SetLogger(l)
				memimage.SetLogger(l)
			}
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

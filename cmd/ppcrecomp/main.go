package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ppcrecomp/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ppcrecomp",
	Short: "PowerPC to C++ static recompiler",
	Long:  `ppcrecomp translates big-endian PowerPC guest code into C++ translation units for ahead-of-time recompilation`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(codegenCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

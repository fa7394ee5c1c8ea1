package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ppcrecomp/internal/codegen"
	"ppcrecomp/internal/config"
	"ppcrecomp/internal/image"
	"ppcrecomp/internal/ppc"
)

var validatePreflight bool

func init() {
	validateCmd.Flags().BoolVar(&validatePreflight, "preflight", false, "also decode the whole image and report unsupported instructions")
}

var validateCmd = &cobra.Command{
	Use:   "validate <config.toml>",
	Short: "Check a configuration (and optionally the image) without generating anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureColor(cmd)
		quiet, _ := cmd.Flags().GetBool("quiet")

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		res := cfg.Validate()
		rep := newCLIReporter(cmd.ErrOrStderr(), quiet)
		for _, d := range res.Bag().Items() {
			rep.Report(d.Code, d.Severity, d.Addr, d.Message)
		}

		unsupported := 0
		if validatePreflight {
			unsupported, err = preflightImage(cfg)
			if err != nil {
				return err
			}
			if unsupported > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d word(s) decode to instructions with no lowering\n",
					color.YellowString("preflight"), unsupported)
			}
		}

		if !res.Valid {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d error(s), %d warning(s)\n",
				color.RedString("invalid"), len(res.Errors), len(res.Warnings))
			os.Exit(1)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d warning(s)\n", color.GreenString("valid"), len(res.Warnings))
		}
		return nil
	},
}

// preflightImage decodes every executable word and counts those the
// generator cannot lower. Words inside configured invalid ranges are
// skipped.
func preflightImage(cfg *config.Config) (int, error) {
	path := cfg.FilePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ConfigDir, path)
	}
	img, err := image.Load(path, cfg.ImageBase, cfg.EntryPoint, nil)
	if err != nil {
		return 0, err
	}
	unsupported := 0
	for _, sec := range img.Sections {
		if !sec.Executable() {
			continue
		}
		for addr := sec.Address; addr < sec.Address+sec.Size; addr += 4 {
			if size, ok := cfg.InvalidInstructions[addr]; ok {
				if size > 4 {
					addr += size - 4
				}
				continue
			}
			word, ok := img.ReadWord(addr)
			if !ok {
				break
			}
			ins := ppc.Decode(addr, word)
			if !codegen.Implemented(ins.Op) {
				unsupported++
			}
		}
	}
	return unsupported, nil
}

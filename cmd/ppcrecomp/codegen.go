package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ppcrecomp/internal/config"
	"ppcrecomp/internal/diag"
	"ppcrecomp/internal/pipeline"
)

var (
	codegenForce    bool
	codegenCacheDir string
	codegenSEH      bool
)

func init() {
	codegenCmd.Flags().BoolVar(&codegenForce, "force", false, "generate even when validation reports errors")
	codegenCmd.Flags().StringVar(&codegenCacheDir, "cache-dir", "", "directory for the analysis cache (empty = no cache)")
	codegenCmd.Flags().BoolVar(&codegenSEH, "exception-handlers", false, "wrap configured handlers in exception prologues")
}

var codegenCmd = &cobra.Command{
	Use:   "codegen <config.toml>",
	Short: "Recompile the configured guest image into C++ sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		timings, _ := cmd.Flags().GetBool("timings")
		configureColor(cmd)

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if codegenSEH {
			cfg.GenerateExceptionHandlers = true
		}

		rep := newCLIReporter(cmd.ErrOrStderr(), quiet)
		p := pipeline.New(cfg, rep)
		p.CacheDir = codegenCacheDir

		res, err := p.Run(cmd.Context(), codegenForce)
		if timings {
			fmt.Fprint(cmd.ErrOrStderr(), p.Timings())
		}
		if err != nil {
			return err
		}
		switch res.State {
		case pipeline.StateBlocked:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d validation error(s); use --force to generate anyway\n",
				color.RedString("blocked"), len(res.Diagnostics.Errors()))
			os.Exit(1)
		case pipeline.StateDone:
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d function(s) recompiled into %s\n",
					color.GreenString("done"), res.FunctionCount, cfg.OutDirectoryPath)
			}
		}
		return nil
	},
}

// configureColor resolves the persistent --color flag against the
// actual output device.
func configureColor(cmd *cobra.Command) {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		if f, ok := cmd.ErrOrStderr().(*os.File); ok {
			color.NoColor = !isTerminal(f)
		}
	}
}

// cliReporter renders diagnostics with severity colors as they arrive.
type cliReporter struct {
	out   io.Writer
	quiet bool
}

func newCLIReporter(out io.Writer, quiet bool) cliReporter {
	return cliReporter{out: out, quiet: quiet}
}

func (r cliReporter) Report(code diag.Code, sev diag.Severity, addr uint32, msg string) {
	if r.quiet && sev < diag.SevWarning {
		return
	}
	label := sev.String()
	switch sev {
	case diag.SevError:
		label = color.RedString(label)
	case diag.SevWarning:
		label = color.YellowString(label)
	default:
		label = color.CyanString(label)
	}
	if addr != 0 {
		fmt.Fprintf(r.out, "%s [%s] 0x%08X: %s\n", label, code, addr, msg)
	} else {
		fmt.Fprintf(r.out, "%s [%s] %s\n", label, code, msg)
	}
}

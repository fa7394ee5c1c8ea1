package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ppcrecomp/internal/version"
)

const versionTagline = "the guest runs where the host compiles"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ppcrecomp build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "ppcrecomp %s — %s\n", version.Version, versionTagline)
		if commit := strings.TrimSpace(version.GitCommit); commit != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", commit)
		}
		if date := strings.TrimSpace(version.BuildDate); date != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", date)
		}
		return nil
	},
}

package cmd

import (
	"fmt"
	"os"

	"dat-matcher/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dat-matcher",
	Short: "Organize ROM collections against DAT catalogs",
	Long: `dat-matcher identifies files by content hash against a DAT catalog, places
matches under their canonical names, and reports what is missing and what matched
nothing. It can also deduplicate a tree and keep a history of past runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding with the debug config gives ISO8601 timestamps for CLI users
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(newMatchCmd(), newDedupeCmd(), newHistoryCmd())
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"dat-matcher/core/reconcile"
	"dat-matcher/feature/history"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `Lists runs stored in the history database. Recording is enabled with
DATABASE_ENABLED=true; the default store is a SQLite file (dat-matcher.db).`,
	}
	c.AddCommand(newHistoryListCmd(), newHistoryShowCmd())
	return c
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore()
			if err != nil {
				return err
			}
			runs, err := store.List(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
			return nil
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return c
}

func newHistoryShowCmd() *cobra.Command {
	var outcome string
	c := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the files of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore()
			if err != nil {
				return err
			}
			ctx := context.Background()
			run, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			files, err := store.Files(ctx, run.ID, outcome)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns([]history.Run{*run}))
			fmt.Fprintln(cmd.OutOrStdout(), renderRunFiles(files))
			return nil
		},
	}
	c.Flags().StringVar(&outcome, "outcome", "", "Only show files with this outcome (matched, duplicate, unmatched, skipped_existing, unique)")
	return c
}

func historyStore() (*history.Store, error) {
	cfg, l, err := setup(false)
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled {
		return nil, reconcile.Wrap(reconcile.ErrConfig, "history", "run history is disabled (set DATABASE_ENABLED=true)", nil)
	}
	return openHistory(cfg.Database, l)
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		mode := r.Mode
		if r.DryRun {
			mode += " (dry-run)"
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Command,
			mode,
			strconv.Itoa(r.FilesHandled),
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Duplicates),
			strconv.Itoa(r.Unmatched),
			strconv.Itoa(r.Missing),
			r.Input,
		})
	}
	return renderTable(
		[]string{"ID", "Started", "Command", "Mode", "Files", "Matched", "Dup", "Unmatched", "Missing", "Input"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
}

func renderRunFiles(files []history.RunFile) string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Outcome, f.Path, f.CanonicalName, f.Placement})
	}
	return renderTable([]string{"Outcome", "Path", "Canonical name", "Placement"}, rows, nil)
}

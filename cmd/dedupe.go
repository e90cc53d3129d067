package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dat-matcher/core/config"
	"dat-matcher/core/logger"
	"dat-matcher/core/progress"
	"dat-matcher/core/reconcile"
	"dat-matcher/core/utils"
	"dat-matcher/feature/fingerprint"
	"dat-matcher/feature/history"
	"dat-matcher/feature/placement"
	"dat-matcher/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type dedupeOptions struct {
	input      string
	output     string
	mode       string
	exclude    []string
	verbose    bool
	yes        bool
	dryRun     bool
	noProgress bool
}

type dedupeSettings struct {
	Input    string
	Output   string
	Mode     placement.Mode
	DryRun   bool
	Progress bool
	Exclude  []string
}

func newDedupeCmd() *cobra.Command {
	opts := &dedupeOptions{}

	c := &cobra.Command{
		Use:   "dedupe",
		Short: "Keep one copy of every distinct file",
		Long: `Hashes every file under the input directory and places the first file of each
distinct content into the output directory as <md5><ext>. Later copies are counted
as duplicates and left where they are.

Examples:
  dat-matcher dedupe -i ./dump -o ./unique
  dat-matcher dedupe -i ./dump -o ./unique -m hardlink`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDedupe(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "Input directory to scan (required)")
	f.StringVarP(&opts.output, "output", "o", "", "Output directory for unique files (required)")
	f.StringVarP(&opts.mode, "mode", "m", "copy", "Placement mode: copy, move or hardlink")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "Glob patterns (relative to the input) to skip")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every file")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation before moving files")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Hash and count without placing files")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	_ = c.MarkFlagRequired("input")
	_ = c.MarkFlagRequired("output")

	return c
}

func resolveDedupe(cfg config.MatchConfig, o *dedupeOptions) (dedupeSettings, error) {
	s := dedupeSettings{
		DryRun:   o.dryRun,
		Progress: cfg.Progress && !o.noProgress,
		Exclude:  append(cfg.ExcludePatterns(), o.exclude...),
	}

	mode, err := placement.ParseMode(o.mode)
	if err != nil {
		return s, err
	}
	s.Mode = mode

	if !utils.IsDir(o.input) {
		return s, reconcile.Wrap(reconcile.ErrConfig, "dedupe", fmt.Sprintf("input directory %q not found", o.input), nil)
	}
	if s.Input, err = utils.Absolute(o.input); err != nil {
		return s, reconcile.Wrap(reconcile.ErrConfig, "dedupe", o.input, err)
	}
	if s.Output, err = utils.Absolute(o.output); err != nil {
		return s, reconcile.Wrap(reconcile.ErrConfig, "dedupe", o.output, err)
	}
	if utils.SamePath(s.Input, s.Output) {
		return s, reconcile.Wrap(reconcile.ErrConfig, "dedupe", "output directory must differ from the input directory", nil)
	}
	return s, nil
}

func runDedupe(cmd *cobra.Command, o *dedupeOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(o.verbose)
	if err != nil {
		return err
	}
	defer l.Sync()

	s, err := resolveDedupe(cfg.Match, o)
	if err != nil {
		return err
	}

	if s.Mode == placement.ModeMove && !s.DryRun {
		prompt := fmt.Sprintf("Unique files will be MOVED out of %s.", s.Input)
		if !confirmAction(cmd.InOrStdin(), cmd.ErrOrStderr(), o.yes, prompt) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	run := history.NewRun("dedupe", time.Now())
	run.Input, run.Output = s.Input, s.Output
	run.Mode, run.DryRun = s.Mode.String(), s.DryRun
	l = logger.WithRun(l, run.ID)

	l.Info("Starting dedupe",
		zap.String("input", s.Input),
		zap.String("output", s.Output),
		zap.Stringer("mode", s.Mode),
		zap.Bool("dry_run", s.DryRun),
	)

	if !s.DryRun {
		if err := placement.EnsureDir(s.Output); err != nil {
			return err
		}
		lock, err := utils.LockOutput(s.Output)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	files, err := reconcile.Collect(ctx, s.Input, collectOptions(s.Input, s.Output, s.Exclude, l))
	if err != nil {
		return err
	}

	executor := placement.NewExecutor(s.Mode)
	executor.DryRun = s.DryRun

	hasher := fingerprint.New()
	engine := reconcile.NewEngine(hasher, executor)
	engine.Logger = l
	if s.Progress && progress.IsTerminal(os.Stderr) {
		bar := progress.New(os.Stderr, "deduplicating")
		hasher.OnProgress = bar.AddBytes
		engine.Observer = bar
	}

	res, err := engine.Dedupe(ctx, files, s.Output)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.DedupeSummary(res.Counters))
	recordRun(ctx, cfg.Database, l, &run, res)
	return nil
}

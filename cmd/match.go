package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"dat-matcher/core/config"
	"dat-matcher/core/logger"
	"dat-matcher/core/progress"
	"dat-matcher/core/reconcile"
	"dat-matcher/core/utils"
	"dat-matcher/feature/dat"
	"dat-matcher/feature/fingerprint"
	"dat-matcher/feature/history"
	"dat-matcher/feature/placement"
	"dat-matcher/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// matchOptions holds the raw flag values of the match command.
type matchOptions struct {
	dat          string
	input        string
	output       string
	mode         string
	reportDir    string
	exclude      []string
	verbose      bool
	yes          bool
	skipExisting bool
	dryRun       bool
	noProgress   bool
}

// matchSettings is the validated run configuration after flags and config are merged.
type matchSettings struct {
	CatalogPath  string
	Input        string
	Output       string
	ReportDir    string
	Mode         placement.Mode
	SkipExisting bool
	DryRun       bool
	Progress     bool
	Exclude      []string
}

func newMatchCmd() *cobra.Command {
	opts := &matchOptions{}

	c := &cobra.Command{
		Use:   "match",
		Short: "Match input files against a DAT catalog and organize them",
		Long: `Hashes every file under the input directory, places catalog matches in the
output directory under their canonical names, and writes the missing and unmatched
reports.

Examples:
  # Hardlink matches into ./Nintendo - NES (default output)
  dat-matcher match -d "Nintendo - NES.dat" -i ~/roms/incoming

  # Copy into an explicit output directory
  dat-matcher match -d nes.dat -i ./incoming -o ./library/nes -m copy

  # Preview without touching the filesystem
  dat-matcher match -d nes.dat -i ./incoming --dry-run

  # Move, skipping files whose canonical name already exists (name-only check)
  dat-matcher match -d nes.dat -i ./incoming -m move --skip-existing --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVarP(&opts.dat, "dat", "d", "", "Path to the DAT catalog (required)")
	f.StringVarP(&opts.input, "input", "i", "", "Input directory to scan (required)")
	f.StringVarP(&opts.output, "output", "o", "", "Output directory (default: ./<catalog name>)")
	f.StringVarP(&opts.mode, "mode", "m", "hardlink", "Placement mode: copy, move or hardlink")
	f.StringVar(&opts.reportDir, "report-dir", ".", "Directory for the missing and unmatched reports")
	f.StringSliceVar(&opts.exclude, "exclude", nil, "Glob patterns (relative to the input) to skip, e.g. '**/*.txt'")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every file")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation before moving files")
	f.BoolVar(&opts.skipExisting, "skip-existing", false, "Skip files whose canonical name already exists in the output, without hashing (name-only check)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Classify and report without placing files")
	f.BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	_ = c.MarkFlagRequired("dat")
	_ = c.MarkFlagRequired("input")

	return c
}

// resolveMatch merges flag values over configuration defaults and validates the
// resulting paths. changed reports whether a flag was set explicitly.
func resolveMatch(cfg config.MatchConfig, o *matchOptions, changed func(string) bool) (matchSettings, error) {
	s := matchSettings{
		SkipExisting: cfg.SkipExisting || o.skipExisting,
		DryRun:       o.dryRun,
		Progress:     cfg.Progress && !o.noProgress,
		Exclude:      append(cfg.ExcludePatterns(), o.exclude...),
		ReportDir:    cfg.ReportDir,
	}
	if changed("report-dir") || s.ReportDir == "" {
		s.ReportDir = o.reportDir
	}

	modeName := cfg.Mode
	if changed("mode") || modeName == "" {
		modeName = o.mode
	}
	mode, err := placement.ParseMode(modeName)
	if err != nil {
		return s, err
	}
	s.Mode = mode

	info, err := os.Stat(o.dat)
	if err != nil || info.IsDir() {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", fmt.Sprintf("catalog %q not found", o.dat), err)
	}
	if s.CatalogPath, err = utils.Absolute(o.dat); err != nil {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", o.dat, err)
	}

	if !utils.IsDir(o.input) {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", fmt.Sprintf("input directory %q not found", o.input), nil)
	}
	if s.Input, err = utils.Absolute(o.input); err != nil {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", o.input, err)
	}

	output := o.output
	if output == "" {
		if output, err = utils.DefaultOutputRoot(o.dat); err != nil {
			return s, reconcile.Wrap(reconcile.ErrConfig, "match", "resolve default output", err)
		}
	}
	if s.Output, err = utils.Absolute(output); err != nil {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", output, err)
	}
	if utils.SamePath(s.Input, s.Output) {
		return s, reconcile.Wrap(reconcile.ErrConfig, "match", "output directory must differ from the input directory", nil)
	}

	return s, nil
}

func runMatch(cmd *cobra.Command, o *matchOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup(o.verbose)
	if err != nil {
		return err
	}
	defer l.Sync()

	s, err := resolveMatch(cfg.Match, o, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	if s.Mode == placement.ModeMove && !s.DryRun {
		prompt := fmt.Sprintf("Matched files will be MOVED out of %s.", s.Input)
		if !confirmAction(cmd.InOrStdin(), cmd.ErrOrStderr(), o.yes, prompt) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	run := history.NewRun("match", time.Now())
	run.Catalog, run.Input, run.Output = s.CatalogPath, s.Input, s.Output
	run.Mode, run.DryRun = s.Mode.String(), s.DryRun
	l = logger.WithRun(l, run.ID)

	l.Info("Starting match",
		zap.String("catalog", s.CatalogPath),
		zap.String("input", s.Input),
		zap.String("output", s.Output),
		zap.Stringer("mode", s.Mode),
		zap.Bool("dry_run", s.DryRun),
		zap.Bool("skip_existing", s.SkipExisting),
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

	collectOpts := collectOptions(s.Input, s.Output, s.Exclude, l)

	var (
		catalog *dat.Catalog
		files   []reconcile.File
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = dat.Load(s.CatalogPath)
		return err
	})
	g.Go(func() error {
		var err error
		files, err = reconcile.Collect(gctx, s.Input, collectOpts)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	index := reconcile.NewIndex(catalog.Entries)
	l.Info("Catalog loaded",
		zap.String("name", catalog.Name),
		zap.String("version", catalog.Version),
		zap.Int("games", catalog.Games),
		zap.Int("entries", index.Len()),
		zap.Int("files", len(files)),
	)

	executor := placement.NewExecutor(s.Mode)
	executor.DryRun = s.DryRun

	hasher := fingerprint.New()
	engine := reconcile.NewEngine(hasher, executor)
	engine.Logger = l
	if s.Progress && progress.IsTerminal(os.Stderr) {
		bar := progress.New(os.Stderr, "matching")
		hasher.OnProgress = bar.AddBytes
		engine.Observer = bar
	}

	res, err := engine.Reconcile(ctx, files, index, reconcile.Options{
		OutputRoot:   s.Output,
		SkipExisting: s.SkipExisting,
	})
	if err != nil {
		return err
	}

	paths, err := report.Write(s.ReportDir, s.CatalogPath, report.Generate(res))
	if err != nil {
		return err
	}
	l.Info("Reports written",
		zap.String("missing", paths.Missing),
		zap.String("unmatched", paths.Unmatched),
	)

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(res.Counters, s.SkipExisting))

	uploadReports(ctx, cfg.Storage, l, paths)
	recordRun(ctx, cfg.Database, l, &run, res)

	if s.DryRun {
		l.Info("Dry-run mode: No changes were made.", zap.String("output", filepath.Clean(s.Output)))
	}
	return nil
}

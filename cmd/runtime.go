package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"dat-matcher/core/config"
	"dat-matcher/core/database"
	"dat-matcher/core/logger"
	"dat-matcher/core/reconcile"
	"dat-matcher/core/storage"
	"dat-matcher/core/utils"
	"dat-matcher/feature/history"
	"dat-matcher/feature/report"

	"go.uber.org/zap"
)

// setup loads configuration and builds the logger. verbose forces debug output.
func setup(verbose bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// openHistory connects to the history database and migrates it.
func openHistory(cfg database.Config, l *zap.Logger) (*history.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return history.Open(db, l)
}

// recordRun stores a finished run. History is optional, so failures only warn.
func recordRun(ctx context.Context, cfg database.Config, l *zap.Logger, run *history.Run, res *reconcile.Result) {
	if !cfg.Enabled {
		return
	}
	store, err := openHistory(cfg, l)
	if err != nil {
		l.Warn("Optional history database unavailable", zap.Error(err))
		return
	}
	if err := store.Save(ctx, run, res); err != nil {
		l.Warn("Failed to record run", zap.Error(err))
		return
	}
	l.Info("Run recorded", zap.String("driver", cfg.Driver))
}

// uploadReports copies the written reports to object storage when it is enabled.
// Upload is optional, so failures only warn.
func uploadReports(ctx context.Context, cfg storage.Config, l *zap.Logger, paths report.Paths) {
	if !cfg.Enabled {
		return
	}
	client, err := storage.NewClient(cfg)
	if err != nil {
		l.Warn("Failed to create storage client", zap.Error(err))
		return
	}
	if _, err := report.NewUploader(client, cfg, l).Upload(ctx, paths); err != nil {
		l.Warn("Report upload failed", zap.Error(err))
	}
}

// collectOptions builds the input walk options. The output root is skipped when it
// lives inside the input, and entries the walk cannot use are logged.
func collectOptions(input, output string, exclude []string, l *zap.Logger) reconcile.CollectOptions {
	opts := reconcile.CollectOptions{
		Exclude: exclude,
		OnSkip: func(path, reason string) {
			l.Warn("Skipping input entry", zap.String("path", path), zap.String("reason", reason))
		},
	}
	if utils.IsWithin(input, output) {
		opts.SkipDirs = []string{output}
	}
	return opts
}

// confirmAction prompts on out and reads the answer from in. It returns true right
// away when yes is set.
func confirmAction(in io.Reader, out io.Writer, yes bool, prompt string) bool {
	if yes {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(out, "\n⚠️  %s Type 'yes' to continue: ", prompt)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}

// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for both interactive use (console encoding
// with colored levels) and automation (JSON encoding).
//
// # Run Correlation
//
// Every match or dedupe run gets an id. WithRun attaches it to the logger so all log
// lines of a run, and its row in the history store, can be correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	l := logger.WithRun(log, runID)
//	l.Info("Run finished", zap.Int("matched", n))
package logger

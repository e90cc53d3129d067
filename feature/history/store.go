package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dat-matcher/core/database"
	"dat-matcher/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

const batchSize = 500

// Store persists runs through GORM.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore wraps an already migrated database.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Open migrates the history tables and verifies their columns.
func Open(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("history: database connection is nil")
	}
	if err := db.AutoMigrate(&Run{}, &RunFile{}); err != nil {
		return nil, fmt.Errorf("history: migrate: %w", err)
	}

	for table, columns := range map[string][]string{"runs": RunColumns, "run_files": RunFileColumns} {
		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			return nil, fmt.Errorf("history: inspect %s: %w", table, err)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("history: table %s is missing columns: %s", table, strings.Join(missing, ", "))
		}
	}
	return NewStore(db, logger), nil
}

// NewRun starts a run record with a fresh id.
func NewRun(command string, started time.Time) Run {
	return Run{ID: uuid.NewString(), Command: command, StartedAt: started}
}

// Apply copies the run counters onto r.
func (r *Run) Apply(c reconcile.Counters) {
	r.FilesHandled = c.FilesHandled
	r.UniqueHashes = c.UniqueHashes
	r.Duplicates = c.Duplicates
	r.Matched = c.Matched
	r.Missing = c.Missing
	r.Unmatched = c.Unmatched
	r.SkippedExisting = c.SkippedExisting
}

// FilesFor converts the records of a run into rows.
func FilesFor(runID string, records []reconcile.Record) []RunFile {
	files := make([]RunFile, 0, len(records))
	for _, rec := range records {
		f := RunFile{
			RunID:       runID,
			Path:        rec.Path,
			Fingerprint: rec.Fingerprint,
			Outcome:     rec.Outcome.String(),
			Destination: rec.Destination,
			Placement:   string(rec.Placement),
		}
		if rec.Entry != nil {
			f.CanonicalName = rec.Entry.Name
		}
		files = append(files, f)
	}
	return files
}

// Save stores run and one row per record in a single transaction.
func (s *Store) Save(ctx context.Context, run *Run, res *reconcile.Result) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	var files []RunFile
	if res != nil {
		run.Apply(res.Counters)
		files = FilesFor(run.ID, res.Records)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		if len(files) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(files, batchSize).Error; err != nil {
			return fmt.Errorf("insert run files: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("history: save %s: %w", run.ID, err)
	}

	s.logger.Debug("Recorded run",
		zap.String("run_id", run.ID),
		zap.String("command", run.Command),
		zap.Int("files", len(files)),
	)
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run by id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("history: %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("history: get %s: %w", id, err)
	}
	return &run, nil
}

// Files returns the file rows of a run, optionally filtered by outcome.
func (s *Store) Files(ctx context.Context, runID, outcome string) ([]RunFile, error) {
	q := s.db.WithContext(ctx).Where("run_id = ?", runID)
	if outcome != "" {
		q = q.Where("outcome = ?", outcome)
	}
	var files []RunFile
	if err := q.Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("history: files of %s: %w", runID, err)
	}
	return files, nil
}

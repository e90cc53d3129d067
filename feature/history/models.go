package history

import "time"

// Run is one completed match or dedupe run.
type Run struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Command string `gorm:"size:16;not null" json:"command"`
	Catalog string `gorm:"size:1024" json:"catalog,omitempty"`
	Input   string `gorm:"size:1024;not null" json:"input"`
	Output  string `gorm:"size:1024;not null" json:"output"`
	Mode    string `gorm:"size:16;not null" json:"mode"`
	DryRun  bool   `json:"dry_run"`

	FilesHandled    int `json:"files_handled"`
	UniqueHashes    int `json:"unique_hashes"`
	Duplicates      int `json:"duplicates"`
	Matched         int `json:"matched"`
	Missing         int `json:"missing"`
	Unmatched       int `json:"unmatched"`
	SkippedExisting int `json:"skipped_existing"`

	StartedAt  time.Time `gorm:"index" json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunFile is the classification of a single file within a Run.
type RunFile struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	RunID         string `gorm:"size:36;index;not null" json:"run_id"`
	Path          string `gorm:"size:2048;not null" json:"path"`
	Fingerprint   string `gorm:"size:32" json:"fingerprint,omitempty"`
	Outcome       string `gorm:"size:24;not null" json:"outcome"`
	CanonicalName string `gorm:"size:1024" json:"canonical_name,omitempty"`
	Destination   string `gorm:"size:2048" json:"destination,omitempty"`
	Placement     string `gorm:"size:16" json:"placement,omitempty"`
}

// RunColumns are the columns the runs table must carry.
var RunColumns = []string{
	"id", "command", "catalog", "input", "output", "mode", "dry_run",
	"files_handled", "unique_hashes", "duplicates", "matched", "missing", "unmatched", "skipped_existing",
	"started_at", "finished_at",
}

// RunFileColumns are the columns the run_files table must carry.
var RunFileColumns = []string{
	"id", "run_id", "path", "fingerprint", "outcome", "canonical_name", "destination", "placement",
}

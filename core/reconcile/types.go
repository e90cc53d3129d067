package reconcile

// Entry is a single catalog record: the canonical name a matching file should be
// placed under, and the reference checksums it is identified by.
type Entry struct {
	// Name is the canonical file name (e.g., "Game (USA).nes").
	Name string `json:"name"`

	// Hash is the lowercase hex MD5 digest used for matching.
	Hash string `json:"md5"`

	// SHA1 is the secondary checksum as spelled in the catalog, carried for
	// reporting only.
	SHA1 string `json:"sha1,omitempty"`

	// CatalogMD5 is the MD5 exactly as spelled in the catalog. Reports print it
	// instead of the normalized Hash.
	CatalogMD5 string `json:"catalog_md5,omitempty"`

	// Game is the owning game/set name from the catalog, if any.
	Game string `json:"game,omitempty"`
}

// ReportedMD5 returns the MD5 as the catalog spelled it, falling back to Hash.
func (e Entry) ReportedMD5() string {
	if e.CatalogMD5 != "" {
		return e.CatalogMD5
	}
	return e.Hash
}

// Outcome classifies a walked file. Every Record has exactly one.
type Outcome int

const (
	// OutcomeMatched means the fingerprint was found in the catalog.
	OutcomeMatched Outcome = iota + 1
	// OutcomeDuplicate means the fingerprint was already seen earlier in the run.
	OutcomeDuplicate
	// OutcomeUnmatched means the fingerprint is new and not in the catalog.
	OutcomeUnmatched
	// OutcomeSkippedExisting means the file was skipped by name without hashing.
	OutcomeSkippedExisting
	// OutcomeUnique is used by dedupe runs for first-seen fingerprints.
	OutcomeUnique
)

// String returns the lower-case label used in logs and the history store.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeSkippedExisting:
		return "skipped_existing"
	case OutcomeUnique:
		return "unique"
	default:
		return "unknown"
	}
}

// Placement describes what the placement executor did with a file.
type Placement string

const (
	// PlacementNone is used for records that were never handed to a Placer.
	PlacementNone Placement = ""
	// PlacementDone means the file was copied, moved, or linked.
	PlacementDone Placement = "placed"
	// PlacementSkipped means the destination already existed; nothing was written.
	PlacementSkipped Placement = "exists"
	// PlacementPlanned means a dry run would have placed the file.
	PlacementPlanned Placement = "planned"
)

// File is a regular file discovered under the input root.
type File struct {
	// Path is the full path of the file.
	Path string

	// Name is the base name of the file.
	Name string

	// Size is the file size in bytes at walk time.
	Size int64
}

// Record is the per-file classification produced by the engine.
type Record struct {
	Path        string
	Name        string
	Fingerprint string
	Outcome     Outcome

	// Entry is the matched catalog entry; only set for OutcomeMatched.
	Entry *Entry

	// Destination is the computed output path for matched/unique/skipped files.
	Destination string

	// Placement is the executor's result for files handed to the Placer.
	Placement Placement
}

// Counters are the run totals. All fields only ever grow during a run.
type Counters struct {
	FilesHandled    int `json:"files_handled"`
	UniqueHashes    int `json:"unique_hashes"`
	Duplicates      int `json:"duplicates"`
	Matched         int `json:"matched"`
	Missing         int `json:"missing"`
	Unmatched       int `json:"unmatched"`
	SkippedExisting int `json:"skipped_existing"`
}

// Options controls a reconcile run.
type Options struct {
	// OutputRoot is the directory matched files are placed into. It must exist.
	OutputRoot string

	// SkipExisting skips files whose name matches a catalog entry that is already
	// present in OutputRoot, without hashing them. The check is by name only, so a
	// wrong-content file at the destination is accepted as done.
	SkipExisting bool
}

// Result is everything a run produced, in walk order.
type Result struct {
	// Records holds one record per handled file.
	Records []Record

	// Counters is the final counter snapshot.
	Counters Counters

	// Missing lists catalog entries whose hash was never seen, in catalog order.
	Missing []Entry

	// Unmatched lists the original names of unmatched files, in walk order.
	Unmatched []string

	// Seen is the set of fingerprints observed during the run.
	Seen map[string]struct{}
}

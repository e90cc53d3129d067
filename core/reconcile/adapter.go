package reconcile

// Fingerprinter computes content hashes for walked files.
type Fingerprinter interface {
	// HeaderSkip returns how many leading bytes to exclude from the hash for a
	// file with the given base name. Zero for formats without a known header.
	HeaderSkip(name string) int64

	// Fingerprint returns the lowercase hex digest of the file at path, ignoring
	// the first skip bytes. It must not modify the file.
	Fingerprint(path string, skip int64) (string, error)
}

// Placer performs the placement decided by the engine.
type Placer interface {
	// Place puts src at dest. An existing dest is never overwritten; in that case
	// Place returns PlacementSkipped and a nil error.
	Place(src, dest string) (Placement, error)

	// Exists reports whether something is already present at path.
	Exists(path string) bool
}

// Observer is notified as the engine makes progress. No engine decision depends on
// an observer; a nil Observer is allowed.
type Observer interface {
	// Start is called once with the number of files about to be processed.
	Start(total int)

	// Processed is called after each file has been classified (and placed).
	Processed(rec Record)

	// Finish is called once when the run ends, successfully or not.
	Finish()
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) Start(int)        {}
func (NopObserver) Processed(Record) {}
func (NopObserver) Finish()          {}

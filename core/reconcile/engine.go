package reconcile

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"
)

// Engine classifies walked files against a catalog index and hands matches to a
// Placer. It processes files strictly one at a time: hash, classify, place.
type Engine struct {
	Fingerprinter Fingerprinter
	Placer        Placer
	Observer      Observer
	Logger        *zap.Logger
}

// NewEngine creates an engine with a no-op observer and logger.
func NewEngine(fp Fingerprinter, placer Placer) *Engine {
	return &Engine{
		Fingerprinter: fp,
		Placer:        placer,
		Observer:      NopObserver{},
		Logger:        zap.NewNop(),
	}
}

// runState is the accumulator for a single run. It is never shared between runs.
type runState struct {
	seen      map[string]struct{}
	counters  Counters
	records   []Record
	unmatched []string
}

func newRunState(n int) *runState {
	return &runState{
		seen:    make(map[string]struct{}, n),
		records: make([]Record, 0, n),
	}
}

// markSeen records hash and reports whether it was new.
func (s *runState) markSeen(hash string) bool {
	if _, dup := s.seen[hash]; dup {
		return false
	}
	s.seen[hash] = struct{}{}
	return true
}

func (s *runState) result() *Result {
	s.counters.UniqueHashes = len(s.seen)
	return &Result{
		Records:   s.records,
		Counters:  s.counters,
		Unmatched: s.unmatched,
		Seen:      s.seen,
	}
}

// Reconcile classifies files against index and places matches into opts.OutputRoot.
// Any fingerprint or placement error aborts the run; the partial result is not
// returned because the reports are only meaningful for a complete pass.
func (e *Engine) Reconcile(ctx context.Context, files []File, index *Index, opts Options) (*Result, error) {
	if index == nil {
		return nil, Wrap(ErrConfig, "reconcile", "catalog index is nil", nil)
	}
	if index.Collisions() > 0 {
		e.logger().Warn("catalog contains duplicate hashes; later entries can never match",
			zap.Int("collisions", index.Collisions()))
	}

	obs := e.observer()
	obs.Start(len(files))
	defer obs.Finish()

	state := newRunState(len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := e.classify(f, index, opts, state)
		if err != nil {
			return nil, err
		}

		state.counters.FilesHandled++
		state.records = append(state.records, rec)
		e.logRecord(rec)
		obs.Processed(rec)
	}

	res := state.result()

	// Second pass: anything in the catalog we never saw is missing.
	for _, entry := range index.Entries() {
		if _, ok := res.Seen[entry.Hash]; ok && entry.Hash != "" {
			continue
		}
		res.Missing = append(res.Missing, entry)
		res.Counters.Missing++
	}

	e.logger().Info("reconciliation finished",
		zap.Int("files_handled", res.Counters.FilesHandled),
		zap.Int("matched", res.Counters.Matched),
		zap.Int("duplicates", res.Counters.Duplicates),
		zap.Int("unmatched", res.Counters.Unmatched),
		zap.Int("missing", res.Counters.Missing),
		zap.Int("skipped_existing", res.Counters.SkippedExisting),
	)

	return res, nil
}

func (e *Engine) classify(f File, index *Index, opts Options, state *runState) (Record, error) {
	rec := Record{Path: f.Path, Name: f.Name}

	if opts.SkipExisting && index.HasName(f.Name) {
		dest := filepath.Join(opts.OutputRoot, f.Name)
		if e.Placer.Exists(dest) {
			rec.Outcome = OutcomeSkippedExisting
			rec.Destination = dest
			state.counters.SkippedExisting++
			return rec, nil
		}
	}

	hash, err := e.Fingerprinter.Fingerprint(f.Path, e.Fingerprinter.HeaderSkip(f.Name))
	if err != nil {
		return rec, err
	}
	rec.Fingerprint = hash

	if !state.markSeen(hash) {
		rec.Outcome = OutcomeDuplicate
		state.counters.Duplicates++
		return rec, nil
	}

	entry, ok := index.Lookup(hash)
	if !ok {
		rec.Outcome = OutcomeUnmatched
		state.counters.Unmatched++
		state.unmatched = append(state.unmatched, f.Name)
		return rec, nil
	}

	rec.Outcome = OutcomeMatched
	rec.Entry = &entry
	rec.Destination = filepath.Join(opts.OutputRoot, entry.Name)
	state.counters.Matched++

	placed, err := e.Placer.Place(f.Path, rec.Destination)
	if err != nil {
		return rec, err
	}
	rec.Placement = placed
	return rec, nil
}

// Dedupe places one copy of every distinct file into outputRoot, named by its
// fingerprint plus the original extension. No header bytes are skipped.
func (e *Engine) Dedupe(ctx context.Context, files []File, outputRoot string) (*Result, error) {
	obs := e.observer()
	obs.Start(len(files))
	defer obs.Finish()

	state := newRunState(len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := Record{Path: f.Path, Name: f.Name}
		hash, err := e.Fingerprinter.Fingerprint(f.Path, 0)
		if err != nil {
			return nil, err
		}
		rec.Fingerprint = hash

		if state.markSeen(hash) {
			rec.Outcome = OutcomeUnique
			rec.Destination = filepath.Join(outputRoot, hash+filepath.Ext(f.Name))
			placed, err := e.Placer.Place(f.Path, rec.Destination)
			if err != nil {
				return nil, err
			}
			rec.Placement = placed
		} else {
			rec.Outcome = OutcomeDuplicate
			state.counters.Duplicates++
		}

		state.counters.FilesHandled++
		state.records = append(state.records, rec)
		e.logRecord(rec)
		obs.Processed(rec)
	}

	res := state.result()
	e.logger().Info("dedupe finished",
		zap.Int("files_handled", res.Counters.FilesHandled),
		zap.Int("unique", res.Counters.UniqueHashes),
		zap.Int("duplicates", res.Counters.Duplicates),
	)
	return res, nil
}

func (e *Engine) logRecord(rec Record) {
	fields := []zap.Field{
		zap.String("path", rec.Path),
		zap.String("outcome", rec.Outcome.String()),
	}
	if rec.Fingerprint != "" {
		fields = append(fields, zap.String("md5", rec.Fingerprint))
	}
	if rec.Destination != "" {
		fields = append(fields, zap.String("destination", rec.Destination))
	}
	if rec.Placement != PlacementNone {
		fields = append(fields, zap.String("placement", string(rec.Placement)))
	}
	e.logger().Debug("file classified", fields...)
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Engine) observer() Observer {
	if e.Observer == nil {
		return NopObserver{}
	}
	return e.Observer
}

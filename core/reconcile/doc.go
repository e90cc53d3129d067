// Package reconcile matches the files of an input tree against a reference catalog
// of content hashes and decides where each matched file belongs.
//
// # Architecture
//
// The reconcile system consists of four parts:
//
// 1. Index: built once from catalog entries, maps lowercase MD5 hashes to entries.
//    Lookups are O(1); the index is read-only after construction.
//
// 2. Collect: walks the input tree in lexical order (honoring doublestar exclude
//    patterns) so reports are reproducible between runs.
//
// 3. Engine: for each file, in order, computes the fingerprint, classifies it as
//    matched, duplicate, unmatched or skipped-existing, and hands matches to the
//    Placer. After the walk it computes the catalog entries that were never seen.
//
// 4. Adapters: Fingerprinter, Placer and Observer are interfaces so the engine can be
//    exercised with the real filesystem implementations (feature/fingerprint,
//    feature/placement) or with fakes.
//
// # Guarantees
//
//   - Every file gets exactly one Outcome, and
//     FilesHandled == Matched + Unmatched + Duplicates + SkippedExisting.
//   - UniqueHashes == Matched + Unmatched for catalog runs.
//   - Missing + (entries whose hash was seen) == catalog size.
//   - Placement never overwrites, so re-running over the same output is a no-op.
//
// Options.SkipExisting is a name-only heuristic: a file is skipped when a catalog
// entry with the same name already exists in the output root, without verifying its
// content. It is opt-in for that reason.
//
// # Usage Example
//
//	files, err := reconcile.Collect(ctx, inputRoot, reconcile.CollectOptions{})
//	index := reconcile.NewIndex(entries)
//	engine := reconcile.NewEngine(fingerprint.New(), placement.NewExecutor(placement.ModeHardlink))
//	res, err := engine.Reconcile(ctx, files, index, reconcile.Options{OutputRoot: out})
package reconcile

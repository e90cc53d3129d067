package reconcile

import "strings"

// Index is the hash lookup structure built once from catalog entries.
// It is read-only after NewIndex returns and safe to share between goroutines.
type Index struct {
	byHash     map[string]Entry
	names      map[string]struct{}
	entries    []Entry
	collisions int
}

// NewIndex normalizes entry hashes and indexes them by lowercase hash. SHA1 and
// CatalogMD5 are left as given.
// When two entries share a hash the first one (in load order) wins; the later one
// stays in Entries() but can never be matched. Entries with an empty hash are kept
// in Entries() and are never matched either.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		byHash:  make(map[string]Entry, len(entries)),
		names:   make(map[string]struct{}, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}

	for _, e := range entries {
		e.Hash = NormalizeHash(e.Hash)
		idx.entries = append(idx.entries, e)
		idx.names[e.Name] = struct{}{}

		if e.Hash == "" {
			continue
		}
		if _, exists := idx.byHash[e.Hash]; exists {
			idx.collisions++
			continue
		}
		idx.byHash[e.Hash] = e
	}

	return idx
}

// Lookup returns the entry for hash. The hash is normalized before lookup.
func (i *Index) Lookup(hash string) (Entry, bool) {
	e, ok := i.byHash[NormalizeHash(hash)]
	return e, ok
}

// HasName reports whether any entry uses name as its canonical name.
func (i *Index) HasName(name string) bool {
	_, ok := i.names[name]
	return ok
}

// Entries returns the normalized entries in load order.
func (i *Index) Entries() []Entry {
	return i.entries
}

// Len returns the number of catalog entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// Collisions returns how many entries were shadowed by an earlier entry with the
// same hash. Non-zero means the catalog itself is malformed.
func (i *Index) Collisions() int {
	return i.collisions
}

// NormalizeHash lower-cases and trims a hex digest.
func NormalizeHash(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

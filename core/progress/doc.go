// Package progress renders terminal progress for long matching runs.
//
// Bar implements reconcile.Observer on top of schollz/progressbar. It is purely
// cosmetic: the CLI only attaches it when stderr is a terminal (see IsTerminal).
// AddBytes can be hooked to the hasher so large files show hashed volume.
package progress

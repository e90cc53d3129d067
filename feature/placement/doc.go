// Package placement puts matched files into the output location.
//
// Three modes are supported: hardlink (the default), copy and move. An existing
// destination is never overwritten; Place reports it as skipped instead, which is
// what makes re-running over an organized output tree safe.
//
// Hardlinks cannot cross filesystem boundaries. That failure is returned as a
// placement error and is never downgraded to a copy. Moves fall back to copy and
// remove across filesystems, since the observable result is the same.
package placement

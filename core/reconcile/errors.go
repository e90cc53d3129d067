package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfig marks invalid run configuration (paths, mode, locks).
	ErrConfig = errors.New("configuration error")
	// ErrIO marks read failures while walking or fingerprinting the input tree.
	ErrIO = errors.New("io error")
	// ErrPlacement marks copy/move/hardlink failures at the output location.
	ErrPlacement = errors.New("placement error")
	// ErrCatalog marks malformed catalog documents.
	ErrCatalog = errors.New("catalog error")
)

// Wrap tags err with one of the exported markers above and prefixes it with the
// operation and detail (usually the offending path), so callers can both print a
// useful message and classify it with errors.Is.
func Wrap(marker error, op, detail string, err error) error {
	msg := buildDetail(op, detail)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, msg, err)
	}
	return fmt.Errorf("%w: %s", marker, msg)
}

func buildDetail(op, detail string) string {
	parts := make([]string, 0, 2)
	if op = strings.TrimSpace(op); op != "" {
		parts = append(parts, op)
	}
	if detail = strings.TrimSpace(detail); detail != "" {
		parts = append(parts, detail)
	}
	if len(parts) == 0 {
		return "reconcile failure"
	}
	return strings.Join(parts, ": ")
}

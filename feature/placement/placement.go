package placement

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"dat-matcher/core/reconcile"
)

// Mode selects how a matched file is put into the output location.
type Mode int

const (
	// ModeHardlink creates a second directory entry sharing the source's storage.
	ModeHardlink Mode = iota
	// ModeCopy leaves the source intact.
	ModeCopy
	// ModeMove removes the source after a successful transfer.
	ModeMove
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ModeHardlink:
		return "hardlink"
	case ModeCopy:
		return "copy"
	case ModeMove:
		return "move"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name. Short forms (cp, mv, ln, link) are accepted.
// An empty string yields the default, ModeHardlink.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hardlink", "link", "ln":
		return ModeHardlink, nil
	case "copy", "cp":
		return ModeCopy, nil
	case "move", "mv":
		return ModeMove, nil
	default:
		return 0, reconcile.Wrap(reconcile.ErrConfig, "parse mode", fmt.Sprintf("unknown mode %q (want copy, move or hardlink)", s), nil)
	}
}

// Executor places files into the output location. It never creates directories and
// never overwrites an existing destination.
type Executor struct {
	Mode Mode

	// DryRun reports what would be placed without touching the filesystem.
	DryRun bool
}

// NewExecutor returns an executor for mode.
func NewExecutor(mode Mode) *Executor {
	return &Executor{Mode: mode}
}

// Exists implements reconcile.Placer.
func (e *Executor) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Place implements reconcile.Placer.
func (e *Executor) Place(src, dest string) (reconcile.Placement, error) {
	if e.Exists(dest) {
		return reconcile.PlacementSkipped, nil
	}
	if e.DryRun {
		return reconcile.PlacementPlanned, nil
	}

	var err error
	switch e.Mode {
	case ModeHardlink:
		err = linkFile(src, dest)
		if errors.Is(err, fs.ErrExist) {
			return reconcile.PlacementSkipped, nil
		}
	case ModeCopy:
		err = copyFile(src, dest)
	case ModeMove:
		err = moveFile(src, dest)
	default:
		return reconcile.PlacementNone, reconcile.Wrap(reconcile.ErrPlacement, e.Mode.String(), src+" -> "+dest, errors.New("unsupported mode"))
	}
	if err != nil {
		return reconcile.PlacementNone, reconcile.Wrap(reconcile.ErrPlacement, e.Mode.String(), src+" -> "+dest, err)
	}

	return reconcile.PlacementDone, nil
}

// EnsureDir creates the output root once at run start.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return reconcile.Wrap(reconcile.ErrPlacement, "create output dir", dir, err)
	}
	return nil
}

// linkFile hardlinks the file src refers to, so a symlinked source never turns into
// a link to the symlink itself.
func linkFile(src, dest string) error {
	target, err := filepath.EvalSymlinks(src)
	if err != nil {
		return err
	}
	return os.Link(target, dest)
}

// moveFile renames src to dest, falling back to copy and remove when they live on
// different filesystems. A symlinked source has its target copied and the link
// removed; the target stays where it is.
func moveFile(src, dest string) error {
	if info, err := os.Lstat(src); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := copyFile(src, dest); err != nil {
			return err
		}
		return os.Remove(src)
	}

	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile streams src into a temp file next to dest and renames it into place, so
// an interrupted copy never leaves a truncated file under the canonical name.
func copyFile(src, dest string) error {
	in, err := os.Open(src) // #nosec G304
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), reconcile.PlacingPrefix+"*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, dest)
}

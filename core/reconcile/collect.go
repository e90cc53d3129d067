package reconcile

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Working files the tool leaves in an output root. They are never collected, so an
// output root can be fed back in as input.
const (
	LockFileName  = ".dat-matcher.lock"
	PlacingPrefix = ".placing-"
)

// CollectOptions controls which parts of the input tree are walked.
type CollectOptions struct {
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the root (e.g., "**/*.txt", "BIOS/**"). A matching directory is
	// not descended into.
	Exclude []string

	// SkipDirs holds directories that are never descended into, typically the
	// output root when it lives inside the input root.
	SkipDirs []string

	// OnSkip is told about entries that look like files but are not collected:
	// dangling symlinks, symlinks to directories and special files.
	OnSkip func(path, reason string)
}

// Collect enumerates all regular files under root, including symlinks that resolve
// to regular files. The order is lexical within each directory, so two walks of the
// same tree yield the same sequence. A symlinked root is resolved before walking;
// returned paths keep the root as given.
func Collect(ctx context.Context, root string, opts CollectOptions) ([]File, error) {
	root = filepath.Clean(root)
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, Wrap(ErrIO, "walk", root, err)
	}

	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, dir := range opts.SkipDirs {
		if abs, err := resolveDir(dir); err == nil {
			skip[abs] = struct{}{}
		}
	}

	var files []File
	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return Wrap(ErrIO, "walk", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return Wrap(ErrIO, "walk", path, relErr)
		}
		shown := filepath.Join(root, rel)
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if path == walkRoot {
				return nil
			}
			if abs, absErr := filepath.Abs(path); absErr == nil {
				if _, ok := skip[abs]; ok {
					return filepath.SkipDir
				}
			}
			if excluded(opts.Exclude, slashRel) {
				return filepath.SkipDir
			}
			return nil
		}

		if internalFile(d.Name()) || excluded(opts.Exclude, slashRel) {
			return nil
		}

		var size int64
		switch {
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return Wrap(ErrIO, "stat", path, err)
			}
			size = info.Size()
		case d.Type()&fs.ModeSymlink != 0:
			// Directory links are not followed, so a link back up the tree cannot loop.
			info, err := os.Stat(path)
			switch {
			case err != nil:
				opts.skipped(shown, "dangling symlink")
				return nil
			case !info.Mode().IsRegular():
				opts.skipped(shown, "symlink to non-regular file")
				return nil
			}
			size = info.Size()
		default:
			opts.skipped(shown, "not a regular file")
			return nil
		}

		files = append(files, File{
			Path: shown,
			Name: d.Name(),
			Size: size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (o CollectOptions) skipped(path, reason string) {
	if o.OnSkip != nil {
		o.OnSkip(path, reason)
	}
}

// resolveDir returns the absolute, symlink-free form of dir. A dir that does not
// exist yet is returned as an absolute path.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func internalFile(name string) bool {
	return name == LockFileName || strings.HasPrefix(name, PlacingPrefix)
}

func excluded(patterns []string, rel string) bool {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

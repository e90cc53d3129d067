package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// CatalogBaseName returns the catalog file name without directory and extension.
func CatalogBaseName(catalogPath string) string {
	base := filepath.Base(catalogPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DefaultOutputRoot returns cwd/<catalog base name>, the output directory used when
// none is given.
func DefaultOutputRoot(catalogPath string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, CatalogBaseName(catalogPath)), nil
}

// Absolute cleans p and makes it absolute.
func Absolute(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Resolve is Absolute with symlinks evaluated. A path that does not exist yet is
// returned in its absolute form.
func Resolve(p string) (string, error) {
	abs, err := Absolute(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// SamePath reports whether a and b name the same location. Existing paths are
// compared with os.SameFile so symlinked spellings are detected too.
func SamePath(a, b string) bool {
	absA, errA := Absolute(a)
	absB, errB := Absolute(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// IsWithin reports whether child is root itself or lies below it. Existing paths
// are compared after resolving symlinks.
func IsWithin(root, child string) bool {
	absRoot, err := Resolve(root)
	if err != nil {
		return false
	}
	absChild, err := Resolve(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absChild)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

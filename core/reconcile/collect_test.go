package reconcile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, paths ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, rel := range paths {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(rel), 0o644))
	}
	return root
}

func names(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestCollect(t *testing.T) {
	root := makeTree(t,
		"b.nes",
		"a.nes",
		"sub/z.sfc",
		"sub/deeper/y.gb",
		"BIOS/bios.bin",
		"notes/readme.txt",
	)

	t.Run("LexicalOrder", func(t *testing.T) {
		files, err := Collect(context.Background(), root, CollectOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"bios.bin", "a.nes", "b.nes", "readme.txt", "y.gb", "z.sfc"}, names(files))
		assert.Equal(t, filepath.Join(root, "sub", "deeper", "y.gb"), files[4].Path)
		assert.Equal(t, int64(len("sub/deeper/y.gb")), files[4].Size)
	})

	t.Run("ExcludePatterns", func(t *testing.T) {
		files, err := Collect(context.Background(), root, CollectOptions{
			Exclude: []string{"BIOS", "**/*.txt", " "},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.nes", "b.nes", "y.gb", "z.sfc"}, names(files))
	})

	t.Run("SkipDirs", func(t *testing.T) {
		files, err := Collect(context.Background(), root, CollectOptions{
			SkipDirs: []string{filepath.Join(root, "sub")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"bios.bin", "a.nes", "b.nes", "readme.txt"}, names(files))
	})

	t.Run("MissingRoot", func(t *testing.T) {
		_, err := Collect(context.Background(), filepath.Join(root, "nope"), CollectOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIO))
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Collect(ctx, root, CollectOptions{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestCollect_Symlinks(t *testing.T) {
	root := makeTree(t, "real.bin", "dir/inner.bin")
	symlink(t, filepath.Join(root, "real.bin"), filepath.Join(root, "link.bin"))
	symlink(t, filepath.Join(root, "gone.bin"), filepath.Join(root, "broken.bin"))
	symlink(t, filepath.Join(root, "dir"), filepath.Join(root, "loop"))

	skipped := map[string]string{}
	files, err := Collect(context.Background(), root, CollectOptions{
		OnSkip: func(path, reason string) { skipped[path] = reason },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"inner.bin", "link.bin", "real.bin"}, names(files))
	assert.Equal(t, filepath.Join(root, "link.bin"), files[1].Path)
	assert.Equal(t, int64(len("real.bin")), files[1].Size)
	assert.Equal(t, map[string]string{
		filepath.Join(root, "broken.bin"): "dangling symlink",
		filepath.Join(root, "loop"):       "symlink to non-regular file",
	}, skipped)
}

func TestCollect_SymlinkedRoot(t *testing.T) {
	target := makeTree(t, "a.nes", "out/placed.nes")
	root := filepath.Join(t.TempDir(), "roms")
	symlink(t, target, root)

	t.Run("FollowsRoot", func(t *testing.T) {
		files, err := Collect(context.Background(), root, CollectOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.nes", "placed.nes"}, names(files))
		assert.Equal(t, filepath.Join(root, "a.nes"), files[0].Path)
	})

	t.Run("SkipDirThroughLink", func(t *testing.T) {
		files, err := Collect(context.Background(), root, CollectOptions{
			SkipDirs: []string{filepath.Join(root, "out")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.nes"}, names(files))
	})
}

func TestCollect_IgnoresWorkingFiles(t *testing.T) {
	root := makeTree(t,
		"Game (USA).nes",
		LockFileName,
		PlacingPrefix+"123456",
		"sub/"+PlacingPrefix+"abc",
	)

	files, err := Collect(context.Background(), root, CollectOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Game (USA).nes"}, names(files))
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrPlacement, "copy", "a -> b", cause)

	assert.True(t, errors.Is(err, ErrPlacement))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "placement error: copy: a -> b: permission denied", err.Error())

	assert.Equal(t, "io error: reconcile failure", Wrap(nil, "", "", nil).Error())
}

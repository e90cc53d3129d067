package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dat-matcher/core/reconcile"
	"dat-matcher/core/storage"
	"dat-matcher/core/storage/mocks"
	"dat-matcher/feature/report"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleResult() *reconcile.Result {
	return &reconcile.Result{
		Counters: reconcile.Counters{FilesHandled: 4, UniqueHashes: 3, Duplicates: 1, Matched: 2, Missing: 1, Unmatched: 1, SkippedExisting: 0},
		Missing: []reconcile.Entry{
			{Name: "Gamma (Japan).nes", Hash: "cccccccccccccccccccccccccccccccc", SHA1: "1111111111111111111111111111111111111111"},
		},
		Unmatched: []string{"homebrew.nes"},
	}
}

func TestGenerate(t *testing.T) {
	r := report.Generate(sampleResult())

	assert.Equal(t, "ROM\tMD5\tSHA1\nGamma (Japan).nes\tcccccccccccccccccccccccccccccccc\t1111111111111111111111111111111111111111\n", r.Missing)
	assert.Equal(t, "homebrew.nes\n", r.Unmatched)
	assert.Equal(t, 2, r.Counters.Matched)
}

func TestGenerateEmpty(t *testing.T) {
	r := report.Generate(&reconcile.Result{})

	assert.Equal(t, report.MissingHeader+"\n", r.Missing)
	assert.Empty(t, r.Unmatched)
}

func TestGenerateMissingWithoutSHA1(t *testing.T) {
	r := report.Generate(&reconcile.Result{Missing: []reconcile.Entry{{Name: "a.bin", Hash: "00"}}})
	assert.Equal(t, "ROM\tMD5\tSHA1\na.bin\t00\t\n", r.Missing)
}

func TestGenerateKeepsCatalogSpelling(t *testing.T) {
	r := report.Generate(&reconcile.Result{Missing: []reconcile.Entry{{
		Name:       "Delta (USA).nes",
		Hash:       "0a1b2c3d4e5f60718293a4b5c6d7e8f9",
		CatalogMD5: "0A1B2C3D4E5F60718293A4B5C6D7E8F9",
		SHA1:       "AABBCCDDEEFF00112233445566778899AABBCCDD",
	}}})
	assert.Equal(t, "ROM\tMD5\tSHA1\nDelta (USA).nes\t0A1B2C3D4E5F60718293A4B5C6D7E8F9\tAABBCCDDEEFF00112233445566778899AABBCCDD\n", r.Missing)
}

func TestNames(t *testing.T) {
	missing, unmatched := report.Names("/dats/Nintendo - NES (20240101).dat")
	assert.Equal(t, "Missing - Nintendo - NES (20240101).txt", missing)
	assert.Equal(t, "Unmatched - Nintendo - NES (20240101).txt", unmatched)

	missing, _ = report.Names("catalog")
	assert.Equal(t, "Missing - catalog.txt", missing)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := report.Generate(sampleResult())

	paths, err := report.Write(dir, "NES.dat", r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Missing - NES.txt"), paths.Missing)
	assert.Equal(t, filepath.Join(dir, "Unmatched - NES.txt"), paths.Unmatched)

	data, err := os.ReadFile(paths.Missing)
	require.NoError(t, err)
	assert.Equal(t, r.Missing, string(data))

	data, err = os.ReadFile(paths.Unmatched)
	require.NoError(t, err)
	assert.Equal(t, r.Unmatched, string(data))

	// A second write replaces the previous content.
	_, err = report.Write(dir, "NES.dat", report.Generate(&reconcile.Result{}))
	require.NoError(t, err)
	data, err = os.ReadFile(paths.Unmatched)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteFailure(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := report.Write(filepath.Join(blocker, "sub"), "NES.dat", report.Report{})
	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrIO)
}

func TestSummary(t *testing.T) {
	c := sampleResult().Counters

	out := report.Summary(c, false)
	assert.Contains(t, out, "Files handled")
	assert.Contains(t, out, "Unique hashes")
	assert.Contains(t, out, "Duplicates")
	assert.Contains(t, out, "Matched")
	assert.Contains(t, out, "Missing")
	assert.Contains(t, out, "Unmatched")
	assert.NotContains(t, out, "Skipped")

	out = report.Summary(c, true)
	assert.Contains(t, out, "Skipped (existing)")

	out = report.DedupeSummary(c)
	assert.NotContains(t, out, "Missing")
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	paths, err := report.Write(dir, "NES.dat", report.Generate(sampleResult()))
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(true, nil)
		m.On("PutObject", mock.Anything, "reports", "runs/Missing - NES.txt", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
			Return(minio.UploadInfo{Size: 10}, nil)
		m.On("PutObject", mock.Anything, "reports", "runs/Unmatched - NES.txt", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
			Return(minio.UploadInfo{Size: 13}, nil)

		u := report.NewUploader(m, storage.Config{Bucket: "reports", Prefix: "runs/"}, nil)
		keys, err := u.Upload(context.Background(), paths)
		require.NoError(t, err)
		assert.Equal(t, []string{"runs/Missing - NES.txt", "runs/Unmatched - NES.txt"}, keys)
		m.AssertExpectations(t)
	})

	t.Run("BucketUnavailable", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("access denied"))

		_, err := report.NewUploader(m, storage.Config{Bucket: "reports"}, nil).Upload(context.Background(), paths)
		require.Error(t, err)
		assert.ErrorIs(t, err, reconcile.ErrIO)
		m.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PutFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(true, nil)
		m.On("PutObject", mock.Anything, "reports", "Missing - NES.txt", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
			Return(minio.UploadInfo{}, errors.New("quota exceeded"))

		keys, err := report.NewUploader(m, storage.Config{Bucket: "reports"}, nil).Upload(context.Background(), paths)
		require.Error(t, err)
		assert.Empty(t, keys)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dat-matcher/core/storage"
	"dat-matcher/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(true, nil)

		err := storage.EnsureBucket(ctx, m, "reports", "", zap.NewNop())
		assert.NoError(t, err)
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(false, nil)
		m.On("MakeBucket", mock.Anything, "reports", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		err := storage.EnsureBucket(ctx, m, "reports", "eu-west-1", zap.NewNop())
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "reports").Return(false, errors.New("connection refused"))

		err := storage.EnsureBucket(ctx, m, "reports", "", zap.NewNop())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "reports/Missing - NES.txt", storage.ObjectName("reports/", "/tmp/x/Missing - NES.txt"))
	assert.Equal(t, "a/b/file.txt", storage.ObjectName("/a/b/", "file.txt"))
	assert.Equal(t, "file.txt", storage.ObjectName("", "dir/file.txt"))
}

func TestUploadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Unmatched - NES.txt")
	require.NoError(t, os.WriteFile(p, []byte("rom1.nes\n"), 0o600))

	m := new(mocks.Client)
	m.On("PutObject", mock.Anything, "reports", "runs/Unmatched - NES.txt", mock.Anything, int64(9), minio.PutObjectOptions{ContentType: "text/plain"}).
		Return(minio.UploadInfo{Key: "runs/Unmatched - NES.txt", Size: 9}, nil)

	info, err := storage.UploadFile(context.Background(), m, "reports", "runs/Unmatched - NES.txt", p, "text/plain")
	require.NoError(t, err)
	assert.Equal(t, int64(9), info.Size)
	m.AssertExpectations(t)

	_, err = storage.UploadFile(context.Background(), m, "reports", "x", filepath.Join(t.TempDir(), "missing.txt"), "text/plain")
	assert.Error(t, err)
}

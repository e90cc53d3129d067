package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// EnsureBucket checks that bucket exists and creates it when it does not.
func EnsureBucket(ctx context.Context, client Client, bucket, region string, logger *zap.Logger) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}

// ObjectName joins prefix and the base name of file into an object key.
func ObjectName(prefix, file string) string {
	prefix = strings.Trim(prefix, "/")
	base := filepath.Base(file)
	if prefix == "" {
		return base
	}
	return path.Join(prefix, base)
}

// UploadFile uploads the local file at localPath under objectName.
func UploadFile(ctx context.Context, client Client, bucket, objectName, localPath, contentType string) (minio.UploadInfo, error) {
	f, err := os.Open(localPath) // #nosec G304
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	up, err := client.PutObject(ctx, bucket, objectName, f, info.Size(), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return minio.UploadInfo{}, fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return up, nil
}

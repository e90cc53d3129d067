package report

import (
	"context"

	"dat-matcher/core/reconcile"
	"dat-matcher/core/storage"

	"go.uber.org/zap"
)

// Uploader pushes written report files to object storage.
type Uploader struct {
	Client storage.Client
	Bucket string
	Region string
	Prefix string
	Logger *zap.Logger
}

// NewUploader creates an uploader from the storage configuration.
func NewUploader(client storage.Client, cfg storage.Config, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		Client: client,
		Bucket: cfg.Bucket,
		Region: cfg.Region,
		Prefix: cfg.Prefix,
		Logger: logger,
	}
}

// Upload ensures the bucket exists and uploads each report file. It returns the
// object keys in the order of paths.
func (u *Uploader) Upload(ctx context.Context, paths Paths) ([]string, error) {
	if err := storage.EnsureBucket(ctx, u.Client, u.Bucket, u.Region, u.Logger); err != nil {
		return nil, reconcile.Wrap(reconcile.ErrIO, "upload", "bucket "+u.Bucket, err)
	}

	keys := make([]string, 0, 2)
	for _, p := range paths.All() {
		if err := ctx.Err(); err != nil {
			return keys, err
		}
		key := storage.ObjectName(u.Prefix, p)
		info, err := storage.UploadFile(ctx, u.Client, u.Bucket, key, p, "text/plain; charset=utf-8")
		if err != nil {
			return keys, reconcile.Wrap(reconcile.ErrIO, "upload", key, err)
		}
		u.Logger.Info("Uploaded report",
			zap.String("bucket", u.Bucket),
			zap.String("key", key),
			zap.Int64("size", info.Size),
		)
		keys = append(keys, key)
	}
	return keys, nil
}

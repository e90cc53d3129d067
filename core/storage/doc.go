// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so run reports can be uploaded to AWS S3 or a
// self-hosted MinIO instance after a matching run.
//
// # Client Interface
//
// The Client interface only exposes the calls the uploader needs, which keeps the
// testify mock in core/storage/mocks small.
//
// # Operations
//
//   - EnsureBucket: Verifies access to the target bucket and creates it if missing.
//   - UploadFile: Streams a local file to an object.
//   - ObjectName: Builds an object key from the configured prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region, logger)
//	_, err = storage.UploadFile(ctx, client, cfg.Storage.Bucket, key, path, "text/plain")
package storage

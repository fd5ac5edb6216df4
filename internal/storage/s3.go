package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/balkashynov/tock/internal/config"
)

const snapshotContentType = "application/vnd.sqlite3"

// S3Gateway talks to any S3-compatible endpoint (AWS, MinIO, R2, ...).
type S3Gateway struct {
	client *minio.Client
	region string
	logger *slog.Logger
}

// NewS3Gateway validates the storage settings and builds a client. It fails
// before any network call when credentials are missing.
func NewS3Gateway(cfg config.Storage, logger *slog.Logger) (*S3Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &S3Gateway{client: client, region: cfg.Region, logger: logger}, nil
}

// CreateBucket implements Gateway.CreateBucket.
func (g *S3Gateway) CreateBucket(ctx context.Context, bucket string) (bool, error) {
	exists, err := g.client.BucketExists(ctx, bucket)
	if err == nil && exists {
		return false, nil
	}

	err = g.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: g.region})
	if err != nil {
		switch minio.ToErrorResponse(err).Code {
		case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
			return false, nil
		}
		return false, fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	g.logger.Info("bucket created", "bucket", bucket)
	return true, nil
}

// ListObjects implements Gateway.ListObjects.
func (g *S3Gateway) ListObjects(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range g.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", bucket, obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			LastModified: obj.LastModified,
			Size:         obj.Size,
		})
	}
	return objects, nil
}

// UploadFile implements Gateway.UploadFile.
func (g *S3Gateway) UploadFile(ctx context.Context, bucket, localPath, key string) error {
	info, err := g.client.FPutObject(ctx, bucket, key, localPath, minio.PutObjectOptions{
		ContentType: snapshotContentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s to %s/%s: %w", localPath, bucket, key, err)
	}

	g.logger.Debug("uploaded object", "bucket", bucket, "key", key, "size", info.Size)
	return nil
}

// DownloadFile implements Gateway.DownloadFile.
func (g *S3Gateway) DownloadFile(ctx context.Context, bucket, key, destPath string) error {
	if err := g.client.FGetObject(ctx, bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}

	g.logger.Debug("downloaded object", "bucket", bucket, "key", key, "dest", destPath)
	return nil
}

// DeleteObject implements Gateway.DeleteObject.
func (g *S3Gateway) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := g.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

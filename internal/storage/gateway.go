// Package storage is the object-store side of sync: a bucket holding one
// database snapshot under a fixed key.
package storage

import (
	"context"
	"time"
)

// ObjectInfo describes one object in a bucket listing.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
	Size         int64
}

// Gateway is the subset of an S3-compatible store that sync needs.
//
// Implementations return transport errors rather than swallowing them; the
// caller decides which ones are fatal.
type Gateway interface {
	// CreateBucket makes the bucket if needed. An existing bucket, owned by
	// us or not, is reported as (false, nil).
	CreateBucket(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket string) ([]ObjectInfo, error)
	UploadFile(ctx context.Context, bucket, localPath, key string) error
	DownloadFile(ctx context.Context, bucket, key, destPath string) error
	DeleteObject(ctx context.Context, bucket, key string) error
}

// HasKey reports whether key appears in a listing.
func HasKey(objects []ObjectInfo, key string) bool {
	for _, obj := range objects {
		if obj.Key == key {
			return true
		}
	}
	return false
}

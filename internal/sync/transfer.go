package sync

import (
	"context"
	"fmt"
	"os"

	"github.com/balkashynov/tock/internal/storage"
)

// sidecars are files sqlite or the object-store client may leave next to
// the staged snapshot.
var sidecars = []string{"", ".part.minio", "-journal", "-wal", "-shm"}

// WithRemoteSnapshot downloads bucket/key into a temp file under dir (the
// system temp dir when empty), hands its path to fn and removes it again on
// every exit path.
func WithRemoteSnapshot(ctx context.Context, gw storage.Gateway, bucket, key, dir string, fn func(path string) error) error {
	tmp, err := os.CreateTemp(dir, "tock-remote-*.db")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	_ = tmp.Close()

	defer func() {
		for _, suffix := range sidecars {
			_ = os.Remove(path + suffix)
		}
	}()

	if err := gw.DownloadFile(ctx, bucket, key, path); err != nil {
		return &TransferError{Op: "download", Bucket: bucket, Key: key, Err: err}
	}

	return fn(path)
}

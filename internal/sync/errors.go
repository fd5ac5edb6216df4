package sync

import "fmt"

// TransferError wraps a failed object-store operation.
type TransferError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// CorruptSnapshotError reports a downloaded snapshot that cannot be read as
// a tock database.
type CorruptSnapshotError struct {
	Path string
	Err  error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("remote snapshot %s is not a valid database: %v", e.Path, e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error {
	return e.Err
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/storage"
)

// Outcome names the branch a sync pass took.
type Outcome int

const (
	OutcomeBootstrapped   Outcome = iota + 1 // no remote snapshot, local uploaded
	OutcomeUpToDate                          // identical snapshots, nothing done
	OutcomeMerged                            // remote merged into local, local uploaded
	OutcomeRemoteReplaced                    // remote unreadable, local uploaded as-is
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBootstrapped:
		return "bootstrapped"
	case OutcomeUpToDate:
		return "up to date"
	case OutcomeMerged:
		return "merged"
	case OutcomeRemoteReplaced:
		return "remote replaced"
	}
	return "unknown"
}

// Result describes a finished sync pass.
type Result struct {
	Outcome  Outcome
	Merge    MergeResult
	Uploaded bool // whether the local file reached the bucket during this pass
}

// Options configures a Syncer.
type Options struct {
	Bucket     string
	Key        string // fixed snapshot key, e.g. "tock.db"
	LocalPath  string // file behind the local handle
	TempDir    string // staging dir for the download; system temp when empty
	Out        io.Writer
	Logger     *slog.Logger
	Reconciler Reconciler // defaults to a RowReconciler
}

// Syncer runs sync passes between one local database and one bucket.
type Syncer struct {
	local      *gorm.DB
	gateway    storage.Gateway
	bucket     string
	key        string
	localPath  string
	tempDir    string
	out        io.Writer
	logger     *slog.Logger
	reconciler Reconciler
}

// New creates a Syncer. The local handle must stay open for the lifetime of
// the Syncer and must be the database stored at opts.LocalPath.
func New(local *gorm.DB, gw storage.Gateway, opts Options) *Syncer {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Reconciler == nil {
		opts.Reconciler = NewRowReconciler(opts.Logger)
	}
	return &Syncer{
		local:      local,
		gateway:    gw,
		bucket:     opts.Bucket,
		key:        opts.Key,
		localPath:  opts.LocalPath,
		tempDir:    opts.TempDir,
		out:        opts.Out,
		logger:     opts.Logger,
		reconciler: opts.Reconciler,
	}
}

// Sync runs one pass. Transport problems are logged and absorbed, and an
// unreadable remote snapshot is replaced with the local file. The returned
// error is reserved for failures writing the local database.
func (s *Syncer) Sync(ctx context.Context) (Result, error) {
	logger := s.logger.With("pass", uuid.NewString(), "bucket", s.bucket, "key", s.key)
	logger.Info("sync pass started", "local", s.localPath)

	s.ensureBucket(ctx, logger)

	objects, err := s.gateway.ListObjects(ctx, s.bucket)
	if err != nil {
		logger.Error("listing bucket failed, treating it as empty", "error", err)
		objects = nil
	}

	if !storage.HasKey(objects, s.key) {
		s.printf("No remote snapshot found in %s, uploading local database as the initial snapshot", s.bucket)
		result := Result{Outcome: OutcomeBootstrapped, Uploaded: s.upload(ctx, logger)}
		logger.Info("sync pass finished", "outcome", result.Outcome)
		return result, nil
	}

	var result Result
	err = WithRemoteSnapshot(ctx, s.gateway, s.bucket, s.key, s.tempDir, func(remotePath string) error {
		same, err := InSync(remotePath, s.localPath)
		if err != nil {
			return err
		}
		if same {
			result.Outcome = OutcomeUpToDate
			return nil
		}

		s.printf("Differences detected between local and remote databases, merging")
		remote, err := OpenSnapshot(remotePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := CloseSnapshot(remote); err != nil {
				logger.Warn("closing remote snapshot failed", "error", err)
			}
		}()

		merge, err := s.reconciler.Reconcile(ctx, s.local, remote)
		if err != nil {
			return err
		}
		result.Outcome = OutcomeMerged
		result.Merge = merge
		return nil
	})

	var (
		transferErr *TransferError
		corruptErr  *CorruptSnapshotError
	)
	switch {
	case errors.As(err, &transferErr), errors.As(err, &corruptErr):
		logger.Error("remote snapshot unusable, replacing it with local", "error", err)
		s.printf("Remote snapshot could not be read (%v), replacing it with the local database", err)
		result = Result{Outcome: OutcomeRemoteReplaced, Uploaded: s.upload(ctx, logger)}

	case err != nil:
		logger.Error("sync pass failed", "error", err)
		return Result{}, fmt.Errorf("sync failed: %w", err)

	case result.Outcome == OutcomeUpToDate:
		s.printf("Local and remote databases are in sync, nothing to do")

	default:
		m := result.Merge
		s.printf("Merged remote changes: %d added, %d updated, %d local changes to upload, %d unchanged",
			m.Inserted, m.Overwritten, m.KeptLocal, m.Unchanged)
		result.Uploaded = s.upload(ctx, logger)
	}

	logger.Info("sync pass finished", "outcome", result.Outcome, "inserted", result.Merge.Inserted,
		"overwritten", result.Merge.Overwritten, "kept_local", result.Merge.KeptLocal)
	return result, nil
}

// ensureBucket creates the bucket if needed. Failures are only logged; the
// listing that follows will tell whether the bucket is usable.
func (s *Syncer) ensureBucket(ctx context.Context, logger *slog.Logger) {
	created, err := s.gateway.CreateBucket(ctx, s.bucket)
	if err != nil {
		logger.Error("creating bucket failed", "error", err)
		return
	}
	if created {
		s.printf("Created bucket %s", s.bucket)
	}
}

// upload pushes the local file to the snapshot key and reports success.
func (s *Syncer) upload(ctx context.Context, logger *slog.Logger) bool {
	if err := s.gateway.UploadFile(ctx, s.bucket, s.localPath, s.key); err != nil {
		transferErr := &TransferError{Op: "upload", Bucket: s.bucket, Key: s.key, Err: err}
		logger.Error("upload failed", "error", transferErr)
		s.printf("Upload to %s/%s failed: %v", s.bucket, s.key, err)
		return false
	}
	s.printf("Uploaded local database to %s/%s", s.bucket, s.key)
	return true
}

func (s *Syncer) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

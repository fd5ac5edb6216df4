package sync

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/logging"
)

const (
	testBucket = "tock"
	testKey    = "tock.db"
)

func newTestSyncer(t *testing.T, local *gorm.DB, localPath string, gw *memGateway, reconciler Reconciler) (*Syncer, *bytes.Buffer, string) {
	t.Helper()

	var out bytes.Buffer
	tempDir := t.TempDir()
	s := New(local, gw, Options{
		Bucket:     testBucket,
		Key:        testKey,
		LocalPath:  localPath,
		TempDir:    tempDir,
		Out:        &out,
		Logger:     logging.Discard(),
		Reconciler: reconciler,
	})
	return s, &out, tempDir
}

func TestSync_BootstrapUploadsLocal(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	s, out, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeBootstrapped, result.Outcome)
	assert.True(t, result.Uploaded)
	require.Len(t, gw.buckets[testBucket], 1)
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
	assert.Contains(t, out.String(), "No remote snapshot found")
}

func TestSync_Idempotent(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100), item(2, "meeting", 120))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(2, "meeting", 150), item(3, "review", 90)))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	first, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeMerged, first.Outcome)

	localAfterFirst := readFile(t, localPath)
	remoteAfterFirst := gw.buckets[testBucket][testKey]
	require.Equal(t, localAfterFirst, remoteAfterFirst)
	uploads := gw.uploads

	for i := 0; i < 2; i++ {
		again, err := s.Sync(context.Background())
		require.NoError(t, err)
		assert.Equal(t, OutcomeUpToDate, again.Outcome)
	}

	assert.Equal(t, localAfterFirst, readFile(t, localPath))
	assert.Equal(t, remoteAfterFirst, gw.buckets[testBucket][testKey])
	assert.Equal(t, uploads, gw.uploads, "identical snapshots must not be re-uploaded")
}

func TestSync_IdenticalSnapshotsSkipReconciler(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, readFile(t, localPath))

	spy := &spyReconciler{}
	s, out, _ := newTestSyncer(t, local, localPath, gw, spy)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeUpToDate, result.Outcome)
	assert.Equal(t, 0, spy.calls)
	assert.Equal(t, 0, gw.uploads)
	assert.Contains(t, out.String(), "in sync")
}

func TestSync_RemoteNewerWins(t *testing.T) {
	local, localPath := openLocal(t, item(5, "work", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(5, "meeting", 200)))

	spy := &spyReconciler{}
	s, _, _ := newTestSyncer(t, local, localPath, gw, spy)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeMerged, result.Outcome)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, 1, result.Merge.Overwritten)

	got := localItems(t, local)[5]
	assert.Equal(t, "meeting", got.Tag)
	assert.Equal(t, int64(200), got.UpdatedAt)
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
}

func TestSync_LocalNewerKept(t *testing.T) {
	local, localPath := openLocal(t, item(5, "work", 300))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(5, "meeting", 200)))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeMerged, result.Outcome)
	assert.Equal(t, 1, result.Merge.KeptLocal)
	assert.True(t, result.Uploaded)

	got := localItems(t, local)[5]
	assert.Equal(t, "work", got.Tag)
	assert.Equal(t, int64(300), got.UpdatedAt)
}

func TestSync_UnionOfIDs(t *testing.T) {
	local, localPath := openLocal(t, item(1, "local-only", 100), item(2, "shared-local", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(2, "shared-remote", 100), item(3, "remote-only", 100)))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MergeResult{Inserted: 1, KeptLocal: 1, Unchanged: 1}, result.Merge)

	items := localItems(t, local)
	require.Len(t, items, 3)
	assert.Equal(t, "local-only", items[1].Tag)
	assert.Equal(t, "shared-local", items[2].Tag, "ties keep local")
	assert.True(t, items[3].SameContent(item(3, "remote-only", 100)), "remote-only rows are copied verbatim")
}

func TestSync_CorruptRemoteIsReplaced(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, []byte("definitely not a sqlite database, just some bytes"))
	spy := &spyReconciler{}
	s, out, _ := newTestSyncer(t, local, localPath, gw, spy)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeRemoteReplaced, result.Outcome)
	assert.Equal(t, 0, spy.calls)
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
	assert.Contains(t, out.String(), "could not be read")
	assert.Len(t, localItems(t, local), 1)
}

func TestSync_RemoteWithoutItemsTableIsReplaced(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))

	other, otherPath := openLocal(t)
	require.NoError(t, other.Exec("DROP TABLE items").Error)
	require.NoError(t, other.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY)").Error)

	gw := newMemGateway()
	gw.put(t, testBucket, testKey, readFile(t, otherPath))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoteReplaced, result.Outcome)
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
}

func TestSync_RemoteWithForeignItemsSchemaIsReplaced(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	before := localItems(t, local)

	other, otherPath := openLocal(t)
	require.NoError(t, other.Exec("DROP TABLE items").Error)
	require.NoError(t, other.Exec("CREATE TABLE items (id INTEGER PRIMARY KEY, title TEXT)").Error)
	require.NoError(t, other.Exec("INSERT INTO items (id, title) VALUES (9, 'legacy row')").Error)

	gw := newMemGateway()
	gw.put(t, testBucket, testKey, readFile(t, otherPath))
	spy := &spyReconciler{}
	s, _, _ := newTestSyncer(t, local, localPath, gw, spy)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeRemoteReplaced, result.Outcome)
	assert.Equal(t, 0, spy.calls)
	assert.Equal(t, before, localItems(t, local))
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
}

func TestSync_UnreadableRemoteRowsAreReplaced(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	before := localItems(t, local)

	other, otherPath := openLocal(t, item(2, "remote", 100))
	require.NoError(t, other.Exec(
		"INSERT INTO items (id, start, tag, notes, pomodoro, updated_at, created_at, deleted) "+
			"VALUES (3, 100, 'broken', '', 0, 'not-a-number', 1, 0)").Error)

	gw := newMemGateway()
	gw.put(t, testBucket, testKey, readFile(t, otherPath))
	spy := &spyReconciler{}
	s, _, _ := newTestSyncer(t, local, localPath, gw, spy)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, spy.calls, "snapshot opens fine, rows fail to load")
	assert.Equal(t, OutcomeRemoteReplaced, result.Outcome)
	assert.Equal(t, before, localItems(t, local))
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
}

func TestSync_DownloadFailureFallsBack(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(2, "remote", 100)))
	gw.downloadErr = errors.New("connection reset")
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoteReplaced, result.Outcome)
	assert.Equal(t, readFile(t, localPath), gw.buckets[testBucket][testKey])
}

func TestSync_TransportErrorsAreAbsorbed(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	gw.createErr = errors.New("access denied")
	gw.listErr = errors.New("timeout")
	gw.uploadErr = errors.New("broken pipe")
	s, out, _ := newTestSyncer(t, local, localPath, gw, nil)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeBootstrapped, result.Outcome)
	assert.False(t, result.Uploaded)
	assert.Contains(t, out.String(), "failed")
}

func TestSync_RemoteTombstonePropagates(t *testing.T) {
	local, localPath := openLocal(t, item(4, "work", 100))

	tombstone := item(4, "work", 150)
	tombstone.Deleted = true
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, tombstone))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	got := localItems(t, local)[4]
	assert.True(t, got.Deleted)
	assert.Equal(t, int64(150), got.UpdatedAt)
}

func TestSync_RemoteUndeletePropagates(t *testing.T) {
	deleted := item(4, "work", 100)
	deleted.Deleted = true
	local, localPath := openLocal(t, deleted)

	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(4, "work", 180)))
	s, _, _ := newTestSyncer(t, local, localPath, gw, nil)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, localItems(t, local)[4].Deleted)
}

func TestSync_TempFileIsRemoved(t *testing.T) {
	local, localPath := openLocal(t, item(1, "work", 100))
	gw := newMemGateway()
	gw.put(t, testBucket, testKey, snapshotBytes(t, item(2, "remote", 100)))
	s, _, tempDir := newTestSyncer(t, local, localPath, gw, nil)

	_, err := s.Sync(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

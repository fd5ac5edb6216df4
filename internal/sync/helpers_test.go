package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/logging"
	"github.com/balkashynov/tock/internal/models"
	"github.com/balkashynov/tock/internal/storage"
)

// memGateway is an in-memory storage.Gateway.
type memGateway struct {
	buckets map[string]map[string][]byte

	createErr   error
	listErr     error
	downloadErr error
	uploadErr   error

	uploads   int
	downloads int
}

func newMemGateway() *memGateway {
	return &memGateway{buckets: make(map[string]map[string][]byte)}
}

func (g *memGateway) CreateBucket(_ context.Context, bucket string) (bool, error) {
	if g.createErr != nil {
		return false, g.createErr
	}
	if _, ok := g.buckets[bucket]; ok {
		return false, nil
	}
	g.buckets[bucket] = make(map[string][]byte)
	return true, nil
}

func (g *memGateway) ListObjects(_ context.Context, bucket string) ([]storage.ObjectInfo, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	var objects []storage.ObjectInfo
	for key, data := range g.buckets[bucket] {
		objects = append(objects, storage.ObjectInfo{Key: key, Size: int64(len(data)), LastModified: time.Now()})
	}
	return objects, nil
}

func (g *memGateway) UploadFile(_ context.Context, bucket, localPath, key string) error {
	if g.uploadErr != nil {
		return g.uploadErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	if g.buckets[bucket] == nil {
		g.buckets[bucket] = make(map[string][]byte)
	}
	g.buckets[bucket][key] = data
	g.uploads++
	return nil
}

func (g *memGateway) DownloadFile(_ context.Context, bucket, key, destPath string) error {
	if g.downloadErr != nil {
		return g.downloadErr
	}
	data, ok := g.buckets[bucket][key]
	if !ok {
		return errors.New("NoSuchKey")
	}
	g.downloads++
	return os.WriteFile(destPath, data, 0644)
}

func (g *memGateway) DeleteObject(_ context.Context, bucket, key string) error {
	delete(g.buckets[bucket], key)
	return nil
}

func (g *memGateway) put(t *testing.T, bucket, key string, data []byte) {
	t.Helper()
	if g.buckets[bucket] == nil {
		g.buckets[bucket] = make(map[string][]byte)
	}
	g.buckets[bucket][key] = data
}

// spyReconciler records calls and delegates to a RowReconciler.
type spyReconciler struct {
	calls int
}

func (s *spyReconciler) Reconcile(ctx context.Context, local, remote *gorm.DB) (MergeResult, error) {
	s.calls++
	return NewRowReconciler(logging.Discard()).Reconcile(ctx, local, remote)
}

func ended(ts int64) *int64 { return &ts }

// item builds a finished item with the given id, tag and updated_at.
func item(id int64, tag string, updatedAt int64) models.Item {
	return models.Item{
		ID:        id,
		Start:     1_700_000_000 + id*3600,
		End:       ended(1_700_000_000 + id*3600 + 1800),
		Tag:       tag,
		Notes:     "",
		UpdatedAt: updatedAt,
		CreatedAt: 50,
	}
}

// openLocal creates the local database with rows and keeps it open.
func openLocal(t *testing.T, items ...models.Item) (*gorm.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tock.db")
	handle, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(handle) })

	for _, it := range items {
		require.NoError(t, handle.Create(&it).Error)
	}
	return handle, path
}

// snapshotBytes builds a closed database file holding rows and returns its bytes.
func snapshotBytes(t *testing.T, items ...models.Item) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "remote.db")
	handle, err := db.Open(path)
	require.NoError(t, err)
	for _, it := range items {
		require.NoError(t, handle.Create(&it).Error)
	}
	require.NoError(t, db.Close(handle))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func localItems(t *testing.T, handle *gorm.DB) map[int64]models.Item {
	t.Helper()
	items, err := loadItems(context.Background(), handle)
	require.NoError(t, err)
	return items
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

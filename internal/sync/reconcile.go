package sync

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/models"
)

// MergeResult counts what a reconciliation did to the local database.
type MergeResult struct {
	Inserted    int // remote-only rows copied in
	Overwritten int // rows where the remote copy was newer
	KeptLocal   int // local-only or local-newer rows, carried by the upload
	Unchanged   int // same updated_at on both sides
}

// Changed reports whether the local database was written to.
func (r MergeResult) Changed() bool {
	return r.Inserted > 0 || r.Overwritten > 0
}

// Reconciler merges the rows of a remote snapshot into the local database.
type Reconciler interface {
	Reconcile(ctx context.Context, local, remote *gorm.DB) (MergeResult, error)
}

// RowReconciler is the last-writer-wins Reconciler keyed on item id.
type RowReconciler struct {
	logger *slog.Logger
}

// NewRowReconciler returns a RowReconciler. A nil logger uses slog.Default.
func NewRowReconciler(logger *slog.Logger) *RowReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowReconciler{logger: logger}
}

// Reconcile implements Reconciler.
//
// For every id in either database:
//   - only in remote: the remote row is inserted verbatim
//   - only in local: left alone, the next upload carries it
//   - in both: the side with the greater updated_at wins; on a tie local is
//     kept. A winning remote row replaces every local field, deleted included.
//
// Remote rows are read before anything is written, so a snapshot that
// cannot be read leaves local untouched and surfaces as *CorruptSnapshotError.
func (r *RowReconciler) Reconcile(ctx context.Context, local, remote *gorm.DB) (MergeResult, error) {
	var result MergeResult

	remoteItems, err := loadItems(ctx, remote)
	if err != nil {
		return result, &CorruptSnapshotError{Path: "remote", Err: err}
	}
	localItems, err := loadItems(ctx, local)
	if err != nil {
		return result, fmt.Errorf("failed to load local items: %w", err)
	}

	ids := make(map[int64]struct{}, len(localItems)+len(remoteItems))
	for id := range localItems {
		ids[id] = struct{}{}
	}
	for id := range remoteItems {
		ids[id] = struct{}{}
	}

	err = local.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range slices.Sorted(maps.Keys(ids)) {
			localItem, inLocal := localItems[id]
			remoteItem, inRemote := remoteItems[id]

			switch {
			case !inLocal:
				if err := tx.Create(&remoteItem).Error; err != nil {
					return fmt.Errorf("insert item #%d: %w", id, err)
				}
				result.Inserted++
				r.logger.Debug("imported remote item", "id", id, "tag", remoteItem.Tag)

			case !inRemote:
				result.KeptLocal++
				r.logger.Info("local item will be uploaded", "id", id)

			case remoteItem.UpdatedAt > localItem.UpdatedAt:
				if err := tx.Save(&remoteItem).Error; err != nil {
					return fmt.Errorf("update item #%d: %w", id, err)
				}
				result.Overwritten++
				r.logger.Debug("remote item is newer", "id", id,
					"local_updated_at", localItem.UpdatedAt, "remote_updated_at", remoteItem.UpdatedAt,
					"deleted", remoteItem.Deleted)

			case localItem.UpdatedAt > remoteItem.UpdatedAt:
				result.KeptLocal++
				r.logger.Info("local item is newer and will be uploaded", "id", id)

			default:
				result.Unchanged++
			}
		}
		return nil
	})
	if err != nil {
		return MergeResult{}, err
	}

	return result, nil
}

// loadItems reads every row of items, tombstones included, keyed by id.
func loadItems(ctx context.Context, handle *gorm.DB) (map[int64]models.Item, error) {
	var rows []models.Item
	if err := handle.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make(map[int64]models.Item, len(rows))
	for _, row := range rows {
		items[row.ID] = row
	}
	return items, nil
}

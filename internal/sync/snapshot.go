package sync

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/db"
	"github.com/balkashynov/tock/internal/models"
)

// OpenSnapshot opens a downloaded snapshot read-only and checks that it is a
// sqlite database whose items table has every column of models.Item. Rows
// read through the handle map onto models.Item like the local ones. Any
// failure is a *CorruptSnapshotError.
func OpenSnapshot(path string) (*gorm.DB, error) {
	handle, err := db.OpenReadOnly(path)
	if err != nil {
		return nil, &CorruptSnapshotError{Path: path, Err: err}
	}

	var tables int64
	err = handle.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		models.Item{}.TableName()).Scan(&tables).Error
	if err == nil && tables == 0 {
		err = errors.New("no items table")
	}
	if err == nil {
		err = checkColumns(handle)
	}
	if err != nil {
		_ = db.Close(handle)
		return nil, &CorruptSnapshotError{Path: path, Err: err}
	}

	return handle, nil
}

// CloseSnapshot releases a handle returned by OpenSnapshot.
func CloseSnapshot(handle *gorm.DB) error {
	return db.Close(handle)
}

// checkColumns fails when the items table lacks a column models.Item maps.
func checkColumns(handle *gorm.DB) error {
	stmt := &gorm.Statement{DB: handle}
	if err := stmt.Parse(&models.Item{}); err != nil {
		return err
	}

	var missing []string
	for _, column := range stmt.Schema.DBNames {
		if !handle.Migrator().HasColumn(&models.Item{}, column) {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("items table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

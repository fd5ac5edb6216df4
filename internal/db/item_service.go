package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/tock/internal/models"
)

// now is swapped in tests.
var now = time.Now

// ErrNoActiveItem is returned when an operation needs a running timer.
var ErrNoActiveItem = errors.New("no active item found")

// StartItemRequest holds the data needed to start tracking.
type StartItemRequest struct {
	Tag      string
	Notes    string
	Pomodoro int        // minutes, 0 for a plain timer
	At       *time.Time // defaults to now
}

// UpdateItemRequest describes an edit; nil fields are left untouched.
type UpdateItemRequest struct {
	ID    int64
	Tag   *string
	Notes *string
	Start *time.Time
	End   *time.Time
}

// ItemQueryOptions filters item listings. Zero times leave that side open.
type ItemQueryOptions struct {
	From time.Time
	To   time.Time
	Tag  string
}

// stamp returns the next updated_at for a row last written at prev. It is
// always greater than prev, even when the wall clock is behind the writer
// that produced prev, so a local edit never ties with the copy it replaced.
func stamp(prev int64) int64 {
	ts := now().Unix()
	if ts <= prev {
		return prev + 1
	}
	return ts
}

// live scopes a query to rows that have not been soft-deleted.
func live(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted = ?", false)
}

// StartItem starts a new timer. Only one item may run at a time.
func StartItem(req StartItemRequest) (*models.Item, error) {
	active, err := GetActiveItem()
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("item #%d (%s) is already running. Stop it first with 'tock stop'", active.ID, active.Tag)
	}

	tag := strings.TrimSpace(req.Tag)
	if tag == "" {
		return nil, fmt.Errorf("a tag is required")
	}
	if req.Pomodoro < 0 {
		return nil, fmt.Errorf("pomodoro minutes must be positive")
	}

	startAt := now()
	if req.At != nil {
		startAt = *req.At
	}

	ts := stamp(0)
	item := models.Item{
		Start:     startAt.Unix(),
		Tag:       tag,
		Notes:     strings.TrimSpace(req.Notes),
		Pomodoro:  req.Pomodoro,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// StopActiveItem stops the running timer, optionally replacing its notes.
func StopActiveItem(notes string, at *time.Time) (*models.Item, error) {
	item, err := GetActiveItem()
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNoActiveItem
	}

	endAt := now()
	if at != nil {
		endAt = *at
	}
	end := endAt.Unix()
	if end < item.Start {
		return nil, fmt.Errorf("stop time %s is before the start of item #%d", endAt.Format("15:04"), item.ID)
	}

	item.End = &end
	if notes = strings.TrimSpace(notes); notes != "" {
		item.Notes = notes
	}
	item.UpdatedAt = stamp(item.UpdatedAt)

	if err := DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// GetActiveItem returns the running item, or nil if nothing is running.
func GetActiveItem() (*models.Item, error) {
	var item models.Item
	err := live(DB).Where("`end` IS NULL").Order("start DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // No active item is not an error
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByID retrieves a live item by ID
func GetItemByID(id int64) (*models.Item, error) {
	var item models.Item
	if err := live(DB).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item #%d not found", id)
		}
		return nil, err
	}
	return &item, nil
}

// GetLastItem returns the most recently started live item.
func GetLastItem() (*models.Item, error) {
	var item models.Item
	err := live(DB).Order("start DESC").Order("id DESC").First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("nothing has been tracked yet")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ResumeItem starts a new timer with the tag, notes and pomodoro length of
// item id, or of the last tracked item when id is 0.
func ResumeItem(id int64) (*models.Item, error) {
	var (
		source *models.Item
		err    error
	)
	if id == 0 {
		source, err = GetLastItem()
	} else {
		source, err = GetItemByID(id)
	}
	if err != nil {
		return nil, err
	}

	return StartItem(StartItemRequest{
		Tag:      source.Tag,
		Notes:    source.Notes,
		Pomodoro: source.Pomodoro,
	})
}

// UpdateItem edits an item and bumps its updated_at.
func UpdateItem(req UpdateItemRequest) (*models.Item, error) {
	item, err := GetItemByID(req.ID)
	if err != nil {
		return nil, err
	}

	if req.Tag != nil {
		tag := strings.TrimSpace(*req.Tag)
		if tag == "" {
			return nil, fmt.Errorf("tag cannot be empty")
		}
		item.Tag = tag
	}
	if req.Notes != nil {
		item.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Start != nil {
		item.Start = req.Start.Unix()
	}
	if req.End != nil {
		end := req.End.Unix()
		item.End = &end
	}
	if item.End != nil && *item.End < item.Start {
		return nil, fmt.Errorf("end must be after start")
	}

	item.UpdatedAt = stamp(item.UpdatedAt)
	if err := DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem tombstones an item so the deletion can reach other replicas.
func DeleteItem(id int64) (*models.Item, error) {
	item, err := GetItemByID(id)
	if err != nil {
		return nil, err
	}

	item.Deleted = true
	item.UpdatedAt = stamp(item.UpdatedAt)
	if err := DB.Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// GetItems lists live items started within the requested window, oldest first.
func GetItems(opts ItemQueryOptions) ([]models.Item, error) {
	query := live(DB)
	if !opts.From.IsZero() {
		query = query.Where("start >= ?", opts.From.Unix())
	}
	if !opts.To.IsZero() {
		query = query.Where("start < ?", opts.To.Unix())
	}
	if tag := strings.TrimSpace(opts.Tag); tag != "" {
		query = query.Where("tag = ?", tag)
	}

	var items []models.Item
	if err := query.Order("start ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

package models

import "time"

// Item is one tracked time entry, stored as a row of the items table.
//
// Timestamps are epoch seconds. UpdatedAt is the only clock used when two
// replicas disagree about a row, so it is maintained by the writer and never
// by gorm.
type Item struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Start     int64  `gorm:"column:start;not null" json:"start"`
	End       *int64 `gorm:"column:end" json:"end"` // nil while running
	Tag       string `gorm:"column:tag" json:"tag"`
	Notes     string `gorm:"column:notes" json:"notes"`
	Pomodoro  int    `gorm:"column:pomodoro;not null;default:0" json:"pomodoro"` // minutes, 0 = none
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime:false;not null;index" json:"updated_at"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime:false;not null" json:"created_at"`
	Deleted   bool   `gorm:"column:deleted;not null;default:false" json:"deleted"`
}

// TableName binds Item to the items table on every handle, local or remote.
func (Item) TableName() string {
	return "items"
}

// Running reports whether the timer for this item is still going.
func (i Item) Running() bool {
	return i.End == nil
}

// StartTime returns Start as a local time.Time.
func (i Item) StartTime() time.Time {
	return time.Unix(i.Start, 0)
}

// EndTime returns End as a local time.Time, or the zero time while running.
func (i Item) EndTime() time.Time {
	if i.End == nil {
		return time.Time{}
	}
	return time.Unix(*i.End, 0)
}

// Duration is the tracked time. Running items are measured up to now.
func (i Item) Duration(now time.Time) time.Duration {
	end := now.Unix()
	if i.End != nil {
		end = *i.End
	}
	if end < i.Start {
		return 0
	}
	return time.Duration(end-i.Start) * time.Second
}

// SameContent reports whether two rows carry identical field values.
func (i Item) SameContent(o Item) bool {
	if (i.End == nil) != (o.End == nil) {
		return false
	}
	if i.End != nil && *i.End != *o.End {
		return false
	}
	return i.ID == o.ID &&
		i.Start == o.Start &&
		i.Tag == o.Tag &&
		i.Notes == o.Notes &&
		i.Pomodoro == o.Pomodoro &&
		i.UpdatedAt == o.UpdatedAt &&
		i.CreatedAt == o.CreatedAt &&
		i.Deleted == o.Deleted
}

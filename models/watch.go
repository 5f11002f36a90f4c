package models

import (
	"time"

	"github.com/google/uuid"
)

// Watch records that one account follows another GitHub user's review
// activity. Like [Review], the watched side is a bare username so that
// profiles without accounts can be watched.
type Watch struct {
	ID int64 `json:"id"`

	// WatcherUUID is the subscribing account's UUID.
	WatcherUUID uuid.UUID `json:"watcher_uuid"`

	// WatchedUsername is the case-insensitive target key.
	WatchedUsername string `json:"watched_username"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Watch model.
func (w Watch) TableName() string {
	return "watches"
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents an authenticated identity created through GitHub OAuth.
// It is the owning side of every review and watch record; the GitHub profile
// snapshot itself lives separately in [User].
type Account struct {
	// ID is the internal database identifier. Never exposed via JSON.
	ID int64 `json:"-"`

	// UUID is the stable external-facing identifier. It is the JWT subject
	// and the owner key on reviews and watches, so it survives username
	// renames on the GitHub side.
	UUID uuid.UUID `json:"uuid"`

	// Username is the GitHub login. Case-preserving, but unique ignoring
	// case — "Alice" and "alice" are the same account.
	Username string `json:"username"`

	// AccessToken is the GitHub OAuth token stored for API calls made on
	// behalf of this account. Cleared on deletion, never serialized.
	AccessToken string `json:"-"`

	// Email is the primary email reported by GitHub, empty when hidden.
	Email string `json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// DeletedAt marks a soft-deleted account. The row is kept so that
	// historical references stay resolvable; a set DeletedAt hides the
	// account from every read view.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the account has been soft-deleted.
func (a Account) Deleted() bool {
	return a.DeletedAt != nil
}

// Delete soft-deletes the account: stamps DeletedAt and clears the stored
// GitHub token so it can no longer be used.
func (a *Account) Delete() {
	now := time.Now().UTC()
	a.DeletedAt = &now
	a.AccessToken = ""
}

// Activate reverses a soft delete.
func (a *Account) Activate() {
	a.DeletedAt = nil
}

// TableName returns the name of the database table
// associated with the Account model.
func (a Account) TableName() string {
	return "accounts"
}

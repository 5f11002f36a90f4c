package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/models"
)

// AccountRepository persists registered accounts in the "accounts" table.
//
// Username matching is case-insensitive everywhere: lookups compare
// LOWER(username) and the table carries a unique functional index on it.
type AccountRepository interface {
	// CreateAccount inserts a new account and returns the persisted record
	// with server-assigned fields (ID, CreatedAt).
	// Returns [ErrUsernameAlreadyExists] on a duplicate username.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)

	// GetAccountByUsername returns the account whose username matches
	// case-insensitively. Returns [ErrAccountNotFound] when absent.
	GetAccountByUsername(ctx context.Context, username string) (models.Account, error)

	// GetAccountByUUID returns the account with the given UUID.
	// Returns [ErrAccountNotFound] when absent.
	GetAccountByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)

	// GetAccountsByUsernames returns all accounts whose usernames match the
	// given list case-insensitively. Missing usernames are silently skipped.
	GetAccountsByUsernames(ctx context.Context, usernames []string) ([]models.Account, error)

	// GetAccountsByUUIDs returns all accounts matching the given UUIDs.
	// Unknown UUIDs are silently skipped.
	GetAccountsByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) ([]models.Account, error)

	// UpdateAccount persists mutable account fields (username, access token,
	// email, deleted_at) by UUID and returns the stored record.
	// Returns [ErrAccountNotFound] when no row matches.
	UpdateAccount(ctx context.Context, account models.Account) (models.Account, error)
}

// ReviewRepository persists peer reviews in the "reviews" table.
//
// A reviewer holds at most one review per reviewed username; the table
// enforces this with a unique index on (reviewer_uuid, LOWER(reviewed_username)).
type ReviewRepository interface {
	// CreateReview inserts a new review and returns the persisted record.
	// Returns [ErrDuplicateReview] when the reviewer already reviewed the
	// target username.
	CreateReview(ctx context.Context, review models.Review) (models.Review, error)

	// UpdateReview persists status, comment, comment_hidden and updated_at
	// of an existing review by ID. Returns [ErrReviewNotFound] when absent.
	UpdateReview(ctx context.Context, review models.Review) (models.Review, error)

	// GetReviewByID returns the review with the given ID.
	// Returns [ErrReviewNotFound] when absent.
	GetReviewByID(ctx context.Context, id int64) (models.Review, error)

	// GetReviewByReviewerAndUsername returns the single review the reviewer
	// left for the given username (case-insensitive).
	// Returns [ErrReviewNotFound] when absent.
	GetReviewByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error)

	// GetReviewsForUsername lists reviews of the given username ordered by
	// created_at descending. statuses optionally narrows the result; a
	// non-positive limit disables pagination.
	GetReviewsForUsername(ctx context.Context, username string, statuses []models.ReviewStatus, offset, limit int) ([]models.Review, error)

	// GetReviewsByReviewer lists reviews written by the given reviewer
	// ordered by created_at descending. A non-positive limit disables
	// pagination.
	GetReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID, offset, limit int) ([]models.Review, error)

	// GetLatestReviews lists reviews across all users ordered by created_at
	// descending.
	GetLatestReviews(ctx context.Context, offset, limit int) ([]models.Review, error)

	// GetReviewsForUsernames lists reviews whose reviewed username matches
	// any of the given names (case-insensitive), ordered by created_at
	// descending.
	GetReviewsForUsernames(ctx context.Context, usernames []string, offset, limit int) ([]models.Review, error)

	// CountReviewsForUsername returns the number of reviews of the given
	// username.
	CountReviewsForUsername(ctx context.Context, username string) (int64, error)

	// CountReviewsByUsernames returns review counts grouped by reviewed
	// username. Keys of the result map are lowercased usernames.
	CountReviewsByUsernames(ctx context.Context, usernames []string) (map[string]int64, error)

	// DeleteReview removes the review with the given ID.
	// Returns [ErrReviewNotFound] when no row matches.
	DeleteReview(ctx context.Context, id int64) error

	// DeleteReviewsByReviewer removes every review written by the given
	// reviewer. Used when an account is deleted.
	DeleteReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID) error
}

// WatchRepository persists watchlist entries in the "watches" table.
type WatchRepository interface {
	// CreateWatch inserts a new watch entry and returns the persisted
	// record. Returns [ErrDuplicateWatch] when the watcher already watches
	// the target username.
	CreateWatch(ctx context.Context, watch models.Watch) (models.Watch, error)

	// GetWatch returns the watch entry of the watcher for the given
	// username (case-insensitive). Returns [ErrWatchNotFound] when absent.
	GetWatch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error)

	// GetWatchesByWatcher lists all watch entries of the given watcher
	// ordered by creation time descending.
	GetWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) ([]models.Watch, error)

	// DeleteWatch removes the watch entry of the watcher for the given
	// username. Returns [ErrWatchNotFound] when no row matches.
	DeleteWatch(ctx context.Context, watcherUUID uuid.UUID, username string) error

	// DeleteWatchesByWatcher removes every watch entry of the given
	// watcher. Used when an account is deleted.
	DeleteWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) error
}

// UserCache stores cached GitHub profile snapshots keyed by lowercased
// username. Staleness is a read-side concern of the service layer; entries
// carry no TTL.
type UserCache interface {
	// GetUser returns the cached profile for the given username.
	// Returns [ErrUserNotCached] when the profile is not in the cache.
	GetUser(ctx context.Context, username string) (models.User, error)

	// GetUsers returns cached profiles for the given usernames in a single
	// round-trip. Usernames without a cached profile are silently skipped.
	GetUsers(ctx context.Context, usernames []string) ([]models.User, error)

	// SaveUser upserts the cached profile snapshot.
	SaveUser(ctx context.Context, user models.User) error

	// DeleteUser removes the cached profile for the given username.
	// Removing an absent profile is not an error.
	DeleteUser(ctx context.Context, username string) error
}

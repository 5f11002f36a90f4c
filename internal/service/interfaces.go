package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/github"
	"github.com/peerhub/peerhub/models"
)

// AccountService resolves and manages registered accounts. Username matching
// is case-insensitive throughout.
type AccountService interface {
	// GetByUUID returns the account with the given UUID regardless of its
	// deletion state. Returns a wrapped store.ErrAccountNotFound when absent.
	GetByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)

	// GetActiveByUUID is GetByUUID restricted to non-deleted accounts.
	GetActiveByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)

	// GetByUsername returns the account owning the username, or nil without
	// error when no such account exists.
	GetByUsername(ctx context.Context, username string) (*models.Account, error)

	// GetManyByUUIDs returns accounts keyed by UUID. Unknown UUIDs are
	// silently absent from the result.
	GetManyByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) (map[uuid.UUID]models.Account, error)

	// GetManyByUsernames returns accounts keyed by lowercased username.
	GetManyByUsernames(ctx context.Context, usernames []string) (map[string]models.Account, error)

	// GetOrCreate returns the account for the username, creating it when
	// absent and reactivating it when soft-deleted. The stored access token
	// and email are refreshed when they changed. The second result reports
	// whether a new account was created.
	GetOrCreate(ctx context.Context, username, accessToken, email string) (models.Account, bool, error)

	// Delete soft-deletes the account and clears its stored access token.
	Delete(ctx context.Context, account models.Account) (models.Account, error)
}

// UserService manages cached GitHub profile snapshots.
type UserService interface {
	// GetByUsername returns the cached profile. Returns a wrapped
	// store.ErrUserNotCached on a cache miss.
	GetByUsername(ctx context.Context, username string) (models.User, error)

	// GetManyByUsernames returns cached profiles keyed by lowercased
	// username; cache misses are silently absent.
	GetManyByUsernames(ctx context.Context, usernames []string) (map[string]models.User, error)

	// Save upserts the profile snapshot, stamping RefreshedAt=now when the
	// caller left it zero.
	Save(ctx context.Context, user models.User) error

	// Delete removes the cached profile; absence is not an error.
	Delete(ctx context.Context, username string) error

	// IsStale reports whether the snapshot is older than the cache max age.
	IsStale(user models.User) bool
}

// WatchlistService manages per-account watchlists.
type WatchlistService interface {
	// Watch subscribes the watcher to the username's review activity.
	// Watching yourself returns ErrSelfWatch; a cached non-user profile
	// returns ErrNotUserType; watching an already watched username is
	// idempotent and returns the existing entry.
	Watch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error)

	// Unwatch removes the watch entry; removing an absent entry is a no-op.
	Unwatch(ctx context.Context, watcherUUID uuid.UUID, username string) error

	// Get lists the watcher's entries newest-first with offset/limit
	// pagination applied in memory.
	Get(ctx context.Context, watcherUUID uuid.UUID, limit, offset int) ([]models.Watch, error)

	// IsWatching reports whether the watcher watches the username.
	IsWatching(ctx context.Context, watcherUUID uuid.UUID, username string) (bool, error)

	// DeleteAllByWatcher removes every entry of the watcher and returns how
	// many were removed.
	DeleteAllByWatcher(ctx context.Context, watcherUUID uuid.UUID) (int, error)
}

// ReviewService manages the review ledger.
type ReviewService interface {
	// CreateOrUpdate upserts the reviewer's review of the username. The
	// second result reports whether a new review was created; on update the
	// stored anonymous flag must match the requested one
	// (ErrAnonymousImmutable otherwise) and CreatedAt is preserved.
	CreateOrUpdate(ctx context.Context, reviewerUUID uuid.UUID, reviewedUsername string, status models.ReviewStatus, comment *string, anonymous bool) (models.Review, bool, error)

	// GetByID returns the review with the given ID.
	GetByID(ctx context.Context, id int64) (models.Review, error)

	// GetByReviewerAndUsername returns the single review the reviewer left
	// for the username.
	GetByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error)

	// Update persists the mutable fields of an existing review.
	Update(ctx context.Context, review models.Review) (models.Review, error)

	// GetForUser lists reviews of the username newest-first. A zero status
	// means no filtering; a non-positive limit disables pagination.
	GetForUser(ctx context.Context, username string, limit, offset int, status models.ReviewStatus) ([]models.Review, error)

	// GetByReviewer lists reviews written by the reviewer newest-first.
	GetByReviewer(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.Review, error)

	// GetForUsernames lists reviews of any of the given usernames
	// newest-first.
	GetForUsernames(ctx context.Context, usernames []string, limit, offset int) ([]models.Review, error)

	// GetCountForUser returns how many reviews the username has received.
	GetCountForUser(ctx context.Context, username string) (int64, error)

	// GetCountsForUsers returns received-review counts keyed by lowercased
	// username; usernames without reviews are absent.
	GetCountsForUsers(ctx context.Context, usernames []string) (map[string]int64, error)

	// Delete removes the reviewer's review of the username; removing an
	// absent review is a no-op.
	Delete(ctx context.Context, reviewerUUID uuid.UUID, username string) error

	// DeleteAllByReviewer removes every review of the reviewer and returns
	// how many were removed.
	DeleteAllByReviewer(ctx context.Context, reviewerUUID uuid.UUID) (int, error)
}

// EnrichmentService joins reviews with their reviewers' resolved identities.
type EnrichmentService interface {
	// Enrich resolves reviewer accounts and cached avatars for the given
	// reviews, dropping reviews whose reviewer account is missing or
	// soft-deleted. Input order is preserved.
	Enrich(ctx context.Context, reviews []models.Review) ([]models.ReviewWithIdentity, error)
}

// FeedService drives the read-heavy feed, suggestion, and profile-page
// endpoints, composing the ledgers with enrichment.
type FeedService interface {
	GetReviewsForUser(ctx context.Context, username string, viewerUUID uuid.UUID, limit, offset int, status models.ReviewStatus) (models.PaginatedReviews, error)
	GetReviewers(ctx context.Context, username string, viewerUUID uuid.UUID) ([]models.ReviewWithIdentity, error)
	GetActivityFeed(ctx context.Context, accountUUID uuid.UUID, filter string, limit, offset int) ([]models.ActivityFeedItem, bool, error)
	GetSuggestions(ctx context.Context, accountUUID uuid.UUID, limit int) ([]models.Suggestion, error)
	GetMyReviews(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.ReviewWithIdentity, bool, error)
	SubmitReview(ctx context.Context, reviewerUUID uuid.UUID, req models.CreateOrUpdateReviewRequest) (models.ReviewWithIdentity, bool, error)
	ToggleCommentHidden(ctx context.Context, reviewID int64, accountUUID uuid.UUID, hidden bool) (models.ReviewWithIdentity, error)
	DeleteAccount(ctx context.Context, accountUUID uuid.UUID) error
	GetWatchlist(ctx context.Context, accountUUID uuid.UUID, limit, offset int) ([]models.WatchWithUser, error)
}

// GithubAuthService runs the GitHub OAuth sign-in flow and the profile
// read paths backed by the GitHub API.
type GithubAuthService interface {
	// AuthorizeURL returns the GitHub authorize URL for the given state.
	AuthorizeURL(state string) string

	// AuthenticateWithCode exchanges the OAuth code, enforces the optional
	// username allowlist, and returns the (created or reactivated) account.
	AuthenticateWithCode(ctx context.Context, code string) (models.Account, error)

	// CreateToken issues a signed JWT for the account.
	CreateToken(ctx context.Context, account models.Account) (models.Token, error)

	// ParseToken validates and parses a raw JWT string.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)

	// GetUser returns the profile of the username: the cached snapshot when
	// fresh, otherwise a refetch from GitHub using the viewer's token.
	GetUser(ctx context.Context, username string, viewerUUID uuid.UUID, forceRefresh bool) (models.User, error)

	// RefreshUser force-refreshes the viewer's own profile. Refreshing
	// someone else's profile returns ErrForbidden.
	RefreshUser(ctx context.Context, username string, viewerUUID uuid.UUID) (models.User, error)

	// SearchUsers searches GitHub users with the viewer's token.
	SearchUsers(ctx context.Context, query string, viewerUUID uuid.UUID) ([]models.UserSearchItem, error)
}

// GithubClient is the subset of the GitHub API client the services depend on.
type GithubClient interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	GetAuthenticatedUser(ctx context.Context, accessToken string) (github.Profile, error)
	GetUser(ctx context.Context, accessToken, username string) (github.Profile, error)
	SearchUsers(ctx context.Context, accessToken, query string) ([]github.SearchUser, error)
	GetFollowing(ctx context.Context, accessToken, username string, perPage int) ([]github.SearchUser, error)
}

// Notifier sends best-effort email notifications.
type Notifier interface {
	Enabled() bool
	NotifyNewReview(ctx context.Context, recipient, reviewedUsername, reviewerUsername string, anonymous bool) error
	NotifyNewAccount(ctx context.Context, username string) error
}

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUsernameAlreadyExists is returned when an attempt to create a new
	// account fails because an account with the same username (compared
	// case-insensitively) already exists in the database.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrAccountNotFound is returned when a query expected to match an
	// account record produces an empty result set.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrReviewNotFound is returned when a query or update targets a review
	// that does not exist in the database.
	ErrReviewNotFound = errors.New("review was not found")

	// ErrDuplicateReview is returned when an INSERT violates the one-review-
	// per-reviewer-per-user unique index. Callers typically convert the
	// create into an update of the existing review.
	ErrDuplicateReview = errors.New("review already exists for this reviewer and user")

	// ErrWatchNotFound is returned when a query or delete targets a watch
	// entry that does not exist in the database.
	ErrWatchNotFound = errors.New("watch entry was not found")

	// ErrDuplicateWatch is returned when an INSERT violates the
	// one-watch-per-watcher-per-user unique index.
	ErrDuplicateWatch = errors.New("watch entry already exists for this watcher and user")

	// ErrUserNotCached is returned by the profile cache when no snapshot is
	// stored for the requested username.
	ErrUserNotCached = errors.New("user profile is not cached")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

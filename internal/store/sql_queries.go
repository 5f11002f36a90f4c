package store

import (
	"github.com/Masterminds/squirrel"

	"github.com/peerhub/peerhub/models"
)

const (
	createAccount = `INSERT INTO accounts (uuid, username, access_token, email)
    VALUES ($1, $2, $3, $4)
    RETURNING id, uuid, username, access_token, email, created_at, deleted_at;`

	findAccountByUsername = `SELECT id, uuid, username, access_token, email, created_at, deleted_at
    FROM accounts
    WHERE LOWER(username) = LOWER($1);`

	findAccountByUUID = `SELECT id, uuid, username, access_token, email, created_at, deleted_at
    FROM accounts
    WHERE uuid = $1;`

	findAccountsByUsernames = `SELECT id, uuid, username, access_token, email, created_at, deleted_at
    FROM accounts
    WHERE LOWER(username) = ANY($1);`

	findAccountsByUUIDs = `SELECT id, uuid, username, access_token, email, created_at, deleted_at
    FROM accounts
    WHERE uuid = ANY($1::uuid[]);`

	updateAccount = `UPDATE accounts
    SET username = $2, access_token = $3, email = $4, deleted_at = $5
    WHERE uuid = $1
    RETURNING id, uuid, username, access_token, email, created_at, deleted_at;`

	createReview = `INSERT INTO reviews (reviewer_uuid, reviewed_username, status, comment, anonymous)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, reviewer_uuid, reviewed_username, status, comment, anonymous, comment_hidden, created_at, updated_at;`

	updateReview = `UPDATE reviews
    SET status = $2, comment = $3, comment_hidden = $4, updated_at = $5
    WHERE id = $1
    RETURNING id, reviewer_uuid, reviewed_username, status, comment, anonymous, comment_hidden, created_at, updated_at;`

	findReviewByID = `SELECT id, reviewer_uuid, reviewed_username, status, comment, anonymous, comment_hidden, created_at, updated_at
    FROM reviews
    WHERE id = $1;`

	findReviewByReviewerAndUsername = `SELECT id, reviewer_uuid, reviewed_username, status, comment, anonymous, comment_hidden, created_at, updated_at
    FROM reviews
    WHERE reviewer_uuid = $1 AND LOWER(reviewed_username) = LOWER($2);`

	countReviewsForUsername = `SELECT COUNT(*)
    FROM reviews
    WHERE LOWER(reviewed_username) = LOWER($1);`

	countReviewsByUsernames = `SELECT LOWER(reviewed_username), COUNT(*)
    FROM reviews
    WHERE LOWER(reviewed_username) = ANY($1)
    GROUP BY LOWER(reviewed_username);`

	deleteReview = `DELETE FROM reviews
    WHERE id = $1;`

	deleteReviewsByReviewer = `DELETE FROM reviews
    WHERE reviewer_uuid = $1;`

	createWatch = `INSERT INTO watches (watcher_uuid, watched_username)
    VALUES ($1, $2)
    RETURNING id, watcher_uuid, watched_username, created_at;`

	findWatch = `SELECT id, watcher_uuid, watched_username, created_at
    FROM watches
    WHERE watcher_uuid = $1 AND LOWER(watched_username) = LOWER($2);`

	findWatchesByWatcher = `SELECT id, watcher_uuid, watched_username, created_at
    FROM watches
    WHERE watcher_uuid = $1
    ORDER BY created_at DESC;`

	deleteWatch = `DELETE FROM watches
    WHERE watcher_uuid = $1 AND LOWER(watched_username) = LOWER($2);`

	deleteWatchesByWatcher = `DELETE FROM watches
    WHERE watcher_uuid = $1;`
)

// psql builds parameterised queries with PostgreSQL dollar placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// reviewColumns is the canonical column order shared by all review SELECTs
// and the scanReview helper.
var reviewColumns = []string{
	"id",
	"reviewer_uuid",
	"reviewed_username",
	"status",
	"comment",
	"anonymous",
	"comment_hidden",
	"created_at",
	"updated_at",
}

// selectReviews starts a review listing query ordered newest-first by
// creation time.
func selectReviews() squirrel.SelectBuilder {
	return psql.Select(reviewColumns...).
		From("reviews").
		OrderBy("created_at DESC")
}

// withPagination applies OFFSET/LIMIT to a listing query. A non-positive
// limit disables pagination entirely so callers can fetch a full result set.
func withPagination(qb squirrel.SelectBuilder, offset, limit int) squirrel.SelectBuilder {
	if limit <= 0 {
		return qb
	}

	qb = qb.Limit(uint64(limit))
	if offset > 0 {
		qb = qb.Offset(uint64(offset))
	}

	return qb
}

// statusStrings converts review statuses to plain strings for use as query
// arguments.
func statusStrings(statuses []models.ReviewStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// reviewRepository is the PostgreSQL-backed implementation of
// [ReviewRepository]. It executes all review CRUD operations against the
// "reviews" table.
//
// Listing queries are built dynamically with squirrel because the filters
// (status set, pagination, username batches) vary per call site; single-row
// operations use prepared query constants.
type reviewRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewReviewRepository constructs a [ReviewRepository] backed by the provided
// database connection and logger.
func NewReviewRepository(db *DB, logger *logger.Logger) ReviewRepository {
	logger.Debug().Msg("creating review repository")
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

// CreateReview persists a new review and returns the fully populated
// [models.Review] with server-assigned fields (ID, CreatedAt, UpdatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrDuplicateReview]. Two
//     concurrent submissions by the same reviewer race on the unique index;
//     the loser receives this error and retries as an update.
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *reviewRepository) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createReview, review.ReviewerUUID, review.ReviewedUsername, string(review.Status), review.Comment, review.Anonymous)

	if err := scanReviewRow(row, &review); err != nil {
		log.Err(err).Str("func", "*reviewRepository.CreateReview").Msg("error: scanning error")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Review{}, ErrDuplicateReview
		default:
			return models.Review{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return review, nil
}

// UpdateReview persists the mutable fields of an existing review by ID and
// returns the stored record.
//
// Error handling:
//   - sql.ErrNoRows → [ErrReviewNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *reviewRepository) UpdateReview(ctx context.Context, review models.Review) (models.Review, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, updateReview, review.ID, string(review.Status), review.Comment, review.CommentHidden, review.UpdatedAt)

	var updated models.Review
	if err := scanReviewRow(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrReviewNotFound
		}
		log.Err(err).Str("func", "*reviewRepository.UpdateReview").Msg("error: scanning error")
		return models.Review{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return updated, nil
}

// GetReviewByID retrieves the review with the given ID.
func (r *reviewRepository) GetReviewByID(ctx context.Context, id int64) (models.Review, error) {
	log := logger.FromContext(ctx)

	var found models.Review
	row := r.db.QueryRowContext(ctx, findReviewByID, id)

	if err := scanReviewRow(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrReviewNotFound
		}
		log.Err(err).Str("func", "*reviewRepository.GetReviewByID").Msg("error: scanning error")
		return models.Review{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// GetReviewByReviewerAndUsername retrieves the single review the reviewer
// left for the given username (case-insensitive).
func (r *reviewRepository) GetReviewByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error) {
	log := logger.FromContext(ctx)

	var found models.Review
	row := r.db.QueryRowContext(ctx, findReviewByReviewerAndUsername, reviewerUUID, username)

	if err := scanReviewRow(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Review{}, ErrReviewNotFound
		}
		log.Err(err).Str("func", "*reviewRepository.GetReviewByReviewerAndUsername").Msg("error: scanning error")
		return models.Review{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// GetReviewsForUsername lists reviews of the given username ordered by
// created_at descending, optionally narrowed to the given statuses.
func (r *reviewRepository) GetReviewsForUsername(ctx context.Context, username string, statuses []models.ReviewStatus, offset, limit int) ([]models.Review, error) {
	qb := selectReviews().
		Where(squirrel.Expr("LOWER(reviewed_username) = LOWER(?)", username))

	if len(statuses) > 0 {
		qb = qb.Where(squirrel.Eq{"status": statusStrings(statuses)})
	}

	return r.listReviews(ctx, "*reviewRepository.GetReviewsForUsername", withPagination(qb, offset, limit))
}

// GetReviewsByReviewer lists reviews written by the given reviewer ordered
// by created_at descending.
func (r *reviewRepository) GetReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID, offset, limit int) ([]models.Review, error) {
	qb := selectReviews().
		Where(squirrel.Eq{"reviewer_uuid": reviewerUUID})

	return r.listReviews(ctx, "*reviewRepository.GetReviewsByReviewer", withPagination(qb, offset, limit))
}

// GetLatestReviews lists reviews across all users ordered by created_at
// descending.
func (r *reviewRepository) GetLatestReviews(ctx context.Context, offset, limit int) ([]models.Review, error) {
	return r.listReviews(ctx, "*reviewRepository.GetLatestReviews", withPagination(selectReviews(), offset, limit))
}

// GetReviewsForUsernames lists reviews whose reviewed username matches any
// of the given names (case-insensitive), ordered by created_at descending.
// An empty username list yields an empty result without touching the
// database.
func (r *reviewRepository) GetReviewsForUsernames(ctx context.Context, usernames []string, offset, limit int) ([]models.Review, error) {
	if len(usernames) == 0 {
		return []models.Review{}, nil
	}

	lowered := make([]string, 0, len(usernames))
	for _, username := range usernames {
		lowered = append(lowered, strings.ToLower(username))
	}

	qb := selectReviews().
		Where(squirrel.Expr("LOWER(reviewed_username) = ANY(?)", lowered))

	return r.listReviews(ctx, "*reviewRepository.GetReviewsForUsernames", withPagination(qb, offset, limit))
}

// CountReviewsForUsername returns the number of reviews of the given
// username.
func (r *reviewRepository) CountReviewsForUsername(ctx context.Context, username string) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	row := r.db.QueryRowContext(ctx, countReviewsForUsername, username)

	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*reviewRepository.CountReviewsForUsername").Msg("error: scanning error")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}

// CountReviewsByUsernames returns review counts grouped by reviewed
// username. Keys of the result map are lowercased usernames; usernames
// without reviews are absent from the map.
func (r *reviewRepository) CountReviewsByUsernames(ctx context.Context, usernames []string) (map[string]int64, error) {
	log := logger.FromContext(ctx)

	counts := make(map[string]int64, len(usernames))
	if len(usernames) == 0 {
		return counts, nil
	}

	lowered := make([]string, 0, len(usernames))
	for _, username := range usernames {
		lowered = append(lowered, strings.ToLower(username))
	}

	rows, err := r.db.QueryContext(ctx, countReviewsByUsernames, lowered)
	if err != nil {
		log.Err(err).
			Str("func", "*reviewRepository.CountReviewsByUsernames").
			Int("usernames count", len(usernames)).
			Msg("failed to execute query for counting reviews by usernames")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		var count int64

		if scanErr := rows.Scan(&username, &count); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*reviewRepository.CountReviewsByUsernames").
				Msg("failed to scan review count row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		counts[username] = count
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*reviewRepository.CountReviewsByUsernames").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return counts, nil
}

// DeleteReview removes the review with the given ID.
//
// Error handling:
//   - zero rows affected → [ErrReviewNotFound].
//   - Any other driver-level error → wrapped as [ErrExecutingStatement].
func (r *reviewRepository) DeleteReview(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteReview, id)
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.DeleteReview").Msg("failed to delete review")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*reviewRepository.DeleteReview").Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// DeleteReviewsByReviewer removes every review written by the given
// reviewer.
func (r *reviewRepository) DeleteReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteReviewsByReviewer, reviewerUUID); err != nil {
		log.Err(err).
			Str("func", "*reviewRepository.DeleteReviewsByReviewer").
			Msg("failed to delete reviews by reviewer")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// listReviews executes a squirrel-built listing query and scans the result
// set into review models.
func (r *reviewRepository) listReviews(ctx context.Context, caller string, qb squirrel.SelectBuilder) ([]models.Review, error) {
	log := logger.FromContext(ctx)

	query, args, err := qb.ToSql()
	if err != nil {
		log.Err(err).Str("func", caller).Msg("failed to build review listing query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("failed to execute review listing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Review, 0, 50)

	for rows.Next() {
		var review models.Review

		scanErr := rows.Scan(
			&review.ID,
			&review.ReviewerUUID,
			&review.ReviewedUsername,
			&review.Status,
			&review.Comment,
			&review.Anonymous,
			&review.CommentHidden,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", caller).Msg("failed to scan review row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, review)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", caller).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// scanReviewRow scans a single review row in the canonical column order.
func scanReviewRow(row *sql.Row, review *models.Review) error {
	return row.Scan(
		&review.ID,
		&review.ReviewerUUID,
		&review.ReviewedUsername,
		&review.Status,
		&review.Comment,
		&review.Anonymous,
		&review.CommentHidden,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
}

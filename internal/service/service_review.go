package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/models"
)

// reviewService is the concrete implementation of ReviewService. It owns
// review validation and the one-review-per-target upsert semantics; the
// unique index on (reviewer_uuid, LOWER(reviewed_username)) is the backstop
// for concurrent first submissions.
type reviewService struct {
	reviewRepository  store.ReviewRepository
	accountRepository store.AccountRepository
	userCache         store.UserCache
	logger            *logger.Logger
}

// NewReviewService constructs a ReviewService wired to the given stores.
func NewReviewService(reviewRepository store.ReviewRepository, accountRepository store.AccountRepository, userCache store.UserCache, logger *logger.Logger) ReviewService {
	return &reviewService{
		reviewRepository:  reviewRepository,
		accountRepository: accountRepository,
		userCache:         userCache,
		logger:            logger,
	}
}

// CreateOrUpdate upserts the reviewer's review of the target username.
//
// The comment is sanitized first, then validated: length within bounds, and
// non-blank when status is "comment". Reviewing yourself (case-insensitive)
// and reviewing a cached non-user profile are rejected. When a review
// already exists the anonymous flag must match the stored one; the review is
// then updated in place, keeping CreatedAt. A create that loses the race
// against a concurrent first submission is retried as an update.
func (r *reviewService) CreateOrUpdate(ctx context.Context, reviewerUUID uuid.UUID, reviewedUsername string, status models.ReviewStatus, comment *string, anonymous bool) (models.Review, bool, error) {
	log := logger.FromContext(ctx)

	if reviewedUsername == "" || reviewerUUID == uuid.Nil {
		return models.Review{}, false, ErrInvalidDataProvided
	}
	if !status.Valid() {
		return models.Review{}, false, ErrInvalidReviewStatus
	}

	sanitized := ""
	if comment != nil {
		sanitized = sanitizeComment(*comment)
	}
	if utf8.RuneCountInString(sanitized) > models.MaxCommentLength {
		return models.Review{}, false, ErrCommentTooLong
	}
	if status == models.StatusComment && sanitized == "" {
		return models.Review{}, false, ErrCommentRequired
	}

	if err := r.checkTarget(ctx, reviewerUUID, reviewedUsername); err != nil {
		return models.Review{}, false, err
	}

	existing, err := r.reviewRepository.GetReviewByReviewerAndUsername(ctx, reviewerUUID, reviewedUsername)
	if err == nil {
		updated, updateErr := r.applyUpdate(ctx, existing, status, sanitized, anonymous)
		return updated, false, updateErr
	}
	if !errors.Is(err, store.ErrReviewNotFound) {
		return models.Review{}, false, fmt.Errorf("review lookup failed: %w", err)
	}

	created, err := r.reviewRepository.CreateReview(ctx, models.Review{
		ReviewerUUID:     reviewerUUID,
		ReviewedUsername: reviewedUsername,
		Status:           status,
		Comment:          sanitized,
		Anonymous:        anonymous,
	})
	if err != nil {
		// Concurrent first submission: someone inserted between our lookup
		// and create. Re-read and update instead.
		if errors.Is(err, store.ErrDuplicateReview) {
			raced, racedErr := r.reviewRepository.GetReviewByReviewerAndUsername(ctx, reviewerUUID, reviewedUsername)
			if racedErr != nil {
				return models.Review{}, false, fmt.Errorf("review lookup after losing create race failed: %w", racedErr)
			}
			updated, updateErr := r.applyUpdate(ctx, raced, status, sanitized, anonymous)
			return updated, false, updateErr
		}
		log.Err(err).Str("reviewed_username", reviewedUsername).Msg("review creation failed")
		return models.Review{}, false, fmt.Errorf("review creation failed: %w", err)
	}

	return created, true, nil
}

// applyUpdate turns a resubmission into an in-place update of the stored
// review, enforcing anonymity immutability.
func (r *reviewService) applyUpdate(ctx context.Context, existing models.Review, status models.ReviewStatus, comment string, anonymous bool) (models.Review, error) {
	if existing.Anonymous != anonymous {
		return models.Review{}, ErrAnonymousImmutable
	}

	existing.UpdateStatus(status, comment)

	updated, err := r.reviewRepository.UpdateReview(ctx, existing)
	if err != nil {
		return models.Review{}, fmt.Errorf("review update failed: %w", err)
	}

	return updated, nil
}

// checkTarget rejects self-reviews and reviews of cached non-user profiles.
// An uncached target passes: any GitHub username may be reviewed before its
// profile is ever fetched.
func (r *reviewService) checkTarget(ctx context.Context, reviewerUUID uuid.UUID, reviewedUsername string) error {
	reviewer, err := r.accountRepository.GetAccountByUUID(ctx, reviewerUUID)
	if err != nil {
		return fmt.Errorf("reviewer lookup failed: %w", err)
	}
	if strings.EqualFold(reviewer.Username, reviewedUsername) {
		return ErrSelfReview
	}

	cached, err := r.userCache.GetUser(ctx, reviewedUsername)
	if err != nil {
		if errors.Is(err, store.ErrUserNotCached) {
			return nil
		}
		return fmt.Errorf("target profile lookup failed: %w", err)
	}
	if !cached.IsUserType() {
		return ErrNotUserType
	}

	return nil
}

func (r *reviewService) GetByID(ctx context.Context, id int64) (models.Review, error) {
	review, err := r.reviewRepository.GetReviewByID(ctx, id)
	if err != nil {
		return models.Review{}, fmt.Errorf("review lookup by id failed: %w", err)
	}

	return review, nil
}

func (r *reviewService) GetByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error) {
	review, err := r.reviewRepository.GetReviewByReviewerAndUsername(ctx, reviewerUUID, username)
	if err != nil {
		return models.Review{}, fmt.Errorf("review lookup failed: %w", err)
	}

	return review, nil
}

func (r *reviewService) Update(ctx context.Context, review models.Review) (models.Review, error) {
	updated, err := r.reviewRepository.UpdateReview(ctx, review)
	if err != nil {
		return models.Review{}, fmt.Errorf("review update failed: %w", err)
	}

	return updated, nil
}

func (r *reviewService) GetForUser(ctx context.Context, username string, limit, offset int, status models.ReviewStatus) ([]models.Review, error) {
	var statuses []models.ReviewStatus
	if status != "" {
		if !status.Valid() {
			return nil, ErrInvalidReviewStatus
		}
		statuses = []models.ReviewStatus{status}
	}

	reviews, err := r.reviewRepository.GetReviewsForUsername(ctx, username, statuses, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("review listing for user failed: %w", err)
	}

	return reviews, nil
}

func (r *reviewService) GetByReviewer(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.Review, error) {
	reviews, err := r.reviewRepository.GetReviewsByReviewer(ctx, reviewerUUID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("review listing by reviewer failed: %w", err)
	}

	return reviews, nil
}

func (r *reviewService) GetForUsernames(ctx context.Context, usernames []string, limit, offset int) ([]models.Review, error) {
	if len(usernames) == 0 {
		return []models.Review{}, nil
	}

	reviews, err := r.reviewRepository.GetReviewsForUsernames(ctx, usernames, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("review listing for usernames failed: %w", err)
	}

	return reviews, nil
}

func (r *reviewService) GetCountForUser(ctx context.Context, username string) (int64, error) {
	count, err := r.reviewRepository.CountReviewsForUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("review count for user failed: %w", err)
	}

	return count, nil
}

func (r *reviewService) GetCountsForUsers(ctx context.Context, usernames []string) (map[string]int64, error) {
	counts, err := r.reviewRepository.CountReviewsByUsernames(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("review counts for users failed: %w", err)
	}

	return counts, nil
}

// Delete removes the reviewer's review of the username. A missing review is
// a no-op.
func (r *reviewService) Delete(ctx context.Context, reviewerUUID uuid.UUID, username string) error {
	existing, err := r.reviewRepository.GetReviewByReviewerAndUsername(ctx, reviewerUUID, username)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil
		}
		return fmt.Errorf("review lookup failed: %w", err)
	}

	if err = r.reviewRepository.DeleteReview(ctx, existing.ID); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil
		}
		return fmt.Errorf("review delete failed: %w", err)
	}

	return nil
}

// DeleteAllByReviewer removes every review of the reviewer and returns how
// many were removed.
func (r *reviewService) DeleteAllByReviewer(ctx context.Context, reviewerUUID uuid.UUID) (int, error) {
	reviews, err := r.reviewRepository.GetReviewsByReviewer(ctx, reviewerUUID, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("review listing by reviewer failed: %w", err)
	}

	if err = r.reviewRepository.DeleteReviewsByReviewer(ctx, reviewerUUID); err != nil {
		return 0, fmt.Errorf("bulk review delete failed: %w", err)
	}

	return len(reviews), nil
}

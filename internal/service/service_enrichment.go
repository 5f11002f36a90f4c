package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// enrichmentService is the concrete implementation of EnrichmentService.
// It joins raw review rows with reviewer accounts and cached avatars using
// two batch lookups regardless of input size.
type enrichmentService struct {
	accountService AccountService
	userService    UserService
	logger         *logger.Logger
}

// NewEnrichmentService constructs an EnrichmentService on top of the
// identity and profile services.
func NewEnrichmentService(accountService AccountService, userService UserService, logger *logger.Logger) EnrichmentService {
	return &enrichmentService{
		accountService: accountService,
		userService:    userService,
		logger:         logger,
	}
}

// Enrich resolves reviewer identities for the given reviews.
//
// Reviews whose reviewer account no longer exists or is soft-deleted are
// dropped: the review row persists for counting, but a deleted reviewer
// must not be resolvable in any read view. Avatar lookups are best-effort;
// a profile cache miss leaves the avatar empty. Input order is preserved.
func (e *enrichmentService) Enrich(ctx context.Context, reviews []models.Review) ([]models.ReviewWithIdentity, error) {
	if len(reviews) == 0 {
		return []models.ReviewWithIdentity{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(reviews))
	reviewerUUIDs := make([]uuid.UUID, 0, len(reviews))
	for _, review := range reviews {
		if _, ok := seen[review.ReviewerUUID]; ok {
			continue
		}
		seen[review.ReviewerUUID] = struct{}{}
		reviewerUUIDs = append(reviewerUUIDs, review.ReviewerUUID)
	}

	accounts, err := e.accountService.GetManyByUUIDs(ctx, reviewerUUIDs)
	if err != nil {
		return nil, fmt.Errorf("reviewer account resolution failed: %w", err)
	}

	usernames := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if account.Deleted() {
			continue
		}
		usernames = append(usernames, account.Username)
	}

	profiles, err := e.userService.GetManyByUsernames(ctx, usernames)
	if err != nil {
		// Avatars are cosmetic. Serve identities without them rather than
		// failing the whole read.
		logger.FromContext(ctx).Err(err).Msg("avatar batch lookup failed, enriching without avatars")
		profiles = map[string]models.User{}
	}

	enriched := make([]models.ReviewWithIdentity, 0, len(reviews))
	for _, review := range reviews {
		account, ok := accounts[review.ReviewerUUID]
		if !ok || account.Deleted() {
			continue
		}

		item := models.ReviewWithIdentity{
			Review:           review,
			ReviewerUsername: account.Username,
		}
		if profile, cached := profiles[lowerKey(account.Username)]; cached {
			item.ReviewerAvatarURL = profile.AvatarURL
		}

		enriched = append(enriched, item)
	}

	return enriched, nil
}

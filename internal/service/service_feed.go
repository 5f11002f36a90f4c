package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/models"
)

const (
	// defaultPageSize applies when a caller passes a non-positive limit.
	defaultPageSize = 10

	// maxReviewersListed bounds the unpaginated reviewer sidebar.
	maxReviewersListed = 512

	// suggestionHistoryCap bounds the watchlist and review-history reads
	// used to exclude suggestion candidates.
	suggestionHistoryCap = 500

	// defaultSuggestionCount is how many suggestions are returned when the
	// caller does not ask for a specific amount.
	defaultSuggestionCount = 4
)

// Activity feed filters.
const (
	FeedFilterAll      = "all"
	FeedFilterMine     = "mine"
	FeedFilterWatching = "watching"
)

// FeedServiceDeps bundles the collaborators of the feed engine; it exists
// to keep the constructor signature readable.
type FeedServiceDeps struct {
	AccountService    AccountService
	UserService       UserService
	ReviewService     ReviewService
	WatchlistService  WatchlistService
	EnrichmentService EnrichmentService
	GithubClient      GithubClient
	Notifier          Notifier
}

// feedService is the concrete implementation of FeedService. It composes
// the ledgers, the enrichment engine, and the GitHub client into the
// read-heavy endpoints backing profile pages, feeds, and suggestions.
type feedService struct {
	accounts   AccountService
	users      UserService
	reviews    ReviewService
	watchlist  WatchlistService
	enrichment EnrichmentService
	github     GithubClient
	notifier   Notifier

	// rand shuffles non-prioritized suggestions. Injectable so tests can
	// seed it deterministically.
	rand   *rand.Rand
	randMu sync.Mutex

	logger *logger.Logger
}

// NewFeedService constructs a FeedService from its collaborators.
func NewFeedService(deps FeedServiceDeps, logger *logger.Logger) FeedService {
	return &feedService{
		accounts:   deps.AccountService,
		users:      deps.UserService,
		reviews:    deps.ReviewService,
		watchlist:  deps.WatchlistService,
		enrichment: deps.EnrichmentService,
		github:     deps.GithubClient,
		notifier:   deps.Notifier,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     logger,
	}
}

// GetReviewsForUser returns one page of a username's received reviews.
//
// A username without an account is a "draft" page: its reviews are hidden
// from everyone except their own authors, so the full set is loaded, cut to
// the viewer's own reviews, and paginated in memory. A regular page uses
// over-fetch-by-one pagination straight from storage.
func (f *feedService) GetReviewsForUser(ctx context.Context, username string, viewerUUID uuid.UUID, limit, offset int, status models.ReviewStatus) (models.PaginatedReviews, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	viewer, target, err := f.resolveViewerAndTarget(ctx, viewerUUID, username)
	if err != nil {
		return models.PaginatedReviews{}, err
	}

	isPageOwner := viewer != nil && strings.EqualFold(viewer.Username, username)
	isDraft := target == nil

	var (
		page    []models.Review
		hasMore bool
	)

	if isDraft {
		all, listErr := f.reviews.GetForUser(ctx, username, 0, 0, status)
		if listErr != nil {
			return models.PaginatedReviews{}, listErr
		}

		mine := make([]models.Review, 0, len(all))
		if viewer != nil {
			for _, review := range all {
				if review.ReviewerUUID == viewer.UUID {
					mine = append(mine, review)
				}
			}
		}

		hasMore = len(mine) > offset+limit
		page = paginate(mine, limit, offset)
	} else {
		fetched, listErr := f.reviews.GetForUser(ctx, username, limit+1, offset, status)
		if listErr != nil {
			return models.PaginatedReviews{}, listErr
		}

		hasMore = len(fetched) > limit
		if hasMore {
			fetched = fetched[:limit]
		}
		page = fetched
	}

	items, err := f.enrichment.Enrich(ctx, page)
	if err != nil {
		return models.PaginatedReviews{}, err
	}

	return models.PaginatedReviews{
		Items:       items,
		HasMore:     hasMore,
		IsPageOwner: isPageOwner,
	}, nil
}

// GetReviewers returns the reviewer sidebar for a profile page: every
// review of the target, enriched, capped at a fixed maximum.
func (f *feedService) GetReviewers(ctx context.Context, username string, viewerUUID uuid.UUID) ([]models.ReviewWithIdentity, error) {
	viewer, target, err := f.resolveViewerAndTarget(ctx, viewerUUID, username)
	if err != nil {
		return nil, err
	}

	if target == nil {
		// Draft page: only the viewer's own review is visible.
		if viewer == nil {
			return []models.ReviewWithIdentity{}, nil
		}

		own, ownErr := f.reviews.GetByReviewerAndUsername(ctx, viewer.UUID, username)
		if ownErr != nil {
			if errors.Is(ownErr, store.ErrReviewNotFound) {
				return []models.ReviewWithIdentity{}, nil
			}
			return nil, ownErr
		}

		return f.enrichment.Enrich(ctx, []models.Review{own})
	}

	// A page with an account but no resolved profile yet lists nobody.
	if _, cacheErr := f.users.GetByUsername(ctx, username); cacheErr != nil {
		if errors.Is(cacheErr, store.ErrUserNotCached) {
			return []models.ReviewWithIdentity{}, nil
		}
		return nil, cacheErr
	}

	reviews, err := f.reviews.GetForUser(ctx, username, maxReviewersListed, 0, "")
	if err != nil {
		return nil, err
	}

	return f.enrichment.Enrich(ctx, reviews)
}

// GetActivityFeed returns one page of the account's activity feed: reviews
// received by the account itself ("mine"), by its watched usernames
// ("watching"), or both ("all"), newest-first.
func (f *feedService) GetActivityFeed(ctx context.Context, accountUUID uuid.UUID, filter string, limit, offset int) ([]models.ActivityFeedItem, bool, error) {
	if filter == "" {
		filter = FeedFilterAll
	}
	if filter != FeedFilterAll && filter != FeedFilterMine && filter != FeedFilterWatching {
		return nil, false, ErrInvalidDataProvided
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	account, err := f.accounts.GetActiveByUUID(ctx, accountUUID)
	if err != nil {
		return nil, false, err
	}

	var usernames []string
	if filter == FeedFilterAll || filter == FeedFilterMine {
		usernames = append(usernames, account.Username)
	}
	if filter == FeedFilterAll || filter == FeedFilterWatching {
		watches, watchErr := f.watchlist.Get(ctx, accountUUID, 0, 0)
		if watchErr != nil {
			return nil, false, watchErr
		}
		for _, watch := range watches {
			usernames = append(usernames, watch.WatchedUsername)
		}
	}
	if len(usernames) == 0 {
		return []models.ActivityFeedItem{}, false, nil
	}

	fetched, err := f.reviews.GetForUsernames(ctx, usernames, 0, 0)
	if err != nil {
		return nil, false, err
	}

	visible, err := f.dropHiddenTargets(ctx, fetched, account)
	if err != nil {
		return nil, false, err
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].UpdatedAt.After(visible[j].UpdatedAt)
	})

	hasMore := len(visible) > offset+limit
	page := paginate(visible, limit, offset)

	items, err := f.buildFeedItems(ctx, page)
	if err != nil {
		return nil, false, err
	}

	return items, hasMore, nil
}

// dropHiddenTargets removes reviews whose reviewed target must not appear
// in the viewer's feed: deleted target accounts always, and draft targets
// unless the viewer authored the review.
func (f *feedService) dropHiddenTargets(ctx context.Context, reviews []models.Review, viewer models.Account) ([]models.Review, error) {
	distinct := make(map[string]struct{}, len(reviews))
	targets := make([]string, 0, len(reviews))
	for _, review := range reviews {
		key := lowerKey(review.ReviewedUsername)
		if _, ok := distinct[key]; ok {
			continue
		}
		distinct[key] = struct{}{}
		targets = append(targets, review.ReviewedUsername)
	}

	targetAccounts, err := f.accounts.GetManyByUsernames(ctx, targets)
	if err != nil {
		return nil, err
	}

	visible := make([]models.Review, 0, len(reviews))
	for _, review := range reviews {
		targetAccount, exists := targetAccounts[lowerKey(review.ReviewedUsername)]
		switch {
		case exists && targetAccount.Deleted():
			continue
		case !exists && review.ReviewerUUID != viewer.UUID:
			continue
		}
		visible = append(visible, review)
	}

	return visible, nil
}

// buildFeedItems enriches a feed page with reviewer identities (masked for
// anonymous reviews) and the reviewed users' avatars. Reviews dropped by
// enrichment (reviewer account gone or soft-deleted) are dropped from the
// feed too rather than shown as authorless entries.
func (f *feedService) buildFeedItems(ctx context.Context, page []models.Review) ([]models.ActivityFeedItem, error) {
	enriched, err := f.enrichment.Enrich(ctx, page)
	if err != nil {
		return nil, err
	}

	identities := make(map[int64]models.ReviewWithIdentity, len(enriched))
	for _, item := range enriched {
		identities[item.Review.ID] = item
	}

	reviewedNames := make([]string, 0, len(page))
	seen := make(map[string]struct{}, len(page))
	for _, review := range page {
		key := lowerKey(review.ReviewedUsername)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		reviewedNames = append(reviewedNames, review.ReviewedUsername)
	}

	profiles, err := f.users.GetManyByUsernames(ctx, reviewedNames)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("reviewed-user avatar lookup failed, serving feed without them")
		profiles = map[string]models.User{}
	}

	items := make([]models.ActivityFeedItem, 0, len(page))
	for _, review := range page {
		identity, ok := identities[review.ID]
		if !ok {
			continue
		}

		item := models.ActivityFeedItem{Review: review}
		if !review.Anonymous {
			item.ReviewerUsername = identity.ReviewerUsername
			item.ReviewerAvatarURL = identity.ReviewerAvatarURL
		}
		if profile, ok := profiles[lowerKey(review.ReviewedUsername)]; ok {
			item.ReviewedUserAvatarURL = profile.AvatarURL
		}

		items = append(items, item)
	}

	return items, nil
}

// GetSuggestions proposes usernames to review, sourced from the account's
// GitHub following list minus everyone already watched or reviewed.
// Candidates with a local presence (open account or received reviews) come
// first in a deterministic order; the remainder is shuffled.
func (f *feedService) GetSuggestions(ctx context.Context, accountUUID uuid.UUID, limit int) ([]models.Suggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionCount
	}

	account, err := f.accounts.GetActiveByUUID(ctx, accountUUID)
	if err != nil {
		return nil, err
	}
	if account.AccessToken == "" {
		return nil, ErrAccessTokenMissing
	}

	var (
		following []githubUserRef
		watches   []models.Watch
		history   []models.Review
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		users, ghErr := f.github.GetFollowing(groupCtx, account.AccessToken, account.Username, 100)
		if ghErr != nil {
			return fmt.Errorf("%w: %w", ErrGitHubAPI, ghErr)
		}
		for _, user := range users {
			following = append(following, githubUserRef{Login: user.Login, AvatarURL: user.AvatarURL, Type: user.Type})
		}
		return nil
	})
	group.Go(func() error {
		var watchErr error
		watches, watchErr = f.watchlist.Get(groupCtx, accountUUID, suggestionHistoryCap, 0)
		return watchErr
	})
	group.Go(func() error {
		var histErr error
		history, histErr = f.reviews.GetByReviewer(groupCtx, accountUUID, suggestionHistoryCap, 0)
		return histErr
	})
	if err = group.Wait(); err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(watches)+len(history)+1)
	excluded[lowerKey(account.Username)] = struct{}{}
	for _, watch := range watches {
		excluded[lowerKey(watch.WatchedUsername)] = struct{}{}
	}
	for _, review := range history {
		excluded[lowerKey(review.ReviewedUsername)] = struct{}{}
	}

	candidateNames := make([]string, 0, len(following))
	candidates := make(map[string]githubUserRef, len(following))
	for _, ref := range following {
		if ref.Type != models.UserTypeUser {
			continue
		}
		key := lowerKey(ref.Login)
		if _, skip := excluded[key]; skip {
			continue
		}
		if _, dup := candidates[key]; dup {
			continue
		}
		candidates[key] = ref
		candidateNames = append(candidateNames, ref.Login)
	}
	if len(candidateNames) == 0 {
		return []models.Suggestion{}, nil
	}

	var (
		candidateAccounts map[string]models.Account
		reviewCounts      map[string]int64
	)

	group, groupCtx = errgroup.WithContext(ctx)
	group.Go(func() error {
		var accErr error
		candidateAccounts, accErr = f.accounts.GetManyByUsernames(groupCtx, candidateNames)
		return accErr
	})
	group.Go(func() error {
		var countErr error
		reviewCounts, countErr = f.reviews.GetCountsForUsers(groupCtx, candidateNames)
		return countErr
	})
	if err = group.Wait(); err != nil {
		return nil, err
	}

	var prioritized, rest []models.Suggestion
	for _, name := range candidateNames {
		key := lowerKey(name)
		ref := candidates[key]

		candidateAccount, hasAccount := candidateAccounts[key]
		if hasAccount && candidateAccount.Deleted() {
			continue
		}

		suggestion := models.Suggestion{
			Username:       ref.Login,
			AvatarURL:      ref.AvatarURL,
			HasOpenAccount: hasAccount,
			ReviewCount:    int(reviewCounts[key]),
		}

		if suggestion.HasOpenAccount || suggestion.ReviewCount > 0 {
			prioritized = append(prioritized, suggestion)
		} else {
			rest = append(rest, suggestion)
		}
	}

	sort.SliceStable(prioritized, func(i, j int) bool {
		a, b := prioritized[i], prioritized[j]
		if a.HasOpenAccount != b.HasOpenAccount {
			return a.HasOpenAccount
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return lowerKey(a.Username) < lowerKey(b.Username)
	})

	f.randMu.Lock()
	f.rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	f.randMu.Unlock()

	suggestions := append(prioritized, rest...)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return suggestions, nil
}

// githubUserRef is the slice of a GitHub search/following entry the
// suggestion engine cares about.
type githubUserRef struct {
	Login     string
	AvatarURL string
	Type      string
}

// GetMyReviews returns one page of the reviews the account has written.
// The caller always sees their own full identity here regardless of
// anonymity; the response shaping layer relies on that.
func (f *feedService) GetMyReviews(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.ReviewWithIdentity, bool, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	fetched, err := f.reviews.GetByReviewer(ctx, reviewerUUID, limit+1, offset)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(fetched) > limit
	if hasMore {
		fetched = fetched[:limit]
	}

	items, err := f.enrichment.Enrich(ctx, fetched)
	if err != nil {
		return nil, false, err
	}

	return items, hasMore, nil
}

// SubmitReview persists a review submission and runs its side effects in
// order: notify the reviewed user (new reviews only), then auto-watch the
// reviewed username. Both side effects are best-effort; their failures are
// logged and never surfaced.
func (f *feedService) SubmitReview(ctx context.Context, reviewerUUID uuid.UUID, req models.CreateOrUpdateReviewRequest) (models.ReviewWithIdentity, bool, error) {
	log := logger.FromContext(ctx)

	review, isNew, err := f.reviews.CreateOrUpdate(ctx, reviewerUUID, req.ReviewedUsername, req.Status, req.Comment, req.Anonymous)
	if err != nil {
		return models.ReviewWithIdentity{}, false, err
	}

	if isNew {
		if notifyErr := f.notifyReviewedUser(ctx, review); notifyErr != nil {
			log.Err(notifyErr).
				Str("reviewed_username", review.ReviewedUsername).
				Msg("new review notification failed")
		}
	}

	if _, watchErr := f.watchlist.Watch(ctx, reviewerUUID, review.ReviewedUsername); watchErr != nil {
		log.Err(watchErr).
			Str("reviewed_username", review.ReviewedUsername).
			Msg("auto-watch after review submission failed")
	}

	item, err := f.enrichSingle(ctx, review)
	if err != nil {
		return models.ReviewWithIdentity{}, false, err
	}

	return item, isNew, nil
}

// notifyReviewedUser emails the reviewed user about a new review, when they
// have an active account with a known email address.
func (f *feedService) notifyReviewedUser(ctx context.Context, review models.Review) error {
	if !f.notifier.Enabled() {
		return nil
	}

	target, err := f.accounts.GetByUsername(ctx, review.ReviewedUsername)
	if err != nil {
		return err
	}
	if target == nil || target.Deleted() || target.Email == "" {
		return nil
	}

	reviewerName := ""
	if !review.Anonymous {
		reviewer, revErr := f.accounts.GetByUUID(ctx, review.ReviewerUUID)
		if revErr != nil {
			return revErr
		}
		reviewerName = reviewer.Username
	}

	return f.notifier.NotifyNewReview(ctx, target.Email, target.Username, reviewerName, review.Anonymous)
}

// ToggleCommentHidden flips the comment visibility flag of a review. Only
// the owner of the reviewed page may do this.
func (f *feedService) ToggleCommentHidden(ctx context.Context, reviewID int64, accountUUID uuid.UUID, hidden bool) (models.ReviewWithIdentity, error) {
	review, err := f.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return models.ReviewWithIdentity{}, err
	}

	account, err := f.accounts.GetActiveByUUID(ctx, accountUUID)
	if err != nil {
		return models.ReviewWithIdentity{}, err
	}
	if !strings.EqualFold(account.Username, review.ReviewedUsername) {
		return models.ReviewWithIdentity{}, ErrForbidden
	}

	review.SetCommentHidden(hidden)

	updated, err := f.reviews.Update(ctx, review)
	if err != nil {
		return models.ReviewWithIdentity{}, err
	}

	return f.enrichSingle(ctx, updated)
}

// DeleteAccount removes every trace the account controls: its reviews, its
// watchlist, its cached profile, and finally the account itself via soft
// delete.
func (f *feedService) DeleteAccount(ctx context.Context, accountUUID uuid.UUID) error {
	log := logger.FromContext(ctx)

	account, err := f.accounts.GetActiveByUUID(ctx, accountUUID)
	if err != nil {
		return err
	}

	reviewsDeleted, err := f.reviews.DeleteAllByReviewer(ctx, accountUUID)
	if err != nil {
		return err
	}

	watchesDeleted, err := f.watchlist.DeleteAllByWatcher(ctx, accountUUID)
	if err != nil {
		return err
	}

	if _, err = f.accounts.Delete(ctx, account); err != nil {
		return err
	}

	if cacheErr := f.users.Delete(ctx, account.Username); cacheErr != nil {
		log.Err(cacheErr).Str("username", account.Username).Msg("cached profile cleanup failed")
	}

	log.Info().
		Str("username", account.Username).
		Int("reviews_deleted", reviewsDeleted).
		Int("watches_deleted", watchesDeleted).
		Msg("account deleted")

	return nil
}

// GetWatchlist returns one page of the account's watchlist joined with the
// cached profiles of the watched users.
func (f *feedService) GetWatchlist(ctx context.Context, accountUUID uuid.UUID, limit, offset int) ([]models.WatchWithUser, error) {
	watches, err := f.watchlist.Get(ctx, accountUUID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(watches) == 0 {
		return []models.WatchWithUser{}, nil
	}

	usernames := make([]string, 0, len(watches))
	for _, watch := range watches {
		usernames = append(usernames, watch.WatchedUsername)
	}

	profiles, err := f.users.GetManyByUsernames(ctx, usernames)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("watchlist profile lookup failed, serving without profiles")
		profiles = map[string]models.User{}
	}

	items := make([]models.WatchWithUser, 0, len(watches))
	for _, watch := range watches {
		item := models.WatchWithUser{Watch: watch}
		if profile, ok := profiles[lowerKey(watch.WatchedUsername)]; ok {
			user := profile
			item.User = &user
		}
		items = append(items, item)
	}

	return items, nil
}

// enrichSingle enriches one review, falling back to a bare item when the
// reviewer identity cannot be resolved.
func (f *feedService) enrichSingle(ctx context.Context, review models.Review) (models.ReviewWithIdentity, error) {
	items, err := f.enrichment.Enrich(ctx, []models.Review{review})
	if err != nil {
		return models.ReviewWithIdentity{}, err
	}
	if len(items) == 0 {
		return models.ReviewWithIdentity{Review: review}, nil
	}

	return items[0], nil
}

// resolveViewerAndTarget loads the viewer account (by UUID, optional) and
// the target account (by username, nil when absent) concurrently.
func (f *feedService) resolveViewerAndTarget(ctx context.Context, viewerUUID uuid.UUID, username string) (viewer, target *models.Account, err error) {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if viewerUUID == uuid.Nil {
			return nil
		}
		account, viewerErr := f.accounts.GetByUUID(groupCtx, viewerUUID)
		if viewerErr != nil {
			if errors.Is(viewerErr, store.ErrAccountNotFound) {
				return nil
			}
			return viewerErr
		}
		if !account.Deleted() {
			viewer = &account
		}
		return nil
	})
	group.Go(func() error {
		var targetErr error
		target, targetErr = f.accounts.GetByUsername(groupCtx, username)
		return targetErr
	})

	if waitErr := group.Wait(); waitErr != nil {
		return nil, nil, waitErr
	}

	return viewer, target, nil
}

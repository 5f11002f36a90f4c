// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/service"
	"github.com/peerhub/peerhub/models"
)

// ─────────────────────────────────────────────
// Mock: service.AccountService
// ─────────────────────────────────────────────

type fakeAccountService struct {
	getByUUIDFn          func(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)
	getActiveByUUIDFn    func(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)
	getByUsernameFn      func(ctx context.Context, username string) (*models.Account, error)
	getManyByUUIDsFn     func(ctx context.Context, accountUUIDs []uuid.UUID) (map[uuid.UUID]models.Account, error)
	getManyByUsernamesFn func(ctx context.Context, usernames []string) (map[string]models.Account, error)
	getOrCreateFn        func(ctx context.Context, username, accessToken, email string) (models.Account, bool, error)
	deleteFn             func(ctx context.Context, account models.Account) (models.Account, error)
}

func (f *fakeAccountService) GetByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	return f.getByUUIDFn(ctx, accountUUID)
}

func (f *fakeAccountService) GetActiveByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	return f.getActiveByUUIDFn(ctx, accountUUID)
}

func (f *fakeAccountService) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return f.getByUsernameFn(ctx, username)
}

func (f *fakeAccountService) GetManyByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) (map[uuid.UUID]models.Account, error) {
	return f.getManyByUUIDsFn(ctx, accountUUIDs)
}

func (f *fakeAccountService) GetManyByUsernames(ctx context.Context, usernames []string) (map[string]models.Account, error) {
	return f.getManyByUsernamesFn(ctx, usernames)
}

func (f *fakeAccountService) GetOrCreate(ctx context.Context, username, accessToken, email string) (models.Account, bool, error) {
	return f.getOrCreateFn(ctx, username, accessToken, email)
}

func (f *fakeAccountService) Delete(ctx context.Context, account models.Account) (models.Account, error) {
	return f.deleteFn(ctx, account)
}

// ─────────────────────────────────────────────
// Mock: service.ReviewService
// ─────────────────────────────────────────────

type fakeReviewService struct {
	createOrUpdateFn           func(ctx context.Context, reviewerUUID uuid.UUID, reviewedUsername string, status models.ReviewStatus, comment *string, anonymous bool) (models.Review, bool, error)
	getByIDFn                  func(ctx context.Context, id int64) (models.Review, error)
	getByReviewerAndUsernameFn func(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error)
	updateFn                   func(ctx context.Context, review models.Review) (models.Review, error)
	getForUserFn               func(ctx context.Context, username string, limit, offset int, status models.ReviewStatus) ([]models.Review, error)
	getByReviewerFn            func(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.Review, error)
	getForUsernamesFn          func(ctx context.Context, usernames []string, limit, offset int) ([]models.Review, error)
	getCountForUserFn          func(ctx context.Context, username string) (int64, error)
	getCountsForUsersFn        func(ctx context.Context, usernames []string) (map[string]int64, error)
	deleteFn                   func(ctx context.Context, reviewerUUID uuid.UUID, username string) error
	deleteAllByReviewerFn      func(ctx context.Context, reviewerUUID uuid.UUID) (int, error)
}

func (f *fakeReviewService) CreateOrUpdate(ctx context.Context, reviewerUUID uuid.UUID, reviewedUsername string, status models.ReviewStatus, comment *string, anonymous bool) (models.Review, bool, error) {
	return f.createOrUpdateFn(ctx, reviewerUUID, reviewedUsername, status, comment, anonymous)
}

func (f *fakeReviewService) GetByID(ctx context.Context, id int64) (models.Review, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeReviewService) GetByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error) {
	return f.getByReviewerAndUsernameFn(ctx, reviewerUUID, username)
}

func (f *fakeReviewService) Update(ctx context.Context, review models.Review) (models.Review, error) {
	return f.updateFn(ctx, review)
}

func (f *fakeReviewService) GetForUser(ctx context.Context, username string, limit, offset int, status models.ReviewStatus) ([]models.Review, error) {
	return f.getForUserFn(ctx, username, limit, offset, status)
}

func (f *fakeReviewService) GetByReviewer(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.Review, error) {
	return f.getByReviewerFn(ctx, reviewerUUID, limit, offset)
}

func (f *fakeReviewService) GetForUsernames(ctx context.Context, usernames []string, limit, offset int) ([]models.Review, error) {
	return f.getForUsernamesFn(ctx, usernames, limit, offset)
}

func (f *fakeReviewService) GetCountForUser(ctx context.Context, username string) (int64, error) {
	return f.getCountForUserFn(ctx, username)
}

func (f *fakeReviewService) GetCountsForUsers(ctx context.Context, usernames []string) (map[string]int64, error) {
	return f.getCountsForUsersFn(ctx, usernames)
}

func (f *fakeReviewService) Delete(ctx context.Context, reviewerUUID uuid.UUID, username string) error {
	return f.deleteFn(ctx, reviewerUUID, username)
}

func (f *fakeReviewService) DeleteAllByReviewer(ctx context.Context, reviewerUUID uuid.UUID) (int, error) {
	return f.deleteAllByReviewerFn(ctx, reviewerUUID)
}

// ─────────────────────────────────────────────
// Mock: service.WatchlistService
// ─────────────────────────────────────────────

type fakeWatchlistService struct {
	watchFn              func(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error)
	unwatchFn            func(ctx context.Context, watcherUUID uuid.UUID, username string) error
	getFn                func(ctx context.Context, watcherUUID uuid.UUID, limit, offset int) ([]models.Watch, error)
	isWatchingFn         func(ctx context.Context, watcherUUID uuid.UUID, username string) (bool, error)
	deleteAllByWatcherFn func(ctx context.Context, watcherUUID uuid.UUID) (int, error)
}

func (f *fakeWatchlistService) Watch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error) {
	return f.watchFn(ctx, watcherUUID, username)
}

func (f *fakeWatchlistService) Unwatch(ctx context.Context, watcherUUID uuid.UUID, username string) error {
	return f.unwatchFn(ctx, watcherUUID, username)
}

func (f *fakeWatchlistService) Get(ctx context.Context, watcherUUID uuid.UUID, limit, offset int) ([]models.Watch, error) {
	return f.getFn(ctx, watcherUUID, limit, offset)
}

func (f *fakeWatchlistService) IsWatching(ctx context.Context, watcherUUID uuid.UUID, username string) (bool, error) {
	return f.isWatchingFn(ctx, watcherUUID, username)
}

func (f *fakeWatchlistService) DeleteAllByWatcher(ctx context.Context, watcherUUID uuid.UUID) (int, error) {
	return f.deleteAllByWatcherFn(ctx, watcherUUID)
}

// ─────────────────────────────────────────────
// Mock: service.FeedService
// ─────────────────────────────────────────────

type fakeFeedService struct {
	getReviewsForUserFn   func(ctx context.Context, username string, viewerUUID uuid.UUID, limit, offset int, status models.ReviewStatus) (models.PaginatedReviews, error)
	getReviewersFn        func(ctx context.Context, username string, viewerUUID uuid.UUID) ([]models.ReviewWithIdentity, error)
	getActivityFeedFn     func(ctx context.Context, accountUUID uuid.UUID, filter string, limit, offset int) ([]models.ActivityFeedItem, bool, error)
	getSuggestionsFn      func(ctx context.Context, accountUUID uuid.UUID, limit int) ([]models.Suggestion, error)
	getMyReviewsFn        func(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.ReviewWithIdentity, bool, error)
	submitReviewFn        func(ctx context.Context, reviewerUUID uuid.UUID, req models.CreateOrUpdateReviewRequest) (models.ReviewWithIdentity, bool, error)
	toggleCommentHiddenFn func(ctx context.Context, reviewID int64, accountUUID uuid.UUID, hidden bool) (models.ReviewWithIdentity, error)
	deleteAccountFn       func(ctx context.Context, accountUUID uuid.UUID) error
	getWatchlistFn        func(ctx context.Context, accountUUID uuid.UUID, limit, offset int) ([]models.WatchWithUser, error)
}

func (f *fakeFeedService) GetReviewsForUser(ctx context.Context, username string, viewerUUID uuid.UUID, limit, offset int, status models.ReviewStatus) (models.PaginatedReviews, error) {
	return f.getReviewsForUserFn(ctx, username, viewerUUID, limit, offset, status)
}

func (f *fakeFeedService) GetReviewers(ctx context.Context, username string, viewerUUID uuid.UUID) ([]models.ReviewWithIdentity, error) {
	return f.getReviewersFn(ctx, username, viewerUUID)
}

func (f *fakeFeedService) GetActivityFeed(ctx context.Context, accountUUID uuid.UUID, filter string, limit, offset int) ([]models.ActivityFeedItem, bool, error) {
	return f.getActivityFeedFn(ctx, accountUUID, filter, limit, offset)
}

func (f *fakeFeedService) GetSuggestions(ctx context.Context, accountUUID uuid.UUID, limit int) ([]models.Suggestion, error) {
	return f.getSuggestionsFn(ctx, accountUUID, limit)
}

func (f *fakeFeedService) GetMyReviews(ctx context.Context, reviewerUUID uuid.UUID, limit, offset int) ([]models.ReviewWithIdentity, bool, error) {
	return f.getMyReviewsFn(ctx, reviewerUUID, limit, offset)
}

func (f *fakeFeedService) SubmitReview(ctx context.Context, reviewerUUID uuid.UUID, req models.CreateOrUpdateReviewRequest) (models.ReviewWithIdentity, bool, error) {
	return f.submitReviewFn(ctx, reviewerUUID, req)
}

func (f *fakeFeedService) ToggleCommentHidden(ctx context.Context, reviewID int64, accountUUID uuid.UUID, hidden bool) (models.ReviewWithIdentity, error) {
	return f.toggleCommentHiddenFn(ctx, reviewID, accountUUID, hidden)
}

func (f *fakeFeedService) DeleteAccount(ctx context.Context, accountUUID uuid.UUID) error {
	return f.deleteAccountFn(ctx, accountUUID)
}

func (f *fakeFeedService) GetWatchlist(ctx context.Context, accountUUID uuid.UUID, limit, offset int) ([]models.WatchWithUser, error) {
	return f.getWatchlistFn(ctx, accountUUID, limit, offset)
}

// ─────────────────────────────────────────────
// Mock: service.GithubAuthService
// ─────────────────────────────────────────────

type fakeGithubAuthService struct {
	authorizeURLFn         func(state string) string
	authenticateWithCodeFn func(ctx context.Context, code string) (models.Account, error)
	createTokenFn          func(ctx context.Context, account models.Account) (models.Token, error)
	parseTokenFn           func(ctx context.Context, tokenString string) (models.Token, error)
	getUserFn              func(ctx context.Context, username string, viewerUUID uuid.UUID, forceRefresh bool) (models.User, error)
	refreshUserFn          func(ctx context.Context, username string, viewerUUID uuid.UUID) (models.User, error)
	searchUsersFn          func(ctx context.Context, query string, viewerUUID uuid.UUID) ([]models.UserSearchItem, error)
}

func (f *fakeGithubAuthService) AuthorizeURL(state string) string {
	return f.authorizeURLFn(state)
}

func (f *fakeGithubAuthService) AuthenticateWithCode(ctx context.Context, code string) (models.Account, error) {
	return f.authenticateWithCodeFn(ctx, code)
}

func (f *fakeGithubAuthService) CreateToken(ctx context.Context, account models.Account) (models.Token, error) {
	return f.createTokenFn(ctx, account)
}

func (f *fakeGithubAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return f.parseTokenFn(ctx, tokenString)
}

func (f *fakeGithubAuthService) GetUser(ctx context.Context, username string, viewerUUID uuid.UUID, forceRefresh bool) (models.User, error) {
	return f.getUserFn(ctx, username, viewerUUID, forceRefresh)
}

func (f *fakeGithubAuthService) RefreshUser(ctx context.Context, username string, viewerUUID uuid.UUID) (models.User, error) {
	return f.refreshUserFn(ctx, username, viewerUUID)
}

func (f *fakeGithubAuthService) SearchUsers(ctx context.Context, query string, viewerUUID uuid.UUID) ([]models.UserSearchItem, error) {
	return f.searchUsersFn(ctx, query, viewerUUID)
}

// ─────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────

// testViewerUUID is the account every valid test token authenticates as.
var testViewerUUID = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// validTestToken is the only raw token string sessionAuth accepts in tests.
const validTestToken = "valid-test-token"

// newTestRouter wires a Handler over the given fakes and returns the full
// router so requests exercise the real middleware chain. The
// GithubAuthService fake gets a default ParseToken that accepts
// validTestToken for testViewerUUID unless the test overrides it.
func newTestRouter(services *service.Services) *chi.Mux {
	if services.GithubAuthService == nil {
		services.GithubAuthService = &fakeGithubAuthService{}
	}
	if auth, ok := services.GithubAuthService.(*fakeGithubAuthService); ok && auth.parseTokenFn == nil {
		auth.parseTokenFn = func(ctx context.Context, tokenString string) (models.Token, error) {
			if tokenString != validTestToken {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			}
			return models.Token{AccountUUID: testViewerUUID}, nil
		}
	}

	return NewHandler(services, logger.Nop()).Init()
}

// doRequest runs one request through the router. A non-empty token is sent
// in the session cookie.
func doRequest(router *chi.Mux, method, target, body, token string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reqBody)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/github"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/models"
)

// ─────────────────────────────────────────────
// Mock: store.AccountRepository
// ─────────────────────────────────────────────

type mockAccountRepository struct {
	createFn         func(ctx context.Context, account models.Account) (models.Account, error)
	getByUsernameFn  func(ctx context.Context, username string) (models.Account, error)
	getByUUIDFn      func(ctx context.Context, accountUUID uuid.UUID) (models.Account, error)
	getByUsernamesFn func(ctx context.Context, usernames []string) ([]models.Account, error)
	getByUUIDsFn     func(ctx context.Context, accountUUIDs []uuid.UUID) ([]models.Account, error)
	updateFn         func(ctx context.Context, account models.Account) (models.Account, error)
}

func (m *mockAccountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return account, nil
}

func (m *mockAccountRepository) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *mockAccountRepository) GetAccountByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	if m.getByUUIDFn != nil {
		return m.getByUUIDFn(ctx, accountUUID)
	}
	return models.Account{}, store.ErrAccountNotFound
}

func (m *mockAccountRepository) GetAccountsByUsernames(ctx context.Context, usernames []string) ([]models.Account, error) {
	if m.getByUsernamesFn != nil {
		return m.getByUsernamesFn(ctx, usernames)
	}
	return nil, nil
}

func (m *mockAccountRepository) GetAccountsByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) ([]models.Account, error) {
	if m.getByUUIDsFn != nil {
		return m.getByUUIDsFn(ctx, accountUUIDs)
	}
	return nil, nil
}

func (m *mockAccountRepository) UpdateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, account)
	}
	return account, nil
}

// ─────────────────────────────────────────────
// Mock: store.ReviewRepository
// ─────────────────────────────────────────────

type mockReviewRepository struct {
	createFn            func(ctx context.Context, review models.Review) (models.Review, error)
	updateFn            func(ctx context.Context, review models.Review) (models.Review, error)
	getByIDFn           func(ctx context.Context, id int64) (models.Review, error)
	getByPairFn         func(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error)
	getForUsernameFn    func(ctx context.Context, username string, statuses []models.ReviewStatus, offset, limit int) ([]models.Review, error)
	getByReviewerFn     func(ctx context.Context, reviewerUUID uuid.UUID, offset, limit int) ([]models.Review, error)
	getLatestFn         func(ctx context.Context, offset, limit int) ([]models.Review, error)
	getForUsernamesFn   func(ctx context.Context, usernames []string, offset, limit int) ([]models.Review, error)
	countForUsernameFn  func(ctx context.Context, username string) (int64, error)
	countByUsernamesFn  func(ctx context.Context, usernames []string) (map[string]int64, error)
	deleteFn            func(ctx context.Context, id int64) error
	deleteAllReviewerFn func(ctx context.Context, reviewerUUID uuid.UUID) error
}

func (m *mockReviewRepository) CreateReview(ctx context.Context, review models.Review) (models.Review, error) {
	if m.createFn != nil {
		return m.createFn(ctx, review)
	}
	return review, nil
}

func (m *mockReviewRepository) UpdateReview(ctx context.Context, review models.Review) (models.Review, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, review)
	}
	return review, nil
}

func (m *mockReviewRepository) GetReviewByID(ctx context.Context, id int64) (models.Review, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return models.Review{}, store.ErrReviewNotFound
}

func (m *mockReviewRepository) GetReviewByReviewerAndUsername(ctx context.Context, reviewerUUID uuid.UUID, username string) (models.Review, error) {
	if m.getByPairFn != nil {
		return m.getByPairFn(ctx, reviewerUUID, username)
	}
	return models.Review{}, store.ErrReviewNotFound
}

func (m *mockReviewRepository) GetReviewsForUsername(ctx context.Context, username string, statuses []models.ReviewStatus, offset, limit int) ([]models.Review, error) {
	if m.getForUsernameFn != nil {
		return m.getForUsernameFn(ctx, username, statuses, offset, limit)
	}
	return nil, nil
}

func (m *mockReviewRepository) GetReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID, offset, limit int) ([]models.Review, error) {
	if m.getByReviewerFn != nil {
		return m.getByReviewerFn(ctx, reviewerUUID, offset, limit)
	}
	return nil, nil
}

func (m *mockReviewRepository) GetLatestReviews(ctx context.Context, offset, limit int) ([]models.Review, error) {
	if m.getLatestFn != nil {
		return m.getLatestFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockReviewRepository) GetReviewsForUsernames(ctx context.Context, usernames []string, offset, limit int) ([]models.Review, error) {
	if m.getForUsernamesFn != nil {
		return m.getForUsernamesFn(ctx, usernames, offset, limit)
	}
	return nil, nil
}

func (m *mockReviewRepository) CountReviewsForUsername(ctx context.Context, username string) (int64, error) {
	if m.countForUsernameFn != nil {
		return m.countForUsernameFn(ctx, username)
	}
	return 0, nil
}

func (m *mockReviewRepository) CountReviewsByUsernames(ctx context.Context, usernames []string) (map[string]int64, error) {
	if m.countByUsernamesFn != nil {
		return m.countByUsernamesFn(ctx, usernames)
	}
	return map[string]int64{}, nil
}

func (m *mockReviewRepository) DeleteReview(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockReviewRepository) DeleteReviewsByReviewer(ctx context.Context, reviewerUUID uuid.UUID) error {
	if m.deleteAllReviewerFn != nil {
		return m.deleteAllReviewerFn(ctx, reviewerUUID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.WatchRepository
// ─────────────────────────────────────────────

type mockWatchRepository struct {
	createFn       func(ctx context.Context, watch models.Watch) (models.Watch, error)
	getFn          func(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error)
	getByWatcherFn func(ctx context.Context, watcherUUID uuid.UUID) ([]models.Watch, error)
	deleteFn       func(ctx context.Context, watcherUUID uuid.UUID, username string) error
	deleteAllFn    func(ctx context.Context, watcherUUID uuid.UUID) error
}

func (m *mockWatchRepository) CreateWatch(ctx context.Context, watch models.Watch) (models.Watch, error) {
	if m.createFn != nil {
		return m.createFn(ctx, watch)
	}
	return watch, nil
}

func (m *mockWatchRepository) GetWatch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error) {
	if m.getFn != nil {
		return m.getFn(ctx, watcherUUID, username)
	}
	return models.Watch{}, store.ErrWatchNotFound
}

func (m *mockWatchRepository) GetWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) ([]models.Watch, error) {
	if m.getByWatcherFn != nil {
		return m.getByWatcherFn(ctx, watcherUUID)
	}
	return nil, nil
}

func (m *mockWatchRepository) DeleteWatch(ctx context.Context, watcherUUID uuid.UUID, username string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, watcherUUID, username)
	}
	return nil
}

func (m *mockWatchRepository) DeleteWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) error {
	if m.deleteAllFn != nil {
		return m.deleteAllFn(ctx, watcherUUID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.UserCache
// ─────────────────────────────────────────────

type mockUserCache struct {
	getFn     func(ctx context.Context, username string) (models.User, error)
	getManyFn func(ctx context.Context, usernames []string) ([]models.User, error)
	saveFn    func(ctx context.Context, user models.User) error
	deleteFn  func(ctx context.Context, username string) error
}

func (m *mockUserCache) GetUser(ctx context.Context, username string) (models.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return models.User{}, store.ErrUserNotCached
}

func (m *mockUserCache) GetUsers(ctx context.Context, usernames []string) ([]models.User, error) {
	if m.getManyFn != nil {
		return m.getManyFn(ctx, usernames)
	}
	return nil, nil
}

func (m *mockUserCache) SaveUser(ctx context.Context, user models.User) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, user)
	}
	return nil
}

func (m *mockUserCache) DeleteUser(ctx context.Context, username string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, username)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: GithubClient
// ─────────────────────────────────────────────

type mockGithubClient struct {
	authCodeURLFn  func(state string) string
	exchangeFn     func(ctx context.Context, code string) (string, error)
	getAuthUserFn  func(ctx context.Context, accessToken string) (github.Profile, error)
	getUserFn      func(ctx context.Context, accessToken, username string) (github.Profile, error)
	searchUsersFn  func(ctx context.Context, accessToken, query string) ([]github.SearchUser, error)
	getFollowingFn func(ctx context.Context, accessToken, username string, perPage int) ([]github.SearchUser, error)
}

func (m *mockGithubClient) AuthCodeURL(state string) string {
	if m.authCodeURLFn != nil {
		return m.authCodeURLFn(state)
	}
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (m *mockGithubClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, code)
	}
	return "gho_token", nil
}

func (m *mockGithubClient) GetAuthenticatedUser(ctx context.Context, accessToken string) (github.Profile, error) {
	if m.getAuthUserFn != nil {
		return m.getAuthUserFn(ctx, accessToken)
	}
	return github.Profile{}, nil
}

func (m *mockGithubClient) GetUser(ctx context.Context, accessToken, username string) (github.Profile, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, accessToken, username)
	}
	return github.Profile{}, nil
}

func (m *mockGithubClient) SearchUsers(ctx context.Context, accessToken, query string) ([]github.SearchUser, error) {
	if m.searchUsersFn != nil {
		return m.searchUsersFn(ctx, accessToken, query)
	}
	return nil, nil
}

func (m *mockGithubClient) GetFollowing(ctx context.Context, accessToken, username string, perPage int) ([]github.SearchUser, error) {
	if m.getFollowingFn != nil {
		return m.getFollowingFn(ctx, accessToken, username, perPage)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: Notifier
// ─────────────────────────────────────────────

type mockNotifier struct {
	enabled        bool
	notifyReviewFn func(ctx context.Context, recipient, reviewedUsername, reviewerUsername string, anonymous bool) error
	notifyAcctFn   func(ctx context.Context, username string) error
}

func (m *mockNotifier) Enabled() bool {
	return m.enabled
}

func (m *mockNotifier) NotifyNewReview(ctx context.Context, recipient, reviewedUsername, reviewerUsername string, anonymous bool) error {
	if m.notifyReviewFn != nil {
		return m.notifyReviewFn(ctx, recipient, reviewedUsername, reviewerUsername, anonymous)
	}
	return nil
}

func (m *mockNotifier) NotifyNewAccount(ctx context.Context, username string) error {
	if m.notifyAcctFn != nil {
		return m.notifyAcctFn(ctx, username)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/models"
)

// watchlistService is the concrete implementation of WatchlistService.
type watchlistService struct {
	watchRepository   store.WatchRepository
	accountRepository store.AccountRepository
	userCache         store.UserCache
	logger            *logger.Logger
}

// NewWatchlistService constructs a WatchlistService wired to the given stores.
func NewWatchlistService(watchRepository store.WatchRepository, accountRepository store.AccountRepository, userCache store.UserCache, logger *logger.Logger) WatchlistService {
	return &watchlistService{
		watchRepository:   watchRepository,
		accountRepository: accountRepository,
		userCache:         userCache,
		logger:            logger,
	}
}

// Watch subscribes the watcher to the username's activity. Watching a
// username you already watch is idempotent and returns the stored entry.
func (w *watchlistService) Watch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error) {
	if username == "" || watcherUUID == uuid.Nil {
		return models.Watch{}, ErrInvalidDataProvided
	}

	watcher, err := w.accountRepository.GetAccountByUUID(ctx, watcherUUID)
	if err != nil {
		return models.Watch{}, fmt.Errorf("watcher lookup failed: %w", err)
	}
	if strings.EqualFold(watcher.Username, username) {
		return models.Watch{}, ErrSelfWatch
	}

	cached, err := w.userCache.GetUser(ctx, username)
	if err == nil && !cached.IsUserType() {
		return models.Watch{}, ErrNotUserType
	}
	if err != nil && !errors.Is(err, store.ErrUserNotCached) {
		return models.Watch{}, fmt.Errorf("target profile lookup failed: %w", err)
	}

	created, err := w.watchRepository.CreateWatch(ctx, models.Watch{
		WatcherUUID:     watcherUUID,
		WatchedUsername: username,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateWatch) {
			existing, getErr := w.watchRepository.GetWatch(ctx, watcherUUID, username)
			if getErr != nil {
				return models.Watch{}, fmt.Errorf("watch lookup after duplicate insert failed: %w", getErr)
			}
			return existing, nil
		}
		return models.Watch{}, fmt.Errorf("watch creation failed: %w", err)
	}

	return created, nil
}

// Unwatch removes the watch entry. Unwatching a username that is not
// watched succeeds silently.
func (w *watchlistService) Unwatch(ctx context.Context, watcherUUID uuid.UUID, username string) error {
	err := w.watchRepository.DeleteWatch(ctx, watcherUUID, username)
	if err != nil && !errors.Is(err, store.ErrWatchNotFound) {
		return fmt.Errorf("watch delete failed: %w", err)
	}

	return nil
}

// Get lists the watcher's entries newest-first. Pagination is applied in
// memory: watchlists are small and the repository returns them in one read.
func (w *watchlistService) Get(ctx context.Context, watcherUUID uuid.UUID, limit, offset int) ([]models.Watch, error) {
	watches, err := w.watchRepository.GetWatchesByWatcher(ctx, watcherUUID)
	if err != nil {
		return nil, fmt.Errorf("watch listing failed: %w", err)
	}

	return paginate(watches, limit, offset), nil
}

func (w *watchlistService) IsWatching(ctx context.Context, watcherUUID uuid.UUID, username string) (bool, error) {
	_, err := w.watchRepository.GetWatch(ctx, watcherUUID, username)
	if err != nil {
		if errors.Is(err, store.ErrWatchNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("watch lookup failed: %w", err)
	}

	return true, nil
}

func (w *watchlistService) DeleteAllByWatcher(ctx context.Context, watcherUUID uuid.UUID) (int, error) {
	watches, err := w.watchRepository.GetWatchesByWatcher(ctx, watcherUUID)
	if err != nil {
		return 0, fmt.Errorf("watch listing failed: %w", err)
	}

	if err = w.watchRepository.DeleteWatchesByWatcher(ctx, watcherUUID); err != nil {
		return 0, fmt.Errorf("bulk watch delete failed: %w", err)
	}

	return len(watches), nil
}

// paginate slices a fully loaded result set by offset/limit. A non-positive
// limit means no pagination.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}

	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	return items
}

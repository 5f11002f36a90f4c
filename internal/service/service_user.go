package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/models"
)

// userService is the concrete implementation of UserService backed by the
// Redis profile cache. Entries carry no TTL: staleness is decided here, on
// read, against the snapshot's RefreshedAt stamp.
type userService struct {
	userCache store.UserCache
	maxAge    time.Duration
	logger    *logger.Logger
}

// NewUserService constructs a UserService over the given profile cache.
func NewUserService(userCache store.UserCache, logger *logger.Logger) UserService {
	return &userService{
		userCache: userCache,
		maxAge:    models.ProfileCacheMaxAge,
		logger:    logger,
	}
}

func (u *userService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	user, err := u.userCache.GetUser(ctx, username)
	if err != nil {
		return models.User{}, fmt.Errorf("profile cache lookup failed: %w", err)
	}

	return user, nil
}

func (u *userService) GetManyByUsernames(ctx context.Context, usernames []string) (map[string]models.User, error) {
	users, err := u.userCache.GetUsers(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("batch profile cache lookup failed: %w", err)
	}

	result := make(map[string]models.User, len(users))
	for _, user := range users {
		result[strings.ToLower(user.Username)] = user
	}

	return result, nil
}

func (u *userService) Save(ctx context.Context, user models.User) error {
	if user.Username == "" {
		return ErrInvalidDataProvided
	}
	if user.RefreshedAt.IsZero() {
		user.RefreshedAt = time.Now().UTC()
	}

	if err := u.userCache.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("profile cache save failed: %w", err)
	}

	return nil
}

func (u *userService) Delete(ctx context.Context, username string) error {
	if err := u.userCache.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("profile cache delete failed: %w", err)
	}

	return nil
}

// IsStale reports whether the snapshot needs a refetch from GitHub. A zero
// RefreshedAt counts as stale.
func (u *userService) IsStale(user models.User) bool {
	if user.RefreshedAt.IsZero() {
		return true
	}
	return time.Since(user.RefreshedAt) > u.maxAge
}

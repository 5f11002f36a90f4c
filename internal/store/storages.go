package store

import (
	"github.com/redis/go-redis/v9"

	"github.com/peerhub/peerhub/internal/logger"
)

// Storages bundles every persistence dependency of the service layer.
type Storages struct {
	AccountRepository AccountRepository
	ReviewRepository  ReviewRepository
	WatchRepository   WatchRepository
	UserCache         UserCache
}

// NewStorages wires all repositories and caches to their backing
// connections.
func NewStorages(db *DB, redisClient *redis.Client, log *logger.Logger) *Storages {
	return &Storages{
		AccountRepository: NewAccountRepository(db, log),
		ReviewRepository:  NewReviewRepository(db, log),
		WatchRepository:   NewWatchRepository(db, log),
		UserCache:         NewUserCache(redisClient, log),
	}
}

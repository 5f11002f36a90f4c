package service

import (
	"strings"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
)

type Services struct {
	AccountService    AccountService
	UserService       UserService
	ReviewService     ReviewService
	WatchlistService  WatchlistService
	EnrichmentService EnrichmentService
	FeedService       FeedService
	GithubAuthService GithubAuthService
}

func NewServices(storages store.Storages, cfg *config.StructuredConfig, githubClient GithubClient, notifier Notifier, logger *logger.Logger) *Services {
	accountService := NewAccountService(storages.AccountRepository, logger)
	userService := NewUserService(storages.UserCache, logger)
	reviewService := NewReviewService(storages.ReviewRepository, storages.AccountRepository, storages.UserCache, logger)
	watchlistService := NewWatchlistService(storages.WatchRepository, storages.AccountRepository, storages.UserCache, logger)
	enrichmentService := NewEnrichmentService(accountService, userService, logger)

	feedService := NewFeedService(FeedServiceDeps{
		AccountService:    accountService,
		UserService:       userService,
		ReviewService:     reviewService,
		WatchlistService:  watchlistService,
		EnrichmentService: enrichmentService,
		GithubClient:      githubClient,
		Notifier:          notifier,
	}, logger)

	githubAuthService := NewGithubAuthService(accountService, userService, githubClient, notifier, cfg.App, logger)

	return &Services{
		AccountService:    accountService,
		UserService:       userService,
		ReviewService:     reviewService,
		WatchlistService:  watchlistService,
		EnrichmentService: enrichmentService,
		FeedService:       feedService,
		GithubAuthService: githubAuthService,
	}
}

// lowerKey normalizes a username into the case-insensitive form used as a
// map key throughout the services.
func lowerKey(username string) string {
	return strings.ToLower(username)
}

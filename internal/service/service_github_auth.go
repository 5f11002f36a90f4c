package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/github"
	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/internal/store"
	"github.com/peerhub/peerhub/internal/utils"
	"github.com/peerhub/peerhub/models"
)

// githubAuthService is the concrete implementation of GithubAuthService.
// It drives the OAuth sign-in flow, JWT session token lifecycle, and the
// profile read paths that may reach out to GitHub.
type githubAuthService struct {
	accountService AccountService
	userService    UserService
	github         GithubClient
	notifier       Notifier

	// allowedUsernames restricts sign-in when non-empty. Stored lowercased.
	allowedUsernames map[string]struct{}

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewGithubAuthService constructs a GithubAuthService populated with
// security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewGithubAuthService(accountService AccountService, userService UserService, githubClient GithubClient, notifier Notifier, cfg config.App, logger *logger.Logger) GithubAuthService {
	allowed := make(map[string]struct{}, len(cfg.AllowedUsernames))
	for _, username := range cfg.AllowedUsernames {
		if trimmed := strings.TrimSpace(username); trimmed != "" {
			allowed[lowerKey(trimmed)] = struct{}{}
		}
	}

	return &githubAuthService{
		accountService:   accountService,
		userService:      userService,
		github:           githubClient,
		notifier:         notifier,
		allowedUsernames: allowed,
		tokenSignKey:     cfg.TokenSignKey,
		tokenIssuer:      cfg.TokenIssuer,
		tokenDuration:    cfg.TokenDuration,
		logger:           logger,
	}
}

func (g *githubAuthService) AuthorizeURL(state string) string {
	return g.github.AuthCodeURL(state)
}

// AuthenticateWithCode signs a user in from a GitHub OAuth authorization
// code: exchange the code, fetch the authenticated profile, enforce the
// optional allowlist, get-or-create the account (reactivating deleted
// ones), and cache the fresh profile snapshot. A brand new account fires a
// best-effort admin notification.
func (g *githubAuthService) AuthenticateWithCode(ctx context.Context, code string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if code == "" {
		return models.Account{}, ErrInvalidDataProvided
	}

	accessToken, err := g.github.ExchangeCode(ctx, code)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrGitHubAPI, err)
	}

	profile, err := g.github.GetAuthenticatedUser(ctx, accessToken)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrGitHubAPI, err)
	}
	if profile.Login == "" {
		return models.Account{}, fmt.Errorf("%w: empty login in profile response", ErrGitHubAPI)
	}

	if len(g.allowedUsernames) > 0 {
		if _, ok := g.allowedUsernames[lowerKey(profile.Login)]; !ok {
			log.Warn().Str("username", profile.Login).Msg("sign-in rejected by allowlist")
			return models.Account{}, ErrAccessRestricted
		}
	}

	account, isNew, err := g.accountService.GetOrCreate(ctx, profile.Login, accessToken, profile.Email)
	if err != nil {
		return models.Account{}, err
	}

	if saveErr := g.userService.Save(ctx, profileToUser(profile)); saveErr != nil {
		log.Err(saveErr).Str("username", profile.Login).Msg("profile snapshot save on sign-in failed")
	}

	if isNew {
		if notifyErr := g.notifier.NotifyNewAccount(ctx, account.Username); notifyErr != nil {
			log.Err(notifyErr).Str("username", account.Username).Msg("new account notification failed")
		}
	}

	return account, nil
}

// CreateToken issues a signed JWT for the account.
//
// The token is signed with the configured tokenSignKey, carries the
// configured tokenIssuer as the "iss" claim, and expires after
// tokenDuration.
func (g *githubAuthService) CreateToken(ctx context.Context, account models.Account) (models.Token, error) {
	token, err := utils.GenerateJWTToken(g.tokenIssuer, account.UUID, g.tokenDuration, g.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// Any validation failure (expired, wrong issuer, malformed) is normalised
// to ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (g *githubAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, g.tokenSignKey, g.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// GetUser returns the profile of the username. A fresh cached snapshot is
// served directly; a stale or missing one triggers a refetch from GitHub
// with the viewer's token. The served profile is joined with the matching
// account's lifecycle fields when one exists.
func (g *githubAuthService) GetUser(ctx context.Context, username string, viewerUUID uuid.UUID, forceRefresh bool) (models.User, error) {
	if username == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	if !forceRefresh {
		cached, err := g.userService.GetByUsername(ctx, username)
		if err == nil && !g.userService.IsStale(cached) {
			return g.attachAccountFields(ctx, cached)
		}
		if err != nil && !errors.Is(err, store.ErrUserNotCached) {
			return models.User{}, err
		}
	}

	user, err := g.fetchAndCache(ctx, username, viewerUUID)
	if err != nil {
		return models.User{}, err
	}

	return g.attachAccountFields(ctx, user)
}

// RefreshUser force-refreshes a profile from GitHub. Only the profile's
// owner may request this.
func (g *githubAuthService) RefreshUser(ctx context.Context, username string, viewerUUID uuid.UUID) (models.User, error) {
	viewer, err := g.accountService.GetActiveByUUID(ctx, viewerUUID)
	if err != nil {
		return models.User{}, err
	}
	if !strings.EqualFold(viewer.Username, username) {
		return models.User{}, ErrForbidden
	}

	return g.GetUser(ctx, username, viewerUUID, true)
}

// SearchUsers searches GitHub users with the viewer's token.
func (g *githubAuthService) SearchUsers(ctx context.Context, query string, viewerUUID uuid.UUID) ([]models.UserSearchItem, error) {
	if strings.TrimSpace(query) == "" {
		return []models.UserSearchItem{}, nil
	}

	viewer, err := g.accountService.GetActiveByUUID(ctx, viewerUUID)
	if err != nil {
		return nil, err
	}
	if viewer.AccessToken == "" {
		return nil, ErrAccessTokenMissing
	}

	hits, err := g.github.SearchUsers(ctx, viewer.AccessToken, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGitHubAPI, err)
	}

	items := make([]models.UserSearchItem, 0, len(hits))
	for _, hit := range hits {
		items = append(items, models.UserSearchItem{
			Login:     hit.Login,
			AvatarURL: hit.AvatarURL,
			Type:      hit.Type,
		})
	}

	return items, nil
}

// fetchAndCache pulls the profile from GitHub with the viewer's token and
// upserts the snapshot.
func (g *githubAuthService) fetchAndCache(ctx context.Context, username string, viewerUUID uuid.UUID) (models.User, error) {
	log := logger.FromContext(ctx)

	accessToken := ""
	if viewerUUID != uuid.Nil {
		viewer, err := g.accountService.GetByUUID(ctx, viewerUUID)
		if err == nil && !viewer.Deleted() {
			accessToken = viewer.AccessToken
		}
	}

	profile, err := g.github.GetUser(ctx, accessToken, username)
	if err != nil {
		if errors.Is(err, github.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrGitHubAPI, err)
	}

	user := profileToUser(profile)
	if saveErr := g.userService.Save(ctx, user); saveErr != nil {
		log.Err(saveErr).Str("username", username).Msg("profile snapshot save failed")
	}

	if user.RefreshedAt.IsZero() {
		user.RefreshedAt = time.Now().UTC()
	}

	return user, nil
}

// attachAccountFields joins a profile snapshot with the lifecycle fields of
// the matching account, when one exists.
func (g *githubAuthService) attachAccountFields(ctx context.Context, user models.User) (models.User, error) {
	account, err := g.accountService.GetByUsername(ctx, user.Username)
	if err != nil {
		return models.User{}, err
	}
	if account != nil {
		createdAt := account.CreatedAt
		user.CreatedAt = &createdAt
		user.DeletedAt = account.DeletedAt
	}

	return user, nil
}

// profileToUser maps a GitHub API profile onto the cached snapshot model.
func profileToUser(profile github.Profile) models.User {
	return models.User{
		Username:  profile.Login,
		Name:      profile.Name,
		Bio:       profile.Bio,
		AvatarURL: profile.AvatarURL,
		Type:      profile.Type,
	}
}

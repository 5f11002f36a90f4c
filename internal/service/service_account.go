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

// accountService is the concrete implementation of AccountService backed by
// the accounts table.
type accountService struct {
	accountRepository store.AccountRepository
	logger            *logger.Logger
}

// NewAccountService constructs an AccountService wired to the given
// repository.
func NewAccountService(accountRepository store.AccountRepository, logger *logger.Logger) AccountService {
	return &accountService{
		accountRepository: accountRepository,
		logger:            logger,
	}
}

func (a *accountService) GetByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	account, err := a.accountRepository.GetAccountByUUID(ctx, accountUUID)
	if err != nil {
		return models.Account{}, fmt.Errorf("account lookup by uuid failed: %w", err)
	}

	return account, nil
}

// GetActiveByUUID is GetByUUID restricted to accounts that are not
// soft-deleted. A deleted account is reported as not found so that expired
// sessions of deleted accounts behave like unknown accounts.
func (a *accountService) GetActiveByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	account, err := a.GetByUUID(ctx, accountUUID)
	if err != nil {
		return models.Account{}, err
	}
	if account.Deleted() {
		return models.Account{}, fmt.Errorf("account is deleted: %w", store.ErrAccountNotFound)
	}

	return account, nil
}

// GetByUsername returns nil without error when no account owns the username:
// reviewed usernames routinely have no account, and callers branch on that.
func (a *accountService) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := a.accountRepository.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("account lookup by username failed: %w", err)
	}

	return &account, nil
}

func (a *accountService) GetManyByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) (map[uuid.UUID]models.Account, error) {
	accounts, err := a.accountRepository.GetAccountsByUUIDs(ctx, accountUUIDs)
	if err != nil {
		return nil, fmt.Errorf("batch account lookup by uuids failed: %w", err)
	}

	result := make(map[uuid.UUID]models.Account, len(accounts))
	for _, account := range accounts {
		result[account.UUID] = account
	}

	return result, nil
}

func (a *accountService) GetManyByUsernames(ctx context.Context, usernames []string) (map[string]models.Account, error) {
	accounts, err := a.accountRepository.GetAccountsByUsernames(ctx, usernames)
	if err != nil {
		return nil, fmt.Errorf("batch account lookup by usernames failed: %w", err)
	}

	result := make(map[string]models.Account, len(accounts))
	for _, account := range accounts {
		result[strings.ToLower(account.Username)] = account
	}

	return result, nil
}

// GetOrCreate returns the account owning the username, creating it on first
// sign-in. An existing account is reactivated when soft-deleted, and its
// username casing, access token, and email are refreshed when GitHub reports
// new values; the row is only written when something actually changed.
func (a *accountService) GetOrCreate(ctx context.Context, username, accessToken, email string) (models.Account, bool, error) {
	log := logger.FromContext(ctx)

	if username == "" {
		return models.Account{}, false, ErrInvalidDataProvided
	}

	existing, err := a.accountRepository.GetAccountByUsername(ctx, username)
	if err == nil {
		changed := false

		if existing.Deleted() {
			existing.Activate()
			changed = true
		}
		if existing.Username != username {
			existing.Username = username
			changed = true
		}
		if accessToken != "" && existing.AccessToken != accessToken {
			existing.AccessToken = accessToken
			changed = true
		}
		if email != "" && existing.Email != email {
			existing.Email = email
			changed = true
		}

		if !changed {
			return existing, false, nil
		}

		updated, updateErr := a.accountRepository.UpdateAccount(ctx, existing)
		if updateErr != nil {
			log.Err(updateErr).Str("username", username).Msg("account refresh on sign-in failed")
			return models.Account{}, false, fmt.Errorf("account refresh failed: %w", updateErr)
		}

		return updated, false, nil
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return models.Account{}, false, fmt.Errorf("account lookup by username failed: %w", err)
	}

	created, err := a.accountRepository.CreateAccount(ctx, models.Account{
		UUID:        uuid.New(),
		Username:    username,
		AccessToken: accessToken,
		Email:       email,
	})
	if err != nil {
		// Lost a first-sign-in race: another request created the row
		// between our lookup and insert. Fall back to the stored account.
		if errors.Is(err, store.ErrUsernameAlreadyExists) {
			raced, racedErr := a.accountRepository.GetAccountByUsername(ctx, username)
			if racedErr != nil {
				return models.Account{}, false, fmt.Errorf("account lookup after losing create race failed: %w", racedErr)
			}
			return raced, false, nil
		}
		log.Err(err).Str("username", username).Msg("account creation failed")
		return models.Account{}, false, fmt.Errorf("account creation failed: %w", err)
	}

	return created, true, nil
}

func (a *accountService) Delete(ctx context.Context, account models.Account) (models.Account, error) {
	account.Delete()

	deleted, err := a.accountRepository.UpdateAccount(ctx, account)
	if err != nil {
		return models.Account{}, fmt.Errorf("account soft delete failed: %w", err)
	}

	return deleted, nil
}

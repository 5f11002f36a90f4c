package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It handles account creation and lookup against the
// "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAccount persists a new account record and returns the fully
// populated [models.Account] with server-assigned fields (ID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createAccount, account.UUID, account.Username, account.AccessToken, account.Email)

	if err := row.Scan(&account.ID, &account.UUID, &account.Username, &account.AccessToken, &account.Email, &account.CreatedAt, &account.DeletedAt); err != nil {
		log.Err(err).Str("func", "*accountRepository.CreateAccount").Msg("error: scanning error")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Account{}, ErrUsernameAlreadyExists
		default:
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return account, nil
}

// GetAccountByUsername retrieves the account whose username matches the
// given one case-insensitively.
//
// Error handling:
//   - sql.ErrNoRows → [ErrAccountNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) GetAccountByUsername(ctx context.Context, username string) (models.Account, error) {
	log := logger.FromContext(ctx)

	var found models.Account
	row := r.db.QueryRowContext(ctx, findAccountByUsername, username)

	if err := row.Scan(&found.ID, &found.UUID, &found.Username, &found.AccessToken, &found.Email, &found.CreatedAt, &found.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.GetAccountByUsername").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// GetAccountByUUID retrieves the account with the given UUID.
//
// Error handling mirrors [accountRepository.GetAccountByUsername].
func (r *accountRepository) GetAccountByUUID(ctx context.Context, accountUUID uuid.UUID) (models.Account, error) {
	log := logger.FromContext(ctx)

	var found models.Account
	row := r.db.QueryRowContext(ctx, findAccountByUUID, accountUUID)

	if err := row.Scan(&found.ID, &found.UUID, &found.Username, &found.AccessToken, &found.Email, &found.CreatedAt, &found.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.GetAccountByUUID").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// GetAccountsByUsernames retrieves all accounts whose usernames match the
// given list case-insensitively. Usernames without a matching account are
// skipped; an empty input yields an empty result without touching the
// database.
func (r *accountRepository) GetAccountsByUsernames(ctx context.Context, usernames []string) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	if len(usernames) == 0 {
		return []models.Account{}, nil
	}

	lowered := make([]string, 0, len(usernames))
	for _, username := range usernames {
		lowered = append(lowered, strings.ToLower(username))
	}

	rows, err := r.db.QueryContext(ctx, findAccountsByUsernames, lowered)
	if err != nil {
		log.Err(err).
			Str("func", "*accountRepository.GetAccountsByUsernames").
			Int("usernames count", len(usernames)).
			Msg("failed to execute query for getting accounts by usernames")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Account, 0, len(usernames))

	for rows.Next() {
		var account models.Account

		scanErr := rows.Scan(
			&account.ID,
			&account.UUID,
			&account.Username,
			&account.AccessToken,
			&account.Email,
			&account.CreatedAt,
			&account.DeletedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*accountRepository.GetAccountsByUsernames").
				Msg("failed to scan account row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, account)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*accountRepository.GetAccountsByUsernames").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// GetAccountsByUUIDs retrieves all accounts matching the given UUIDs.
// Unknown UUIDs are skipped; an empty input yields an empty result without
// touching the database.
func (r *accountRepository) GetAccountsByUUIDs(ctx context.Context, accountUUIDs []uuid.UUID) ([]models.Account, error) {
	log := logger.FromContext(ctx)

	if len(accountUUIDs) == 0 {
		return []models.Account{}, nil
	}

	ids := make([]string, 0, len(accountUUIDs))
	for _, accountUUID := range accountUUIDs {
		ids = append(ids, accountUUID.String())
	}

	rows, err := r.db.QueryContext(ctx, findAccountsByUUIDs, ids)
	if err != nil {
		log.Err(err).
			Str("func", "*accountRepository.GetAccountsByUUIDs").
			Int("uuids count", len(accountUUIDs)).
			Msg("failed to execute query for getting accounts by uuids")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Account, 0, len(accountUUIDs))

	for rows.Next() {
		var account models.Account

		scanErr := rows.Scan(
			&account.ID,
			&account.UUID,
			&account.Username,
			&account.AccessToken,
			&account.Email,
			&account.CreatedAt,
			&account.DeletedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*accountRepository.GetAccountsByUUIDs").
				Msg("failed to scan account row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, account)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*accountRepository.GetAccountsByUUIDs").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// UpdateAccount persists the mutable fields of an account by UUID and
// returns the stored record.
//
// Error handling:
//   - sql.ErrNoRows (no row matched the UUID) → [ErrAccountNotFound].
//   - PostgreSQL unique_violation (23505) → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *accountRepository) UpdateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, updateAccount, account.UUID, account.Username, account.AccessToken, account.Email, account.DeletedAt)

	var updated models.Account
	if err := row.Scan(&updated.ID, &updated.UUID, &updated.Username, &updated.AccessToken, &updated.Email, &updated.CreatedAt, &updated.DeletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		log.Err(err).Str("func", "*accountRepository.UpdateAccount").Msg("error: scanning error")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Account{}, ErrUsernameAlreadyExists
		default:
			return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return updated, nil
}

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// anyValueConverter passes query arguments through unchanged so that
// pgx-only types (uuid.UUID, string slices for ANY clauses) can be matched
// by sqlmock expectations.
type anyValueConverter struct{}

func (anyValueConverter) ConvertValue(v any) (driver.Value, error) {
	return driver.Value(v), nil
}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(anyValueConverter{}))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return &DB{DB: db, logger: logger.Nop()}, mock, db
}

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, db := newMockDB(t)
	repo := &accountRepository{
		db:     mockDB,
		logger: logger.Nop(),
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

const accountColumnsList = "id, uuid, username, access_token, email, created_at, deleted_at"

func TestCreateAccount_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{
		UUID:        uuid.New(),
		Username:    "octocat",
		AccessToken: "gho_token",
		Email:       "octocat@github.com",
	}

	now := time.Now()

	rows := sqlmock.
		NewRows(strings.Split(accountColumnsList, ", ")).
		AddRow(1, account.UUID.String(), account.Username, account.AccessToken, account.Email, now, nil)

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(account.UUID, account.Username, account.AccessToken, account.Email).
		WillReturnRows(rows)

	created, err := repo.CreateAccount(ctx, account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected ID=1, got %d", created.ID)
	}
	if created.Username != account.Username {
		t.Errorf("expected username %s, got %s", account.Username, created.Username)
	}
	if created.DeletedAt != nil {
		t.Errorf("expected nil DeletedAt, got %v", created.DeletedAt)
	}
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{UUID: uuid.New(), Username: "octocat"}

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateAccount(ctx, account)
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestCreateAccount_UnexpectedDBError(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{UUID: uuid.New(), Username: "octocat"}

	mock.ExpectQuery("INSERT INTO accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db network error"))

	_, err := repo.CreateAccount(ctx, account)
	if err == nil || !strings.Contains(err.Error(), "unexpected DB error") {
		t.Fatalf("expected wrapped unexpected DB error, got %v", err)
	}
}

func TestGetAccountByUsername_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	accountUUID := uuid.New()
	now := time.Now()

	rows := sqlmock.
		NewRows(strings.Split(accountColumnsList, ", ")).
		AddRow(7, accountUUID.String(), "Octocat", "gho_token", "octocat@github.com", now, nil)

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("octocat").
		WillReturnRows(rows)

	found, err := repo.GetAccountByUsername(ctx, "octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UUID != accountUUID {
		t.Errorf("expected UUID %s, got %s", accountUUID, found.UUID)
	}
	if found.Username != "Octocat" {
		t.Errorf("expected stored-case username Octocat, got %s", found.Username)
	}
}

func TestGetAccountByUsername_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAccountByUsername(ctx, "ghost")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestGetAccountByUUID_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	accountUUID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs(accountUUID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetAccountByUUID(ctx, accountUUID)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestGetAccountsByUsernames_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	firstUUID, secondUUID := uuid.New(), uuid.New()

	rows := sqlmock.
		NewRows(strings.Split(accountColumnsList, ", ")).
		AddRow(1, firstUUID.String(), "alice", "t1", "a@example.com", now, nil).
		AddRow(2, secondUUID.String(), "bob", "t2", "b@example.com", now, nil)

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs([]string{"alice", "bob"}).
		WillReturnRows(rows)

	accounts, err := repo.GetAccountsByUsernames(ctx, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Username != "alice" || accounts[1].Username != "bob" {
		t.Errorf("unexpected usernames: %s, %s", accounts[0].Username, accounts[1].Username)
	}
}

func TestGetAccountsByUsernames_EmptyInput(t *testing.T) {
	repo, _, db := newTestAccountRepo(t)
	defer db.Close()

	accounts, err := repo.GetAccountsByUsernames(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty result, got %d accounts", len(accounts))
	}
}

func TestGetAccountsByUUIDs_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	firstUUID, secondUUID := uuid.New(), uuid.New()

	rows := sqlmock.
		NewRows(strings.Split(accountColumnsList, ", ")).
		AddRow(1, firstUUID.String(), "alice", "t1", "a@example.com", now, nil).
		AddRow(2, secondUUID.String(), "bob", "t2", "b@example.com", now, nil)

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs([]string{firstUUID.String(), secondUUID.String()}).
		WillReturnRows(rows)

	accounts, err := repo.GetAccountsByUUIDs(ctx, []uuid.UUID{firstUUID, secondUUID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].UUID != firstUUID {
		t.Errorf("unexpected first account uuid: %s", accounts[0].UUID)
	}
}

func TestGetAccountsByUUIDs_EmptyInput(t *testing.T) {
	repo, _, db := newTestAccountRepo(t)
	defer db.Close()

	accounts, err := repo.GetAccountsByUUIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty result, got %d accounts", len(accounts))
	}
}

func TestUpdateAccount_Success(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()
	account := models.Account{
		UUID:        uuid.New(),
		Username:    "octocat",
		AccessToken: "gho_new",
		Email:       "new@github.com",
	}

	rows := sqlmock.
		NewRows(strings.Split(accountColumnsList, ", ")).
		AddRow(1, account.UUID.String(), account.Username, account.AccessToken, account.Email, now, nil)

	mock.ExpectQuery("UPDATE accounts").
		WithArgs(account.UUID, account.Username, account.AccessToken, account.Email, account.DeletedAt).
		WillReturnRows(rows)

	updated, err := repo.UpdateAccount(ctx, account)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AccessToken != "gho_new" {
		t.Errorf("expected updated access token, got %s", updated.AccessToken)
	}
}

func TestUpdateAccount_NotFound(t *testing.T) {
	repo, mock, db := newTestAccountRepo(t)
	defer db.Close()

	ctx := context.Background()
	account := models.Account{UUID: uuid.New(), Username: "ghost"}

	mock.ExpectQuery("UPDATE accounts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateAccount(ctx, account)
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

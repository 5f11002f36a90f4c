package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"

	"github.com/peerhub/peerhub/internal/logger"
	"github.com/peerhub/peerhub/models"
)

// watchRepository is the PostgreSQL-backed implementation of
// [WatchRepository]. It manages watchlist entries in the "watches" table.
type watchRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewWatchRepository constructs a [WatchRepository] backed by the provided
// database connection and logger.
func NewWatchRepository(db *DB, logger *logger.Logger) WatchRepository {
	logger.Debug().Msg("creating watch repository")
	return &watchRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWatch persists a new watch entry and returns the fully populated
// [models.Watch] with server-assigned fields (ID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrDuplicateWatch].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *watchRepository) CreateWatch(ctx context.Context, watch models.Watch) (models.Watch, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createWatch, watch.WatcherUUID, watch.WatchedUsername)

	if err := row.Scan(&watch.ID, &watch.WatcherUUID, &watch.WatchedUsername, &watch.CreatedAt); err != nil {
		log.Err(err).Str("func", "*watchRepository.CreateWatch").Msg("error: scanning error")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Watch{}, ErrDuplicateWatch
		default:
			return models.Watch{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return watch, nil
}

// GetWatch retrieves the watch entry of the watcher for the given username
// (case-insensitive).
func (r *watchRepository) GetWatch(ctx context.Context, watcherUUID uuid.UUID, username string) (models.Watch, error) {
	log := logger.FromContext(ctx)

	var found models.Watch
	row := r.db.QueryRowContext(ctx, findWatch, watcherUUID, username)

	if err := row.Scan(&found.ID, &found.WatcherUUID, &found.WatchedUsername, &found.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Watch{}, ErrWatchNotFound
		}
		log.Err(err).Str("func", "*watchRepository.GetWatch").Msg("error: scanning error")
		return models.Watch{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// GetWatchesByWatcher lists all watch entries of the given watcher ordered
// by creation time descending.
func (r *watchRepository) GetWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) ([]models.Watch, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findWatchesByWatcher, watcherUUID)
	if err != nil {
		log.Err(err).
			Str("func", "*watchRepository.GetWatchesByWatcher").
			Msg("failed to execute query for getting watches by watcher")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Watch, 0, 20)

	for rows.Next() {
		var watch models.Watch

		if scanErr := rows.Scan(&watch.ID, &watch.WatcherUUID, &watch.WatchedUsername, &watch.CreatedAt); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*watchRepository.GetWatchesByWatcher").
				Msg("failed to scan watch row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, watch)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*watchRepository.GetWatchesByWatcher").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// DeleteWatch removes the watch entry of the watcher for the given username.
//
// Error handling:
//   - zero rows affected → [ErrWatchNotFound].
//   - Any other driver-level error → wrapped as [ErrExecutingStatement].
func (r *watchRepository) DeleteWatch(ctx context.Context, watcherUUID uuid.UUID, username string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteWatch, watcherUUID, username)
	if err != nil {
		log.Err(err).Str("func", "*watchRepository.DeleteWatch").Msg("failed to delete watch")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*watchRepository.DeleteWatch").Msg("failed to read affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrWatchNotFound
	}

	return nil
}

// DeleteWatchesByWatcher removes every watch entry of the given watcher.
func (r *watchRepository) DeleteWatchesByWatcher(ctx context.Context, watcherUUID uuid.UUID) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteWatchesByWatcher, watcherUUID); err != nil {
		log.Err(err).
			Str("func", "*watchRepository.DeleteWatchesByWatcher").
			Msg("failed to delete watches by watcher")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/models"
)

const syncRunsTable = "sync_runs"

var syncRunColumns = []string{
	"id",
	"blz",
	"days",
	"started_at",
	"finished_at",
	"success",
	"total_imported",
	"accounts_synced",
	"error",
}

// syncRunRepository is the SQLite-backed implementation of
// [SyncRunRepository]. Queries are rendered with squirrel using the default
// question-mark placeholders SQLite expects.
type syncRunRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewSyncRunRepository constructs a [SyncRunRepository] backed by the
// provided database connection and logger.
func NewSyncRunRepository(db *DB, logger *logger.Logger) SyncRunRepository {
	logger.Debug().Msg("creating sync run repository")
	return &syncRunRepository{
		db:     db,
		logger: logger,
	}
}

// RecordSyncRun inserts run into sync_runs.
//
// Error handling:
//   - query rendering failure → [ErrBuildingSQLQuery].
//   - driver-level failure of the INSERT → [ErrExecutingStatement].
func (r *syncRunRepository) RecordSyncRun(ctx context.Context, run models.SyncRun) (int64, error) {
	var days sql.NullInt64
	if run.Days != nil {
		days = sql.NullInt64{Int64: int64(*run.Days), Valid: true}
	}

	query, args, err := sq.Insert(syncRunsTable).
		Columns(syncRunColumns[1:]...).
		Values(run.BLZ, days, run.StartedAt, run.FinishedAt, run.Success, run.TotalImported, run.AccountsSynced, run.Error).
		ToSql()
	if err != nil {
		r.logger.Err(err).Str("func", "*syncRunRepository.RecordSyncRun").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*syncRunRepository.RecordSyncRun").Msg("error inserting sync run")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return id, nil
}

// ListSyncRuns returns the newest runs first; runs that started at the same
// instant are ordered by descending ID.
//
// Error handling:
//   - query rendering failure → [ErrBuildingSQLQuery].
//   - driver-level failure of the SELECT → [ErrExecutingQuery].
//   - scan or iteration failure → [ErrScanningRows].
func (r *syncRunRepository) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	builder := sq.Select(syncRunColumns...).
		From(syncRunsTable).
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*syncRunRepository.ListSyncRuns").Msg("error querying sync runs")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var runs []models.SyncRun
	for rows.Next() {
		var (
			run  models.SyncRun
			days sql.NullInt64
		)
		if err = rows.Scan(
			&run.ID,
			&run.BLZ,
			&days,
			&run.StartedAt,
			&run.FinishedAt,
			&run.Success,
			&run.TotalImported,
			&run.AccountsSynced,
			&run.Error,
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if days.Valid {
			d := int(days.Int64)
			run.Days = &d
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return runs, nil
}

package database

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"lantern/models"
)

// logColumns is the SELECT list shared by every log read path.
const logColumns = `id, project_id, category_id, timestamp, tz_offset, level,
	COALESCE(service, ''), COALESCE(environment, ''), message, meta, created_at`

// InsertLogsBatch persists a batch of pending logs in one transaction
// and returns the number of rows inserted. Category references are
// resolved inside the same transaction, so a name the store does not
// hold aborts the whole batch with nothing written. An empty batch is
// a no-op returning 0.
func (db *DB) InsertLogsBatch(ctx context.Context, projectID uuid.UUID, pending []models.PendingLog) (int, error) {
	if len(pending) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() {
		log.Debug().Dur("duration", time.Since(start)).Int("count", len(pending)).
			Str("project", projectID.String()).Msg("insert logs batch")
	}()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := resolveCategoryRefs(ctx, tx, projectID, pending); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO logs (project_id, category_id, timestamp, tz_offset, level, service, environment, message, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, p := range pending {
		categoryID, ok := p.Category.ID()
		if !ok {
			return 0, fmt.Errorf("pending log carries unresolved category reference")
		}
		batch.Queue(query, projectID, categoryID, p.Timestamp, p.TZOffset, p.Level,
			nullIfEmpty(p.Service), nullIfEmpty(p.Environment), p.Message, p.Meta)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range pending {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, &BatchInsertError{
				FailedIndex: i,
				TotalLogs:   len(pending),
				Err:         err,
			}
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit logs: %w", err)
	}

	return len(pending), nil
}

// QueryLogs retrieves logs for a project with optional filtering and
// pagination. Filters combine with AND:
//
//   - Level: exact match, normalized to upper case
//   - Category: category name, joined against the category store
//   - Service: exact match
//   - From/To: inclusive timestamp range (RFC3339)
//   - Search: case-insensitive substring over message and meta
//
// Limit is clamped to [1,200] with a default of 50; offset is never
// negative. Results are ordered newest first and the total reflects
// the full filtered count via COUNT(*) OVER().
func (db *DB) QueryLogs(ctx context.Context, projectID uuid.UUID, params models.QueryParams) ([]models.LogEntry, int64, error) {
	start := time.Now()
	defer func() {
		log.Debug().Dur("duration", time.Since(start)).Str("project", projectID.String()).
			Str("level", params.Level).Str("category", params.Category).
			Msg("query logs")
	}()

	limit := validateLimit(params.Limit, defaultLimit, maxLimit)
	offset := validateOffset(params.Offset)

	qb := NewQueryBuilder()
	qb.AddCondition(columnProjectID, projectID)

	if params.Level != "" {
		qb.AddCondition(columnLevel, strings.ToUpper(params.Level))
	}
	if params.Service != "" {
		qb.AddCondition(columnService, params.Service)
	}
	if err := qb.AddTimeRange(columnTimestamp, params.From, params.To); err != nil {
		return nil, 0, err
	}
	if params.Category != "" {
		qb.AddCategoryFilter(params.Category)
	}
	if params.Search != "" {
		qb.AddSubstringSearch(params.Search, columnMessage, columnMeta+"::text")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() as total_count
		FROM logs
		%s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d
	`, logColumns, qb.WhereClause(), columnTimestamp, qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), limit, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

// SearchLogs substring-matches q across id, message, service,
// environment, level and the serialized meta payload, scoped to the
// project. Same ordering and pagination rules as QueryLogs.
func (db *DB) SearchLogs(ctx context.Context, projectID uuid.UUID, q string, limit, offset int) ([]models.LogEntry, int64, error) {
	start := time.Now()
	defer func() {
		log.Debug().Dur("duration", time.Since(start)).Str("project", projectID.String()).
			Str("q", q).Msg("search logs")
	}()

	limit = validateLimit(limit, defaultLimit, maxLimit)
	offset = validateOffset(offset)

	qb := NewQueryBuilder()
	qb.AddCondition(columnProjectID, projectID)
	qb.AddSubstringSearch(q,
		columnID+"::text", columnMessage, columnService, columnEnvironment,
		columnLevel, columnMeta+"::text")

	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(*) OVER() as total_count
		FROM logs
		%s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d
	`, logColumns, qb.WhereClause(), columnTimestamp, qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), limit, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search logs: %w", err)
	}
	defer rows.Close()

	return scanLogs(rows)
}

var tzOffsetPattern = regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)

// DeleteLogsByTimezone deletes every log of the project whose recorded
// client UTC offset equals the given offset, e.g. "+05:30". The offset
// is compared structurally against the stored tz_offset column, not
// against a serialized timestamp.
func (db *DB) DeleteLogsByTimezone(ctx context.Context, projectID uuid.UUID, offset string) (int64, error) {
	if !tzOffsetPattern.MatchString(offset) {
		return 0, fmt.Errorf("invalid timezone offset %q (expected +HH:MM)", offset)
	}

	result, err := db.Pool.Exec(ctx, `
		DELETE FROM logs
		WHERE project_id = $1 AND tz_offset = $2
	`, projectID, offset)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs by timezone: %w", err)
	}

	log.Debug().Str("project", projectID.String()).Str("tz_offset", offset).
		Int64("deleted", result.RowsAffected()).Msg("deleted logs by timezone")
	return result.RowsAffected(), nil
}

// GetLog fetches one log scoped to (log id, project id).
func (db *DB) GetLog(ctx context.Context, projectID uuid.UUID, logID int64) (*models.LogEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM logs
		WHERE id = $1 AND project_id = $2
	`, logColumns)

	entry, err := scanLog(db.Pool.QueryRow(ctx, query, logID, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("log %d: %w", logID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get log: %w", err)
	}

	return entry, nil
}

// DeleteLog removes one log scoped to (log id, project id).
func (db *DB) DeleteLog(ctx context.Context, projectID uuid.UUID, logID int64) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM logs WHERE id = $1 AND project_id = $2
	`, logID, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("log %d: %w", logID, ErrNotFound)
	}
	return nil
}

// Helper functions

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanLog(row rowScanner) (*models.LogEntry, error) {
	var entry models.LogEntry
	err := row.Scan(
		&entry.ID, &entry.ProjectID, &entry.CategoryID, &entry.Timestamp,
		&entry.TZOffset, &entry.Level, &entry.Service, &entry.Environment,
		&entry.Message, &entry.Meta, &entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func scanLogs(rows rowsScanner) ([]models.LogEntry, int64, error) {
	logs := []models.LogEntry{}
	var total int64

	for rows.Next() {
		var entry models.LogEntry
		err := rows.Scan(
			&entry.ID, &entry.ProjectID, &entry.CategoryID, &entry.Timestamp,
			&entry.TZOffset, &entry.Level, &entry.Service, &entry.Environment,
			&entry.Message, &entry.Meta, &entry.CreatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating logs: %w", err)
	}

	return logs, total, nil
}

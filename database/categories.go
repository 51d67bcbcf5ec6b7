package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"lantern/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so category
// resolution can run inside the bulk-insert transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// SeedSystemCategories guarantees the five system category names exist
// for the project, flagged is_system, without creating duplicates on
// repeated calls. Concurrent seeding of the same project is resolved
// by the (project_id, name) unique constraint; the missing rows are
// inserted in one transaction.
func (db *DB) SeedSystemCategories(ctx context.Context, projectID uuid.UUID) error {
	rows, err := db.Pool.Query(ctx, `
		SELECT name FROM log_categories
		WHERE project_id = $1 AND is_system = TRUE
	`, projectID)
	if err != nil {
		return fmt.Errorf("failed to read system categories: %w", err)
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan category name: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating categories: %w", err)
	}

	missing := []string{}
	for _, name := range models.SystemCategories {
		if !existing[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, name := range missing {
		batch.Queue(`
			INSERT INTO log_categories (project_id, name, is_system)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (project_id, name) DO NOTHING
		`, projectID, name)
	}

	results := tx.SendBatch(ctx, batch)
	for range missing {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close seed batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	log.Debug().Str("project", projectID.String()).Strs("seeded", missing).
		Msg("seeded system categories")
	return nil
}

// ListCategories returns all categories for a project in creation
// order. The categorizer's first-match scan depends on this order.
func (db *DB) ListCategories(ctx context.Context, projectID uuid.UUID) ([]models.LogCategory, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, project_id, name, is_system, created_at
		FROM log_categories
		WHERE project_id = $1
		ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.LogCategory{}
	for rows.Next() {
		var c models.LogCategory
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.IsSystem, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// resolveCategoryRefs mutates the batch so every entry carries a
// concrete category id. Name references are resolved with a single
// lookup scoped to the project; a name the store does not hold aborts
// the whole batch with ErrUnknownCategory. Entries with no reference
// fall back to the project's GENERAL system category.
func resolveCategoryRefs(ctx context.Context, q querier, projectID uuid.UUID, pending []models.PendingLog) error {
	start := time.Now()

	names := map[string]bool{}
	for _, p := range pending {
		if name, ok := p.Category.Name(); ok {
			names[name] = true
		} else if p.Category.IsZero() {
			names[models.CategoryGeneral] = true
		}
	}
	if len(names) == 0 {
		return nil
	}

	lookup := make([]string, 0, len(names))
	for name := range names {
		lookup = append(lookup, name)
	}

	rows, err := q.Query(ctx, `
		SELECT id, name FROM log_categories
		WHERE project_id = $1 AND name = ANY($2)
	`, projectID, lookup)
	if err != nil {
		return fmt.Errorf("failed to look up categories: %w", err)
	}
	defer rows.Close()

	byName := map[string]int{}
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("failed to scan category: %w", err)
		}
		byName[name] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating categories: %w", err)
	}

	for i := range pending {
		switch {
		case pending[i].Category.IsZero():
			id, ok := byName[models.CategoryGeneral]
			if !ok {
				return fmt.Errorf("%w: %s for project %s", ErrUnknownCategory, models.CategoryGeneral, projectID)
			}
			pending[i].Category = models.CategoryID(id)
		default:
			name, ok := pending[i].Category.Name()
			if !ok {
				continue // already resolved
			}
			id, ok := byName[name]
			if !ok {
				return fmt.Errorf("%w: %q for project %s", ErrUnknownCategory, name, projectID)
			}
			pending[i].Category = models.CategoryID(id)
		}
	}

	log.Debug().Dur("duration", time.Since(start)).Int("names", len(lookup)).
		Msg("resolved category refs")
	return nil
}

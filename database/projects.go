package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"lantern/models"
)

const projectColumns = `id, name, username, email, COALESCE(phone, ''), api_key, password_hash, is_allowed, created_at`

func (db *DB) GetProjectByAPIKey(ctx context.Context, apiKey string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM projects WHERE api_key = $1
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, apiKey))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

func (db *DB) GetProjectByEmail(ctx context.Context, email string) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM projects WHERE email = $1
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// CreateProject inserts a signup. Name, username and email uniqueness
// is checked up front so a conflict surfaces as ErrDuplicate with the
// offending field, before any state changes; the unique constraints
// still back-stop concurrent signups.
func (db *DB) CreateProject(ctx context.Context, req models.CreateProjectRequest, passwordHash string) (*models.Project, error) {
	for field, value := range map[string]string{
		"name":     req.Name,
		"username": req.Username,
		"email":    req.Email,
	} {
		taken, err := db.projectFieldTaken(ctx, field, value, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%s: %w", field, ErrDuplicate)
		}
	}

	apiKey := generateAPIKey()

	query := fmt.Sprintf(`
		INSERT INTO projects (name, username, email, phone, api_key, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		req.Name, req.Username, req.Email, nullIfEmpty(req.Phone), apiKey, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("project: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info().Str("project", project.ID.String()).Str("name", project.Name).
		Msg("created project")
	return project, nil
}

func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM projects ORDER BY created_at DESC
	`, projectColumns)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM projects WHERE id = $1
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// UpdateProject applies the non-nil fields of req. Duplicate email or
// username against another project is rejected before any write.
func (db *DB) UpdateProject(ctx context.Context, projectID uuid.UUID, req models.UpdateProjectRequest) (*models.Project, error) {
	project, err := db.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != project.Email {
		taken, err := db.projectFieldTaken(ctx, "email", *req.Email, projectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("email: %w", ErrDuplicate)
		}
		project.Email = *req.Email
	}
	if req.Username != nil && *req.Username != project.Username {
		taken, err := db.projectFieldTaken(ctx, "username", *req.Username, projectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("username: %w", ErrDuplicate)
		}
		project.Username = *req.Username
	}
	if req.Name != nil && *req.Name != project.Name {
		taken, err := db.projectFieldTaken(ctx, "name", *req.Name, projectID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("name: %w", ErrDuplicate)
		}
		project.Name = *req.Name
	}
	if req.Phone != nil {
		project.Phone = *req.Phone
	}
	if req.IsAllowed != nil {
		project.IsAllowed = *req.IsAllowed
	}

	query := fmt.Sprintf(`
		UPDATE projects
		SET name = $2, username = $3, email = $4, phone = $5, is_allowed = $6
		WHERE id = $1
		RETURNING %s
	`, projectColumns)

	updated, err := scanProject(db.Pool.QueryRow(ctx, query,
		projectID, project.Name, project.Username, project.Email,
		nullIfEmpty(project.Phone), project.IsAllowed))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("project: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return updated, nil
}

// SetProjectAllowed toggles the dashboard access gate.
func (db *DB) SetProjectAllowed(ctx context.Context, projectID uuid.UUID, allowed bool) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE projects SET is_allowed = $2 WHERE id = $1
	`, projectID, allowed)
	if err != nil {
		return fmt.Errorf("failed to update project permission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project: %w", ErrNotFound)
	}
	return nil
}

// DeleteProject removes a project; categories and logs cascade.
func (db *DB) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project: %w", ErrNotFound)
	}

	log.Info().Str("project", projectID.String()).Msg("deleted project")
	return nil
}

// Helper functions

func (db *DB) projectFieldTaken(ctx context.Context, column, value string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM projects WHERE %s = $1 AND id <> $2)
	`, column)
	if err := db.Pool.QueryRow(ctx, query, value, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check %s uniqueness: %w", column, err)
	}
	return taken, nil
}

func generateAPIKey() string {
	return fmt.Sprintf("lantern_live_%s", uuid.New().String())
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Username,
		&project.Email,
		&project.Phone,
		&project.APIKey,
		&project.PasswordHash,
		&project.IsAllowed,
		&project.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

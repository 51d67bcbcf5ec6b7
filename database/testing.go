package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lantern/models"
)

var (
	testDB *DB
)

// GetTestDB returns the shared test database connection.
// Available after TestMain has run and SetupTestDB succeeded.
// Returns nil if called before TestMain.
func GetTestDB() *DB {
	return testDB
}

// SetupTestDB creates a test database connection and runs migrations.
// Should be called once in TestMain, not in individual tests.
// Migrations are embedded inline (not read from files) for test isolation.
// Returns error if connection fails or migrations fail.
func SetupTestDB(dbURL string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := runTestMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runTestMigrations(db *DB) error {
	ctx := context.Background()

	migrations := []string{
		`
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) UNIQUE NOT NULL,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			phone VARCHAR(20),
			api_key VARCHAR(64) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			is_allowed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_projects_api_key ON projects(api_key);
		`,
		`
		CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS log_categories (
			id SERIAL PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name VARCHAR(100) NOT NULL,
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE (project_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_log_categories_project_id ON log_categories(project_id);
		`,
		`
		CREATE TABLE IF NOT EXISTS logs (
			id BIGSERIAL PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			category_id INT NOT NULL REFERENCES log_categories(id) ON DELETE CASCADE,
			timestamp TIMESTAMPTZ NOT NULL,
			tz_offset VARCHAR(6) NOT NULL,
			level VARCHAR(10) NOT NULL,
			service VARCHAR(100),
			environment VARCHAR(50),
			message TEXT NOT NULL,
			meta JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_logs_project_timestamp ON logs(project_id, timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
		CREATE INDEX IF NOT EXISTS idx_logs_category_id ON logs(category_id);
		CREATE INDEX IF NOT EXISTS idx_logs_tz_offset ON logs(tz_offset);
		`,
	}

	for _, migration := range migrations {
		_, err := db.Pool.Exec(ctx, migration)
		if err != nil {
			return err
		}
	}

	return nil
}

// CleanupTestDB truncates all tables for a fresh test state.
// Call this at the start of each integration test.
// Uses CASCADE to handle foreign key dependencies.
// Fails the test if truncation fails.
func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, "TRUNCATE TABLE logs, log_categories, admins, projects CASCADE")
	require.NoError(t, err)
}

// CreateTestProject inserts a project with unique name/username/email
// derived from name. Fails the test on error.
func CreateTestProject(t *testing.T, db *DB, name string) *models.Project {
	t.Helper()

	project, err := db.CreateProject(context.Background(), models.CreateProjectRequest{
		Name:     name,
		Username: name + "-user",
		Email:    name + "@example.com",
	}, "test-password-hash")
	require.NoError(t, err)
	return project
}

// TeardownTestDB closes the test database connection.
// Should be called once in TestMain after all tests complete.
// Safe to call with nil DB (no-op).
func TeardownTestDB(db *DB) {
	if db != nil {
		db.Close()
	}
}

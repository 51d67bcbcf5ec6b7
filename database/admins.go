package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"lantern/models"
)

// CreateAdmin inserts an operator account. Email must be unique.
func (db *DB) CreateAdmin(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email: %w", ErrDuplicate)
	}

	admin, err := scanAdmin(db.Pool.QueryRow(ctx, `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("admin", admin.ID.String()).Msg("created admin")
	return admin, nil
}

func (db *DB) GetAdmin(ctx context.Context, adminID uuid.UUID) (*models.Admin, error) {
	admin, err := scanAdmin(db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE id = $1
	`, adminID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("admin: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin, err := scanAdmin(db.Pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE email = $1
	`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("admin: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	var admin models.Admin
	err := row.Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

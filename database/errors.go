package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound means a project- or id-scoped lookup matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means a unique field (name, username, email) is taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidAPIKey means no project owns the presented key.
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrUnknownCategory means categorization produced a name the
	// category store does not hold for the project. This is a
	// data-consistency failure: the whole batch aborts.
	ErrUnknownCategory = errors.New("category not found")
)

// BatchInsertError indicates which log failed during a batch insert.
type BatchInsertError struct {
	FailedIndex int
	TotalLogs   int
	Err         error
}

func (e *BatchInsertError) Error() string {
	return fmt.Sprintf("failed to insert log at index %d/%d: %v", e.FailedIndex, e.TotalLogs, e.Err)
}

func (e *BatchInsertError) Unwrap() error {
	return e.Err
}

// isUniqueViolation reports whether err is a Postgres unique
// constraint violation (class 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

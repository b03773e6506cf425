package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
)

// MapError translates database errors to domain errors.
// sql.ErrNoRows becomes notFoundErr; any other failure is wrapped so that it
// matches both failureErr and the original cause under errors.Is.
func MapError(err error, notFoundErr, failureErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	if errors.Is(err, failureErr) {
		return err
	}

	return fmt.Errorf("%w: %w", failureErr, err)
}

// ErrorAttrs returns slog key-value pairs describing driver-specific error detail.
// Returns the bare error when no driver detail is available.
func ErrorAttrs(err error) []any {
	attrs := []any{"error", err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return append(attrs, "sqlstate", pgErr.Code, "detail", pgErr.Detail)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return append(attrs, "sqlite_code", liteErr.Code())
	}

	return attrs
}

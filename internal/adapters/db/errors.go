// internal/adapters/db/errors.go
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Tagged error variants produced at the storage boundary. Handlers and
// services match on these with errors.Is instead of string-comparing
// driver messages.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrForeignKey    = errors.New("referenced record does not exist")
	ErrCheckViolated = errors.New("check constraint violated")
	ErrConnExhausted = errors.New("connection pool exhausted")
)

// Postgres error codes translated by TranslateError.
const (
	pgErrUniqueViolation = "23505"
	pgErrForeignKey      = "23503"
	pgErrCheckViolation  = "23514"
	pgErrTooManyConns    = "53300"
)

// TranslateError converts driver-level errors into the closed variant set.
// It is the single place pgconn codes are inspected; everything above this
// boundary consumes the tagged variants. The driver error stays in the
// chain so logs keep the pg detail.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Acquire timed out waiting for a pooled connection.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrConnExhausted, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgErrForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		case pgErrCheckViolation:
			return fmt.Errorf("%w: %w", ErrCheckViolated, err)
		case pgErrTooManyConns:
			return fmt.Errorf("%w: %w", ErrConnExhausted, err)
		}
	}

	return err
}

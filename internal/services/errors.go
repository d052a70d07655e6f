package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrCapacityExceeded    = errors.New("daily capacity exceeded")
	ErrInsufficientDeposit = errors.New("insufficient deposit")
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("already exists")
	ErrUnauthorized        = errors.New("invalid credentials")
)

// notFound maps pgx.ErrNoRows to ErrNotFound, leaving other errors wrapped with context.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// conflict maps a unique-constraint violation (23505) to ErrConflict.
func conflict(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return err
}

package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestConflict(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "reviews_uuid_review_key"}
	other := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"unique violation", dup, true},
		{"wrapped unique violation", fmt.Errorf("insert review: %w", dup), true},
		{"foreign key violation", other, false},
		{"plain error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conflict(tt.err, "review")
			if errors.Is(got, ErrConflict) != tt.conflict {
				t.Errorf("conflict(%v) = %v, want ErrConflict=%v", tt.err, got, tt.conflict)
			}
			if !tt.conflict && got != tt.err {
				t.Errorf("non-conflict error must pass through unchanged, got %v", got)
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	if err := notFound(pgx.ErrNoRows, "campaign"); !errors.Is(err, ErrNotFound) {
		t.Errorf("notFound(ErrNoRows) = %v, want ErrNotFound", err)
	}
	if err := notFound(errors.New("timeout"), "campaign"); errors.Is(err, ErrNotFound) {
		t.Errorf("notFound(timeout) must not be ErrNotFound")
	}
}

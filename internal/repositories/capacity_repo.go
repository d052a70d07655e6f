package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CapacityRepo struct {
	pool *pgxpool.Pool
}

func NewCapacityRepo(pool *pgxpool.Pool) *CapacityRepo {
	return &CapacityRepo{pool: pool}
}

// Get returns the day's capacity; a missing row means zero.
func (r *CapacityRepo) Get(ctx context.Context, q Querier, date time.Time) (int, error) {
	var capacity int
	err := q.QueryRow(ctx, `SELECT capacity FROM capacities WHERE date = $1`, date).Scan(&capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return capacity, err
}

// Lock takes a row lock on the day's capacity so concurrent confirmations serialize.
func (r *CapacityRepo) Lock(ctx context.Context, tx pgx.Tx, date time.Time) (int, error) {
	if _, err := tx.Exec(ctx, `
		INSERT INTO capacities (date, capacity) VALUES ($1, 0) ON CONFLICT (date) DO NOTHING
	`, date); err != nil {
		return 0, err
	}
	var capacity int
	err := tx.QueryRow(ctx, `SELECT capacity FROM capacities WHERE date = $1 FOR UPDATE`, date).Scan(&capacity)
	return capacity, err
}

func (r *CapacityRepo) Set(ctx context.Context, date time.Time, capacity int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO capacities (date, capacity) VALUES ($1, $2)
		ON CONFLICT (date) DO UPDATE SET capacity = EXCLUDED.capacity
	`, date, capacity)
	return err
}

// Range returns capacities in [from, to) keyed by YYYY-MM-DD.
func (r *CapacityRepo) Range(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(date, 'YYYY-MM-DD'), capacity FROM capacities WHERE date >= $1 AND date < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var day string
		var capacity int
		if err := rows.Scan(&day, &capacity); err != nil {
			return nil, err
		}
		out[day] = capacity
	}
	return out, rows.Err()
}

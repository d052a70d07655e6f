package repositories

import (
	"context"

	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LinkRepo struct {
	pool *pgxpool.Pool
}

func NewLinkRepo(pool *pgxpool.Pool) *LinkRepo {
	return &LinkRepo{pool: pool}
}

func (r *LinkRepo) Create(ctx context.Context, l *models.Link) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO links (id, title, content, product_id, generated_link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, l.ID, l.Title, l.Content, l.ProductID, l.GeneratedLink).Scan(&l.CreatedAt)
}

func (r *LinkRepo) GetByID(ctx context.Context, id string) (*models.Link, error) {
	var l models.Link
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, content, product_id, generated_link, created_at FROM links WHERE id = $1
	`, id).Scan(&l.ID, &l.Title, &l.Content, &l.ProductID, &l.GeneratedLink, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LinkRepo) List(ctx context.Context) ([]models.Link, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, product_id, generated_link, created_at FROM links ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Title, &l.Content, &l.ProductID, &l.GeneratedLink, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *LinkRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

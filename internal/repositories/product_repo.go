package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

const productColumns = `id, product_name, review_type, product_type, review_option, progress_status, review_date,
	guide, product_url, keywords, quantity, seller_id, created_at, updated_at`

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.ProductName, &p.ReviewType, &p.ProductType, &p.ReviewOption, &p.ProgressStatus,
		&p.ReviewDate, &p.Guide, &p.ProductURL, &p.Keywords, &p.Quantity, &p.SellerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO products (product_name, review_type, product_type, review_option, progress_status, review_date,
			guide, product_url, keywords, quantity, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, p.ProductName, p.ReviewType, p.ProductType, p.ReviewOption, p.ProgressStatus, p.ReviewDate,
		p.Guide, p.ProductURL, p.Keywords, p.Quantity, p.SellerID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepo) Update(ctx context.Context, p *models.Product) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET product_name = $1, review_type = $2, product_type = $3, review_option = $4,
			progress_status = $5, review_date = $6, guide = $7, product_url = $8, keywords = $9, quantity = $10,
			updated_at = now()
		WHERE id = $11
	`, p.ProductName, p.ReviewType, p.ProductType, p.ReviewOption, p.ProgressStatus, p.ReviewDate,
		p.Guide, p.ProductURL, p.Keywords, p.Quantity, p.ID)
	return err
}

func (r *ProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

// BulkUpdateField sets one whitelisted column on many products.
func (r *ProductRepo) BulkUpdateField(ctx context.Context, ids []uuid.UUID, field, value string) (int64, error) {
	switch field {
	case "review_type", "product_type", "progress_status":
	default:
		return 0, fmt.Errorf("field %q cannot be bulk updated", field)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE products SET `+field+` = $1, updated_at = now() WHERE id = ANY($2)`, value, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetReviewType updates the payment kind shown on a product.
func (r *ProductRepo) SetReviewType(ctx context.Context, q Querier, id uuid.UUID, reviewType string) error {
	_, err := q.Exec(ctx, `UPDATE products SET review_type = $1, updated_at = now() WHERE id = $2`, reviewType, id)
	return err
}

// StartDue flips not-yet-started products scheduled for day to in-progress.
func (r *ProductRepo) StartDue(ctx context.Context, day time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE products SET progress_status = $1, updated_at = now()
		WHERE (progress_status = $2 OR progress_status = '') AND review_date = $3
		RETURNING id
	`, models.ProgressActive, models.ProgressBefore, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type ProductFilter struct {
	ProgressStatus *string
	ProductType    *string
	ReviewType     *string
	Search         string
	Limit          int
	Offset         int
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.ProgressStatus != nil {
		where = append(where, fmt.Sprintf("progress_status = $%d", argIdx))
		args = append(args, *f.ProgressStatus)
		argIdx++
	}
	if f.ProductType != nil {
		where = append(where, fmt.Sprintf("product_type = $%d", argIdx))
		args = append(args, *f.ProductType)
		argIdx++
	}
	if f.ReviewType != nil {
		where = append(where, fmt.Sprintf("review_type = $%d", argIdx))
		args = append(args, *f.ReviewType)
		argIdx++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("product_name ILIKE $%d", argIdx))
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}

	query := `SELECT ` + productColumns + ` FROM products` + whereClause(where) +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

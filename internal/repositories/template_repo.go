package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TemplateRepo struct {
	pool *pgxpool.Pool
}

func NewTemplateRepo(pool *pgxpool.Pool) *TemplateRepo {
	return &TemplateRepo{pool: pool}
}

const templateColumns = `id, seller_id, delivery_type, review_type, quantity, product_name, product_option,
	product_price::text, product_url, keywords, review_guide, remarks, created_at, updated_at`

func scanTemplate(row rowScanner) (*models.ProductTemplate, error) {
	var t models.ProductTemplate
	err := row.Scan(&t.ID, &t.SellerID, &t.DeliveryType, &t.ReviewType, &t.Quantity, &t.ProductName, &t.ProductOption,
		&t.ProductPrice, &t.ProductURL, &t.Keywords, &t.ReviewGuide, &t.Remarks, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns a seller's templates, newest first. search matches name or option.
func (r *TemplateRepo) List(ctx context.Context, sellerID uuid.UUID, search string) ([]models.ProductTemplate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+templateColumns+` FROM product_templates
		WHERE seller_id = $1
		  AND ($2 = '' OR (product_name || ' ' || product_option) ILIKE '%' || $2 || '%')
		ORDER BY updated_at DESC
	`, sellerID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []models.ProductTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Upsert saves a template, replacing the seller's existing one for the same url and option.
func (r *TemplateRepo) Upsert(ctx context.Context, t *models.ProductTemplate) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO product_templates (seller_id, delivery_type, review_type, quantity, product_name, product_option,
			product_price, product_url, keywords, review_guide, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11)
		ON CONFLICT (seller_id, product_url, product_option) DO UPDATE SET
			delivery_type = EXCLUDED.delivery_type,
			review_type   = EXCLUDED.review_type,
			quantity      = EXCLUDED.quantity,
			product_name  = EXCLUDED.product_name,
			product_price = EXCLUDED.product_price,
			keywords      = EXCLUDED.keywords,
			review_guide  = EXCLUDED.review_guide,
			remarks       = EXCLUDED.remarks,
			updated_at    = now()
		RETURNING id, created_at, updated_at
	`, t.SellerID, t.DeliveryType, t.ReviewType, t.Quantity, t.ProductName, t.ProductOption,
		t.ProductPrice, t.ProductURL, t.Keywords, t.ReviewGuide, t.Remarks,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites a template owned by t.SellerID. Returns pgx.ErrNoRows when absent.
func (r *TemplateRepo) Update(ctx context.Context, t *models.ProductTemplate) error {
	return r.pool.QueryRow(ctx, `
		UPDATE product_templates SET delivery_type = $1, review_type = $2, quantity = $3, product_name = $4,
			product_option = $5, product_price = $6::numeric, product_url = $7, keywords = $8, review_guide = $9,
			remarks = $10, updated_at = now()
		WHERE id = $11 AND seller_id = $12
		RETURNING created_at, updated_at
	`, t.DeliveryType, t.ReviewType, t.Quantity, t.ProductName, t.ProductOption, t.ProductPrice, t.ProductURL,
		t.Keywords, t.ReviewGuide, t.Remarks, t.ID, t.SellerID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// DeleteMany removes the seller's templates among ids and reports how many went.
func (r *TemplateRepo) DeleteMany(ctx context.Context, sellerID uuid.UUID, ids []uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM product_templates WHERE seller_id = $1 AND id = ANY($2)`, sellerID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TrafficRepo struct {
	pool *pgxpool.Pool
}

func NewTrafficRepo(pool *pgxpool.Pool) *TrafficRepo {
	return &TrafficRepo{pool: pool}
}

func (r *TrafficRepo) Pool() *pgxpool.Pool { return r.pool }

// Catalog

func (r *TrafficRepo) ListProducts(ctx context.Context) ([]models.TrafficProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category, name, description, retail_price, discount_rate, sort_order
		FROM traffic_products ORDER BY sort_order, category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.TrafficProduct{}
	for rows.Next() {
		var p models.TrafficProduct
		if err := rows.Scan(&p.ID, &p.Category, &p.Name, &p.Description, &p.RetailPrice, &p.DiscountRate, &p.SortOrder); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *TrafficRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.TrafficProduct, error) {
	var p models.TrafficProduct
	err := r.pool.QueryRow(ctx, `
		SELECT id, category, name, description, retail_price, discount_rate, sort_order
		FROM traffic_products WHERE id = $1
	`, id).Scan(&p.ID, &p.Category, &p.Name, &p.Description, &p.RetailPrice, &p.DiscountRate, &p.SortOrder)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceProducts swaps the whole catalog.
func (r *TrafficRepo) ReplaceProducts(ctx context.Context, tx pgx.Tx, products []models.TrafficProduct) error {
	if _, err := tx.Exec(ctx, `DELETE FROM traffic_products`); err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO traffic_products (category, name, description, retail_price, discount_rate, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
		`, p.Category, p.Name, p.Description, p.RetailPrice, p.DiscountRate, p.SortOrder).Scan(&p.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// Requests

const trafficColumns = `id, seller_id, category, name, description, sale_price, quantity, request_date, start_date,
	end_date, status, payment_received, deposit_confirmed, item_total, final_item_amount, confirmed_at, created_at`

func scanTraffic(row rowScanner) (*models.TrafficRequest, error) {
	var t models.TrafficRequest
	err := row.Scan(&t.ID, &t.SellerID, &t.Category, &t.Name, &t.Description, &t.SalePrice, &t.Quantity,
		&t.RequestDate, &t.StartDate, &t.EndDate, &t.Status, &t.PaymentReceived, &t.DepositConfirmed,
		&t.ItemTotal, &t.FinalItemAmount, &t.ConfirmedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TrafficRepo) CreateRequest(ctx context.Context, q Querier, t *models.TrafficRequest) error {
	return q.QueryRow(ctx, `
		INSERT INTO traffic_requests (seller_id, category, name, description, sale_price, quantity, request_date,
			start_date, end_date, status, payment_received, item_total, final_item_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, t.SellerID, t.Category, t.Name, t.Description, t.SalePrice, t.Quantity, t.RequestDate,
		t.StartDate, t.EndDate, t.Status, t.PaymentReceived, t.ItemTotal, t.FinalItemAmount,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TrafficRepo) GetRequest(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*models.TrafficRequest, error) {
	query := `SELECT ` + trafficColumns + ` FROM traffic_requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanTraffic(q.QueryRow(ctx, query, id))
}

type TrafficFilter struct {
	SellerID *uuid.UUID
	Status   *string
	Limit    int
	Offset   int
}

func (r *TrafficRepo) ListRequests(ctx context.Context, f TrafficFilter) ([]models.TrafficRequest, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.SellerID != nil {
		where = append(where, fmt.Sprintf("seller_id = $%d", argIdx))
		args = append(args, *f.SellerID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}

	query := `SELECT ` + trafficColumns + ` FROM traffic_requests` + whereClause(where) +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.TrafficRequest{}
	for rows.Next() {
		t, err := scanTraffic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TrafficRepo) SetPaymentReceived(ctx context.Context, id, sellerID uuid.UUID, received bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE traffic_requests SET payment_received = $1 WHERE id = $2 AND seller_id = $3
	`, received, id, sellerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SetDeposit records the admin's deposit check. Confirming also moves the status.
func (r *TrafficRepo) SetDeposit(ctx context.Context, q Querier, id uuid.UUID, confirmed bool, status string, confirmedAt *time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE traffic_requests SET deposit_confirmed = $1, status = $2, confirmed_at = COALESCE($3, confirmed_at)
		WHERE id = $4
	`, confirmed, status, confirmedAt, id)
	return err
}

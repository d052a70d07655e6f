package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

func (r *CampaignRepo) Pool() *pgxpool.Pool { return r.pool }

const campaignColumns = `c.id, c.seller_id, c.product_id, c.date, c.delivery_type, c.review_type, c.quantity,
	c.product_name, c.product_option, c.product_price::text, c.product_url, c.keywords, c.review_guide, c.remarks,
	c.status, c.payment_received, c.payment_type, c.is_vat_applied, c.review_fee,
	c.product_price_with_agency_fee::text, c.subtotal, c.vat, c.final_total_amount, c.item_total::text,
	c.confirmed_at, c.created_at, c.updated_at`

func scanCampaign(row rowScanner, extra ...any) (*models.Campaign, error) {
	var c models.Campaign
	dest := []any{&c.ID, &c.SellerID, &c.ProductID, &c.Date, &c.DeliveryType, &c.ReviewType, &c.Quantity,
		&c.ProductName, &c.ProductOption, &c.ProductPrice, &c.ProductURL, &c.Keywords, &c.ReviewGuide, &c.Remarks,
		&c.Status, &c.PaymentReceived, &c.PaymentType, &c.IsVATApplied, &c.ReviewFee,
		&c.ProductPriceWithAgencyFee, &c.Subtotal, &c.VAT, &c.FinalTotalAmount, &c.ItemTotal,
		&c.ConfirmedAt, &c.CreatedAt, &c.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, q Querier, c *models.Campaign) error {
	return q.QueryRow(ctx, `
		INSERT INTO campaigns (seller_id, product_id, date, delivery_type, review_type, quantity, product_name,
			product_option, product_price, product_url, keywords, review_guide, remarks, status, payment_received,
			payment_type, is_vat_applied, review_fee, product_price_with_agency_fee, subtotal, vat,
			final_total_amount, item_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19::numeric, $20, $21, $22, $23::numeric)
		RETURNING id, created_at, updated_at
	`, c.SellerID, c.ProductID, c.Date, c.DeliveryType, c.ReviewType, c.Quantity, c.ProductName,
		c.ProductOption, c.ProductPrice, c.ProductURL, c.Keywords, c.ReviewGuide, c.Remarks, c.Status, c.PaymentReceived,
		c.PaymentType, c.IsVATApplied, c.ReviewFee, c.ProductPriceWithAgencyFee, c.Subtotal, c.VAT,
		c.FinalTotalAmount, c.ItemTotal,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID loads a campaign; forUpdate locks the row inside a transaction.
func (r *CampaignRepo) GetByID(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (*models.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c WHERE c.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return scanCampaign(q.QueryRow(ctx, query, id))
}

type CampaignFilter struct {
	SellerID *uuid.UUID
	Status   *string
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	Limit    int
	Offset   int
}

func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.CampaignWithSeller, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.SellerID != nil {
		where = append(where, fmt.Sprintf("c.seller_id = $%d", argIdx))
		args = append(args, *f.SellerID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("c.status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("c.date >= $%d", argIdx))
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("c.date < $%d", argIdx))
		args = append(args, *f.To)
		argIdx++
	}

	query := `SELECT ` + campaignColumns + `, s.nickname FROM campaigns c LEFT JOIN sellers s ON s.id = c.seller_id` +
		whereClause(where) +
		fmt.Sprintf(" ORDER BY c.date DESC, c.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, clampLimit(f.Limit), f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []models.CampaignWithSeller{}
	for rows.Next() {
		var nick *string
		c, err := scanCampaign(rows, &nick)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, models.CampaignWithSeller{Campaign: *c, SellerNickname: nick})
	}
	return campaigns, rows.Err()
}

// Bookings returns every campaign in [from, to) as lightweight rows for capacity math.
func (r *CampaignRepo) Bookings(ctx context.Context, q Querier, from, to time.Time) ([]BookingRow, error) {
	rows, err := q.Query(ctx, `
		SELECT id, seller_id, date, quantity, status FROM campaigns
		WHERE date >= $1 AND date < $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingRow
	for rows.Next() {
		var b BookingRow
		if err := rows.Scan(&b.ID, &b.SellerID, &b.Date, &b.Quantity, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type BookingRow struct {
	ID       uuid.UUID
	SellerID uuid.UUID
	Date     time.Time
	Quantity int
	Status   string
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, q Querier, id uuid.UUID, from, to string, confirmedAt *time.Time) (bool, error) {
	tag, err := q.Exec(ctx, `
		UPDATE campaigns SET status = $1, confirmed_at = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, to, confirmedAt, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UpdatePricing rewrites the editable fields and the pricing snapshot.
func (r *CampaignRepo) UpdatePricing(ctx context.Context, q Querier, c *models.Campaign) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET delivery_type = $1, review_type = $2, quantity = $3, product_price = $4::numeric,
			review_fee = $5, product_price_with_agency_fee = $6::numeric, subtotal = $7, vat = $8,
			final_total_amount = $9, item_total = $10::numeric, status = $11, updated_at = now()
		WHERE id = $12
	`, c.DeliveryType, c.ReviewType, c.Quantity, c.ProductPrice, c.ReviewFee, c.ProductPriceWithAgencyFee,
		c.Subtotal, c.VAT, c.FinalTotalAmount, c.ItemTotal, c.Status, c.ID)
	return err
}

func (r *CampaignRepo) SetPaymentReceived(ctx context.Context, ids []uuid.UUID, sellerID *uuid.UUID, received bool) (int64, error) {
	query := `UPDATE campaigns SET payment_received = $1, updated_at = now() WHERE id = ANY($2)`
	args := []any{received, ids}
	if sellerID != nil {
		query += ` AND seller_id = $3`
		args = append(args, *sellerID)
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetPaymentType changes only the payment kind. The VAT flag and the pricing
// snapshot stay as reserved.
func (r *CampaignRepo) SetPaymentType(ctx context.Context, q Querier, id uuid.UUID, paymentType string) error {
	_, err := q.Exec(ctx, `
		UPDATE campaigns SET payment_type = $1, updated_at = now() WHERE id = $2
	`, paymentType, id)
	return err
}

// Delete removes a seller's own campaign while it is pending or cancelled.
func (r *CampaignRepo) Delete(ctx context.Context, id, sellerID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM campaigns WHERE id = $1 AND seller_id = $2 AND status IN ($3, $4)
	`, id, sellerID, models.CampaignStatusPending, models.CampaignStatusSellerFaultCancel)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo {
	return &ReviewRepo{pool: pool}
}

const reviewColumns = `id, uuid_review, main_account_id, sub_account_id, product_id, product_name, review_type,
	name, phone_number, address, bank, bank_number, account_holder_name, order_number, reward_amount,
	participant_id, payment_type, product_type, review_option, image_urls, confirm_image_urls, status,
	rejection_reason, created_at, confirmed_at, verified_at, rejected_at, settled_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.UUIDReview, &rv.MainAccountID, &rv.SubAccountID, &rv.ProductID, &rv.ProductName,
		&rv.ReviewType, &rv.Name, &rv.PhoneNumber, &rv.Address, &rv.Bank, &rv.BankNumber, &rv.AccountHolderName,
		&rv.OrderNumber, &rv.RewardAmount, &rv.ParticipantID, &rv.PaymentType, &rv.ProductType, &rv.ReviewOption,
		&rv.ImageURLs, &rv.ConfirmImageURLs, &rv.Status, &rv.RejectionReason, &rv.CreatedAt, &rv.ConfirmedAt,
		&rv.VerifiedAt, &rv.RejectedAt, &rv.SettledAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	if rv.ImageURLs == nil {
		rv.ImageURLs = map[string][]string{}
	}
	if rv.ConfirmImageURLs == nil {
		rv.ConfirmImageURLs = []string{}
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO reviews (uuid_review, main_account_id, sub_account_id, product_id, product_name, review_type,
			name, phone_number, address, bank, bank_number, account_holder_name, order_number, reward_amount,
			participant_id, payment_type, product_type, review_option, image_urls, confirm_image_urls, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at
	`, rv.UUIDReview, rv.MainAccountID, rv.SubAccountID, rv.ProductID, rv.ProductName, rv.ReviewType,
		rv.Name, rv.PhoneNumber, rv.Address, rv.Bank, rv.BankNumber, rv.AccountHolderName, rv.OrderNumber, rv.RewardAmount,
		rv.ParticipantID, rv.PaymentType, rv.ProductType, rv.ReviewOption, rv.ImageURLs, rv.ConfirmImageURLs, rv.Status,
	).Scan(&rv.ID, &rv.CreatedAt)
}

func (r *ReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
}

func (r *ReviewRepo) GetByUUIDReview(ctx context.Context, uuidReview string) (*models.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE uuid_review = $1`, uuidReview))
}

type ReviewFilter struct {
	Status        *string
	MainAccountID *string
	ProductID     *uuid.UUID
	Statuses      []string
	Limit         int // 0 = all
	Offset        int
}

func (r *ReviewRepo) List(ctx context.Context, f ReviewFilter) ([]models.Review, error) {
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if len(f.Statuses) > 0 {
		where = append(where, fmt.Sprintf("status = ANY($%d)", argIdx))
		args = append(args, f.Statuses)
		argIdx++
	}
	if f.MainAccountID != nil {
		where = append(where, fmt.Sprintf("main_account_id = $%d", argIdx))
		args = append(args, *f.MainAccountID)
		argIdx++
	}
	if f.ProductID != nil {
		where = append(where, fmt.Sprintf("product_id = $%d", argIdx))
		args = append(args, *f.ProductID)
		argIdx++
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews` + whereClause(where) + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

// ConfirmImages attaches confirmation screenshots to a reviewer's own review.
func (r *ReviewRepo) ConfirmImages(ctx context.Context, id uuid.UUID, mainAccountID string, fromStatus string, urls []string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews SET confirm_image_urls = $1, status = $2, confirmed_at = $3
		WHERE id = $4 AND main_account_id = $5 AND status = $6
	`, urls, models.ReviewStatusReviewCompleted, at, id, mainAccountID, fromStatus)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Transition moves a review from one status to another, stamping the matching timestamp.
// Returns false when the review was not in the expected status.
func (r *ReviewRepo) Transition(ctx context.Context, id uuid.UUID, from, to string, reason *string, at time.Time) (bool, error) {
	var stamp string
	switch to {
	case models.ReviewStatusVerified:
		stamp = ", verified_at = $5"
	case models.ReviewStatusSettled:
		stamp = ", settled_at = $5"
	case models.ReviewStatusRejected:
		stamp = ", rejected_at = $5"
	case models.ReviewStatusSubmitted:
		stamp = ", rejected_at = NULL, verified_at = NULL, confirmed_at = NULL, confirm_image_urls = '[]'::jsonb, created_at = $5"
	default:
		stamp = ", confirmed_at = $5"
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews SET status = $1, rejection_reason = $2`+stamp+`
		WHERE id = $3 AND status = $4
	`, to, reason, id, from, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Resubmit replaces the editable fields of a rejected review and returns it to submitted.
func (r *ReviewRepo) Resubmit(ctx context.Context, rv *models.Review) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE reviews SET product_name = $1, review_type = $2, name = $3, phone_number = $4, address = $5,
			bank = $6, bank_number = $7, account_holder_name = $8, order_number = $9, reward_amount = $10,
			image_urls = $11, status = $12, rejection_reason = NULL, rejected_at = NULL, created_at = now()
		WHERE id = $13 AND main_account_id = $14 AND status = $15
	`, rv.ProductName, rv.ReviewType, rv.Name, rv.PhoneNumber, rv.Address, rv.Bank, rv.BankNumber,
		rv.AccountHolderName, rv.OrderNumber, rv.RewardAmount, rv.ImageURLs, models.ReviewStatusSubmitted,
		rv.ID, rv.MainAccountID, models.ReviewStatusRejected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

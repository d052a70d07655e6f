package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type SellerRepo struct {
	pool *pgxpool.Pool
}

func NewSellerRepo(pool *pgxpool.Pool) *SellerRepo {
	return &SellerRepo{pool: pool}
}

func (r *SellerRepo) Pool() *pgxpool.Pool { return r.pool }

const sellerColumns = `id, email, password_hash, nickname, name, phone, business_number, deposit::text, created_at`

func scanSeller(row rowScanner) (*models.Seller, error) {
	var s models.Seller
	err := row.Scan(&s.ID, &s.Email, &s.PasswordHash, &s.Nickname, &s.Name, &s.Phone, &s.BusinessNumber, &s.Deposit, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SellerRepo) Create(ctx context.Context, s *models.Seller) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO sellers (email, password_hash, nickname, name, phone, business_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, deposit::text, created_at
	`, s.Email, s.PasswordHash, s.Nickname, s.Name, s.Phone, s.BusinessNumber,
	).Scan(&s.ID, &s.Deposit, &s.CreatedAt)
}

func (r *SellerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	return scanSeller(r.pool.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE id = $1`, id))
}

func (r *SellerRepo) GetByEmail(ctx context.Context, email string) (*models.Seller, error) {
	return scanSeller(r.pool.QueryRow(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE lower(email) = lower($1)`, email))
}

func (r *SellerRepo) List(ctx context.Context) ([]models.Seller, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sellerColumns+` FROM sellers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := []models.Seller{}
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, *s)
	}
	return sellers, rows.Err()
}

// Nicknames maps seller id to nickname for calendar breakdowns.
func (r *SellerRepo) Nicknames(ctx context.Context) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nickname FROM sellers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := map[string]string{}
	for rows.Next() {
		var id uuid.UUID
		var nick string
		if err := rows.Scan(&id, &nick); err != nil {
			return nil, err
		}
		names[id.String()] = nick
	}
	return names, rows.Err()
}

// Deposit reads the seller's balance, locking the row when q is a transaction.
func (r *SellerRepo) Deposit(ctx context.Context, q Querier, id uuid.UUID, forUpdate bool) (decimal.Decimal, error) {
	query := `SELECT deposit::text FROM sellers WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var s string
	if err := q.QueryRow(ctx, query, id).Scan(&s); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}

// AdjustDeposit adds delta (negative to debit) in a single statement.
// Returns pgx.ErrNoRows when the balance would go negative or the seller is missing.
func (r *SellerRepo) AdjustDeposit(ctx context.Context, q Querier, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var s string
	err := q.QueryRow(ctx, `
		UPDATE sellers SET deposit = deposit + $1::numeric
		WHERE id = $2 AND deposit + $1::numeric >= 0
		RETURNING deposit::text
	`, delta.String(), id).Scan(&s)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}

// DeleteCascade removes the seller with its campaigns and traffic requests.
func (r *SellerRepo) DeleteCascade(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE seller_id = $1`, id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM traffic_requests WHERE seller_id = $1`, id); err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM sellers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type AdminRepo struct {
	pool *pgxpool.Pool
}

func NewAdminRepo(pool *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{pool: pool}
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE lower(email) = lower($1)
	`, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Ensure creates the admin if absent. Used for bootstrap from env.
func (r *AdminRepo) Ensure(ctx context.Context, email, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO admins (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`, email, passwordHash)
	return err
}

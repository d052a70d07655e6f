package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

func (r *AccountRepo) Pool() *pgxpool.Pool { return r.pool }

// Upsert creates the main account or refreshes its name.
func (r *AccountRepo) Upsert(ctx context.Context, id, name, phone string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, phone, created_at
	`, id, name, phone).Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, q Querier, id string) (*models.User, error) {
	var u models.User
	err := q.QueryRow(ctx, `SELECT id, name, phone, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UIDByPhone resolves the main account owning a phone number.
func (r *AccountRepo) UIDByPhone(ctx context.Context, q Querier, phone string) (string, error) {
	var id string
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE phone = $1`, phone).Scan(&id)
	return id, err
}

// Reassign moves reviews, sub-accounts and addresses from one main account to another.
func (r *AccountRepo) Reassign(ctx context.Context, tx pgx.Tx, sourceID, destID string) (map[string]int64, error) {
	moved := map[string]int64{}
	for _, table := range []string{"reviews", "sub_accounts", "addresses"} {
		tag, err := tx.Exec(ctx, `UPDATE `+table+` SET main_account_id = $1 WHERE main_account_id = $2`, destID, sourceID)
		if err != nil {
			return nil, err
		}
		moved[table] = tag.RowsAffected()
	}
	return moved, nil
}

func (r *AccountRepo) Delete(ctx context.Context, q Querier, id string) error {
	_, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *AccountRepo) ListWithStats(ctx context.Context, search string, limit, offset int) ([]models.UserWithStats, error) {
	args := []any{}
	where := []string{}
	if search != "" {
		where = append(where, "(u.name ILIKE $1 OR u.phone ILIKE $1)")
		args = append(args, "%"+search+"%")
	}
	query := `
		SELECT u.id, u.name, u.phone, u.created_at,
		       (SELECT count(*) FROM sub_accounts s WHERE s.main_account_id = u.id),
		       (SELECT count(*) FROM reviews rv WHERE rv.main_account_id = u.id),
		       (SELECT max(created_at) FROM reviews rv WHERE rv.main_account_id = u.id)
		FROM users u` + whereClause(where) + ` ORDER BY u.created_at DESC`
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, clampLimit(limit), offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserWithStats
	for rows.Next() {
		var u models.UserWithStats
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.CreatedAt, &u.SubAccountCount, &u.ReviewCount, &u.LastReviewAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Sub-accounts

func (r *AccountRepo) CreateSubAccount(ctx context.Context, s *models.SubAccount) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO sub_accounts (main_account_id, name, phone_number, address, bank, bank_number, account_holder_name, participant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, s.MainAccountID, s.Name, s.PhoneNumber, s.Address, s.Bank, s.BankNumber, s.AccountHolderName, s.ParticipantID,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *AccountRepo) ListSubAccounts(ctx context.Context, mainAccountID string) ([]models.SubAccount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, main_account_id, name, phone_number, address, bank, bank_number, account_holder_name, participant_id, created_at
		FROM sub_accounts WHERE main_account_id = $1 ORDER BY created_at
	`, mainAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubAccount
	for rows.Next() {
		var s models.SubAccount
		if err := rows.Scan(&s.ID, &s.MainAccountID, &s.Name, &s.PhoneNumber, &s.Address, &s.Bank,
			&s.BankNumber, &s.AccountHolderName, &s.ParticipantID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSubAccount removes a sub-account only if it belongs to mainAccountID.
func (r *AccountRepo) DeleteSubAccount(ctx context.Context, id uuid.UUID, mainAccountID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sub_accounts WHERE id = $1 AND main_account_id = $2`, id, mainAccountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Addresses

func (r *AccountRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO addresses (main_account_id, address) VALUES ($1, $2)
		RETURNING id, created_at
	`, a.MainAccountID, a.Address).Scan(&a.ID, &a.CreatedAt)
}

func (r *AccountRepo) ListAddresses(ctx context.Context, mainAccountID string) ([]models.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, main_account_id, address, created_at
		FROM addresses WHERE main_account_id = $1 ORDER BY created_at
	`, mainAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.MainAccountID, &a.Address, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

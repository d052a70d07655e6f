package repositories

import (
	"context"

	"github.com/hellopiggy/backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Log appends one audit row. System jobs pass a nil ActorID.
func (r *AuditRepo) Log(ctx context.Context, e models.AuditLog) error {
	if e.ActorType == "" {
		e.ActorType = "system"
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_log (actor_id, actor_type, action, entity_type, entity_id, meta)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ActorID, e.ActorType, e.Action, e.EntityType, e.EntityID, e.Meta)
	return err
}

// GetByEntity returns the trail of one entity, newest first.
func (r *AuditRepo) GetByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]models.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, actor_type, action, entity_type, entity_id, meta, created_at
		 FROM audit_log
		 WHERE entity_type = $1 AND entity_id = $2
		 ORDER BY created_at DESC, id
		 LIMIT $3 OFFSET $4`,
		entityType, entityID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[models.AuditLog])
}

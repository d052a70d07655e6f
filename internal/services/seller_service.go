package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SellerService struct {
	sellerRepo *repositories.SellerRepo
	auditRepo  *repositories.AuditRepo
	log        *zap.Logger
}

func NewSellerService(sellerRepo *repositories.SellerRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *SellerService {
	return &SellerService{sellerRepo: sellerRepo, auditRepo: auditRepo, log: log}
}

func (s *SellerService) List(ctx context.Context) ([]models.Seller, error) {
	return s.sellerRepo.List(ctx)
}

func (s *SellerService) Get(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "seller")
	}
	return seller, nil
}

// AdjustDeposit adds delta to the seller's deposit. A debit below zero is refused.
func (s *SellerService) AdjustDeposit(ctx context.Context, actorID string, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.IsZero() {
		return decimal.Zero, invalid("amount must not be zero")
	}
	balance, err := s.sellerRepo.AdjustDeposit(ctx, s.sellerRepo.Pool(), id, delta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := s.sellerRepo.GetByID(ctx, id); getErr != nil {
				return decimal.Zero, notFound(getErr, "seller")
			}
			return decimal.Zero, ErrInsufficientDeposit
		}
		return decimal.Zero, err
	}

	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "seller_deposit_adjusted",
		EntityType: "seller",
		EntityID:   &entityID,
		Meta:       map[string]any{"delta": delta.String(), "balance": balance.String()},
	})
	s.log.Info("seller deposit adjusted",
		zap.String("seller_id", entityID),
		zap.String("delta", delta.String()),
		zap.String("balance", balance.String()),
	)
	return balance, nil
}

// Delete removes a seller with its campaigns and traffic requests.
func (s *SellerService) Delete(ctx context.Context, actorID string, id uuid.UUID) error {
	err := repositories.WithTx(ctx, s.sellerRepo.Pool(), func(tx pgx.Tx) error {
		ok, err := s.sellerRepo.DeleteCascade(ctx, tx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("seller: %w", ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	entityID := id.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "seller_deleted",
		EntityType: "seller",
		EntityID:   &entityID,
	})
	return nil
}

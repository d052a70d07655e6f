package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AccountService struct {
	accountRepo *repositories.AccountRepo
	auditRepo   *repositories.AuditRepo
	log         *zap.Logger
}

func NewAccountService(accountRepo *repositories.AccountRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *AccountService {
	return &AccountService{accountRepo: accountRepo, auditRepo: auditRepo, log: log}
}

type MergeRequest struct {
	DestUID     string `json:"dest_uid"`
	DestPhone   string `json:"dest_phone"`
	SourceUID   string `json:"source_uid"`
	SourcePhone string `json:"source_phone"`
}

type MergeResult struct {
	DestUID   string           `json:"dest_uid"`
	SourceUID string           `json:"source_uid"`
	Moved     map[string]int64 `json:"moved"`
}

// Merge folds the source main account into the destination in one transaction.
func (s *AccountService) Merge(ctx context.Context, actorID string, req MergeRequest) (*MergeResult, error) {
	req.DestUID, req.SourceUID = strings.TrimSpace(req.DestUID), strings.TrimSpace(req.SourceUID)
	req.DestPhone, req.SourcePhone = strings.TrimSpace(req.DestPhone), strings.TrimSpace(req.SourcePhone)
	if req.DestUID == "" || req.DestPhone == "" || req.SourceUID == "" || req.SourcePhone == "" {
		return nil, invalid("dest_uid, dest_phone, source_uid and source_phone are required")
	}
	if req.DestUID == req.SourceUID {
		return nil, invalid("source and destination are the same account")
	}

	var moved map[string]int64
	err := repositories.WithTx(ctx, s.accountRepo.Pool(), func(tx pgx.Tx) error {
		// 1. Обе стороны должны существовать и совпадать по телефону
		if err := s.checkOwner(ctx, tx, "destination", req.DestUID, req.DestPhone); err != nil {
			return err
		}
		if err := s.checkOwner(ctx, tx, "source", req.SourceUID, req.SourcePhone); err != nil {
			return err
		}

		// 2. Переносим отзывы, саб-аккаунты и адреса
		var err error
		moved, err = s.accountRepo.Reassign(ctx, tx, req.SourceUID, req.DestUID)
		if err != nil {
			return err
		}

		// 3. Удаляем исходный аккаунт
		return s.accountRepo.Delete(ctx, tx, req.SourceUID)
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "accounts_merged",
		EntityType: "user",
		EntityID:   &req.DestUID,
		Meta:       map[string]any{"source_uid": req.SourceUID, "moved": moved},
	})
	s.log.Info("accounts merged",
		zap.String("dest_uid", req.DestUID),
		zap.String("source_uid", req.SourceUID),
		zap.Any("moved", moved),
	)

	return &MergeResult{DestUID: req.DestUID, SourceUID: req.SourceUID, Moved: moved}, nil
}

func (s *AccountService) checkOwner(ctx context.Context, q repositories.Querier, side, uid, phone string) error {
	if _, err := s.accountRepo.GetByID(ctx, q, uid); err != nil {
		return notFound(err, side+" user")
	}
	owner, err := s.accountRepo.UIDByPhone(ctx, q, auth.NormalizePhone(phone))
	if err != nil {
		return notFound(err, side+" phone")
	}
	if owner != uid {
		return invalid("%s uid does not match phone owner", side)
	}
	return nil
}

func (s *AccountService) Members(ctx context.Context, search string, limit, offset int) ([]models.UserWithStats, error) {
	return s.accountRepo.ListWithStats(ctx, strings.TrimSpace(search), limit, offset)
}

func (s *AccountService) SubAccounts(ctx context.Context, uid string) ([]models.SubAccount, error) {
	subs, err := s.accountRepo.ListSubAccounts(ctx, uid)
	if subs == nil {
		subs = []models.SubAccount{}
	}
	return subs, err
}

func (s *AccountService) AddSubAccount(ctx context.Context, uid string, sub *models.SubAccount) error {
	sub.Name = strings.TrimSpace(sub.Name)
	if sub.Name == "" {
		return invalid("name is required")
	}
	sub.MainAccountID = uid
	sub.PhoneNumber = auth.NormalizePhone(sub.PhoneNumber)
	if err := s.accountRepo.CreateSubAccount(ctx, sub); err != nil {
		return fmt.Errorf("create sub-account: %w", err)
	}
	return nil
}

func (s *AccountService) RemoveSubAccount(ctx context.Context, uid string, id uuid.UUID) error {
	ok, err := s.accountRepo.DeleteSubAccount(ctx, id, uid)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sub-account: %w", ErrNotFound)
	}
	return nil
}

func (s *AccountService) Addresses(ctx context.Context, uid string) ([]models.Address, error) {
	addrs, err := s.accountRepo.ListAddresses(ctx, uid)
	if addrs == nil {
		addrs = []models.Address{}
	}
	return addrs, err
}

func (s *AccountService) AddAddress(ctx context.Context, uid, address string) (*models.Address, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalid("address is required")
	}
	a := &models.Address{MainAccountID: uid, Address: address}
	if err := s.accountRepo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}


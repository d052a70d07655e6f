package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	settingsKeyReservation = "reservation"
	reservationCacheKey    = "settings:reservation"
	settingsCacheTTL       = 5 * time.Minute
)

type SettingsService struct {
	settingsRepo *repositories.SettingsRepo
	auditRepo    *repositories.AuditRepo
	rdb          *redis.Client
	log          *zap.Logger
}

func NewSettingsService(settingsRepo *repositories.SettingsRepo, auditRepo *repositories.AuditRepo, rdb *redis.Client, log *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, auditRepo: auditRepo, rdb: rdb, log: log}
}

// Reservation reads the reservation settings through a short Redis cache.
func (s *SettingsService) Reservation(ctx context.Context) (models.ReservationSettings, error) {
	var rs models.ReservationSettings

	if raw, err := s.rdb.Get(ctx, reservationCacheKey).Bytes(); err == nil {
		if json.Unmarshal(raw, &rs) == nil {
			return rs, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn("settings cache read failed", zap.Error(err))
	}

	if err := s.settingsRepo.Get(ctx, settingsKeyReservation, &rs); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return rs, err
	}

	if raw, err := json.Marshal(rs); err == nil {
		s.rdb.Set(ctx, reservationCacheKey, raw, settingsCacheTTL)
	}
	return rs, nil
}

func (s *SettingsService) UpdateReservation(ctx context.Context, actorID string, rs models.ReservationSettings) error {
	if err := s.settingsRepo.Put(ctx, settingsKeyReservation, rs); err != nil {
		return err
	}
	s.rdb.Del(ctx, reservationCacheKey)

	key := settingsKeyReservation
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &actorID,
		ActorType:  "admin",
		Action:     "reservation_settings_updated",
		EntityType: "settings",
		EntityID:   &key,
		Meta:       rs,
	})
	return nil
}

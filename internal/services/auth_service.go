package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/models"
	"github.com/hellopiggy/backend/internal/rbac"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AuthService struct {
	accountRepo *repositories.AccountRepo
	sellerRepo  *repositories.SellerRepo
	adminRepo   *repositories.AdminRepo
	auditRepo   *repositories.AuditRepo
	business    *BusinessClient
	cfg         *config.Config
	log         *zap.Logger
}

func NewAuthService(
	accountRepo *repositories.AccountRepo,
	sellerRepo *repositories.SellerRepo,
	adminRepo *repositories.AdminRepo,
	auditRepo *repositories.AuditRepo,
	business *BusinessClient,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		sellerRepo:  sellerRepo,
		adminRepo:   adminRepo,
		auditRepo:   auditRepo,
		business:    business,
		cfg:         cfg,
		log:         log,
	}
}

type Session struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Role  string `json:"role"`
	Admin bool   `json:"admin"`
	User  any    `json:"user,omitempty"`
}

func (s *AuthService) issue(claims auth.Claims, user any) (*Session, error) {
	token, err := auth.GenerateJWT(s.cfg.JWTSecret, claims, s.cfg.JWTExpiration)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, UID: claims.UID, Role: claims.Role, Admin: auth.IsAdmin(&claims, s.cfg.AdminEmails), User: user}, nil
}

// ReviewerLogin creates or refreshes the main account keyed by name and phone.
func (s *AuthService) ReviewerLogin(ctx context.Context, name, phone string) (*Session, error) {
	name = strings.TrimSpace(name)
	phone = auth.NormalizePhone(phone)
	if name == "" || phone == "" {
		return nil, invalid("name and phone are required")
	}

	uid := auth.ReviewerUID(name, phone)

	// Телефон уже привязан к другому аккаунту
	if owner, err := s.accountRepo.UIDByPhone(ctx, s.accountRepo.Pool(), phone); err == nil && owner != uid {
		return nil, fmt.Errorf("%w: phone is registered under another name", ErrConflict)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err := s.accountRepo.Upsert(ctx, uid, name, phone)
	if err != nil {
		return nil, err
	}
	return s.issue(auth.Claims{UID: uid, Role: rbac.RoleReviewer}, user)
}

type SellerSignup struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Nickname       string `json:"nickname"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	BusinessNumber string `json:"business_number"`
}

func (s *AuthService) SignupSeller(ctx context.Context, in SellerSignup) (*Session, error) {
	// 1. Валидация
	if s.cfg.IsAdminEmail(strings.TrimSpace(in.Email)) {
		return nil, fmt.Errorf("%w: email is reserved", ErrForbidden)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("invalid email")
	}
	if strings.TrimSpace(in.Nickname) == "" {
		return nil, invalid("nickname is required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, invalid("%v", err)
	}

	// 2. Проверка бизнес-номера во внешнем API
	bNo := strings.ReplaceAll(strings.TrimSpace(in.BusinessNumber), "-", "")
	if s.business.Enabled() {
		status, err := s.business.Verify(ctx, bNo)
		if err != nil {
			return nil, err
		}
		if !status.Active {
			return nil, invalid("business is not active: %s", status.BStt)
		}
	}

	seller := &models.Seller{
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:   hash,
		Nickname:       strings.TrimSpace(in.Nickname),
		Name:           strings.TrimSpace(in.Name),
		Phone:          auth.NormalizePhone(in.Phone),
		BusinessNumber: bNo,
	}
	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, conflict(err, "seller "+seller.Email)
	}

	uid := seller.ID.String()
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorID:    &uid,
		ActorType:  rbac.RoleSeller,
		Action:     "seller_signed_up",
		EntityType: "seller",
		EntityID:   &uid,
	})

	return s.issue(auth.Claims{UID: uid, Email: seller.Email, Role: rbac.RoleSeller}, seller)
}

func (s *AuthService) SellerLogin(ctx context.Context, email, password string) (*Session, error) {
	if s.cfg.IsAdminEmail(strings.TrimSpace(email)) {
		return nil, ErrUnauthorized
	}
	seller, err := s.sellerRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := auth.CheckPassword(seller.PasswordHash, password); err != nil {
		return nil, ErrUnauthorized
	}
	return s.issue(auth.Claims{UID: seller.ID.String(), Email: seller.Email, Role: rbac.RoleSeller}, seller)
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if err := auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrUnauthorized
	}
	return s.issue(auth.Claims{UID: admin.ID.String(), Email: admin.Email, Role: rbac.RoleAdmin, Admin: true}, admin)
}

// EnsureBootstrapAdmin creates the configured admin login if missing.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) error {
	if s.cfg.AdminBootstrapEmail == "" || s.cfg.AdminBootstrapPassword == "" {
		return nil
	}
	hash, err := auth.HashPassword(s.cfg.AdminBootstrapPassword)
	if err != nil {
		return err
	}
	if err := s.adminRepo.Ensure(ctx, strings.ToLower(s.cfg.AdminBootstrapEmail), hash); err != nil {
		return err
	}
	s.log.Info("bootstrap admin ensured", zap.String("email", s.cfg.AdminBootstrapEmail))
	return nil
}

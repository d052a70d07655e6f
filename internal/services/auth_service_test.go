package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hellopiggy/backend/internal/auth"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/rbac"
	"go.uber.org/zap"
)

func testAuthService() *AuthService {
	cfg := &config.Config{JWTSecret: "s3cret", JWTExpiration: time.Hour, AdminEmails: []string{"ops@example.com"}}
	return &AuthService{cfg: cfg, log: zap.NewNop()}
}

func TestSignupSeller_RejectsAdminEmail(t *testing.T) {
	s := testAuthService()

	for _, email := range []string{"ops@example.com", "OPS@example.com", " ops@example.com "} {
		_, err := s.SignupSeller(context.Background(), SellerSignup{
			Email:    email,
			Password: "password123",
			Nickname: "shop",
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("SignupSeller(%q) error = %v, want ErrForbidden", email, err)
		}
	}
}

func TestSellerLogin_RejectsAdminEmail(t *testing.T) {
	s := testAuthService()

	_, err := s.SellerLogin(context.Background(), "ops@example.com", "password123")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("SellerLogin() error = %v, want ErrUnauthorized", err)
	}
}

func TestIssue_SellerTokenIsNotAdmin(t *testing.T) {
	s := testAuthService()

	tests := []struct {
		name   string
		claims auth.Claims
		admin  bool
	}{
		{"seller with allow-listed email", auth.Claims{UID: "seller-1", Email: "ops@example.com", Role: rbac.RoleSeller}, false},
		{"admin login", auth.Claims{UID: "admin-1", Email: "ops@example.com", Role: rbac.RoleAdmin, Admin: true}, true},
		{"reviewer", auth.Claims{UID: "kim_01012345678", Role: rbac.RoleReviewer}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := s.issue(tt.claims, nil)
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			if session.Admin != tt.admin {
				t.Errorf("session.Admin = %v, want %v", session.Admin, tt.admin)
			}

			claims, err := auth.ParseJWT(s.cfg.JWTSecret, session.Token)
			if err != nil {
				t.Fatalf("ParseJWT: %v", err)
			}
			if got := auth.IsAdmin(claims, s.cfg.AdminEmails); got != tt.admin {
				t.Errorf("IsAdmin(parsed) = %v, want %v", got, tt.admin)
			}
		})
	}
}

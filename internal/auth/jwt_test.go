package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hellopiggy/backend/internal/rbac"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(testSecret, Claims{UID: "seller-1", Email: "s@example.com", Role: "seller"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(testSecret, token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UID != "seller-1" || claims.Role != "seller" || claims.Email != "s@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "seller-1" {
		t.Errorf("subject = %q, want seller-1", claims.Subject)
	}
}

func TestParseJWT_Rejects(t *testing.T) {
	valid, _ := GenerateJWT(testSecret, Claims{UID: "u1", Role: "reviewer"}, time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredStr, _ := expired.SignedString([]byte(testSecret))

	noUID := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	})
	noUIDStr, _ := noUID.SignedString([]byte(testSecret))

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"garbage", testSecret, "not-a-jwt"},
		{"expired", testSecret, expiredStr},
		{"missing uid", testSecret, noUIDStr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseJWT(tt.secret, tt.token); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	allow := []string{"boss@example.com"}
	tests := []struct {
		name   string
		claims *Claims
		want   bool
	}{
		{"nil claims", nil, false},
		{"admin claim", &Claims{UID: "a", Admin: true}, true},
		{"allow-listed email", &Claims{UID: "a", Email: "boss@example.com"}, true},
		{"allow-listed email case", &Claims{UID: "a", Email: "Boss@Example.com"}, true},
		{"allow-listed admin role", &Claims{UID: "a", Email: "boss@example.com", Role: rbac.RoleAdmin}, true},
		{"allow-listed seller", &Claims{UID: "a", Email: "boss@example.com", Role: rbac.RoleSeller}, false},
		{"allow-listed reviewer", &Claims{UID: "a", Email: "boss@example.com", Role: rbac.RoleReviewer}, false},
		{"other email", &Claims{UID: "a", Email: "x@example.com"}, false},
		{"no email no claim", &Claims{UID: "a"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdmin(tt.claims, allow); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}

	if IsAdmin(&Claims{UID: "a", Email: "boss@example.com"}, nil) {
		t.Error("empty allow-list must not grant admin")
	}
}

func TestReviewerUID(t *testing.T) {
	if got := ReviewerUID("홍길동", "010-1234-5678"); got != "홍길동_01012345678" {
		t.Errorf("ReviewerUID() = %q", got)
	}
	if got := ReviewerUID(" kim ", "010 1111 2222"); got != "kim_01011112222" {
		t.Errorf("ReviewerUID() = %q", got)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "secret123"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("CheckPassword(wrong) = %v, want ErrInvalidCredentials", err)
	}
	if _, err := HashPassword("123"); err == nil {
		t.Error("short password accepted")
	}
}

package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hellopiggy/backend/internal/rbac"
)

const issuer = "hellopiggy"

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT создаёт JWT с заданным временем жизни.
// expiration <= 0 означает 24h.
func GenerateJWT(secret string, claims Claims, expiration time.Duration) (string, error) {
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.UID,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(secret string, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UID == "" {
		return nil, fmt.Errorf("token has no uid")
	}
	return claims, nil
}

// IsAdmin grants admin access on an explicit admin claim or an allow-listed email.
// The allow-list only counts for admin tokens and identity-provider tokens
// without a role: seller and reviewer emails are not verified.
func IsAdmin(claims *Claims, allowList []string) bool {
	if claims == nil {
		return false
	}
	if claims.Admin {
		return true
	}
	if claims.Email == "" {
		return false
	}
	if claims.Role != "" && claims.Role != rbac.RoleAdmin {
		return false
	}
	for _, e := range allowList {
		if strings.EqualFold(e, claims.Email) {
			return true
		}
	}
	return false
}

// ReviewerUID builds the main account id from the reviewer's name and phone.
func ReviewerUID(name, phone string) string {
	return strings.TrimSpace(name) + "_" + NormalizePhone(phone)
}

// NormalizePhone strips dashes and spaces.
func NormalizePhone(phone string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(phone))
}

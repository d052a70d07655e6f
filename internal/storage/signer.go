package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signerIssuer = "hellopiggy-storage"

type objectClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// Signer issues time-limited read URLs for stored objects.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
}

func NewSigner(secret, publicBaseURL string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), baseURL: strings.TrimRight(publicBaseURL, "/"), ttl: ttl}
}

// SignedURL returns PUBLIC_BASE_URL/api/files/{key}?token=... valid for the signer's ttl.
func (s *Signer) SignedURL(key string, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, objectClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signerIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/api/files/%s?token=%s", s.baseURL, strings.Join(segments, "/"), url.QueryEscape(signed)), exp, nil
}

// Verify checks that token was issued for key and has not expired.
func (s *Signer) Verify(key, token string) error {
	parsed, err := jwt.ParseWithClaims(token, &objectClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(signerIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return err
	}
	claims, ok := parsed.Claims.(*objectClaims)
	if !ok || !parsed.Valid {
		return fmt.Errorf("invalid token")
	}
	if claims.Key != key {
		return fmt.Errorf("token issued for another object")
	}
	return nil
}

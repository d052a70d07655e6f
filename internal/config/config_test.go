package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"a@x.com", 1},
		{"a@x.com, b@x.com", 2},
		{" , a@x.com,,", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := len(parseList(tt.input)); got != tt.expected {
				t.Errorf("parseList(%q) returned %d items, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{AdminEmails: []string{"boss@hellopiggy.kr", "ops@hellopiggy.kr"}}

	if !cfg.IsAdminEmail("boss@hellopiggy.kr") {
		t.Error("expected listed email to be admin")
	}
	if !cfg.IsAdminEmail("OPS@hellopiggy.kr") {
		t.Error("expected case-insensitive match")
	}
	if cfg.IsAdminEmail("") {
		t.Error("empty email must never be admin")
	}
	if cfg.IsAdminEmail("seller@shop.kr") {
		t.Error("unlisted email must not be admin")
	}
}

func TestLoadAdminEmailFallback(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("ADMIN_EMAIL", "solo@hellopiggy.kr")

	cfg := Load()
	if len(cfg.AdminEmails) != 1 || cfg.AdminEmails[0] != "solo@hellopiggy.kr" {
		t.Errorf("AdminEmails = %v, want [solo@hellopiggy.kr]", cfg.AdminEmails)
	}
}

func TestLoadServiceAccountSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serviceAccountKey.json")
	if err := os.WriteFile(path, []byte(`{"jwt_secret":"from-file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVICE_ACCOUNT_KEY_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")

	cfg := Load()
	if cfg.JWTSecret != "from-file" {
		t.Errorf("JWTSecret = %q, want from-file", cfg.JWTSecret)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("CAPACITY_ENFORCED", "false")
	if getEnvBool("CAPACITY_ENFORCED", true) {
		t.Error("expected false")
	}
	t.Setenv("CAPACITY_ENFORCED", "nonsense")
	if !getEnvBool("CAPACITY_ENFORCED", true) {
		t.Error("expected fallback on parse error")
	}
}

package authkit

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("got addr %q, want :8080", cfg.Addr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("got ttl %v, want 30m", cfg.TokenTTL)
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("got frontend url %q", cfg.FrontendURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "24h")
	t.Setenv("BASE_URL", "https://api.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("got ttl %v, want 24h", cfg.TokenTTL)
	}
	if got := cfg.RedirectURL("google"); got != "https://api.example.com/auth/callback/google" {
		t.Errorf("got redirect url %q", got)
	}
}

func TestLoadConfigMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for missing JWT_SECRET")
	}
}

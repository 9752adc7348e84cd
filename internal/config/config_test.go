package config

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":8080" {
		t.Errorf("GRPCAddr = %q, want :8080", cfg.GRPCAddr)
	}
	if cfg.JWTIssuer != "ems-auth" {
		t.Errorf("JWTIssuer = %q, want ems-auth", cfg.JWTIssuer)
	}
	if cfg.JWTAudience != "ems-api" {
		t.Errorf("JWTAudience = %q, want ems-api", cfg.JWTAudience)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.AccessTTL() != 45*time.Minute {
		t.Errorf("AccessTTL = %v, want 45m", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 168*time.Hour {
		t.Errorf("RefreshTTL = %v, want 168h", cfg.RefreshTTL())
	}
	if cfg.SessionSweepSchedule != "@every 10m" {
		t.Errorf("SessionSweepSchedule = %q, want @every 10m", cfg.SessionSweepSchedule)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GRPC_ADDR", ":9090")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JWT_REFRESH_TTL", "720h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GRPCAddr != ":9090" {
		t.Errorf("GRPCAddr = %q, want :9090", cfg.GRPCAddr)
	}
	if cfg.AccessTTL() != 15*time.Minute {
		t.Errorf("AccessTTL = %v, want 15m", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 720*time.Hour {
		t.Errorf("RefreshTTL = %v, want 720h", cfg.RefreshTTL())
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail without JWT_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail for short JWT_SECRET")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error should name JWT_SECRET, got %v", err)
	}
}

func TestLoad_ShortPreviousSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_PREVIOUS_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for short JWT_PREVIOUS_SECRET")
	}
}

func TestLoad_BcryptCostBounds(t *testing.T) {
	setRequired(t)

	t.Setenv("BCRYPT_COST", "3")
	if _, err := Load(); err == nil {
		t.Error("Load should fail for BCRYPT_COST below 4")
	}

	t.Setenv("BCRYPT_COST", "32")
	if _, err := Load(); err == nil {
		t.Error("Load should fail for BCRYPT_COST above 31")
	}

	t.Setenv("BCRYPT_COST", "4")
	if _, err := Load(); err != nil {
		t.Errorf("Load with BCRYPT_COST=4: %v", err)
	}
}

func TestTTLHelpers_InvalidFallBack(t *testing.T) {
	cfg := &Config{JWTAccessTTL: "not-a-duration", JWTRefreshTTL: "-5m"}
	if cfg.AccessTTL() != 45*time.Minute {
		t.Errorf("AccessTTL fallback = %v, want 45m", cfg.AccessTTL())
	}
	if cfg.RefreshTTL() != 168*time.Hour {
		t.Errorf("RefreshTTL fallback = %v, want 168h", cfg.RefreshTTL())
	}
}

func TestPreviousSecret(t *testing.T) {
	cfg := &Config{}
	if got := cfg.PreviousSecret(); got != nil {
		t.Errorf("PreviousSecret unset = %v, want nil", got)
	}
	cfg.JWTPreviousSecret = testSecret
	if got := cfg.PreviousSecret(); string(got) != testSecret {
		t.Errorf("PreviousSecret = %q", got)
	}
}

package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_PORT", "JWT_SECRET", "JWT_EXPIRATION", "BCRYPT_COST", "STORE_BACKEND", "DATABASE_URL", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "SIGNUP_LOCK_WAIT"} {
		t.Setenv(key, "")
	}
	t.Setenv("MY_SECRET_CODE", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.APIPort != "5009" {
		t.Fatalf("expected default port 5009, got %s", cfg.APIPort)
	}
	if string(cfg.JWTKey) != "s3cret" {
		t.Fatalf("expected MY_SECRET_CODE to be used, got %s", cfg.JWTKey)
	}
	if cfg.JWTExp != time.Hour {
		t.Fatalf("expected 1h token lifetime, got %s", cfg.JWTExp)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.StoreBackend != StoreBackendPostgres {
		t.Fatalf("expected postgres backend, got %s", cfg.StoreBackend)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected redis disabled by default, got %s", cfg.RedisAddr)
	}
	if cfg.SignupLockWait != 5*time.Second {
		t.Fatalf("expected 5s signup lock wait, got %s", cfg.SignupLockWait)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	want := "host=localhost port=5432 user=user password=password dbname=campus_media sslmode=disable"
	if cfg.DBConnStr != want {
		t.Fatalf("unexpected conn string %q", cfg.DBConnStr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("MY_SECRET_CODE", "")
	t.Setenv("JWT_SECRET", "fallback-secret")
	t.Setenv("JWT_EXPIRATION", "30m")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/media")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SIGNUP_LOCK_TTL", "3s")
	t.Setenv("SIGNUP_LOCK_WAIT", "750ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.APIPort != "8081" {
		t.Fatalf("expected PORT override, got %s", cfg.APIPort)
	}
	if string(cfg.JWTKey) != "fallback-secret" {
		t.Fatalf("expected JWT_SECRET fallback, got %s", cfg.JWTKey)
	}
	if cfg.JWTExp != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", cfg.JWTExp)
	}
	if cfg.BcryptCost != 4 {
		t.Fatalf("expected cost 4, got %d", cfg.BcryptCost)
	}
	if cfg.StoreBackend != StoreBackendMemory {
		t.Fatalf("expected memory backend, got %s", cfg.StoreBackend)
	}
	if cfg.DBConnStr != "postgres://u:p@db:5432/media" {
		t.Fatalf("expected DATABASE_URL override, got %s", cfg.DBConnStr)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.SignupLockTTL != 3*time.Second {
		t.Fatalf("unexpected redis settings %s %s", cfg.RedisAddr, cfg.SignupLockTTL)
	}
	if cfg.SignupLockWait != 750*time.Millisecond {
		t.Fatalf("expected SIGNUP_LOCK_WAIT override, got %s", cfg.SignupLockWait)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("MY_SECRET_CODE", "")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MY_SECRET_CODE", "x")
	t.Setenv("JWT_EXPIRATION", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.JWTExp != time.Hour {
		t.Fatalf("expected fallback 1h, got %s", cfg.JWTExp)
	}
}

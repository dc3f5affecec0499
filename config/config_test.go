package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.ServerPort == 0 {
		t.Fatalf("expected a default server port")
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v, want 24h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Fatalf("BcryptCost = %d, want 12", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.LockoutThreshold != 5 {
		t.Fatalf("LockoutThreshold = %d, want 5", cfg.Auth.LockoutThreshold)
	}
	if cfg.Auth.LockoutDuration != 10*time.Minute {
		t.Fatalf("LockoutDuration = %v, want 10m", cfg.Auth.LockoutDuration)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "secret-from-env")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("LOCKOUT_THRESHOLD", "3")
	t.Setenv("LOCKOUT_DURATION", "5m")
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MQ_BACKEND", "rabbitmq")

	cfg := LoadConfig()

	if cfg.ServerPort != 9090 {
		t.Fatalf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.Auth.JWTSecret != "secret-from-env" {
		t.Fatalf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.LockoutThreshold != 3 {
		t.Fatalf("LockoutThreshold = %d, want 3", cfg.Auth.LockoutThreshold)
	}
	if cfg.Auth.LockoutDuration != 5*time.Minute {
		t.Fatalf("LockoutDuration = %v, want 5m", cfg.Auth.LockoutDuration)
	}
	if cfg.Storage.Backend != "minio" {
		t.Fatalf("Storage.Backend = %q, want minio", cfg.Storage.Backend)
	}
	if cfg.MQ.Backend != "rabbitmq" {
		t.Fatalf("MQ.Backend = %q, want rabbitmq", cfg.MQ.Backend)
	}
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := LoadConfig()
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("TokenTTL = %v, want default 24h", cfg.Auth.TokenTTL)
	}
}

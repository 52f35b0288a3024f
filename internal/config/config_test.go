package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_DSN", "DB_MAX_CONNS", "DB_MIN_CONNS", "SHUTDOWN_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	if cfg.HTTPAddr != ":5000" {
		t.Fatalf("default addr: got %q", cfg.HTTPAddr)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Fatalf("default pool sizing: got max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("default shutdown timeout: got %v", cfg.ShutdownTimeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "5")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "3")

	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr override: got %q", cfg.HTTPAddr)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Fatalf("pool sizing override: got max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown override: got %v", cfg.ShutdownTimeout)
	}
}

func TestFromEnvIgnoresBadPoolSizes(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("DB_MIN_CONNS", "-3")

	cfg := FromEnv()
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Fatalf("bad values should fall back to defaults, got max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

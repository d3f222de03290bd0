package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.ReservationBackend != "postgres" {
		t.Errorf("expected default reservation backend postgres, got %s", cfg.ReservationBackend)
	}
	if cfg.HistoryTTL != 24*time.Hour {
		t.Errorf("expected default history TTL 24h, got %s", cfg.HistoryTTL)
	}
	if cfg.MaxUploadSizeBytes != 10<<20 {
		t.Errorf("expected default max upload 10MiB, got %d", cfg.MaxUploadSizeBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RESERVATION_BACKEND", "REST")
	t.Setenv("HISTORY_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:3001")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.ReservationBackend != "rest" {
		t.Errorf("expected normalized backend rest, got %s", cfg.ReservationBackend)
	}
	if cfg.HistoryTTL != time.Hour {
		t.Errorf("expected history TTL 1h, got %s", cfg.HistoryTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
}

package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("Expected default driver sqlite, got %s", cfg.DBDriver)
	}
	if cfg.SQLitePath != "trading_competition.db" {
		t.Errorf("Unexpected default sqlite path: %s", cfg.SQLitePath)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := Load(); err == nil {
		t.Error("Expected an error for an unknown driver")
	}
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "competition")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := "host=db.internal port=5433 user=trader password=trading123 dbname=competition sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Errorf("DSN mismatch:\n got %s\nwant %s", got, want)
	}
}

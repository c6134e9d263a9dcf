package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	if cfg.Ledger.DefaultCurrency != "USD" {
		t.Errorf("Ledger.DefaultCurrency = %q, want %q", cfg.Ledger.DefaultCurrency, "USD")
	}
	if cfg.Ledger.Locale != "en-US" {
		t.Errorf("Ledger.Locale = %q, want %q", cfg.Ledger.Locale, "en-US")
	}
	if cfg.Sync.Enabled {
		t.Error("Sync.Enabled should default to false")
	}
	if cfg.Sync.Device == "" {
		t.Error("Sync.Device should default to the hostname")
	}
	if len(cfg.Backup.ScheduleTimes) != 1 || cfg.Backup.ScheduleTimes[0] != "03:00" {
		t.Errorf("Backup.ScheduleTimes = %v, want [03:00]", cfg.Backup.ScheduleTimes)
	}
}

func TestLoad_InvalidStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid STORAGE_BACKEND, got nil")
	}
	if !strings.Contains(err.Error(), "STORAGE_BACKEND") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_SyncRequiresProjectAndUser(t *testing.T) {
	t.Setenv("SYNC_ENABLED", "true")
	t.Setenv("FIREBASE_PROJECT_ID", "")
	t.Setenv("SYNC_USER_ID", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error when sync is enabled without a project ID")
	}

	t.Setenv("FIREBASE_PROJECT_ID", "lifeos-test")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error when sync is enabled without a user ID")
	}

	t.Setenv("SYNC_USER_ID", "user-1")
	if _, err := Load(); err != nil {
		t.Errorf("Load() failed with full sync config: %v", err)
	}
}

func TestLoad_BackupRequiresSync(t *testing.T) {
	t.Setenv("BACKUP_ENABLED", "true")
	t.Setenv("SYNC_ENABLED", "false")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for backups without sync")
	}
}

func TestLoad_TLSRequiresCertAndKey(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for TLS without cert and key paths")
	}

	t.Setenv("TLS_CERT_PATH", "/etc/ssl/cert.pem")
	t.Setenv("TLS_KEY_PATH", "/etc/ssl/key.pem")
	if _, err := Load(); err != nil {
		t.Errorf("Load() failed with full TLS config: %v", err)
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(cfg.Server.AllowedHosts) != 2 {
		t.Fatalf("AllowedHosts = %v, want 2 entries", cfg.Server.AllowedHosts)
	}
	if cfg.Server.AllowedHosts[0] != "example.com" || cfg.Server.AllowedHosts[1] != "api.example.com" {
		t.Errorf("AllowedHosts = %v", cfg.Server.AllowedHosts)
	}
}

func TestConnectionString(t *testing.T) {
	pg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ledger",
		Password: "secret",
		DBName:   "lifeos",
		SSLMode:  "require",
	}
	got := pg.ConnectionString()
	want := "host=db.internal port=5433 user=ledger password=secret dbname=lifeos sslmode=require"
	if got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestGetBoolEnv(t *testing.T) {
	t.Setenv("FLAG_TRUE", "true")
	t.Setenv("FLAG_BAD", "maybe")

	if !getBoolEnv("FLAG_TRUE", false) {
		t.Error("expected true")
	}
	if getBoolEnv("FLAG_BAD", false) {
		t.Error("unparseable value must fall back to the default")
	}
	if !getBoolEnv("FLAG_UNSET", true) {
		t.Error("unset value must fall back to the default")
	}
}

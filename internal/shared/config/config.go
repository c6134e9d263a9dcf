package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Ledger    LedgerConfig
	Sync      SyncConfig
	Backup    BackupConfig
	TLS       TLSConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type StorageConfig struct {
	Backend    string
	SQLitePath string
	Postgres   PostgresConfig
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LedgerConfig struct {
	DefaultCurrency string
	// Locale drives grouping and decimal conventions for amount display,
	// independent of the active currency.
	Locale string
}

type SyncConfig struct {
	Enabled         bool
	CredentialsFile string
	ProjectID       string
	UserID          string
	Device          string
}

type BackupConfig struct {
	Enabled       bool
	ScheduleTimes []string
	RunOnStartup  bool
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {
	pgPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	device := getEnv("SYNC_DEVICE", "")
	if device == "" {
		if hostname, err := os.Hostname(); err == nil {
			device = hostname
		} else {
			device = "lifeos-ledger"
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Storage: StorageConfig{
			Backend:    getEnv("STORAGE_BACKEND", BackendSQLite),
			SQLitePath: getEnv("SQLITE_PATH", "lifeos-ledger.db"),
			Postgres: PostgresConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     pgPort,
				User:     getEnv("DB_USER", "lifeos"),
				Password: getEnv("DB_PASSWORD", ""),
				DBName:   getEnv("DB_NAME", "lifeos-ledger"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
		},
		Ledger: LedgerConfig{
			DefaultCurrency: getEnv("LEDGER_CURRENCY", "USD"),
			Locale:          getEnv("LEDGER_LOCALE", "en-US"),
		},
		Sync: SyncConfig{
			Enabled:         getBoolEnv("SYNC_ENABLED", false),
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			UserID:          getEnv("SYNC_USER_ID", ""),
			Device:          device,
		},
		Backup: BackupConfig{
			Enabled:       getBoolEnv("BACKUP_ENABLED", false),
			ScheduleTimes: strings.Split(getEnv("BACKUP_TIMES", "03:00"), ","),
			RunOnStartup:  getBoolEnv("BACKUP_RUN_ON_STARTUP", false),
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "lifeos-ledger"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
	}

	// Validate storage selection
	switch cfg.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (expected %s, %s or %s)",
			cfg.Storage.Backend, BackendMemory, BackendSQLite, BackendPostgres)
	}

	// Validate sync configuration
	if cfg.Sync.Enabled {
		if cfg.Sync.ProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when SYNC_ENABLED=true")
		}
		if cfg.Sync.UserID == "" {
			return nil, fmt.Errorf("SYNC_USER_ID is required when SYNC_ENABLED=true")
		}
	}

	// Scheduled backups republish through the sync bridge
	if cfg.Backup.Enabled && !cfg.Sync.Enabled {
		return nil, fmt.Errorf("BACKUP_ENABLED=true requires SYNC_ENABLED=true")
	}

	// Validate TLS configuration
	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

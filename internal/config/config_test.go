package config

import (
	"os"
	"reflect"
	"testing"
	"time"
)

var allKeys = []string{
	"SERVER_PORT", "SERVER_HOST", "SERVER_BASE_URL",
	"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT",
	"DB_DRIVER", "DB_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"APP_ENV", "LOG_LEVEL",
	"LOG_FILE", "LOG_MAX_SIZE_MB", "LOG_MAX_BACKUPS", "LOG_MAX_AGE_DAYS",
	"SHORTENER_CODE_STYLE", "SHORTENER_MAX_RETRIES", "SEED_URLS",
}

// unsetAll removes every config key for the duration of the test.
// envconfig treats a set-but-empty variable as a value, not as missing.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.BaseURL != "" {
		t.Errorf("Server.BaseURL = %s, want empty", cfg.Server.BaseURL)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}

	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %s, want sqlite", cfg.Database.Driver)
	}
	if got := cfg.Database.ConnectionString(); got != defaultSQLiteURL {
		t.Errorf("ConnectionString() = %s, want %s", got, defaultSQLiteURL)
	}

	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %s, want development", cfg.App.Environment)
	}
	if cfg.App.IsProduction() {
		t.Error("App.IsProduction() = true, want false")
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("App.LogLevel = %s, want info", cfg.App.LogLevel)
	}

	if cfg.Log.File != "" {
		t.Errorf("Log.File = %s, want empty", cfg.Log.File)
	}
	if cfg.Log.MaxSizeMB != 10 {
		t.Errorf("Log.MaxSizeMB = %d, want 10", cfg.Log.MaxSizeMB)
	}

	if cfg.Shortener.CodeStyle != "hex" {
		t.Errorf("Shortener.CodeStyle = %s, want hex", cfg.Shortener.CodeStyle)
	}
	if cfg.Shortener.MaxRetries != 5 {
		t.Errorf("Shortener.MaxRetries = %d, want 5", cfg.Shortener.MaxRetries)
	}
	wantSeeds := []string{"https://example.com", "https://go.dev", "https://github.com"}
	if !reflect.DeepEqual(cfg.Shortener.SeedURLs, wantSeeds) {
		t.Errorf("Shortener.SeedURLs = %v, want %v", cfg.Shortener.SeedURLs, wantSeeds)
	}
}

func TestLoad_Overrides(t *testing.T) {
	unsetAll(t)

	envVars := map[string]string{
		"SERVER_PORT":             "9090",
		"SERVER_BASE_URL":         "https://sho.rt",
		"SERVER_READ_TIMEOUT":     "5m",
		"SERVER_SHUTDOWN_TIMEOUT": "1m30s",

		"DB_DRIVER":    "postgres",
		"DB_URL":       "postgres://u:p@db:5432/links?sslmode=disable",
		"DB_MAX_CONNS": "25",
		"DB_MIN_CONNS": "5",

		"APP_ENV":   "production",
		"LOG_LEVEL": "debug",
		"LOG_FILE":  "/var/log/shortlink.log",

		"SHORTENER_CODE_STYLE":  "base62",
		"SHORTENER_MAX_RETRIES": "8",
		"SEED_URLS":             "https://a.example,https://b.example",
	}

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "https://sho.rt" {
		t.Errorf("Server.BaseURL = %s, want https://sho.rt", cfg.Server.BaseURL)
	}
	if cfg.Server.ReadTimeout != 5*time.Minute {
		t.Errorf("Server.ReadTimeout = %v, want 5m", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 90*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 1m30s", cfg.Server.ShutdownTimeout)
	}

	if got, want := cfg.Database.ConnectionString(), "postgres://u:p@db:5432/links?sslmode=disable"; got != want {
		t.Errorf("ConnectionString() = %s, want %s", got, want)
	}
	if cfg.Database.MaxConns != 25 || cfg.Database.MinConns != 5 {
		t.Errorf("Database conns = %d/%d, want 25/5", cfg.Database.MaxConns, cfg.Database.MinConns)
	}

	if !cfg.App.IsProduction() {
		t.Error("App.IsProduction() = false, want true")
	}
	if cfg.Log.File != "/var/log/shortlink.log" {
		t.Errorf("Log.File = %s, want /var/log/shortlink.log", cfg.Log.File)
	}
	if cfg.Shortener.CodeStyle != "base62" {
		t.Errorf("Shortener.CodeStyle = %s, want base62", cfg.Shortener.CodeStyle)
	}
	if cfg.Shortener.MaxRetries != 8 {
		t.Errorf("Shortener.MaxRetries = %d, want 8", cfg.Shortener.MaxRetries)
	}
	if len(cfg.Shortener.SeedURLs) != 2 {
		t.Errorf("Shortener.SeedURLs = %v, want 2 entries", cfg.Shortener.SeedURLs)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid duration", "SERVER_READ_TIMEOUT", "invalid"},
		{"non-positive timeout", "SERVER_WRITE_TIMEOUT", "0s"},
		{"relative base url", "SERVER_BASE_URL", "sho.rt"},
		{"invalid int", "DB_MAX_CONNS", "not-a-number"},
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"unknown env", "APP_ENV", "qa"},
		{"unknown log level", "LOG_LEVEL", "trace"},
		{"zero log size", "LOG_MAX_SIZE_MB", "0"},
		{"unknown code style", "SHORTENER_CODE_STYLE", "emoji"},
		{"zero retries", "SHORTENER_MAX_RETRIES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetAll(t)
			t.Setenv(tt.envVar, tt.value)

			_, err := Load()
			if err == nil {
				t.Errorf("Load() should fail when %s has invalid value %s", tt.envVar, tt.value)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{"sqlite default", DatabaseConfig{Driver: DriverSQLite}, defaultSQLiteURL},
		{"postgres default", DatabaseConfig{Driver: DriverPostgres}, defaultPostgresURL},
		{"explicit url wins", DatabaseConfig{Driver: DriverSQLite, URL: "file:other.db"}, "file:other.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnectionString(); got != tt.want {
				t.Errorf("ConnectionString() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DatabaseConfig
		wantErr bool
	}{
		{"valid", DatabaseConfig{Driver: DriverPostgres, MaxConns: 10, MinConns: 2}, false},
		{"zero min is allowed", DatabaseConfig{Driver: DriverSQLite, MaxConns: 1, MinConns: 0}, false},
		{"min above max", DatabaseConfig{Driver: DriverPostgres, MaxConns: 2, MinConns: 5}, true},
		{"zero max", DatabaseConfig{Driver: DriverPostgres, MaxConns: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

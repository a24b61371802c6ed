package cliconfig

import (
	"errors"
	"testing"
	"time"

	"github.com/bft-labs/taxonsync/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store != StoreCarto {
		t.Errorf("Store = %v, want %v", cfg.Store, StoreCarto)
	}
	if cfg.Workers != 40 {
		t.Errorf("Workers = %v, want 40", cfg.Workers)
	}
	if cfg.BatchSize != 500 {
		t.Errorf("BatchSize = %v, want 500", cfg.BatchSize)
	}
	if cfg.RetryAttempts != 10 || cfg.RetryInitial != time.Second || cfg.RetryMax != 8*time.Second {
		t.Errorf("retry = %d/%v/%v, want 10/1s/8s", cfg.RetryAttempts, cfg.RetryInitial, cfg.RetryMax)
	}
	if cfg.TaxonTable != "taxon" || cfg.NameColumn != "name" || cfg.IDColumn != "cartodb_id" {
		t.Errorf("table = %s(%s, %s), want taxon(name, cartodb_id)", cfg.TaxonTable, cfg.NameColumn, cfg.IDColumn)
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.CSVFile = "occurrences.csv"
	cfg.User = "alice"
	cfg.APIKey = "key"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"per-name strategy", func(c *Config) { c.Strategy = "per-name" }, false},
		{"json logs", func(c *Config) { c.LogFormat = "json" }, false},
		{"missing csv", func(c *Config) { c.CSVFile = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, true},
		{"zero attempts", func(c *Config) { c.RetryAttempts = 0 }, true},
		{"zero initial backoff", func(c *Config) { c.RetryInitial = 0 }, true},
		{"max below initial", func(c *Config) { c.RetryMax = 500 * time.Millisecond }, true},
		{"negative rps", func(c *Config) { c.RequestsPerSecond = -1 }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "legacy" }, true},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateStore(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"carto with api key", func(*Config) {}, false},
		{"carto with oauth", func(c *Config) { c.APIKey = ""; c.ConsumerKey = "ck"; c.Password = "pw" }, false},
		{"carto endpoint only", func(c *Config) { c.User = ""; c.Endpoint = "http://localhost/sql/" }, false},
		{"carto without user", func(c *Config) { c.User = "" }, true},
		{"carto without credentials", func(c *Config) { c.APIKey = "" }, true},
		{"postgres with dsn", func(c *Config) { c.Store = StorePostgres; c.DSN = "postgres://localhost/db" }, false},
		{"postgres without dsn", func(c *Config) { c.Store = StorePostgres }, true},
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.ValidateStore()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStore() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateStoreTrimsEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint = "http://localhost:8080/api/v2/sql/"
	if err := cfg.ValidateStore(); err != nil {
		t.Fatalf("ValidateStore() error = %v", err)
	}
	if cfg.Endpoint != "http://localhost:8080/api/v2/sql" {
		t.Errorf("Endpoint = %v, want trailing slash removed", cfg.Endpoint)
	}
}

func TestConfig_Masked(t *testing.T) {
	cfg := validConfig()
	cfg.ConsumerSecret = "cs"
	cfg.Password = "pw"
	cfg.DSN = "postgres://u:p@h/db"

	m := cfg.Masked()
	for name, v := range map[string]string{"APIKey": m.APIKey, "ConsumerSecret": m.ConsumerSecret, "Password": m.Password, "DSN": m.DSN} {
		if v != masked {
			t.Errorf("%s = %q, want masked", name, v)
		}
	}
	if m.User != "alice" {
		t.Errorf("User = %q, want alice", m.User)
	}
	if cfg.APIKey != "key" {
		t.Error("Masked() modified the receiver")
	}
	if DefaultConfig().Masked().APIKey != "" {
		t.Error("empty secrets should stay empty")
	}
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := NewLogger(cfg); err != nil {
		t.Errorf("NewLogger() error = %v", err)
	}
	cfg.LogLevel = "loud"
	if _, err := NewLogger(cfg); err == nil {
		t.Error("NewLogger() expected error for invalid level")
	}
}

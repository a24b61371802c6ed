package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	CSVFile           string  `toml:"csv_file"`
	Store             string  `toml:"store"`
	User              string  `toml:"user"`
	Domain            string  `toml:"domain"`
	APIKey            string  `toml:"api_key"`
	ConsumerKey       string  `toml:"consumer_key"`
	ConsumerSecret    string  `toml:"consumer_secret"`
	Password          string  `toml:"password"`
	Endpoint          string  `toml:"endpoint"`
	TokenURL          string  `toml:"token_url"`
	DSN               string  `toml:"dsn"`
	TaxonTable        string  `toml:"taxon_table"`
	NameColumn        string  `toml:"name_column"`
	IDColumn          string  `toml:"id_column"`
	Strategy          string  `toml:"strategy"`
	Workers           int     `toml:"workers"`
	BatchSize         int     `toml:"batch_size"`
	RetryAttempts     int     `toml:"retry_attempts"`
	RetryInitial      string  `toml:"retry_initial"`
	RetryMax          string  `toml:"retry_max"`
	HTTPTimeout       string  `toml:"http_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	PushgatewayURL    string  `toml:"pushgateway_url"`
	Watch             *bool   `toml:"watch"`
	LogLevel          string  `toml:"log_level"`
	LogFormat         string  `toml:"log_format"`
	TargetTable       string  `toml:"target_table"`
	SourceTable       string  `toml:"source_table"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.taxonsync/config.toml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".taxonsync", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("csv-file", fc.CSVFile, &cfg.CSVFile)
	s.setString("store", fc.Store, &cfg.Store)
	s.setString("user", fc.User, &cfg.User)
	s.setString("domain", fc.Domain, &cfg.Domain)
	s.setString("api-key", fc.APIKey, &cfg.APIKey)
	s.setString("consumer-key", fc.ConsumerKey, &cfg.ConsumerKey)
	s.setString("consumer-secret", fc.ConsumerSecret, &cfg.ConsumerSecret)
	s.setString("password", fc.Password, &cfg.Password)
	s.setString("endpoint", fc.Endpoint, &cfg.Endpoint)
	s.setString("token-url", fc.TokenURL, &cfg.TokenURL)
	s.setString("dsn", fc.DSN, &cfg.DSN)
	s.setString("taxon-table", fc.TaxonTable, &cfg.TaxonTable)
	s.setString("name-column", fc.NameColumn, &cfg.NameColumn)
	s.setString("id-column", fc.IDColumn, &cfg.IDColumn)
	s.setString("strategy", fc.Strategy, &cfg.Strategy)
	s.setString("pushgateway-url", fc.PushgatewayURL, &cfg.PushgatewayURL)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("target-table", fc.TargetTable, &cfg.TargetTable)
	s.setString("source-table", fc.SourceTable, &cfg.SourceTable)

	if err := s.setDuration("retry-initial", fc.RetryInitial, &cfg.RetryInitial); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", fc.RetryMax, &cfg.RetryMax); err != nil {
		return err
	}
	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setInt("workers", fc.Workers, &cfg.Workers)
	s.setInt("batch-size", fc.BatchSize, &cfg.BatchSize)
	s.setInt("retry-attempts", fc.RetryAttempts, &cfg.RetryAttempts)
	s.setFloat("rps", fc.RequestsPerSecond, &cfg.RequestsPerSecond)

	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

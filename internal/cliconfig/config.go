package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/taxonsync/internal/domain"
)

// Store backends.
const (
	StoreCarto    = "carto"
	StorePostgres = "postgres"
)

const masked = "*****"

// Config holds CLI configuration for taxonsync.
type Config struct {
	CSVFile string

	Store          string
	User           string
	Domain         string
	APIKey         string
	ConsumerKey    string
	ConsumerSecret string
	Password       string
	Endpoint       string
	TokenURL       string
	DSN            string

	TaxonTable string
	NameColumn string
	IDColumn   string

	Strategy          string
	Workers           int
	BatchSize         int
	RetryAttempts     int
	RetryInitial      time.Duration
	RetryMax          time.Duration
	HTTPTimeout       time.Duration
	RequestsPerSecond float64

	PushgatewayURL string
	Watch          bool

	LogLevel  string
	LogFormat string

	TargetTable string
	SourceTable string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Store:         StoreCarto,
		Domain:        "carto.com",
		TaxonTable:    "taxon",
		NameColumn:    "name",
		IDColumn:      "cartodb_id",
		Strategy:      "bulk",
		Workers:       40,
		BatchSize:     500,
		RetryAttempts: 10,
		RetryInitial:  time.Second,
		RetryMax:      8 * time.Second,
		HTTPTimeout:   60 * time.Second,
		LogLevel:      "info",
		LogFormat:     "console",
		TargetTable:   "occurrence",
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	if c.CSVFile == "" {
		return invalid("csv-file is required")
	}
	if c.Workers <= 0 {
		return invalid("workers must be positive")
	}
	if c.BatchSize <= 0 {
		return invalid("batch-size must be positive")
	}
	if c.RetryAttempts <= 0 {
		return invalid("retry-attempts must be positive")
	}
	if c.RetryInitial <= 0 {
		return invalid("retry-initial must be positive")
	}
	if c.RetryMax < c.RetryInitial {
		return invalid("retry-max must not be below retry-initial")
	}
	if c.RequestsPerSecond < 0 {
		return invalid("requests-per-second must not be negative")
	}
	switch c.Strategy {
	case "bulk", "per-name":
	default:
		return invalid("unknown strategy %q", c.Strategy)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return invalid("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ValidateStore checks that the selected store can be reached.
func (c *Config) ValidateStore() error {
	switch c.Store {
	case StoreCarto:
		if c.User == "" && c.Endpoint == "" {
			return invalid("user (or endpoint) is required for the carto store")
		}
		if c.APIKey == "" && c.ConsumerKey == "" {
			return invalid("api-key or consumer-key/password is required for the carto store")
		}
	case StorePostgres:
		if c.DSN == "" {
			return invalid("dsn is required for the postgres store")
		}
	default:
		return invalid("unknown store %q", c.Store)
	}
	c.Endpoint = strings.TrimSuffix(c.Endpoint, "/")
	return nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	for _, s := range []*string{&c.APIKey, &c.ConsumerSecret, &c.Password, &c.DSN} {
		if *s != "" {
			*s = masked
		}
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setFloat sets a float64 value if positive and flag not changed.
func (s *configSetter) setFloat(flag string, value float64, dst *float64) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses an environment value and sets dst when positive.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setFloatFromString parses an environment value and sets dst when positive.
func (s *configSetter) setFloatFromString(flag, value string, dst *float64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if f <= 0 {
		return nil
	}
	*dst = f
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "TAXONSYNC_"

func env(key string) string { return os.Getenv(EnvPrefix + key) }

// ApplyEnvConfig applies configuration from environment variables (TAXONSYNC_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("csv-file", env("CSV_FILE"), &cfg.CSVFile)
	s.setString("store", env("STORE"), &cfg.Store)
	s.setString("user", env("USER"), &cfg.User)
	s.setString("domain", env("DOMAIN"), &cfg.Domain)
	s.setString("api-key", env("API_KEY"), &cfg.APIKey)
	s.setString("consumer-key", env("CONSUMER_KEY"), &cfg.ConsumerKey)
	s.setString("consumer-secret", env("CONSUMER_SECRET"), &cfg.ConsumerSecret)
	s.setString("password", env("PASSWORD"), &cfg.Password)
	s.setString("endpoint", env("ENDPOINT"), &cfg.Endpoint)
	s.setString("token-url", env("TOKEN_URL"), &cfg.TokenURL)
	s.setString("dsn", env("DSN"), &cfg.DSN)
	s.setString("taxon-table", env("TAXON_TABLE"), &cfg.TaxonTable)
	s.setString("name-column", env("NAME_COLUMN"), &cfg.NameColumn)
	s.setString("id-column", env("ID_COLUMN"), &cfg.IDColumn)
	s.setString("strategy", env("STRATEGY"), &cfg.Strategy)
	s.setString("pushgateway-url", env("PUSHGATEWAY_URL"), &cfg.PushgatewayURL)
	s.setString("log-level", env("LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", env("LOG_FORMAT"), &cfg.LogFormat)
	s.setString("target-table", env("TARGET_TABLE"), &cfg.TargetTable)
	s.setString("source-table", env("SOURCE_TABLE"), &cfg.SourceTable)

	if err := s.setDuration("retry-initial", env("RETRY_INITIAL"), &cfg.RetryInitial); err != nil {
		return err
	}
	if err := s.setDuration("retry-max", env("RETRY_MAX"), &cfg.RetryMax); err != nil {
		return err
	}
	if err := s.setDuration("timeout", env("HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("workers", env("WORKERS"), &cfg.Workers); err != nil {
		return err
	}
	if err := s.setIntFromString("batch-size", env("BATCH_SIZE"), &cfg.BatchSize); err != nil {
		return err
	}
	if err := s.setIntFromString("retry-attempts", env("RETRY_ATTEMPTS"), &cfg.RetryAttempts); err != nil {
		return err
	}
	if err := s.setFloatFromString("rps", env("REQUESTS_PER_SECOND"), &cfg.RequestsPerSecond); err != nil {
		return err
	}

	s.setBoolFromString("watch", env("WATCH"), &cfg.Watch)

	return nil
}

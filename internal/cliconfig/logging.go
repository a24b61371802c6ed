package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/taxonsync/pkg/log"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Logger returns the bootstrap logger used before configuration is loaded.
func Logger() zerolog.Logger {
	return logger
}

// NewLogger builds the run logger from the configured level and format.
func NewLogger(cfg Config) (zerolog.Logger, error) {
	return log.NewZerolog(os.Stderr, cfg.LogFormat, cfg.LogLevel)
}

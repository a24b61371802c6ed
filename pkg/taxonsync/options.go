package taxonsync

import (
	"github.com/bft-labs/taxonsync/internal/ports"
	"github.com/bft-labs/taxonsync/pkg/log"
)

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// SQLStore executes SQL against the table store.
type SQLStore = ports.SQLStore

// Logger is the interface for structured logging.
type Logger = log.Logger

// Option configures optional behavior of a Syncer.
type Option func(*options)

type options struct {
	httpClient   HTTPClient
	logger       Logger
	eventHandler EventHandler
	store        SQLStore
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithHTTPClient sets the HTTP client used to talk to CARTO.
// If not provided, a client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for upload events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithStore injects the store names are uploaded to. The Syncer does not
// close an injected store.
func WithStore(store SQLStore) Option {
	return func(o *options) {
		o.store = store
	}
}

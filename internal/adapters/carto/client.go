// Package carto implements ports.SQLStore on top of the CARTO SQL API.
package carto

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/bft-labs/taxonsync/internal/domain"
	"github.com/bft-labs/taxonsync/internal/ports"
	"github.com/bft-labs/taxonsync/pkg/log"
)

const (
	sqlPath = "/api/v2/sql"

	// DefaultDomain is the CARTO host suffix accounts live under.
	DefaultDomain = "carto.com"

	// DefaultTimeout bounds one HTTP request.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 64 << 20
)

// Config describes how to reach and authenticate against a CARTO account.
type Config struct {
	User   string
	Domain string

	// APIKey is sent as the api_key form field. When empty and a consumer
	// key is set, OAuth2 password credentials are used instead.
	APIKey string

	ConsumerKey    string
	ConsumerSecret string
	Password       string

	// Endpoint overrides https://<user>.<domain>/api/v2/sql.
	Endpoint string
	// TokenURL overrides https://<user>.<domain>/oauth/token.
	TokenURL string

	Timeout time.Duration

	// RequestsPerSecond caps calls across all workers. Zero is unlimited.
	RequestsPerSecond float64
}

func (c Config) baseURL() string {
	d := c.Domain
	if d == "" {
		d = DefaultDomain
	}
	return fmt.Sprintf("https://%s.%s", c.User, d)
}

// SQLEndpoint returns the resolved SQL API URL.
func (c Config) SQLEndpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return c.baseURL() + sqlPath
}

func (c Config) tokenEndpoint() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return c.baseURL() + "/oauth/token"
}

// Validate checks that the account can be addressed.
func (c Config) Validate() error {
	if c.Endpoint == "" && c.User == "" {
		return fmt.Errorf("%w: carto user or endpoint is required", domain.ErrInvalidConfig)
	}
	if c.APIKey == "" && c.ConsumerKey != "" && (c.User == "" || c.Password == "") {
		return fmt.Errorf("%w: oauth2 login needs user and password", domain.ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the client used for SQL calls and, when it is an
// *http.Client, for the OAuth2 token exchange.
func WithHTTPClient(hc ports.HTTPClient) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// Client runs SQL against one CARTO account. It is safe for concurrent use.
type Client struct {
	endpoint string
	apiKey   string
	client   ports.HTTPClient
	limiter  *rate.Limiter
	logger   ports.Logger
}

// New creates a client. With consumer credentials and no API key it performs
// the OAuth2 password-credentials exchange before returning.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		endpoint: cfg.SQLEndpoint(),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		logger:   log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	if cfg.APIKey == "" && cfg.ConsumerKey != "" {
		if err := c.login(ctx, cfg); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) login(ctx context.Context, cfg Config) error {
	oc := &oauth2.Config{
		ClientID:     cfg.ConsumerKey,
		ClientSecret: cfg.ConsumerSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.tokenEndpoint(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	if hc, ok := c.client.(*http.Client); ok {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	tok, err := oc.PasswordCredentialsToken(ctx, cfg.User, cfg.Password)
	if err != nil {
		return fmt.Errorf("obtain oauth2 token: %w", err)
	}
	// The token source outlives ctx; only the base transport is taken from it.
	c.client = oc.Client(context.WithoutCancel(ctx), tok)
	c.logger.Debug("obtained oauth2 token", ports.String("token_type", tok.Type()))
	return nil
}

// Endpoint returns the SQL API URL the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

// Query posts sql as the q form field. Store-reported errors come back as
// *domain.QueryError; anything else is a transport error.
func (c *Client) Query(ctx context.Context, sql string) (*domain.ResultSet, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	form := url.Values{"q": {sql}}
	if c.apiKey != "" {
		form.Set("api_key", c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Debug("sql call",
		ports.Int("status", resp.StatusCode),
		ports.Int("bytes", len(sql)),
		ports.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode/100 == 2:
		return decodeRows(body)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode/100 != 4:
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, snippet(body))
	}
	if qe := decodeError(resp.StatusCode, body); qe != nil {
		return nil, qe
	}
	return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, snippet(body))
}

func snippet(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// Package gateway provides the provider HTTP client injected into
// API-wrapping skills. It owns request timeouts, retry policy, API-key
// injection and secret redaction so individual skills stay thin
// validate-forward-format wrappers.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/parakeetlabs/skillet/pkg/logger"
)

// Client is the interface skills depend on. Implementations must
// never leak credentials through returned errors.
type Client interface {
	Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error)
	GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error
}

// Config controls the HTTP client behaviour.
type Config struct {
	// Timeout bounds a single request attempt.
	Timeout time.Duration
	// Attempts is the total number of tries, including the first.
	Attempts uint
	// APIKey, when set, is appended to every request as the
	// APIKeyParam query parameter and redacted from errors and logs.
	APIKey      string
	APIKeyParam string
}

// DefaultConfig returns the config used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Timeout:  10 * time.Second,
		Attempts: 3,
	}
}

// Validate checks the config, aggregating every problem found.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.Timeout <= 0 {
		result = multierror.Append(result, errors.New("timeout must be positive"))
	}
	if c.Attempts < 1 {
		result = multierror.Append(result, errors.New("attempts must be at least 1"))
	}
	if c.APIKey != "" && c.APIKeyParam == "" {
		result = multierror.Append(result, errors.New("apiKeyParam is required when apiKey is set"))
	}
	return result.ErrorOrNil()
}

// HTTPClient is the production Client implementation.
type HTTPClient struct {
	config Config
	client *http.Client
}

// New creates an HTTPClient from the given config.
func New(config Config) (*HTTPClient, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid gateway configuration")
	}
	return &HTTPClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Get fetches rawURL with the given query parameters, retrying on
// network failures, 429 and 5xx responses.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(c.redact(err), "invalid gateway url")
	}

	q := u.Query()
	for key, values := range query {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	if c.config.APIKey != "" {
		q.Set(c.config.APIKeyParam, c.config.APIKey)
	}
	u.RawQuery = q.Encode()

	var body []byte
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return errors.Errorf("gateway returned status %d", resp.StatusCode)
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return retry.Unrecoverable(errors.Errorf("gateway returned status %d", resp.StatusCode))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(c.config.Attempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(2*time.Second),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(c.redact(err)).
				WithField("attempt", n+1).
				WithField("max_attempts", c.config.Attempts).
				Warn("retrying gateway request")
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(c.redact(err), "gateway request to %s failed", c.redactString(u.String()))
	}

	return body, nil
}

// GetJSON fetches rawURL and decodes the JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, rawURL string, query url.Values, out any) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "failed to decode gateway response")
	}
	return nil
}

// redact strips the API key from an error before it crosses the
// gateway boundary.
func (c *HTTPClient) redact(err error) error {
	if err == nil || c.config.APIKey == "" {
		return err
	}
	redacted := c.redactString(err.Error())
	if redacted == err.Error() {
		return err
	}
	return errors.New(redacted)
}

func (c *HTTPClient) redactString(s string) string {
	if c.config.APIKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.config.APIKey), "[redacted]")
	return strings.ReplaceAll(s, c.config.APIKey, "[redacted]")
}

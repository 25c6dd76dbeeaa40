package users

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonwraymond/typeahead/observe"
)

const (
	// DefaultBaseURL is the public users API.
	DefaultBaseURL = "https://jsonplaceholder.typicode.com/"

	// DefaultTimeout bounds one request.
	DefaultTimeout = 5 * time.Second

	usersRoute = "users"

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 8 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// Timeout bounds each request. Default: DefaultTimeout.
	Timeout time.Duration

	// HTTPClient sends requests. Its Transport is kept, so credentials
	// from package auth apply. Default: a new client.
	HTTPClient *http.Client

	// Logger defaults to observe.NopLogger().
	Logger observe.Logger
}

// Client lists users from the API.
type Client struct {
	usersURL string
	http     *http.Client
	logger   observe.Logger
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("users: invalid base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("users: base url %q must be http or https", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	hc := &http.Client{}
	if cfg.HTTPClient != nil {
		*hc = *cfg.HTTPClient
	}
	hc.Timeout = cfg.Timeout

	return &Client{
		usersURL: base.ResolveReference(&url.URL{Path: usersRoute}).String(),
		http:     hc,
		logger:   cfg.Logger,
	}, nil
}

// URL returns the listing endpoint.
func (c *Client) URL() string { return c.usersURL }

// List fetches and normalizes the users listing. Failures are *APIError
// or *ParseError.
func (c *Client) List(ctx context.Context) ([]User, error) {
	start := time.Now()

	body, code, err := c.get(ctx)
	if err != nil {
		c.logger.Warn(ctx, "users request failed",
			observe.Field{Key: "url", Value: c.usersURL},
			observe.Field{Key: "duration", Value: time.Since(start)},
			observe.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	env := parseEnvelope(body)
	if code < 200 || code >= 300 {
		apiErr := failure(code, env)
		c.logFailure(ctx, apiErr, start)
		return nil, apiErr
	}
	if out := classify(code, env); !out.success {
		apiErr := &APIError{StatusText: StatusFailed, UserMessage: userMessage(env), StatusCode: code}
		c.logFailure(ctx, apiErr, start)
		return nil, apiErr
	}

	list, err := Normalize(body)
	if err != nil {
		c.logger.Error(ctx, "users response not parseable",
			observe.Field{Key: "url", Value: c.usersURL},
			observe.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	c.logger.Debug(ctx, "users listed",
		observe.Field{Key: "count", Value: len(list)},
		observe.Field{Key: "duration", Value: time.Since(start)},
	)
	return list, nil
}

// Ping lists users and discards the result.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.List(ctx)
	return err
}

func (c *Client) get(ctx context.Context) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.usersURL, nil)
	if err != nil {
		return nil, 0, &APIError{StatusText: StatusNetworkError, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if id := observe.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &APIError{StatusText: StatusNetworkError, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &APIError{StatusText: StatusNetworkError, StatusCode: resp.StatusCode, Err: err}
	}
	return body, resp.StatusCode, nil
}

func (c *Client) logFailure(ctx context.Context, apiErr *APIError, start time.Time) {
	c.logger.Warn(ctx, "users api returned a failure",
		observe.Field{Key: "status_text", Value: apiErr.StatusText},
		observe.Field{Key: "status_code", Value: apiErr.StatusCode},
		observe.Field{Key: "user_message", Value: apiErr.UserMessage},
		observe.Field{Key: "duration", Value: time.Since(start)},
	)
}

// Package splitwise is a typed client for the parts of the Splitwise v3 API
// used by the sync tool: listing and creating expenses, plus the currency
// and category lookups.
//
// Example usage:
//
//	client, err := splitwise.NewClient(splitwise.Config{APIKey: key})
//	if err != nil {
//		return err
//	}
//	expenses, err := client.ListExpenses(ctx, splitwise.ListExpensesRequest{GroupID: &groupID})
package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the official Splitwise API root
const DefaultBaseURL = "https://secure.splitwise.com/api/v3.0/"

// Config configures a Client
type Config struct {
	APIKey    string
	BaseURL   string        // Defaults to DefaultBaseURL
	Timeout   time.Duration // Per-attempt timeout, defaults to 30s
	RetryMax  int           // Retries for read requests; writes are never retried
	RetryWait time.Duration // Minimum backoff between retries, defaults to 1s
	Logger    *slog.Logger
}

// Client talks to the Splitwise API
type Client struct {
	http          *retryablehttp.Client
	baseURL       *url.URL
	authorization string
	logger        *slog.Logger
}

// NewClient creates a client from cfg
func NewClient(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = time.Second
	}

	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = timeout
	httpClient.RetryMax = cfg.RetryMax
	httpClient.RetryWaitMin = retryWait
	httpClient.RetryWaitMax = retryWait * 10
	httpClient.Logger = logger
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		http:          httpClient,
		baseURL:       baseURL,
		authorization: "Bearer " + cfg.APIKey,
		logger:        logger,
	}, nil
}

// BaseURL returns the API root the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// get performs an authenticated GET, retrying transient failures
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint, err := c.endpoint(path, query)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return c.processResponse(resp, out)
}

// post performs an authenticated JSON POST. Writes bypass the retry layer so
// a timed-out create can't be submitted twice.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	endpoint, err := c.endpoint(path, nil)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	return c.processResponse(resp, out)
}

// processResponse decodes a response into out or into an *APIError
func (c *Client) processResponse(resp *http.Response, out interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case http.StatusUnauthorized:
		var decoded errorUnauthorized
		if err := json.Unmarshal(body, &decoded); err != nil || decoded.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: "unauthorized"}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: decoded.Error}
	case http.StatusForbidden, http.StatusNotFound:
		var decoded errorForbiddenOrNotFound
		if err := json.Unmarshal(body, &decoded); err != nil || len(decoded.Errors.Base) == 0 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.Join(decoded.Errors.Base, "; ")}
	default:
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected HTTP status code: %d", resp.StatusCode),
		}
	}
}

// IsUnauthorized reports whether err is a 401 from Splitwise
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

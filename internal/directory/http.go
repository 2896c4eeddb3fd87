package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://openplz.org/de/localities"

// HTTPClient implements Client against the public locality directory REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// HTTPConfig contains configuration for the directory HTTP client.
type HTTPConfig struct {
	BaseURL string        // Optional: defaults to the public directory endpoint
	Timeout time.Duration // Optional: defaults to 10s
	Logger  *slog.Logger  // Optional: defaults to slog.Default()
}

// NewHTTPClient creates a directory client backed by the remote service.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// SearchByName looks up localities matching a (possibly partial) name.
func (c *HTTPClient) SearchByName(ctx context.Context, name string) ([]Locality, error) {
	if name == "" {
		return nil, ErrEmptyQuery
	}
	return c.search(ctx, "name", name)
}

// SearchByPostalCode looks up the localities registered for a postal code.
func (c *HTTPClient) SearchByPostalCode(ctx context.Context, code string) ([]Locality, error) {
	if code == "" {
		return nil, ErrEmptyQuery
	}
	return c.search(ctx, "postalCode", code)
}

func (c *HTTPClient) search(ctx context.Context, param, value string) ([]Locality, error) {
	// User input may contain umlauts and other non-ASCII characters.
	query := url.Values{param: {value}}
	requestURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "param", param, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("directory returned non-OK status",
			"param", param,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	// The service returns a bare list of records, not a wrapped object.
	var localities []Locality
	if err := json.Unmarshal(body, &localities); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	return localities, nil
}

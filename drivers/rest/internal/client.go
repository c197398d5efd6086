package driver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inletio/inlet/constants"
)

// Client wraps the HTTP transport with the error taxonomy the sync loop
// relies on: 429 and 5xx responses come back as plain (retryable) errors,
// any other non-2xx status is wrapped as non-retryable.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

func NewClient(config *Config) *Client {
	return &Client{
		http: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		headers: buildHeaders(config),
	}
}

func buildHeaders(config *Config) map[string]string {
	headers := make(map[string]string, len(config.Headers)+2)
	for key, value := range config.Headers {
		headers[key] = value
	}
	headers["Accept"] = "application/json"
	if config.BearerToken != "" {
		headers["Authorization"] = "Bearer " + config.BearerToken
	}
	return headers
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(params) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request for %s: %s", constants.ErrNonRetryable, endpoint, err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %s", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %s", endpoint, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("request to %s returned status %d: %s", endpoint, resp.StatusCode, truncate(body))
	default:
		return nil, fmt.Errorf("%w: request to %s returned status %d: %s", constants.ErrNonRetryable, endpoint, resp.StatusCode, truncate(body))
	}
}

func truncate(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

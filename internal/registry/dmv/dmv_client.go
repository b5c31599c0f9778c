package dmv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tlcintake/internal/config"
	"tlcintake/internal/port"
)

// Client looks up driver records in the state license registry. The response
// body is passed through untouched so registry schema changes never require
// a code change here.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a registry client from configuration.
func NewClient(cfg *config.RegistryConfig) port.LicenseRegistry {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a registry client against a fixed endpoint.
func NewClientWithEndpoint(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Lookup(ctx context.Context, licenseNumber string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/licenses/%s", c.baseURL, url.PathEscape(licenseNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d: %s", resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("registry returned invalid JSON")
	}
	return json.RawMessage(body), nil
}

package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRugCheckTimeout = 10 * time.Second

// RugCheckClient talks to a rugcheck-style contract scanner over HTTP.
type RugCheckClient struct {
	baseURL string
	client  *http.Client
}

// NewRugCheckClient constructs the client with a bounded request timeout.
func NewRugCheckClient(baseURL string, timeoutMs int) *RugCheckClient {
	timeout := defaultRugCheckTimeout
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return &RugCheckClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Compile-time interface check.
var _ Checker = (*RugCheckClient)(nil)

// Check fetches the scanner report for one contract address.
func (c *RugCheckClient) Check(ctx context.Context, contract string) (*Report, error) {
	endpoint := fmt.Sprintf("%s/v1/tokens/%s/report", c.baseURL, url.PathEscape(contract))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "memescout-go/1.0 (risk)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rugcheck status %d", resp.StatusCode)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}

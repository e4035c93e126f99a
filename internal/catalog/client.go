// Package catalog handles the upstream wine API, snapshot storage and record
// validation: everything between the external data source and the validated
// frame the recommendation pipeline consumes.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultUserAgent = "winereco/1.0"

// Client fetches wine lists per style from the catalog API. Responses are
// kept as raw records so a single malformed record cannot poison a fetch;
// validation happens later, per record.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  defaultUserAgent,
		logger:     logger,
	}
}

// FetchStyle retrieves all raw records for one style. Network failures and
// non-2xx responses are fatal to the caller's snapshot step: no retries.
func (c *Client) FetchStyle(ctx context.Context, style string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, style)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %s", url, resp.StatusCode, body)
	}

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", url, err)
	}

	c.logger.WithFields(logrus.Fields{
		"style": style,
		"count": len(items),
	}).Debug("Fetched wine style")

	return items, nil
}

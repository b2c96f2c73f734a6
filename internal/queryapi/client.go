package queryapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient builds a client for the query API. No timeout is set on the
// underlying http.Client: a hung backend keeps the page in its loading state
// rather than failing early.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query issues GET {base}/query?q={query} and classifies the response:
// HTML content type means the request never reached the API, non-2xx carries
// a recoverable error message, anything else is decoded as an Output.
func (c *Client) Query(ctx context.Context, query string) (*Output, error) {
	requestURL := fmt.Sprintf("%s/query?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.WithFields(logrus.Fields{
		"url":   requestURL,
		"query": query,
	}).Debug("Sending query request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		// Read the body only so a truncated copy lands in the logs; the HTML
		// itself is never surfaced to the page.
		body, _ := io.ReadAll(resp.Body)
		c.logger.WithFields(logrus.Fields{
			"url":          requestURL,
			"status_code":  resp.StatusCode,
			"content_type": contentType,
			"body":         truncate(string(body), 200),
		}).Error("Received HTML instead of an API response")
		return nil, &RoutingError{URL: requestURL, Base: c.baseURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"url":         requestURL,
			"status_code": resp.StatusCode,
			"body":        truncate(string(body), 200),
		}).Warn("Query API returned an error")
		return nil, &BackendError{
			StatusCode: resp.StatusCode,
			Detail:     errorMessage(resp.StatusCode, body),
		}
	}

	var output Output
	if err := json.Unmarshal(body, &output); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &output, nil
}

// errorMessage recovers a display message from a non-2xx body: the JSON
// "detail" field when present, the raw body text otherwise, and the bare
// status code as a last resort.
func errorMessage(status int, body []byte) string {
	var detail errorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return detail.Detail
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}

	return fmt.Sprintf("HTTP %d", status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

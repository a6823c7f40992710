// Package client provides typed HTTP clients for the swarmbase backend API.
// Each resource client wraps the same base URL and speaks JSON to the
// /api/{agents,tools,swarms,frameworks} routes served by swarmbased.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is the shared HTTP layer under the resource clients.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the given base URL. A bare host:port is assumed
// to be plain HTTP.
func New(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the normalized base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiError is the JSON error envelope returned by the backend.
type apiError struct {
	Error string `json:"error"`
}

// do sends a JSON request and decodes the JSON response into out when out is
// non-nil. Non-2xx responses are returned as errors carrying the server's
// error message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Agents returns a client for the agents resource.
func (c *Client) Agents() *AgentsClient { return &AgentsClient{c: c} }

// Tools returns a client for the tools resource.
func (c *Client) Tools() *ToolsClient { return &ToolsClient{c: c} }

// Swarms returns a client for the swarms resource.
func (c *Client) Swarms() *SwarmsClient { return &SwarmsClient{c: c} }

// Frameworks returns a client for the frameworks resource.
func (c *Client) Frameworks() *FrameworksClient { return &FrameworksClient{c: c} }

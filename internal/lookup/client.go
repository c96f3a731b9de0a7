package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rulerankit14/buy-instagram-followers/internal/instagram"
)

const clientTimeout = 15 * time.Second

// HTTPClient talks to the lookup endpoint. The resolution pipeline runs
// server-side behind trusted network egress; this is the controller's only
// way to reach it.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPClient returns a client for the API at baseURL.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientTimeout}
	}
	return &HTTPClient{httpClient: httpClient, baseURL: baseURL}
}

type lookupRequest struct {
	Username string `json:"username"`
}

// Lookup posts the username to the lookup endpoint and decodes the
// classified result. Every classified outcome arrives with HTTP 200; any
// other status is an infrastructure failure and surfaces as an error.
func (c *HTTPClient) Lookup(ctx context.Context, handle string) (instagram.Result, error) {
	body, err := json.Marshal(lookupRequest{Username: handle})
	if err != nil {
		return instagram.Result{}, fmt.Errorf("encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/lookup-profile", bytes.NewReader(body))
	if err != nil {
		return instagram.Result{}, fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return instagram.Result{}, fmt.Errorf("execute lookup request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return instagram.Result{}, fmt.Errorf("lookup request failed: %s", resp.Status)
	}

	var result instagram.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return instagram.Result{}, fmt.Errorf("decode lookup response: %w", err)
	}

	return result, nil
}

// Package instagram resolves whether a handle plausibly exists on Instagram.
// There is no public API for this, and the platform actively differentiates
// automated traffic, so resolution is a best-effort classification of the
// public profile page: fetch it directly, and only when a blocking signal is
// observed retry once through a read-only text proxy.
package instagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rulerankit14/buy-instagram-followers/internal/username"
)

const (
	defaultProfileBaseURL = "https://www.instagram.com"
	defaultProxyBaseURL   = "https://r.jina.ai"
	defaultFetchTimeout   = 8 * time.Second
	maxBodyBytes          = 2 * 1024 * 1024

	// Instagram serves automated-looking clients a login wall, so requests
	// carry a realistic browser signature.
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml"
	acceptLanguage = "en-US,en;q=0.9"
)

// Option provides functional configuration for the Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithEndpoints overrides the profile and proxy base URLs. Useful for testing.
func WithEndpoints(profileBaseURL, proxyBaseURL string) Option {
	return func(r *Resolver) {
		r.profileBaseURL = profileBaseURL
		r.proxyBaseURL = proxyBaseURL
	}
}

// WithFetchTimeout overrides the per-fetch hard timeout.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// Resolver classifies Instagram handles by probing their public profile page.
type Resolver struct {
	httpClient     *http.Client
	logger         *zap.Logger
	profileBaseURL string
	proxyBaseURL   string
	timeout        time.Duration
}

// NewResolver returns a configured Resolver.
func NewResolver(logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resolver{
		logger:         logger,
		profileBaseURL: defaultProfileBaseURL,
		proxyBaseURL:   defaultProxyBaseURL,
		timeout:        defaultFetchTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: defaultFetchTimeout}
	}

	return r
}

// Resolve classifies the given raw username. Every fault — bad input,
// timeout, DNS failure, malformed HTML, proxy failure — is absorbed into a
// Result; Resolve never returns a Go error to its caller.
func (r *Resolver) Resolve(ctx context.Context, raw string) Result {
	handle, err := username.Normalize(raw)
	if err != nil {
		return invalidResult(invalidMessage(err))
	}

	profileURL := fmt.Sprintf("%s/%s/", r.profileBaseURL, handle)

	status, html, err := r.fetch(ctx, profileURL)
	if err != nil {
		// A direct-fetch timeout is a transport failure, not one of the
		// recognised blocking signatures; it never escalates to the proxy.
		r.logger.Warn("direct fetch failed", zap.String("username", handle), zap.Error(err))
		return errorResult()
	}

	switch {
	case status == http.StatusNotFound:
		return notFoundResult(handle)
	case is2xx(status) && MatchesUsername(html, handle):
		return r.found(handle, html, profileURL)
	case isBlockedStatus(status) || (is2xx(status) && LooksBlocked(html)):
		return r.resolveViaProxy(ctx, handle, profileURL)
	default:
		return notFoundResult(handle)
	}
}

// resolveViaProxy retries the profile URL once through the read-through text
// proxy. This is the only retry the pipeline ever makes: one fallback
// attempt, then a definitive classification.
func (r *Resolver) resolveViaProxy(ctx context.Context, handle, profileURL string) Result {
	proxyURL := fmt.Sprintf("%s/%s", r.proxyBaseURL, profileURL)

	status, html, err := r.fetch(ctx, proxyURL)
	if err != nil {
		// The blocking signal already fired and the proxy could not
		// disprove the account's existence either way.
		r.logger.Warn("proxy fetch failed", zap.String("username", handle), zap.Error(err))
		return blockedResult(handle)
	}

	if is2xx(status) && MatchesUsername(html, handle) {
		return r.found(handle, html, profileURL)
	}
	return blockedResult(handle)
}

func (r *Resolver) found(handle, html, profileURL string) Result {
	title := MetaContent(html, "og:title")
	return foundResult(handle, DisplayNameFromTitle(title), MetaContent(html, "og:image"), profileURL)
}

func (r *Resolver) fetch(ctx context.Context, url string) (int, string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, "", fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, string(body), nil
}

func invalidMessage(err error) string {
	switch {
	case errors.Is(err, username.ErrTooLong):
		return "Username must be 30 characters or less"
	case errors.Is(err, username.ErrBadChars):
		return "Only letters, numbers, . and _ allowed"
	default:
		return "Invalid username"
	}
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func isBlockedStatus(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

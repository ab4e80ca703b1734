// Package postcoder is an HTTP client for the Postcoder Web address lookup
// API. It implements ports.AddressLookup.
package postcoder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/address-verification/internal/core/ports"
)

const (
	DefaultBaseURL = "http://ws.postcoder.com"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config captures the settings for talking to Postcoder Web.
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout bounds one request. A default applies when zero.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client implements ports.AddressLookup.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

var _ ports.AddressLookup = (*Client)(nil)

// NewClient returns a Client. The API key is mandatory.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: base,
		http:    hc,
		log:     log.With().Str("component", "postcoder").Logger(),
	}, nil
}

// Lookup sends GET {base}/pcw/{key}/{method}/{country}/{address}.
func (c *Client) Lookup(ctx context.Context, req ports.LookupRequest) (*ports.LookupResponse, error) {
	decode, ok := decoders[req.Method]
	if !ok {
		return nil, newError(CategoryRequest, req.Method, "unsupported lookup method", nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(req), nil)
	if err != nil {
		return nil, newError(CategoryRequest, req.Method, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, newError(CategoryTransport, req.Method, "send request", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", req.Method).
		Str("country", req.Country).
		Int("status_code", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("lookup completed")

	out := &ports.LookupResponse{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return out, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newError(CategoryTransport, req.Method, "read body", err)
	}

	matches, err := decode(body)
	if err != nil {
		return nil, newError(CategoryDecode, req.Method, "malformed response", err)
	}
	out.Matches = matches
	return out, nil
}

// endpoint builds the path-templated URL. The API key and address are
// path-escaped; identifier is only sent when set.
func (c *Client) endpoint(req ports.LookupRequest) string {
	u := fmt.Sprintf("%s/pcw/%s/%s/%s/%s",
		c.baseURL,
		url.PathEscape(c.apiKey),
		req.Method,
		url.PathEscape(req.Country),
		url.PathEscape(req.Address),
	)

	q := url.Values{}
	if req.Lines > 0 {
		q.Set("lines", strconv.Itoa(req.Lines))
	}
	if req.Identifier != "" {
		q.Set("identifier", req.Identifier)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// statusText returns the reason phrase of the reply, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Package rapidapi talks to the "auto-download-all-in-one" extraction API on RapidAPI.
package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/logging"
)

const (
	DefaultHost    = "auto-download-all-in-one.p.rapidapi.com"
	DefaultURL     = "https://" + DefaultHost + "/v1/social/autolink"
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 16 << 20
)

var ErrMissingAPIKey = errors.New("rapidapi key is not specified")

type Options struct {
	APIKey  string
	Host    string
	URL     string
	Timeout time.Duration

	// HTTPClient is used as is when set. Its own Timeout is not touched.
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	host    string
	url     string
	timeout time.Duration
	client  *http.Client
}

func New(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  opts.APIKey,
		host:    opts.Host,
		url:     opts.URL,
		timeout: opts.Timeout,
		client:  opts.HTTPClient,
	}
	if c.host == "" {
		c.host = DefaultHost
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.client == nil {
		c.client = newHTTPClient()
	}
	return c, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type autoLinkRequest struct {
	URL string `json:"url"`
}

type apiError struct {
	Message string `json:"message"`
}

// AutoLink asks the API for the media variants of videoURL and returns its JSON body untouched.
// Every error it returns carries an *app.UserError describing what went wrong.
func (c *Client) AutoLink(ctx context.Context, videoURL string) (json.RawMessage, error) {
	log := logging.FromContextS(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody, err := json.Marshal(autoLinkRequest{URL: videoURL})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	log.Debugw("Extraction API responded",
		"status", resp.StatusCode,
		"body_size", len(body),
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	if !json.Valid(body) {
		return nil, app.NewUserError(app.KindUpstreamParse, "failed to parse API response").
			WithCause(fmt.Errorf("invalid JSON body of %d bytes", len(body)))
	}
	return json.RawMessage(body), nil
}

func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return app.NewUserError(app.KindUpstreamTimeout, fmt.Sprintf("API did not respond within %s", c.timeout)).
			WithCause(err)
	}
	return app.NewUserError(app.KindUpstreamConnection, "failed to connect to API: "+err.Error()).
		WithCause(err)
}

func statusError(status int, body []byte) error {
	cause := fmt.Errorf("unexpected status code: %d", status)
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return app.NewUserError(app.KindUpstreamApplication, apiErr.Message).WithCause(cause)
	}
	return app.NewUserError(app.KindUpstreamApplication, fmt.Sprintf("API returned error %d", status)).
		WithCause(cause)
}

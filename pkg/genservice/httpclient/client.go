// Package httpclient implements genservice.Service against a remote
// generation backend speaking the widget JSON API.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
)

// Endpoint paths of the generation backend.
const (
	GeneratePath = "/api/generate-widget"
	EditPath     = "/api/edit-widget"
	ExamplesPath = "/api/examples"
)

// DefaultTimeout bounds a single round trip. Generation waits on a model, so
// it is generous.
const DefaultTimeout = 60 * time.Second

const maxErrorBody = 4 << 10

// StatusError reports a non-2xx reply.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("httpclient: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("httpclient: unexpected status %d: %s", e.StatusCode, e.Detail)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// Client is a genservice.Service backed by HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

var _ genservice.Service = (*Client)(nil)

// New builds a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("httpclient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("httpclient: base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "widgetgen",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Generate posts a generate request.
func (c *Client) Generate(ctx context.Context, req genservice.GenerateRequest) (genservice.Response, error) {
	if err := req.Validate(); err != nil {
		return genservice.Response{}, err
	}
	var resp genservice.Response
	if err := c.do(ctx, http.MethodPost, GeneratePath, req, &resp); err != nil {
		return genservice.Response{}, err
	}
	return resp, nil
}

// Edit posts an edit request.
func (c *Client) Edit(ctx context.Context, req genservice.EditRequest) (genservice.Response, error) {
	if err := req.Validate(); err != nil {
		return genservice.Response{}, err
	}
	var resp genservice.Response
	if err := c.do(ctx, http.MethodPost, EditPath, req, &resp); err != nil {
		return genservice.Response{}, err
	}
	return resp, nil
}

// Examples fetches the advertised example prompts.
func (c *Client) Examples(ctx context.Context) ([]string, error) {
	var resp genservice.ExamplesResponse
	if err := c.do(ctx, http.MethodGet, ExamplesPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Examples, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return fmt.Errorf("httpclient: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return statusError(res)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read response: %w", err)
	}
	if err := sonic.ConfigStd.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: decode response: %w", err)
	}
	return nil
}

func statusError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	serr := &StatusError{StatusCode: res.StatusCode}

	var detail struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := sonic.ConfigStd.Unmarshal(raw, &detail); err == nil {
		switch d := detail.Detail.(type) {
		case string:
			serr.Detail = d
		case nil:
			serr.Detail = detail.Error
		default:
			serr.Detail = strings.TrimSpace(string(raw))
		}
		return serr
	}
	serr.Detail = strings.TrimSpace(string(raw))
	return serr
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.StatusCode == code
}

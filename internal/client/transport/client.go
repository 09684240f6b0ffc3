// Package transport implements the auth and task gateways over JSON/HTTP.
// Cookies set by the server are kept in a jar so every request carries the
// session.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/tasktrack/tasktrack/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// ErrNetwork marks transport-level failures: the server was not reached or
// the exchange broke off.
var ErrNetwork = errors.New("network error")

// StatusError is a reply the server did answer, but not with success.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; its Jar is replaced when nil.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the task tracker API.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New builds a Client rooted at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("transport: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("transport: unsupported base url %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("transport: cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	return &Client{base: base, http: hc, log: opts.Logger}, nil
}

// envelope is the union of every response shape the API produces.
type envelope struct {
	Success   *bool               `json:"success"`
	Message   string              `json:"message"`
	Error     string              `json:"error"`
	Available *bool               `json:"available"`
	Todos     []domain.Task       `json:"todos"`
	Todo      *domain.Task        `json:"todo"`
	User      *domain.UserProfile `json:"user"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// rejected reports an explicit success:false.
func (e *envelope) rejected() bool {
	return e.Success != nil && !*e.Success
}

type response struct {
	status int
	body   []byte
	env    envelope
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do performs one request. Only transport failures are returned as errors;
// any HTTP status is a response.
func (c *Client) do(ctx context.Context, method string, body any, segments ...string) (*response, error) {
	u := c.base.JoinPath(segments...)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", u.Path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, u.Path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNetwork, u.Path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", u.Path).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	r := &response{status: res.StatusCode, body: bytes.TrimSpace(raw)}
	if len(r.body) > 0 && r.body[0] != '[' {
		if err := json.Unmarshal(r.body, &r.env); err != nil && r.ok() {
			return nil, fmt.Errorf("decode %s response: %w", u.Path, err)
		}
	}
	return r, nil
}

// statusErr converts a non-success response into a *StatusError.
func statusErr(r *response) error {
	return &StatusError{Code: r.status, Message: r.env.message()}
}

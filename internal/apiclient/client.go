// Package apiclient talks to the resume service. Every failure, including a
// success envelope whose data does not have the expected shape, is returned
// as an *Error carrying a message fit for display.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"resume-tailor/internal/shared/envelope"
)

const (
	// DefaultBaseURL is used when RESUME_API_URL is unset.
	DefaultBaseURL = "http://127.0.0.1:8000"
	// BaseURLEnv names the variable that selects the service.
	BaseURLEnv = "RESUME_API_URL"

	maxErrorBody = 1 << 20
)

// BaseURLFromEnv returns RESUME_API_URL or DefaultBaseURL.
func BaseURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv(BaseURLEnv)); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithClock overrides the clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New builds a client for baseURL; an empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer token; an empty token sends none.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request describes one call. authFailure overrides the message for 401/403.
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	accept      string
	authFailure string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path, accept: "application/json"}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("encode request: %w", err)
		}
		req.body = bytes.NewReader(body)
		req.contentType = "application/json"
	}
	return req, nil
}

// send performs the request and maps transport failures and non-2xx statuses to *Error.
// On success the caller owns the response body.
func (c *Client) send(ctx context.Context, r request) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, statusError(resp.StatusCode, body, r.authFailure)
}

func statusError(status int, body []byte, authFailure string) *Error {
	var raw envelope.Raw
	_ = json.Unmarshal(body, &raw)
	serverMsg := strings.TrimSpace(raw.MessageText())
	detail := strings.TrimSpace(envelope.DetailText(raw.Detail))

	pick := func(fallback string, candidates ...string) string {
		for _, c := range candidates {
			if c != "" {
				return c
			}
		}
		return fallback
	}

	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return &Error{Kind: KindValidation, Status: status, Message: pick(MsgValidation, detail, serverMsg)}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if authFailure != "" {
			return &Error{Kind: KindUnauthorized, Status: status, Message: authFailure}
		}
		return &Error{Kind: KindUnauthorized, Status: status, Message: pick(MsgUnauthorized, serverMsg, detail)}
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: pick(MsgNotFound, serverMsg, detail)}
	default:
		return &Error{Kind: KindServer, Status: status, Message: pick(fmt.Sprintf("Server error (status %d). Please try again later.", status), serverMsg, detail)}
	}
}

// shape is implemented by every expected data payload.
type shape interface {
	complete() bool
}

// call performs a JSON request and decodes the envelope's data into T.
func call[T shape](ctx context.Context, c *Client, r request) (T, error) {
	var zero T
	resp, err := c.send(ctx, r)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	var raw envelope.Raw
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return zero, malformed(resp.StatusCode, "", err)
	}
	if raw.Status != envelope.StatusSuccess {
		return zero, malformed(resp.StatusCode, raw.MessageText(), fmt.Errorf("envelope status %q", raw.Status))
	}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return zero, malformed(resp.StatusCode, raw.MessageText(), errors.New("missing data"))
	}
	var data T
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return zero, malformed(resp.StatusCode, raw.MessageText(), err)
	}
	if !data.complete() {
		return zero, malformed(resp.StatusCode, raw.MessageText(), errors.New("missing required keys"))
	}
	return data, nil
}

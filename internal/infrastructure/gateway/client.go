// Package gateway implements the resource gateways over the IMS REST backends.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/ims-console/internal/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	errorBodyLimit = 64 << 10

	// RequestIDHeader is forwarded on every backend call.
	RequestIDHeader = "X-Request-ID"
)

// Error is returned for every failed backend call. Status is zero when the
// request never got a response.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage satisfies domain.Messenger.
func (e *Error) UserMessage() string { return e.Message }

type ctxKey struct{}

// WithRequestID attaches id to ctx so backend calls reuse it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Client issues JSON requests against one backend base URL.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures optional client behaviour.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient builds a client named name (used as the metrics label) for baseURL.
func NewClient(name, baseURL string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// call describes one backend request.
type call struct {
	op          string
	method      string
	path        string
	token       string
	json        any
	body        io.Reader
	contentType string
}

// do sends the request and decodes a 2xx response into out. out may be
// nil, a *string for text bodies, or any JSON target.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues(c.name, cl.op).Observe(time.Since(start).Seconds())
	}()

	body := cl.body
	contentType := cl.contentType
	if cl.json != nil {
		payload, err := json.Marshal(cl.json)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	reqID := requestID(ctx)
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(c.name, cl.op, "transport_error").Inc()
		c.log.Warn().Err(err).Str("op", cl.op).Str("request_id", reqID).Msg("backend unreachable")
		return &Error{Op: cl.op, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayRequestsTotal.WithLabelValues(c.name, cl.op, "http_error").Inc()
		gerr := errorFromResponse(cl.op, resp)
		c.log.Warn().
			Str("op", cl.op).
			Int("status", resp.StatusCode).
			Str("request_id", reqID).
			Msg(gerr.Message)
		return gerr
	}

	metrics.GatewayRequestsTotal.WithLabelValues(c.name, cl.op, "ok").Inc()
	c.log.Debug().Str("op", cl.op).Int("status", resp.StatusCode).Str("request_id", reqID).Msg("backend call")
	return decodeBody(cl.op, resp.Body, out)
}

// Ping reports whether the backend answers at all. Any HTTP response counts
// as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.name, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.name, err)
	}
	resp.Body.Close()
	return nil
}

func decodeBody(op string, r io.Reader, out any) error {
	switch dst := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, r)
		return nil
	case *string:
		raw, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%s: read response: %w", op, err)
		}
		*dst = textMessage(raw)
		return nil
	case *[]byte:
		raw, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("%s: read response: %w", op, err)
		}
		*dst = raw
		return nil
	default:
		if err := json.NewDecoder(r).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
		return nil
	}
}

// errorFromResponse prefers the backend "message" field, then a plain-text
// body, then a generic status line.
func errorFromResponse(op string, resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	msg := backendMessage(raw, resp.Header.Get("Content-Type"))
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}
	return &Error{Op: op, Status: resp.StatusCode, Message: msg}
}

func backendMessage(raw []byte, contentType string) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(trimmed, &obj) == nil {
			if obj.Message != "" {
				return obj.Message
			}
			return obj.Error
		}
	case '"':
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
	case '<':
		return ""
	}
	if strings.Contains(contentType, "html") {
		return ""
	}
	return string(trimmed)
}

// textMessage decodes a text/plain body, unquoting a JSON string if needed.
func textMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if json.Unmarshal(trimmed, &s) == nil {
			return s
		}
	}
	return string(trimmed)
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond. Please try again."
	case errors.Is(err, context.Canceled):
		return "Request canceled."
	default:
		return "Network error: could not reach the server."
	}
}

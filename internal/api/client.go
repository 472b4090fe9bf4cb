package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-web/internal/logger"
	"storefront-web/internal/metrics"
	"storefront-web/internal/model"

	"go.uber.org/zap"
)

// Credentials exposes the session of the visitor in ctx. Several endpoints
// put the user id in their body, so the gateway needs more than the token.
type Credentials interface {
	Token(ctx context.Context) string
	Profile(ctx context.Context) (model.User, bool)
	UserID(ctx context.Context) string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	metrics    *metrics.AppMetrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithMetrics(m *metrics.AppMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		creds:      creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	method string
	body   any
}

func get() requestOptions { return requestOptions{method: http.MethodGet} }

func post(body any) requestOptions {
	return requestOptions{method: http.MethodPost, body: body}
}

// request performs one call and decodes the JSON answer into out whatever the
// HTTP status. Any failure on the way becomes a failure envelope in out.
func (c *Client) request(ctx context.Context, endpoint string, opts requestOptions, out enveloper) {
	timer := metrics.StartTimer()

	if err := c.do(ctx, endpoint, opts, out); err != nil {
		logger.FromCtx(ctx).Warn("api request failed",
			zap.String("endpoint", endpoint),
			zap.String("method", opts.method),
			zap.Error(err),
		)
		*out.envelope() = failure(err.Error())
	}

	c.metrics.RecordGatewayCall(ctx, routeOf(endpoint), out.envelope().Success, timer.Millis())
}

func (c *Client) do(ctx context.Context, endpoint string, opts requestOptions, out any) error {
	var body io.Reader
	if opts.body != nil {
		raw, err := json.Marshal(opts.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, opts.method, c.baseURL+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.creds != nil {
		if token := c.creds.Token(ctx); token != "" {
			req.Header.Set("token", token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func routeOf(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func (c *Client) token(ctx context.Context) string {
	if c.creds == nil {
		return ""
	}
	return c.creds.Token(ctx)
}

func (c *Client) profile(ctx context.Context) (model.User, bool) {
	if c.creds == nil {
		return model.User{}, false
	}
	return c.creds.Profile(ctx)
}

// profileID is the _id of the stored profile, the id most endpoints expect.
func (c *Client) profileID(ctx context.Context) string {
	u, _ := c.profile(ctx)
	return u.ID
}

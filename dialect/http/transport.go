package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/syssam/arangox/dialect"
)

// RequestIDHeader carries the id attached to every request.
const RequestIDHeader = "X-Request-Id"

// Transport is a dialect.Transport over net/http.
type Transport struct {
	client   *http.Client
	username string
	password string
	logger   *zap.Logger
	metrics  *Metrics
	breaker  *gobreaker.CircuitBreaker
	cbConfig *BreakerConfig
	timeout  time.Duration
}

var _ dialect.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		t.client = c
	}
}

// WithTimeout sets the request timeout. A client given with WithClient is
// copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithBasicAuth sets the credentials sent with every request.
func WithBasicAuth(username, password string) Option {
	return func(t *Transport) {
		t.username = username
		t.password = password
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		t.logger = l
	}
}

// WithMetrics records request counts and latencies in m.
func WithMetrics(m *Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithCircuitBreaker guards requests with a circuit breaker.
// Network errors and 5xx answers count as failures.
func WithCircuitBreaker(cfg BreakerConfig) Option {
	return func(t *Transport) {
		t.cbConfig = &cfg
	}
}

// New returns a Transport. The default client times out after 60 seconds.
func New(opts ...Option) *Transport {
	t := &Transport{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.timeout > 0 {
		c := *t.client
		c.Timeout = t.timeout
		t.client = &c
	}
	if t.cbConfig != nil {
		t.breaker = newBreaker(*t.cbConfig, t.logger)
	}
	return t
}

// Get implements dialect.Transport.
func (t *Transport) Get(ctx context.Context, u string, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, http.MethodGet, u, nil, params)
}

// Post implements dialect.Transport.
func (t *Transport) Post(ctx context.Context, u string, body any, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, http.MethodPost, u, body, params)
}

// Put implements dialect.Transport.
func (t *Transport) Put(ctx context.Context, u string, body any, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, http.MethodPut, u, body, params)
}

// Delete implements dialect.Transport.
func (t *Transport) Delete(ctx context.Context, u string, params url.Values) (*dialect.Response, error) {
	return t.do(ctx, http.MethodDelete, u, nil, params)
}

// errServerFailure marks 5xx answers as breaker failures.
var errServerFailure = errors.New("dialect/http: server failure")

func (t *Transport) do(ctx context.Context, method, u string, body any, params url.Values) (*dialect.Response, error) {
	if t.breaker == nil {
		return t.roundTrip(ctx, method, u, body, params)
	}
	var resp *dialect.Response
	_, err := t.breaker.Execute(func() (any, error) {
		var err error
		resp, err = t.roundTrip(ctx, method, u, body, params)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, errServerFailure
		}
		return nil, nil
	})
	if errors.Is(err, errServerFailure) {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (t *Transport) roundTrip(ctx context.Context, method, u string, body any, params url.Values) (*dialect.Response, error) {
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("dialect/http: encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("dialect/http: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}

	start := time.Now()
	res, err := t.client.Do(req)
	if err != nil {
		t.metrics.observe(method, "error", time.Since(start))
		t.logger.Debug("request failed",
			zap.String("request_id", id),
			zap.String("method", method),
			zap.String("url", u),
			zap.Error(err))
		return nil, fmt.Errorf("dialect/http: %s %s: %w", method, u, err)
	}
	defer res.Body.Close()

	t.metrics.observe(method, strconv.Itoa(res.StatusCode), time.Since(start))
	t.logger.Debug("request completed",
		zap.String("request_id", id),
		zap.String("method", method),
		zap.String("url", u),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)))

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("dialect/http: read body: %w", err)
	}
	env := dialect.Envelope{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("dialect/http: decode %s %s (status %d): %w", method, u, res.StatusCode, err)
		}
	}
	return &dialect.Response{StatusCode: res.StatusCode, Body: env}, nil
}

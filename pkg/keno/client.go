// Package keno provides the client for the KENO Energy wholesale catalog
// API: one POST endpoint, the RPC method selected by the request body.
package keno

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultEndpoint is the production vendor endpoint.
const DefaultEndpoint = "https://api.wycena.keno-energy.com"

// Vendor RPC method names.
const (
	MethodGetProductCategories = "GetProductCategories"
	MethodGetProductBase       = "GetProductBase"
)

// Prometheus metrics for vendor requests.
var (
	kenoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keno_requests_total",
		Help: "Total vendor requests by RPC method and outcome",
	}, []string{"method", "status"})

	kenoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keno_request_duration_seconds",
		Help:    "Vendor request duration in seconds by RPC method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	kenoErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keno_errors_total",
		Help: "Total vendor errors by kind",
	}, []string{"kind"})
)

// Config holds the client configuration.
type Config struct {
	// Endpoint is the vendor URL. Required.
	Endpoint string

	// APIKey is the shared credential sent in every RPC body. The client
	// accepts an empty key; the request handler guards the precondition so
	// it can report a configuration error without touching the network.
	APIKey string

	// Timeout bounds each remote call, connection and body included.
	Timeout time.Duration

	// MaxAttempts is the total number of attempts per call, the first one
	// included. 1 disables retries.
	MaxAttempts int

	// InitialBackoff is the backoff before the first retry.
	InitialBackoff time.Duration

	// HTTPClient overrides the transport (for testing). Timeout above still
	// applies per call via context.
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
// Retries default to off: the pipeline above treats a vendor failure as a
// terminal "upstream unavailable" outcome for the request and a warm cache
// entry masks transient outages anyway.
func DefaultConfig(apiKey string) Config {
	return Config{
		Endpoint:       DefaultEndpoint,
		APIKey:         apiKey,
		Timeout:        30 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: 1 * time.Second,
	}
}

// Client talks to the vendor API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new vendor client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		logger:     log.With().Str("component", "keno-client").Logger(),
	}, nil
}

// rpcRequest is the wire shape of every vendor call.
type rpcRequest struct {
	APIKey     string `json:"apikey"`
	Method     string `json:"method"`
	Parameters []any  `json:"parameters"`
}

// rpcEnvelope peeks at the error field before payload decoding. The vendor
// reports application errors inside a 200 response.
type rpcEnvelope struct {
	Errors json.RawMessage `json:"errors"`
}

// FetchCategoryTree retrieves the vendor category forest.
func (c *Client) FetchCategoryTree(ctx context.Context) ([]CategoryNode, error) {
	var payload struct {
		Categories []CategoryNode `json:"categories"`
	}
	if err := c.call(ctx, MethodGetProductCategories, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// FetchProductBase retrieves the full, unfiltered product base.
func (c *Client) FetchProductBase(ctx context.Context) (*ProductBase, error) {
	var payload ProductBase
	if err := c.call(ctx, MethodGetProductBase, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// call performs one vendor RPC with timeout, retry and error classification,
// decoding the successful payload into out.
func (c *Client) call(ctx context.Context, method string, out any) error {
	startTime := time.Now()
	defer func() {
		kenoRequestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	body, err := json.Marshal(rpcRequest{
		APIKey:     c.config.APIKey,
		Method:     method,
		Parameters: []any{},
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	retryCfg := RetryConfig{
		MaxAttempts:       c.config.MaxAttempts,
		InitialBackoff:    c.config.InitialBackoff,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}

	return retryWithBackoff(ctx, c.logger, retryCfg, func() error {
		return c.doOnce(ctx, method, body, out)
	})
}

// doOnce executes a single attempt of one RPC.
func (c *Client) doOnce(ctx context.Context, method string, body []byte, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("method", method).
		Msg("Executing vendor request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts land here as context deadline errors.
		kenoErrorsTotal.WithLabelValues(string(ErrorKindTransport)).Inc()
		kenoRequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.logger.Error().Err(err).Str("method", method).Msg("Vendor request failed")
		return &Error{
			Kind:    ErrorKindTransport,
			Message: "vendor request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kenoErrorsTotal.WithLabelValues(string(ErrorKindTransport)).Inc()
		kenoRequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		c.logger.Warn().
			Str("method", method).
			Int("status_code", resp.StatusCode).
			Msg("Vendor returned non-success status")
		return &Error{
			Kind:       ErrorKindTransport,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("KENO API %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		kenoErrorsTotal.WithLabelValues(string(ErrorKindTransport)).Inc()
		kenoRequestsTotal.WithLabelValues(method, "read_error").Inc()
		return &Error{
			Kind:       ErrorKindTransport,
			StatusCode: resp.StatusCode,
			Message:    "read vendor response",
			Err:        err,
		}
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		kenoErrorsTotal.WithLabelValues(string(ErrorKindApplication)).Inc()
		kenoRequestsTotal.WithLabelValues(method, "decode_error").Inc()
		return &Error{
			Kind:       ErrorKindApplication,
			StatusCode: resp.StatusCode,
			Message:    "decode vendor response",
			Err:        err,
		}
	}
	if msg, ok := applicationError(envelope.Errors); ok {
		kenoErrorsTotal.WithLabelValues(string(ErrorKindApplication)).Inc()
		kenoRequestsTotal.WithLabelValues(method, "application_error").Inc()
		c.logger.Warn().
			Str("method", method).
			Str("error_kind", string(ErrorKindApplication)).
			Msg("Vendor flagged an application error")
		return &Error{
			Kind:       ErrorKindApplication,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		kenoErrorsTotal.WithLabelValues(string(ErrorKindApplication)).Inc()
		kenoRequestsTotal.WithLabelValues(method, "decode_error").Inc()
		return &Error{
			Kind:       ErrorKindApplication,
			StatusCode: resp.StatusCode,
			Message:    "decode vendor payload",
			Err:        err,
		}
	}

	kenoRequestsTotal.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	return nil
}

// applicationError interprets the vendor errors field. The field may be
// absent, JSON null, a string, or something structured; anything non-null
// counts as an error.
func applicationError(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

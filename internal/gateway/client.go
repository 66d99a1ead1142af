// Package gateway is the typed client for the remote REST data gateway, the
// authority for all persisted accounts and transactions. Responses arrive
// wrapped in a {success, message, data} envelope; the envelope is decoded
// and discarded here so the rest of the codebase only ever sees domain types.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/metrics"

	"github.com/sony/gobreaker"
)

// maxResponseBytes caps how much of a gateway response gets buffered.
const maxResponseBytes = 4 << 20

// Config holds gateway client configuration.
type Config struct {
	// BaseURL is the gateway root, e.g. http://localhost:3000/api.
	BaseURL string
	// Timeout applies per request. Defaults to 10s.
	Timeout time.Duration
	// Logger for breaker transitions and request debugging. Defaults to the
	// standard text logger.
	Logger *log.Logger
}

// Client talks to the remote data gateway. All methods take a context and
// return either decoded domain data or a *Error. No automatic retries: the
// user re-triggers failed actions.
type Client struct {
	baseURL string
	httpc   *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *log.Logger
}

// New creates a gateway client. A circuit breaker guards the transport:
// consecutive connection-level failures open it and subsequent calls fail
// fast as unavailable. HTTP-level replies (4xx/5xx) never trip it, they are
// answers, not outages.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.DefaultConfig())
	}
	logger := cfg.Logger.WithComponent(log.ComponentGateway)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"from", from.String(),
				"to", to.String())
		},
	})
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
		logger:  logger,
	}
}

// envelope is the gateway's uniform response wrapper.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// void is the data payload of delete-style responses.
type void struct{}

// healthPayload is the /health data payload.
type healthPayload struct {
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
}

// Health checks gateway reachability. Used by the readiness probe.
func (c *Client) Health(ctx context.Context) error {
	_, err := do[healthPayload](ctx, c, "health", http.MethodGet, "/health", nil, nil)
	return err
}

// do performs one gateway call: marshal body, execute through the circuit
// breaker, decode the envelope, map failures onto the error taxonomy.
func do[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, body any) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return zero, fail(op, &Error{Kind: KindTransport, Op: op, Message: "encode request: " + err.Error()})
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return zero, fail(op, &Error{Kind: KindTransport, Op: op, Message: err.Error()})
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.httpc.Do(req)
	})
	metrics.GatewayDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fail(op, &Error{Kind: KindUnavailable, Op: op, Message: "gateway temporarily unavailable"})
		}
		return zero, fail(op, &Error{Kind: KindTransport, Op: op, Message: err.Error()})
	}

	resp := res.(*http.Response)
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return zero, fail(op, &Error{Kind: KindTransport, Op: op, Message: "read response: " + err.Error()})
	}

	var env envelope[T]
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return zero, fail(op, &Error{Kind: KindNotFound, Status: resp.StatusCode, Op: op,
			Message: messageOr(env.Message, "resource not found")})
	case resp.StatusCode >= 500:
		return zero, fail(op, &Error{Kind: KindInternal, Status: resp.StatusCode, Op: op,
			Message: messageOr(env.Message, "gateway internal error")})
	case resp.StatusCode >= 400, decodeErr == nil && !env.Success:
		return zero, fail(op, &Error{Kind: KindBusiness, Status: resp.StatusCode, Op: op,
			Message: messageOr(env.Message, "request rejected")})
	}
	if decodeErr != nil {
		return zero, fail(op, &Error{Kind: KindTransport, Op: op, Message: "decode response: " + decodeErr.Error()})
	}

	c.logger.DebugContext(ctx, "request completed",
		log.FieldOperation, op,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, time.Since(start).String())
	metrics.GatewayRequests.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return env.Data, nil
}

// fail records the failure metric and returns the error unchanged.
func fail(op string, e *Error) *Error {
	var outcome string
	switch e.Kind {
	case KindNotFound:
		outcome = metrics.OutcomeNotFound
	case KindBusiness:
		outcome = metrics.OutcomeBusiness
	case KindInternal:
		outcome = metrics.OutcomeInternal
	case KindUnavailable:
		outcome = metrics.OutcomeUnavailable
	default:
		outcome = metrics.OutcomeTransport
	}
	metrics.GatewayRequests.WithLabelValues(op, outcome).Inc()
	return e
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) != "" {
		return msg
	}
	return fallback
}

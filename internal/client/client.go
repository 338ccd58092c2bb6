// Package client talks to the recommender backend over HTTP.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/logging"
	"github.com/actuallystonmai/food-swipe/internal/metrics"
)

const maxErrorBodySize = 64 * 1024

type Config struct {
	BaseURL string
	Timeout time.Duration

	// The breaker opens after BreakerFailures consecutive failures and
	// probes again after BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Client struct {
	baseURL  string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker[reply]
	validate *validator.Validate
	log      zerolog.Logger
}

type reply struct {
	status int
	body   []byte
}

func NewClient(cfg Config) *Client {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}
	log := logging.WithComponent("client")

	cb := gobreaker.NewCircuitBreaker[reply](gobreaker.Settings{
		Name:        "recommender",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: isBackendHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.Set(stateValue(to))
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("[client] circuit breaker state change")
		},
	})

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		cb:       cb,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// do sends one request through the breaker. Any non-2xx answer comes back
// as a *StatusError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values) ([]byte, error) {
	start := time.Now()

	r, err := c.cb.Execute(func() (reply, error) {
		return c.send(ctx, method, path, query)
	})

	status := "error"
	if r.status != 0 {
		status = strconv.Itoa(r.status)
	}
	metrics.RemoteRequestDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrRemoteUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return r.body, nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values) (reply, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return reply{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return reply{status: resp.StatusCode}, &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(bytes.TrimSpace(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return reply{status: resp.StatusCode}, fmt.Errorf("read response: %w", err)
	}
	return reply{status: resp.StatusCode, body: body}, nil
}

// isBackendHealthy decides which errors count against the breaker. Client
// errors and caller cancellation say nothing about the backend's health.
func isBackendHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status < http.StatusInternalServerError
	}
	return false
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	}
	return 0
}

func sessionPath(route, token string) string {
	return "/" + route + "/" + url.PathEscape(token)
}

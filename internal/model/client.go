// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

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

	"golang.org/x/time/rate"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/observability"
	"meddoc-anonymizer/internal/resilience"
)

const maxResponseBytes = 8 << 20

// ClientConfig configures the HTTP model client.
type ClientConfig struct {
	Endpoint          string        // Base URL; requests go to <Endpoint>/extract
	Timeout           time.Duration // Per-attempt HTTP timeout
	RequestsPerSecond float64       // Zero disables rate limiting
	Burst             int
	Retry             resilience.RetryConfig
	Breaker           resilience.BreakerConfig
}

// DefaultClientConfig returns the client settings used when only an
// endpoint is configured.
func DefaultClientConfig(endpoint string) ClientConfig {
	return ClientConfig{
		Endpoint:          endpoint,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 20,
		Burst:             5,
		Retry:             resilience.ModelRetryConfig(),
		Breaker:           resilience.DefaultBreakerConfig("model"),
	}
}

// Client calls the model sidecar over HTTP. It is safe for concurrent use.
type Client struct {
	url      string
	http     *http.Client
	limiter  *rate.Limiter
	retry    resilience.RetryConfig
	breaker  *resilience.Breaker
	observer *observability.StandardObserver
}

type extractRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type extractResponse struct {
	Entities   []detector.ModelSpan `json:"entities"`
	OffsetUnit string               `json:"offset_unit"`
}

// NewClient creates a client for cfg.Endpoint.
func NewClient(cfg ClientConfig, observer *observability.StandardObserver) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("model client: %w: empty endpoint", detector.ErrInvalidInput)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	breakerCfg := cfg.Breaker
	breakerCfg.OnStateChange = func(name string, from, to resilience.BreakerState) {
		observer.Warn("model_client", "circuit breaker state change", map[string]interface{}{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		})
	}

	retry := cfg.Retry
	retry.OnRetry = func(attempt int, err error) {
		observer.Debug("model_client", "retrying model call", map[string]interface{}{
			"attempt":    attempt,
			"error_type": resilience.ClassifyError(err).Type.String(),
		})
	}

	return &Client{
		url:      endpoint + "/extract",
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(limit, burst),
		retry:    retry,
		breaker:  resilience.NewBreaker(breakerCfg),
		observer: observer,
	}, nil
}

// ExtractEntities implements Extractor. Every failure wraps
// detector.ErrModelUnavailable.
func (c *Client) ExtractEntities(ctx context.Context, text, language string) ([]detector.ModelSpan, error) {
	finishTiming := c.observer.StartTiming("model_client", "extract", language)

	resp, err := resilience.RetryWithResult(ctx, c.retry, func(ctx context.Context) (*extractResponse, error) {
		var out *extractResponse
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var callErr error
			out, callErr = c.call(ctx, text, language)
			return callErr
		})
		return out, err
	})
	if err != nil {
		stats := c.breaker.Stats()
		finishTiming(false, map[string]interface{}{
			"error_type":           resilience.ClassifyError(err).Type.String(),
			"breaker_state":        stats.StateName,
			"consecutive_failures": stats.ConsecutiveFailures,
			"breaker_rejected":     stats.Rejected,
		})
		return nil, wrapUnavailable(err)
	}

	spans, dropped := normalizeSpans(detector.NewText(text), resp.Entities, resp.OffsetUnit)
	if dropped > 0 {
		c.observer.Warn("model_client", "dropped malformed model spans", map[string]interface{}{
			"dropped":     dropped,
			"offset_unit": resp.OffsetUnit,
		})
	}
	finishTiming(true, map[string]interface{}{"span_count": len(spans)})
	return spans, nil
}

// BreakerStats reports the circuit breaker state for diagnostics.
func (c *Client) BreakerStats() resilience.BreakerStats {
	return c.breaker.Stats()
}

func (c *Client) call(ctx context.Context, text, language string) (*extractResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(extractRequest{Text: text, Language: language})
	if err != nil {
		return nil, resilience.NewPermanentError("marshal model request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, resilience.NewPermanentError("build model request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxResponseBytes))
		return nil, resilience.ClassifyHTTPStatus(httpResp.StatusCode, nil)
	}

	var out extractResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&out); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, resilience.NewTransientError("truncated model response", err)
		}
		return nil, resilience.NewPermanentError("decode model response", err)
	}
	switch out.OffsetUnit {
	case "":
		out.OffsetUnit = OffsetUnitChar
	case OffsetUnitByte, OffsetUnitChar:
	default:
		return nil, resilience.NewPermanentError(fmt.Sprintf("unknown offset unit %q", out.OffsetUnit), nil)
	}
	return &out, nil
}

func wrapUnavailable(err error) error {
	if errors.Is(err, detector.ErrModelUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", detector.ErrModelUnavailable, err)
}

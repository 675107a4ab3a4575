package model

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/modelarena/go-arena/internal/ports"
)

// timeoutModel enforces a per-request deadline so a slow provider cannot
// stall a whole evaluation batch.
type timeoutModel struct {
	next    CoreModel
	timeout time.Duration
}

// TimeoutMiddleware bounds each request with its own deadline, layered
// under any deadline already on the incoming context.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreModel) CoreModel {
		return &timeoutModel{next: next, timeout: timeout}
	}
}

func (t *timeoutModel) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Complete(ctx, prompt)
}

func (t *timeoutModel) Model() string { return t.next.Model() }

// retryModel retries transient failures with exponential backoff.
type retryModel struct {
	next       CoreModel
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// RetryMiddleware retries failed requests with exponential backoff and
// jitter. Non-retryable provider errors (authentication, bad request) and
// context cancellation stop the loop immediately.
func RetryMiddleware(maxRetries int, baseDelay, maxDelay time.Duration) Middleware {
	return func(next CoreModel) CoreModel {
		return &retryModel{
			next:       next,
			maxRetries: maxRetries,
			baseDelay:  baseDelay,
			maxDelay:   maxDelay,
		}
	}
}

func (r *retryModel) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		response, err := r.next.Complete(ctx, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return "", fmt.Errorf("request failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *retryModel) Model() string { return r.next.Model() }

// backoff computes an exponential delay with ±25% jitter, capped at
// maxDelay.
func (r *retryModel) backoff(attempt int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	delay := time.Duration(float64(r.baseDelay) * float64(int64(1)<<uint(attempt)))

	jitter := time.Duration(rand.Float64() * float64(delay) * 0.5)
	delay = delay + jitter - delay/4

	if delay > r.maxDelay {
		delay = r.maxDelay
	}
	return delay
}

// isRetryable treats classified transient errors as retryable and
// unclassified errors as retryable too, since network-level failures often
// arrive unwrapped.
func isRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}
	return true
}

// rateLimitedModel paces requests with a token bucket so the harness stays
// inside provider quotas even at full task concurrency.
type rateLimitedModel struct {
	next    CoreModel
	limiter *rate.Limiter
}

// RateLimitMiddleware enforces a sustained requests-per-second limit with
// a burst allowance. The limiter is shared across every wrapped call, so
// concurrent instance workers collectively respect one budget.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)
	return func(next CoreModel) CoreModel {
		return &rateLimitedModel{next: next, limiter: limiter}
	}
}

func (r *rateLimitedModel) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}

func (r *rateLimitedModel) Model() string { return r.next.Model() }

// metricsModel records inference latency and outcome counts.
type metricsModel struct {
	next      CoreModel
	collector ports.MetricsCollector
}

// MetricsMiddleware records per-request latency and success/error counts
// against the given collector, labeled by model.
func MetricsMiddleware(collector ports.MetricsCollector) Middleware {
	return func(next CoreModel) CoreModel {
		return &metricsModel{next: next, collector: collector}
	}
}

func (m *metricsModel) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	response, err := m.next.Complete(ctx, prompt)

	labels := map[string]string{"model": m.next.Model()}
	m.collector.RecordLatency("model_inference", time.Since(start), labels)
	if err != nil {
		m.collector.RecordCounter("model_inference_errors_total", 1, labels)
	} else {
		m.collector.RecordCounter("model_inference_total", 1, labels)
	}

	return response, err
}

func (m *metricsModel) Model() string { return m.next.Model() }

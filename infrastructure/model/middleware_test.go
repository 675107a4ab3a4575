package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutMiddleware(t *testing.T) {
	mock := NewMockCoreModel()
	mock.Delay = 200 * time.Millisecond

	client := NewClientFromCore(mock, TimeoutMiddleware(20*time.Millisecond))

	_, err := client.Infer(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryMiddleware_EventualSuccess(t *testing.T) {
	mock := NewMockCoreModel()
	mock.FailUntilAttempt = 2

	client := NewClientFromCore(mock, RetryMiddleware(3, time.Millisecond, 10*time.Millisecond))

	got, err := client.Infer(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "test response", got)
	assert.Equal(t, 3, mock.Calls())
}

func TestRetryMiddleware_ExhaustsAttempts(t *testing.T) {
	mock := NewMockCoreModel()
	mock.Err = NewProviderError("mock", ErrorTypeServerError, 500, "down", nil)

	client := NewClientFromCore(mock, RetryMiddleware(2, time.Millisecond, 10*time.Millisecond))

	_, err := client.Infer(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, mock.Calls())
}

func TestRetryMiddleware_NonRetryableStopsImmediately(t *testing.T) {
	mock := NewMockCoreModel()
	mock.Err = NewProviderError("mock", ErrorTypeAuthentication, 401, "bad key", nil)

	client := NewClientFromCore(mock, RetryMiddleware(3, time.Millisecond, 10*time.Millisecond))

	_, err := client.Infer(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, 1, mock.Calls())

	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrorTypeAuthentication, pe.Type)
}

func TestRetryMiddleware_RespectsCancellation(t *testing.T) {
	mock := NewMockCoreModel()
	mock.Err = NewProviderError("mock", ErrorTypeServerError, 503, "down", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClientFromCore(mock, RetryMiddleware(5, 100*time.Millisecond, time.Second))

	_, err := client.Infer(ctx, "p")
	require.Error(t, err)
	assert.Equal(t, 1, mock.Calls())
}

func TestRateLimitMiddleware_PacesRequests(t *testing.T) {
	mock := NewMockCoreModel()

	// 50 rps with burst 1: the second request must wait ~20ms.
	client := NewClientFromCore(mock, RateLimitMiddleware(50, 1))
	ctx := context.Background()

	start := time.Now()
	_, err := client.Infer(ctx, "first")
	require.NoError(t, err)
	_, err = client.Infer(ctx, "second")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestRateLimitMiddleware_CancelledWait(t *testing.T) {
	mock := NewMockCoreModel()
	client := NewClientFromCore(mock, RateLimitMiddleware(1, 1))
	ctx, cancel := context.WithCancel(context.Background())

	_, err := client.Infer(ctx, "first")
	require.NoError(t, err)

	cancel()
	_, err = client.Infer(ctx, "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

// recordingCollector captures metric calls for assertions.
type recordingCollector struct {
	latencies  []string
	counters   []string
	histograms []string
}

func (r *recordingCollector) RecordLatency(operation string, _ time.Duration, _ map[string]string) {
	r.latencies = append(r.latencies, operation)
}

func (r *recordingCollector) RecordCounter(metric string, _ float64, _ map[string]string) {
	r.counters = append(r.counters, metric)
}

func (r *recordingCollector) RecordHistogram(metric string, _ float64, _ map[string]string) {
	r.histograms = append(r.histograms, metric)
}

func TestMetricsMiddleware(t *testing.T) {
	collector := &recordingCollector{}
	mock := NewMockCoreModel()

	client := NewClientFromCore(mock, MetricsMiddleware(collector))

	_, err := client.Infer(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, []string{"model_inference"}, collector.latencies)
	assert.Equal(t, []string{"model_inference_total"}, collector.counters)

	mock.Err = NewProviderError("mock", ErrorTypeServerError, 500, "down", nil)
	_, err = client.Infer(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, collector.counters, "model_inference_errors_total")
}

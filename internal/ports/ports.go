// Package ports defines the interfaces that form the contract between the
// domain/orchestration layers and the infrastructure layer. These interfaces
// enable dependency inversion and make the harness testable.
package ports

import (
	"context"
	"time"

	"github.com/modelarena/go-arena/internal/domain"
)

// ModelClient invokes a candidate model. The model is an external
// collaborator: it may be a network RPC endpoint or a local process.
// Implementations should handle provider-specific authentication and
// request formatting; the orchestrator performs no retry of its own beyond
// the per-instance timeout fallback to a 0.0 score.
type ModelClient interface {
	// Infer sends a prompt to the candidate model and returns the raw
	// completion text. The context carries the per-instance deadline.
	Infer(ctx context.Context, prompt string) (string, error)
}

// DatasetGenerator produces task instances for a named task. Generation is
// deterministic for identical (taskID, seed, count) so that a run can be
// reproduced from its recorded seed. Implementations may be slow or
// network-bound; callers must not assume low-latency return and should
// pass a cancellable context.
type DatasetGenerator interface {
	// Generate returns count instances for the task. It returns a
	// *domain.GenerationError when the task id is unknown or count
	// exceeds the generator's supported range.
	Generate(ctx context.Context, taskID string, seed int64, count int) ([]domain.TaskInstance, error)
}

// Evaluator scores a single model response against one instance's ground
// truth. Implementations are pure, synchronous, and side-effect-free, and
// must never fail on malformed model output: an unparseable answer maps to
// 0.0 rather than an error, so one bad completion never aborts a batch.
type Evaluator interface {
	// Kind returns the evaluator variant identifier.
	Kind() domain.EvaluatorKind

	// Score returns a metric in [0,1] for the response.
	Score(response domain.ModelResponse, instance domain.TaskInstance) float64
}

// MetricsCollector abstracts operational metrics so the orchestrator does
// not depend on a concrete backend. The Prometheus implementation lives in
// infrastructure/metrics.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, e.g. score
	// distributions.
	RecordHistogram(metric string, value float64, labels map[string]string)
}

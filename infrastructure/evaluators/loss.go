package evaluators

import (
	"math"
	"strconv"
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

var _ ports.Evaluator = (*LossEvaluator)(nil)

// LossEvaluator supports legacy loss-based competitions in which the
// "response" is a raw non-negative loss value rather than generated text.
// Mixing unnormalized loss scales into the weighted sum would break the
// uniform [0,1] metric space, so the raw loss is mapped through the fixed
// monotonic transform score = 1/(1+loss): loss 0 scores 1.0 and the score
// decreases strictly toward 0 as loss grows.
type LossEvaluator struct{}

// NewLossEvaluator creates a LossEvaluator.
// The evaluator is stateless and safe for concurrent use.
func NewLossEvaluator() *LossEvaluator {
	return &LossEvaluator{}
}

// Kind returns domain.EvaluatorLoss.
func (e *LossEvaluator) Kind() domain.EvaluatorKind {
	return domain.EvaluatorLoss
}

// Score parses the response as a float loss and maps it into [0,1].
// Unparseable, negative, NaN, or infinite losses score 0.0, never an error.
func (e *LossEvaluator) Score(response domain.ModelResponse, _ domain.TaskInstance) float64 {
	raw := strings.TrimSpace(response.RawOutput)
	if raw == "" {
		return 0.0
	}

	loss, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.0
	}
	if loss < 0 || math.IsNaN(loss) || math.IsInf(loss, 0) {
		return 0.0
	}

	return clamp01(1.0 / (1.0 + loss))
}

package evaluators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelarena/go-arena/internal/domain"
)

func TestLossEvaluator_Score(t *testing.T) {
	eval := NewLossEvaluator()
	instance := domain.TaskInstance{TaskID: "fineweb"}

	tests := []struct {
		name   string
		output string
		want   float64
	}{
		{name: "zero loss is perfect", output: "0", want: 1.0},
		{name: "unit loss", output: "1.0", want: 0.5},
		{name: "padded value", output: "  3.0\n", want: 0.25},
		{name: "unparseable", output: "loss: 1.0", want: 0.0},
		{name: "negative loss", output: "-1.0", want: 0.0},
		{name: "nan", output: "NaN", want: 0.0},
		{name: "infinity", output: "+Inf", want: 0.0},
		{name: "empty", output: "", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := domain.ModelResponse{RawOutput: tt.output}
			assert.InDelta(t, tt.want, eval.Score(resp, instance), 1e-9)
		})
	}
}

// The loss mapping must be strictly monotonic: a lower loss always scores
// at least as high as a higher one.
func TestLossEvaluator_Monotonic(t *testing.T) {
	eval := NewLossEvaluator()
	instance := domain.TaskInstance{}

	prev := 2.0
	for _, raw := range []string{"0", "0.5", "1", "2", "10", "1000"} {
		score := eval.Score(domain.ModelResponse{RawOutput: raw}, instance)
		assert.Less(t, score, prev, "loss %s should score below the previous, smaller loss", raw)
		assert.GreaterOrEqual(t, score, 0.0)
		prev = score
	}
}

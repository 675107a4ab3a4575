package evaluators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/modelarena/go-arena/internal/domain"
)

func TestMultipleChoiceEvaluator_Score(t *testing.T) {
	eval := NewMultipleChoiceEvaluator()

	instance := domain.TaskInstance{
		ID:             "mmlu-0",
		TaskID:         "mmlu",
		Prompt:         "What is the capital of France?",
		ExpectedAnswer: "B",
		Choices:        []string{"London", "Paris", "Berlin", "Madrid"},
	}

	tests := []struct {
		name   string
		output string
		want   float64
	}{
		{name: "bare letter", output: "B", want: 1.0},
		{name: "lowercase letter", output: "b", want: 1.0},
		{name: "padded letter", output: "  b  ", want: 1.0},
		{name: "letter with parenthesis", output: "B)", want: 1.0},
		{name: "letter with period", output: "B.", want: 1.0},
		{name: "letter with option text", output: "B) Paris", want: 1.0},
		{name: "full choice text", output: "Paris", want: 1.0},
		{name: "answer followed by reasoning lines", output: "\nB\nbecause it is the capital", want: 1.0},
		{name: "wrong letter", output: "C", want: 0.0},
		{name: "wrong choice text", output: "Berlin", want: 0.0},
		{name: "empty output", output: "", want: 0.0},
		{name: "whitespace only", output: "   \n\t", want: 0.0},
		{name: "rambling output", output: "The answer could be many things", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := domain.ModelResponse{InstanceID: instance.ID, RawOutput: tt.output}
			assert.Equal(t, tt.want, eval.Score(resp, instance))
		})
	}
}

// The first non-empty line is what gets parsed, so a preamble line that is
// not the answer scores 0.0 while a leading blank line is skipped.
func TestMultipleChoiceEvaluator_FirstLineWins(t *testing.T) {
	eval := NewMultipleChoiceEvaluator()
	instance := domain.TaskInstance{ExpectedAnswer: "A", Choices: []string{"yes", "no"}}

	resp := domain.ModelResponse{RawOutput: "\n\n  A  \n"}
	assert.Equal(t, 1.0, eval.Score(resp, instance))
}

func TestMultipleChoiceEvaluator_NormalizationSymmetry(t *testing.T) {
	eval := NewMultipleChoiceEvaluator()

	// score("A", " a ") == score("A", "A") == 1.0 under case/whitespace
	// normalization; score("A", "B") == 0.0.
	upper := domain.TaskInstance{ExpectedAnswer: "A"}
	assert.Equal(t, 1.0, eval.Score(domain.ModelResponse{RawOutput: " a "}, upper))
	assert.Equal(t, 1.0, eval.Score(domain.ModelResponse{RawOutput: "A"}, upper))
	assert.Equal(t, 0.0, eval.Score(domain.ModelResponse{RawOutput: "B"}, upper))

	padded := domain.TaskInstance{ExpectedAnswer: " a "}
	assert.Equal(t, 1.0, eval.Score(domain.ModelResponse{RawOutput: "A"}, padded))
}

func TestMultipleChoiceEvaluator_EmptyExpected(t *testing.T) {
	eval := NewMultipleChoiceEvaluator()
	instance := domain.TaskInstance{ExpectedAnswer: "   "}
	assert.Equal(t, 0.0, eval.Score(domain.ModelResponse{RawOutput: "A"}, instance))
}

func TestMultipleChoiceEvaluator_Kind(t *testing.T) {
	assert.Equal(t, domain.EvaluatorMultipleChoice, NewMultipleChoiceEvaluator().Kind())
}

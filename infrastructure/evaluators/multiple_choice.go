package evaluators

import (
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

var _ ports.Evaluator = (*MultipleChoiceEvaluator)(nil)

// MultipleChoiceEvaluator scores a discriminative multiple-choice response.
// The score is binary: 1.0 when the selected option matches the expected
// option after whitespace trimming and Unicode case folding, 0.0 otherwise.
// Multiple choice is discrete, so there is no partial credit.
//
// The evaluator tolerates the common completion shapes models produce for
// lettered questions: a bare option letter ("B"), a letter with punctuation
// ("B).", "(b)"), or the letter followed by the option text ("B) Paris").
// When the instance carries choices, a response that equals the full text of
// exactly one choice is resolved to that choice's letter.
type MultipleChoiceEvaluator struct{}

// NewMultipleChoiceEvaluator creates a MultipleChoiceEvaluator.
// The evaluator is stateless and safe for concurrent use.
func NewMultipleChoiceEvaluator() *MultipleChoiceEvaluator {
	return &MultipleChoiceEvaluator{}
}

// Kind returns domain.EvaluatorMultipleChoice.
func (e *MultipleChoiceEvaluator) Kind() domain.EvaluatorKind {
	return domain.EvaluatorMultipleChoice
}

// Score returns 1.0 on a normalized exact match of the selected option
// against instance.ExpectedAnswer, else 0.0. Malformed or empty output
// scores 0.0, never an error.
func (e *MultipleChoiceEvaluator) Score(response domain.ModelResponse, instance domain.TaskInstance) float64 {
	expected := normalizeAnswer(instance.ExpectedAnswer)
	if expected == "" {
		return 0.0
	}

	selected := extractSelectedOption(response.RawOutput, instance.Choices)
	if selected == "" {
		return 0.0
	}

	if normalizeAnswer(selected) == expected {
		return 1.0
	}
	return 0.0
}

// normalizeAnswer trims whitespace and applies Unicode-aware case folding.
// Folding rather than strings.ToLower handles characters beyond ASCII
// correctly.
func normalizeAnswer(s string) string {
	return foldString(strings.TrimSpace(s))
}

// extractSelectedOption pulls the option the model selected out of its raw
// completion. It takes the first non-empty line, strips surrounding
// punctuation, and reduces "B) Paris" style answers to their leading letter.
// When choices are provided and the response matches a choice's full text,
// the corresponding letter is returned instead.
func extractSelectedOption(raw string, choices []string) string {
	line := firstNonEmptyLine(raw)
	if line == "" {
		return ""
	}

	// A response quoting a full choice text resolves to that choice's
	// letter ("A", "B", ...).
	normalized := normalizeAnswer(line)
	for i, choice := range choices {
		if normalizeAnswer(choice) == normalized && i < 26 {
			return string(rune('A' + i))
		}
	}

	trimmed := strings.TrimFunc(line, func(r rune) bool {
		switch r {
		case '(', ')', '[', ']', '.', ':', '"', '\'', ' ', '\t':
			return true
		}
		return false
	})

	// "B) Paris" or "B. Paris" reduces to the leading letter when the
	// remainder is separated by option punctuation.
	if len(trimmed) > 1 {
		if sep := strings.IndexAny(trimmed, ").:"); sep == 1 {
			trimmed = trimmed[:1]
		}
	}

	return trimmed
}

// firstNonEmptyLine returns the first line of raw that contains
// non-whitespace content.
func firstNonEmptyLine(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

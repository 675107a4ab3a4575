package evaluators

import (
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

var _ ports.Evaluator = (*WordSortingEvaluator)(nil)

// WordSortingEvaluator scores a generative word-sorting response against
// the expected alphabetically sorted sequence. The score is the longest
// common subsequence between the model's word order and the expected order,
// normalized by the expected length and clamped to [0,1].
//
// LCS rewards partial correctness: sorting mistakes are typically local
// transpositions, which leave most of the sequence in correct relative
// order, so all-or-nothing matching would be needlessly harsh.
type WordSortingEvaluator struct{}

// NewWordSortingEvaluator creates a WordSortingEvaluator.
// The evaluator is stateless and safe for concurrent use.
func NewWordSortingEvaluator() *WordSortingEvaluator {
	return &WordSortingEvaluator{}
}

// Kind returns domain.EvaluatorWordSorting.
func (e *WordSortingEvaluator) Kind() domain.EvaluatorKind {
	return domain.EvaluatorWordSorting
}

// Score returns the LCS ratio of the response's word sequence against the
// expected sorted sequence. Malformed or empty output scores 0.0.
func (e *WordSortingEvaluator) Score(response domain.ModelResponse, instance domain.TaskInstance) float64 {
	expected := splitWords(instance.ExpectedAnswer)
	if len(expected) == 0 {
		return 0.0
	}

	produced := splitWords(response.RawOutput)
	if len(produced) == 0 {
		return 0.0
	}

	lcs := longestCommonSubsequence(produced, expected)
	return clamp01(float64(lcs) / float64(len(expected)))
}

// splitWords tokenizes a word sequence, folding case and dropping
// punctuation separators so that "apple, Banana" and "apple banana"
// compare equal.
func splitWords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', ';':
			return true
		}
		return false
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := foldString(strings.Trim(f, ".\"'"))
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// longestCommonSubsequence computes the LCS length of two word sequences
// using the standard two-row dynamic program.
func longestCommonSubsequence(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

package evaluators

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

var _ ports.Evaluator = (*FuzzyMatchEvaluator)(nil)

// FuzzyMatchEvaluator scores free-form output by Levenshtein similarity
// against the expected answer, producing a metric in [0,1] where 1.0 is an
// exact match. Similarity below the configured threshold scores 0.0 to
// filter weak matches.
type FuzzyMatchEvaluator struct {
	config FuzzyMatchConfig
}

// FuzzyMatchConfig defines the configuration parameters for the
// FuzzyMatchEvaluator.
type FuzzyMatchConfig struct {
	// Threshold is the minimum similarity treated as a match, in [0,1].
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gte=0,lte=1"`

	// CaseSensitive controls whether comparison preserves case.
	// When false, both strings are Unicode case folded first.
	CaseSensitive bool `yaml:"case_sensitive" json:"case_sensitive"`
}

// DefaultFuzzyMatchConfig returns a FuzzyMatchConfig with sensible
// defaults: case-insensitive matching with a 0.5 threshold.
func DefaultFuzzyMatchConfig() FuzzyMatchConfig {
	return FuzzyMatchConfig{
		Threshold:     0.5,
		CaseSensitive: false,
	}
}

// NewFuzzyMatchEvaluator creates a FuzzyMatchEvaluator with validated
// configuration. The evaluator is stateless after construction and safe
// for concurrent use.
func NewFuzzyMatchEvaluator(config FuzzyMatchConfig) (*FuzzyMatchEvaluator, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &FuzzyMatchEvaluator{config: config}, nil
}

// Kind returns domain.EvaluatorFuzzyMatch.
func (e *FuzzyMatchEvaluator) Kind() domain.EvaluatorKind {
	return domain.EvaluatorFuzzyMatch
}

// Score returns the normalized Levenshtein similarity of the response
// against the expected answer, or 0.0 when below the threshold. Malformed
// or empty output scores 0.0.
func (e *FuzzyMatchEvaluator) Score(response domain.ModelResponse, instance domain.TaskInstance) float64 {
	expected := e.prepare(instance.ExpectedAnswer)
	if expected == "" {
		return 0.0
	}

	produced := e.prepare(response.RawOutput)
	if produced == "" {
		return 0.0
	}

	similarity := e.similarity(produced, expected)
	if similarity < e.config.Threshold {
		return 0.0
	}
	return clamp01(similarity)
}

func (e *FuzzyMatchEvaluator) prepare(s string) string {
	s = strings.TrimSpace(s)
	if !e.config.CaseSensitive {
		s = foldString(s)
	}
	return s
}

// similarity computes 1 - distance/maxRuneLen. The levenshtein library
// operates on runes, so the normalization divisor must be a rune count as
// well: "café" is four runes but five bytes.
func (e *FuzzyMatchEvaluator) similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	return clamp01(1.0 - float64(distance)/float64(maxLen))
}

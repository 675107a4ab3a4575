// Package evaluators provides the scoring rule variants of the evaluation
// harness. Each evaluator maps one model response and one task instance to
// a metric in [0,1].
//
// Evaluators are pure, synchronous, and side-effect-free, and are safe for
// concurrent use. They never fail on malformed model output: an answer that
// cannot be parsed scores 0.0 rather than returning an error, so a single
// bad completion never aborts an evaluation batch.
package evaluators

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

// Common errors returned by evaluator constructors.
var (
	// ErrUnknownEvaluatorKind is returned by ForKind for a kind outside
	// the closed variant set.
	ErrUnknownEvaluatorKind = errors.New("unknown evaluator kind")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// foldString applies Unicode case folding with a caser constructed per
// call. A cases.Caser may be stateful and must not be shared between
// goroutines, and Score is invoked concurrently by instance workers, so
// evaluators never hoist a caser into shared state.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// Params carries the optional per-kind tuning knobs accepted by ForKind.
// The zero value selects each evaluator's defaults.
type Params struct {
	// FuzzyThreshold is the minimum similarity treated as a match by the
	// fuzzy_match evaluator. Zero selects the default.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold" validate:"gte=0,lte=1"`
}

// ForKind constructs the evaluator for the given variant. The kind set is a
// closed enum: adding a task type means adding a case here, not registering
// arbitrary code at runtime.
func ForKind(kind domain.EvaluatorKind, params Params) (ports.Evaluator, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("evaluator params validation failed: %w", err)
	}

	switch kind {
	case domain.EvaluatorMultipleChoice:
		return NewMultipleChoiceEvaluator(), nil
	case domain.EvaluatorWordSorting:
		return NewWordSortingEvaluator(), nil
	case domain.EvaluatorFuzzyMatch:
		cfg := DefaultFuzzyMatchConfig()
		if params.FuzzyThreshold > 0 {
			cfg.Threshold = params.FuzzyThreshold
		}
		return NewFuzzyMatchEvaluator(cfg)
	case domain.EvaluatorLoss:
		return NewLossEvaluator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluatorKind, kind)
	}
}

// clamp01 bounds a score to [0,1], guarding against floating-point drift.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

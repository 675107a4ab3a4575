// Package domain contains pure, dependency-free domain models and types
// for the evaluation harness.
package domain

import (
	"fmt"
	"math"
)

// WeightTolerance is the permitted floating-point deviation when checking
// that a competition's task weights sum to 1.0.
const WeightTolerance = 1e-6

// EvaluatorKind identifies the scoring rule applied to a task's responses.
// The set of kinds is a closed, reviewed list; new task types are added here
// rather than through open-ended dynamic dispatch.
type EvaluatorKind string

const (
	// EvaluatorMultipleChoice scores a selected option against the expected
	// option: 1.0 on a normalized exact match, 0.0 otherwise.
	EvaluatorMultipleChoice EvaluatorKind = "multiple_choice"

	// EvaluatorWordSorting scores an ordered word sequence against the
	// expected alphabetically sorted sequence, rewarding partial order.
	EvaluatorWordSorting EvaluatorKind = "word_sorting"

	// EvaluatorFuzzyMatch scores free-form output by normalized edit
	// distance against the expected answer.
	EvaluatorFuzzyMatch EvaluatorKind = "fuzzy_match"

	// EvaluatorLoss maps a raw non-negative loss reported by the model
	// output into [0,1] via a fixed monotonic transform. It exists for
	// legacy loss-based competitions.
	EvaluatorLoss EvaluatorKind = "loss"
)

// Valid reports whether k names a known evaluator kind.
func (k EvaluatorKind) Valid() bool {
	switch k {
	case EvaluatorMultipleChoice, EvaluatorWordSorting, EvaluatorFuzzyMatch, EvaluatorLoss:
		return true
	}
	return false
}

// CompetitionStatus describes the lifecycle state of a published
// competition definition.
type CompetitionStatus string

const (
	// StatusActive marks the definition currently used to route
	// evaluation requests. At most one definition is active at a time.
	StatusActive CompetitionStatus = "ACTIVE"

	// StatusDeprecated marks a definition that was superseded.
	// Deprecation never changes weights or the task set.
	StatusDeprecated CompetitionStatus = "DEPRECATED"
)

// TaskSpec binds one task to its weight and scoring rule within a
// competition. TaskSpecs are owned by value by their CompetitionDefinition.
type TaskSpec struct {
	// TaskID names the task and selects its dataset generator.
	TaskID string `yaml:"task_id" json:"task_id" validate:"required"`

	// Weight is this task's share of the final score, in (0, 1].
	Weight float64 `yaml:"weight" json:"weight" validate:"gt=0,lte=1"`

	// Evaluator selects the scoring rule variant for this task.
	Evaluator EvaluatorKind `yaml:"evaluator" json:"evaluator" validate:"required"`

	// SampleCount is the number of instances drawn per evaluation run.
	SampleCount int `yaml:"sample_count" json:"sample_count" validate:"gt=0"`
}

// CompetitionDefinition is an immutable record binding a weighted set of
// tasks under a versioned competition identifier. A new version is a new
// record, never a mutation; only Status may be flipped by the registry.
type CompetitionDefinition struct {
	// CompetitionID names the competition, e.g. "instruct-v2".
	CompetitionID string `yaml:"competition_id" json:"competition_id" validate:"required"`

	// Version distinguishes successive publications of the same
	// competition. The (CompetitionID, Version) pair is unique.
	Version int `yaml:"version" json:"version" validate:"gt=0"`

	// TaskSpecs is the ordered set of tasks; weights must sum to 1.0
	// within WeightTolerance.
	TaskSpecs []TaskSpec `yaml:"tasks" json:"tasks" validate:"required,min=1,dive"`

	// Status is ACTIVE or DEPRECATED.
	Status CompetitionStatus `yaml:"status" json:"status"`
}

// ValidateWeights checks the weight-sum invariant for this definition.
// It returns a WeightInvariantError when the task weights do not sum to
// 1.0 within WeightTolerance, or when any single weight is out of range.
func (d CompetitionDefinition) ValidateWeights() error {
	sum := 0.0
	for _, ts := range d.TaskSpecs {
		if ts.Weight <= 0 || ts.Weight > 1 {
			return &WeightInvariantError{
				CompetitionID: d.CompetitionID,
				Version:       d.Version,
				Sum:           ts.Weight,
				Detail:        fmt.Sprintf("task %s has weight %v outside (0, 1]", ts.TaskID, ts.Weight),
			}
		}
		sum += ts.Weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return &WeightInvariantError{
			CompetitionID: d.CompetitionID,
			Version:       d.Version,
			Sum:           sum,
			Detail:        fmt.Sprintf("task weights sum to %v, want 1.0 within %v", sum, WeightTolerance),
		}
	}
	return nil
}

// TaskSpecFor returns the TaskSpec with the given task id, if present.
func (d CompetitionDefinition) TaskSpecFor(taskID string) (TaskSpec, bool) {
	for _, ts := range d.TaskSpecs {
		if ts.TaskID == taskID {
			return ts, true
		}
	}
	return TaskSpec{}, false
}

// Clone returns a deep copy of the definition. The registry hands out
// clones so that a snapshot held by an in-flight evaluation run can never
// observe later lifecycle changes.
func (d CompetitionDefinition) Clone() CompetitionDefinition {
	out := d
	out.TaskSpecs = make([]TaskSpec, len(d.TaskSpecs))
	copy(out.TaskSpecs, d.TaskSpecs)
	return out
}

// Key returns the unique id+version key for this definition.
func (d CompetitionDefinition) Key() string {
	return fmt.Sprintf("%s/v%d", d.CompetitionID, d.Version)
}

package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by the registry and orchestrator.
// Configuration errors are fatal to a run and surfaced immediately;
// they are never silently defaulted.
var (
	// ErrUnknownCompetition indicates an id/version pair that was never
	// published.
	ErrUnknownCompetition = errors.New("unknown competition")

	// ErrNoActiveCompetition indicates that no competition definition is
	// currently ACTIVE.
	ErrNoActiveCompetition = errors.New("no active competition")

	// ErrDuplicateCompetition indicates a publication attempt for an
	// id/version pair that already exists. Definitions are append-only.
	ErrDuplicateCompetition = errors.New("competition version already published")

	// ErrInferenceTimeout indicates a per-instance model invocation
	// exceeded its timeout. The instance scores 0.0; the run continues.
	ErrInferenceTimeout = errors.New("inference timed out")
)

// WeightInvariantError reports a competition definition whose task weights
// do not sum to 1.0. It is fatal at publication time, preventing a broken
// definition from ever becoming ACTIVE.
type WeightInvariantError struct {
	CompetitionID string
	Version       int
	Sum           float64
	Detail        string
}

// Error implements the error interface.
func (e *WeightInvariantError) Error() string {
	return fmt.Sprintf("weight invariant violated for %s/v%d: %s", e.CompetitionID, e.Version, e.Detail)
}

// GenerationError reports a dataset generator failure for one task.
// The orchestrator absorbs it: the task scores 0.0, is marked FAILED in the
// result, and the run continues with the remaining tasks.
type GenerationError struct {
	// TaskID is the task whose generation failed.
	TaskID string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("dataset generation failed for task %s: %v", e.TaskID, e.Err)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError wraps err as a GenerationError for the given task.
func NewGenerationError(taskID string, err error) *GenerationError {
	return &GenerationError{TaskID: taskID, Err: err}
}

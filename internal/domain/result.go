package domain

import (
	"time"
)

// TaskInstance is one concrete prompt/expected-answer pair sampled for
// evaluation. Instances are immutable once generated and owned by the
// orchestrator for the duration of scoring.
type TaskInstance struct {
	// ID uniquely identifies this instance within a run.
	ID string `json:"id"`

	// TaskID names the task this instance belongs to.
	TaskID string `json:"task_id"`

	// Prompt is the text presented to the candidate model.
	Prompt string `json:"prompt"`

	// ExpectedAnswer is the ground truth the response is scored against.
	ExpectedAnswer string `json:"expected_answer"`

	// Choices holds the lettered options for multiple-choice tasks.
	// Empty for generative tasks.
	Choices []string `json:"choices,omitempty"`

	// Seed is the generator seed that produced this instance, recorded
	// for reproducibility and audit.
	Seed int64 `json:"seed"`
}

// ModelResponse is the candidate model's raw output for one instance.
// Responses are transient and not persisted.
type ModelResponse struct {
	// InstanceID references the TaskInstance this response answers.
	InstanceID string `json:"instance_id"`

	// RawOutput is the unparsed model completion. Evaluators must
	// tolerate arbitrary content here.
	RawOutput string `json:"raw_output"`
}

// TaskStatus distinguishes a task that was evaluated from one whose
// dataset generation failed.
type TaskStatus string

const (
	// TaskOK means the task's instances were generated and scored.
	TaskOK TaskStatus = "OK"

	// TaskFailed means dataset generation failed; the task contributed
	// weight x 0.0 and FailureReason records why. A FAILED task is
	// infrastructure failure, not a low-scoring model.
	TaskFailed TaskStatus = "FAILED"
)

// ScoreResult holds one task's per-instance scores and their aggregate.
type ScoreResult struct {
	// TaskID names the scored task.
	TaskID string `json:"task_id"`

	// PerInstanceScores are in [0,1], ordered by instance index so
	// downstream consumers can rely on positional correspondence with
	// the generated instance sequence.
	PerInstanceScores []float64 `json:"per_instance_scores"`

	// TaskScore is the arithmetic mean of PerInstanceScores, or 0.0 for
	// a FAILED task.
	TaskScore float64 `json:"task_score"`

	// Status is OK or FAILED.
	Status TaskStatus `json:"status"`

	// FailureReason explains a FAILED status. Empty when Status is OK.
	FailureReason string `json:"failure_reason,omitempty"`
}

// RunStatus describes how an evaluation run ended.
type RunStatus string

const (
	// RunCompleted means every task was processed and FinalScore is valid.
	RunCompleted RunStatus = "COMPLETED"

	// RunCancelled means the run was cancelled before all tasks finished.
	// In-flight instance scores are discarded; FinalScore is not
	// meaningful, distinguishing "never evaluated" from "scored 0.0".
	RunCancelled RunStatus = "CANCELLED"
)

// CompetitionResult is the outcome of evaluating one candidate model under
// one competition definition. It references the definition by id+version
// rather than by live pointer, so it stays valid even if the registry later
// deprecates that definition. Results are read-only after creation.
type CompetitionResult struct {
	// CompetitionID and Version identify the definition snapshot used.
	CompetitionID string `json:"competition_id"`
	Version       int    `json:"version"`

	// Seed is the run seed from which per-task generator seeds were
	// derived, recorded for reproducibility.
	Seed int64 `json:"seed"`

	// PerTask maps task id to its score breakdown.
	PerTask map[string]ScoreResult `json:"per_task"`

	// FinalScore is the weighted sum of task scores in [0,1].
	// Only meaningful when Status is COMPLETED.
	FinalScore float64 `json:"final_score"`

	// Status is COMPLETED or CANCELLED.
	Status RunStatus `json:"status"`

	// StartedAt and CompletedAt bound the run for audit.
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationError_Unwrap(t *testing.T) {
	cause := errors.New("dataset host unreachable")
	err := NewGenerationError("word_sorting", cause)

	assert.Contains(t, err.Error(), "word_sorting")
	assert.Contains(t, err.Error(), "dataset host unreachable")
	assert.True(t, errors.Is(err, cause))

	var genErr *GenerationError
	require.True(t, errors.As(error(err), &genErr))
	assert.Equal(t, "word_sorting", genErr.TaskID)
}

func TestWeightInvariantError_Message(t *testing.T) {
	err := &WeightInvariantError{
		CompetitionID: "instruct",
		Version:       2,
		Sum:           0.8,
		Detail:        "task weights sum to 0.8, want 1.0 within 1e-06",
	}
	assert.Contains(t, err.Error(), "instruct/v2")
	assert.Contains(t, err.Error(), "0.8")
}

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelarena/go-arena/internal/domain"
)

const competitionsYAML = `
competitions:
  - competition_id: instruct
    version: 1
    tasks:
      - task_id: mmlu
        weight: 0.6
        evaluator: multiple_choice
        sample_count: 32
      - task_id: word_sorting
        weight: 0.4
        evaluator: word_sorting
        sample_count: 16
  - competition_id: instruct
    version: 2
    tasks:
      - task_id: mmlu
        weight: 1.0
        evaluator: multiple_choice
        sample_count: 64
active:
  competition_id: instruct
  version: 2
`

func TestApplyCompetitions(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, ApplyCompetitions(reg, []byte(competitionsYAML)))

	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, "instruct", active.CompetitionID)
	assert.Equal(t, 2, active.Version)
	require.Len(t, active.TaskSpecs, 1)
	assert.Equal(t, domain.EvaluatorMultipleChoice, active.TaskSpecs[0].Evaluator)
	assert.Equal(t, 64, active.TaskSpecs[0].SampleCount)

	v1, err := reg.Get("instruct", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeprecated, v1.Status)
	assert.Equal(t, 0.6, v1.TaskSpecs[0].Weight)
}

func TestApplyCompetitions_NoActiveRef(t *testing.T) {
	doc := `
competitions:
  - competition_id: instruct
    version: 1
    tasks:
      - task_id: mmlu
        weight: 1.0
        evaluator: multiple_choice
        sample_count: 8
`
	reg := NewRegistry()
	require.NoError(t, ApplyCompetitions(reg, []byte(doc)))

	_, err := reg.Active()
	assert.ErrorIs(t, err, domain.ErrNoActiveCompetition)
	assert.Equal(t, []int{1}, reg.Versions("instruct"))
}

func TestApplyCompetitions_StrictDecoding(t *testing.T) {
	doc := `
competitions:
  - competition_id: instruct
    version: 1
    weights: oops
    tasks:
      - task_id: mmlu
        weight: 1.0
        evaluator: multiple_choice
        sample_count: 8
`
	reg := NewRegistry()
	err := ApplyCompetitions(reg, []byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse competitions file")
}

func TestApplyCompetitions_PublishFailureAbortsActivation(t *testing.T) {
	doc := `
competitions:
  - competition_id: instruct
    version: 1
    tasks:
      - task_id: mmlu
        weight: 0.5
        evaluator: multiple_choice
        sample_count: 8
active:
  competition_id: instruct
  version: 1
`
	reg := NewRegistry()
	err := ApplyCompetitions(reg, []byte(doc))
	require.Error(t, err)

	// Nothing was activated on the failed load.
	_, activeErr := reg.Active()
	assert.ErrorIs(t, activeErr, domain.ErrNoActiveCompetition)
}

func TestApplyCompetitions_EmptyDocument(t *testing.T) {
	reg := NewRegistry()
	err := ApplyCompetitions(reg, []byte("competitions: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadCompetitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "competitions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(competitionsYAML), 0o600))

	reg := NewRegistry()
	require.NoError(t, LoadCompetitionsFile(reg, path))

	active, err := reg.Active()
	require.NoError(t, err)
	assert.Equal(t, 2, active.Version)
}

func TestLoadCompetitionsFile_Missing(t *testing.T) {
	reg := NewRegistry()
	err := LoadCompetitionsFile(reg, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read competitions file")
}

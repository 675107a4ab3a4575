package generators

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelarena/go-arena/internal/domain"
)

func TestRegistry_Generate_Determinism(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	for _, taskID := range []string{TaskMMLU, TaskWordSorting, TaskDyck} {
		t.Run(taskID, func(t *testing.T) {
			first, err := reg.Generate(ctx, taskID, 42, 20)
			require.NoError(t, err)
			second, err := reg.Generate(ctx, taskID, 42, 20)
			require.NoError(t, err)

			assert.Equal(t, first, second, "identical (task, seed, count) must yield identical instances")

			other, err := reg.Generate(ctx, taskID, 43, 20)
			require.NoError(t, err)
			assert.NotEqual(t, first, other, "a different seed should yield different instances")
		})
	}
}

func TestRegistry_Generate_UnknownTask(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Generate(context.Background(), "trivia", 1, 5)
	require.Error(t, err)

	var genErr *domain.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "trivia", genErr.TaskID)
}

func TestRegistry_Generate_CountOutOfRange(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()

	var genErr *domain.GenerationError

	_, err := reg.Generate(ctx, TaskMMLU, 1, 0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &genErr))

	_, err = reg.Generate(ctx, TaskMMLU, 1, mmluMaxCount+1)
	require.Error(t, err)
	assert.True(t, errors.As(err, &genErr))
}

func TestRegistry_Generate_CancelledContext(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reg.Generate(ctx, TaskMMLU, 1, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRegistry_TaskIDs(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, []string{TaskDyck, TaskMMLU, TaskWordSorting}, reg.TaskIDs())
}

func TestMMLUSource_Instances(t *testing.T) {
	instances := NewMMLUSource().Instances(7, 50)
	require.Len(t, instances, 50)

	for _, inst := range instances {
		assert.Equal(t, TaskMMLU, inst.TaskID)
		assert.Len(t, inst.Choices, 4)
		assert.Contains(t, []string{"A", "B", "C", "D"}, inst.ExpectedAnswer)
		assert.Contains(t, inst.Prompt, "Answer with the letter")
		assert.Equal(t, int64(7), inst.Seed)

		// The expected letter must point at a choice that actually
		// answers the question; verify via the letter index.
		idx := int(inst.ExpectedAnswer[0] - 'A')
		require.Less(t, idx, len(inst.Choices))
	}
}

func TestMMLUSource_AnswersAreCorrect(t *testing.T) {
	instances := NewMMLUSource().Instances(11, 100)

	for _, inst := range instances {
		idx := int(inst.ExpectedAnswer[0] - 'A')
		answer := inst.Choices[idx]

		switch {
		case strings.HasPrefix(inst.Prompt, "Which of the following numbers is the largest?"):
			for _, c := range inst.Choices {
				assert.GreaterOrEqual(t, atoi(t, answer), atoi(t, c))
			}
		case strings.HasPrefix(inst.Prompt, "Which of the following words comes first alphabetically?"):
			for _, c := range inst.Choices {
				assert.LessOrEqual(t, answer, c)
			}
		}
	}
}

func TestWordSortingSource_Instances(t *testing.T) {
	instances := NewWordSortingSource().Instances(3, 50)
	require.Len(t, instances, 50)

	for _, inst := range instances {
		words := strings.Fields(inst.ExpectedAnswer)
		assert.GreaterOrEqual(t, len(words), wordSortingMinWords)
		assert.LessOrEqual(t, len(words), wordSortingMaxWords)
		assert.True(t, sort.StringsAreSorted(words), "expected answer must be sorted: %q", inst.ExpectedAnswer)

		// The prompt's word set must match the expected answer's.
		promptWords := strings.Fields(inst.Prompt[strings.LastIndex(inst.Prompt, ": ")+2:])
		sort.Strings(promptWords)
		assert.Equal(t, words, promptWords)
	}
}

func TestDyckSource_Instances(t *testing.T) {
	instances := NewDyckSource().Instances(5, 50)
	require.Len(t, instances, 50)

	closers := map[string]string{")": "(", "]": "[", "}": "{", ">": "<"}

	for _, inst := range instances {
		require.NotEmpty(t, inst.ExpectedAnswer)

		// The expected answer must contain only closing brackets.
		for _, tok := range strings.Fields(inst.ExpectedAnswer) {
			_, ok := closers[tok]
			assert.True(t, ok, "expected answer token %q is not a closing bracket", tok)
		}

		// Prefix plus expected answer must form a balanced sequence.
		prefix := inst.Prompt[strings.LastIndex(inst.Prompt, ": ")+2:]
		full := strings.Fields(prefix)
		full = append(full, strings.Fields(inst.ExpectedAnswer)...)

		var stack []string
		balanced := true
		for _, tok := range full {
			if open, isCloser := closers[tok]; isCloser {
				if len(stack) == 0 || stack[len(stack)-1] != open {
					balanced = false
					break
				}
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, tok)
			}
		}
		assert.True(t, balanced && len(stack) == 0, "sequence not balanced: %q + %q", prefix, inst.ExpectedAnswer)
	}
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	n := 0
	for _, r := range s {
		require.True(t, r >= '0' && r <= '9')
		n = n*10 + int(r-'0')
	}
	return n
}

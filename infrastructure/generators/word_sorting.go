package generators

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
)

// Word-sorting task parameters. The word count per instance varies within
// a fixed band so batches exercise different list lengths.
const (
	wordSortingMaxCount = 1024
	wordSortingMinWords = 6
	wordSortingMaxWords = 14
)

// WordSortingSource synthesizes word-sorting instances: a shuffled word
// list to sort, with the alphabetically sorted sequence as ground truth.
// All randomness flows from the request seed.
type WordSortingSource struct{}

// NewWordSortingSource creates the word_sorting instance source.
func NewWordSortingSource() *WordSortingSource { return &WordSortingSource{} }

// TaskID returns "word_sorting".
func (s *WordSortingSource) TaskID() string { return TaskWordSorting }

// MaxCount returns the largest supported sample count.
func (s *WordSortingSource) MaxCount() int { return wordSortingMaxCount }

// Instances returns count deterministic word-sorting instances.
func (s *WordSortingSource) Instances(seed int64, count int) []domain.TaskInstance {
	rng := rand.New(rand.NewSource(seed))

	instances := make([]domain.TaskInstance, count)
	for i := range instances {
		n := wordSortingMinWords + rng.Intn(wordSortingMaxWords-wordSortingMinWords+1)
		words := sampleWords(rng, n)

		sorted := make([]string, len(words))
		copy(sorted, words)
		sort.Strings(sorted)

		// Present the words unsorted. If the draw happens to come out
		// sorted, one swap keeps the task non-trivial.
		if equalStrings(words, sorted) && n > 1 {
			words[0], words[1] = words[1], words[0]
		}

		instances[i] = domain.TaskInstance{
			ID:             instanceID(TaskWordSorting, i),
			TaskID:         TaskWordSorting,
			Prompt:         "Sort the following words alphabetically. Reply with the sorted words separated by spaces: " + strings.Join(words, " "),
			ExpectedAnswer: strings.Join(sorted, " "),
			Seed:           seed,
		}
	}
	return instances
}

func equalStrings(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

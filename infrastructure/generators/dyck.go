package generators

import (
	"math/rand"
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
)

// Dyck task parameters. Each instance shows a balanced bracket sequence
// with its closing suffix removed; the model must produce that suffix.
const (
	dyckMaxCount = 1024
	dyckMinOpens = 3
	dyckMaxOpens = 10
)

// dyckPairs are the bracket alphabets used by the dyck task.
var dyckPairs = [][2]string{
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
	{"<", ">"},
}

// DyckSource synthesizes Dyck-language completion instances: given the
// prefix of a balanced bracket sequence, the expected answer is the exact
// sequence of closing brackets that completes it. All randomness flows
// from the request seed.
type DyckSource struct{}

// NewDyckSource creates the dyck instance source.
func NewDyckSource() *DyckSource { return &DyckSource{} }

// TaskID returns "dyck".
func (s *DyckSource) TaskID() string { return TaskDyck }

// MaxCount returns the largest supported sample count.
func (s *DyckSource) MaxCount() int { return dyckMaxCount }

// Instances returns count deterministic dyck instances.
func (s *DyckSource) Instances(seed int64, count int) []domain.TaskInstance {
	rng := rand.New(rand.NewSource(seed))

	instances := make([]domain.TaskInstance, count)
	for i := range instances {
		prefix, closing := dyckSequence(rng)

		instances[i] = domain.TaskInstance{
			ID:             instanceID(TaskDyck, i),
			TaskID:         TaskDyck,
			Prompt:         "Complete the rest of the sequence, making sure that the parentheses are closed properly: " + prefix,
			ExpectedAnswer: closing,
			Seed:           seed,
		}
	}
	return instances
}

// dyckSequence builds a balanced sequence and splits it so that the
// returned prefix still has at least one unclosed bracket; the second
// return value is the closing suffix that balances it.
func dyckSequence(rng *rand.Rand) (prefix, closing string) {
	opens := dyckMinOpens + rng.Intn(dyckMaxOpens-dyckMinOpens+1)

	var seq strings.Builder
	var stack []string

	remaining := opens
	for remaining > 0 || len(stack) > 0 {
		// Bias toward opening while opens remain, closing otherwise.
		if remaining > 0 && (len(stack) == 0 || rng.Intn(2) == 0) {
			pair := dyckPairs[rng.Intn(len(dyckPairs))]
			seq.WriteString(pair[0])
			stack = append(stack, pair[1])
			remaining--
			continue
		}
		seq.WriteString(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	full := seq.String()

	// The suffix must contain only closing brackets, otherwise the
	// completion would not be uniquely determined. Cut somewhere inside
	// the trailing run of closers.
	lastOpen := strings.LastIndexAny(full, "([{<")
	span := len(full) - 1 - lastOpen
	cut := lastOpen + 1 + rng.Intn(span)
	return spaceOut(full[:cut]), spaceOut(full[cut:])
}

// spaceOut renders brackets space-separated, matching the word-level
// format the sorting-style tasks use.
func spaceOut(s string) string {
	parts := strings.Split(s, "")
	return strings.Join(parts, " ")
}

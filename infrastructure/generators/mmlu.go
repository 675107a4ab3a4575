package generators

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/modelarena/go-arena/internal/domain"
)

// mmluMaxCount bounds a single generation request for the mmlu task.
const mmluMaxCount = 1024

// optionLetters are the labels for rendered multiple-choice options.
var optionLetters = []string{"A", "B", "C", "D"}

// MMLUSource synthesizes multiple-choice QA instances. Questions are drawn
// from closed templates with procedurally generated operands, so the
// expected option is always derivable and the dataset needs no external
// corpus. All randomness flows from the request seed.
type MMLUSource struct{}

// NewMMLUSource creates the mmlu instance source.
func NewMMLUSource() *MMLUSource { return &MMLUSource{} }

// TaskID returns "mmlu".
func (s *MMLUSource) TaskID() string { return TaskMMLU }

// MaxCount returns the largest supported sample count.
func (s *MMLUSource) MaxCount() int { return mmluMaxCount }

// Instances returns count deterministic multiple-choice instances.
func (s *MMLUSource) Instances(seed int64, count int) []domain.TaskInstance {
	rng := rand.New(rand.NewSource(seed))

	instances := make([]domain.TaskInstance, count)
	for i := range instances {
		var question string
		var choices []string
		var answerIdx int

		// Alternate templates so a batch is not a single question shape.
		switch rng.Intn(3) {
		case 0:
			question, choices, answerIdx = largestNumberQuestion(rng)
		case 1:
			question, choices, answerIdx = firstAlphabeticalQuestion(rng)
		default:
			question, choices, answerIdx = arithmeticQuestion(rng)
		}

		instances[i] = domain.TaskInstance{
			ID:             instanceID(TaskMMLU, i),
			TaskID:         TaskMMLU,
			Prompt:         renderMultipleChoice(question, choices),
			ExpectedAnswer: optionLetters[answerIdx],
			Choices:        choices,
			Seed:           seed,
		}
	}
	return instances
}

// renderMultipleChoice formats the question with lettered options and the
// answer instruction the evaluator expects.
func renderMultipleChoice(question string, choices []string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString("\n")
	for i, c := range choices {
		fmt.Fprintf(&b, "%s. %s\n", optionLetters[i], c)
	}
	b.WriteString("Answer with the letter of the correct option.")
	return b.String()
}

// largestNumberQuestion asks which of four distinct numbers is largest.
func largestNumberQuestion(rng *rand.Rand) (string, []string, int) {
	nums := distinctInts(rng, len(optionLetters), 1000)

	choices := make([]string, len(nums))
	answerIdx := 0
	for i, n := range nums {
		choices[i] = fmt.Sprintf("%d", n)
		if n > nums[answerIdx] {
			answerIdx = i
		}
	}
	return "Which of the following numbers is the largest?", choices, answerIdx
}

// firstAlphabeticalQuestion asks which of four words sorts first.
func firstAlphabeticalQuestion(rng *rand.Rand) (string, []string, int) {
	words := sampleWords(rng, len(optionLetters))

	answerIdx := 0
	for i, w := range words {
		if w < words[answerIdx] {
			answerIdx = i
		}
	}
	return "Which of the following words comes first alphabetically?", words, answerIdx
}

// arithmeticQuestion asks for a two-operand sum with three distractors.
func arithmeticQuestion(rng *rand.Rand) (string, []string, int) {
	a := rng.Intn(90) + 10
	b := rng.Intn(90) + 10
	correct := a + b

	// Distractors are nearby but never equal to the correct value.
	seen := map[int]struct{}{correct: {}}
	values := []int{correct}
	for len(values) < len(optionLetters) {
		d := correct + rng.Intn(21) - 10
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		values = append(values, d)
	}

	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	choices := make([]string, len(values))
	answerIdx := 0
	for i, v := range values {
		choices[i] = fmt.Sprintf("%d", v)
		if v == correct {
			answerIdx = i
		}
	}
	return fmt.Sprintf("What is %d + %d?", a, b), choices, answerIdx
}

// distinctInts draws n distinct integers in [0, limit).
func distinctInts(rng *rand.Rand, n, limit int) []int {
	seen := make(map[int]struct{}, n)
	out := make([]int, 0, n)
	for len(out) < n {
		v := rng.Intn(limit)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// sampleWords draws n distinct words from the shared word bank.
func sampleWords(rng *rand.Rand, n int) []string {
	idx := rng.Perm(len(wordBank))[:n]
	words := make([]string, n)
	for i, j := range idx {
		words[i] = wordBank[j]
	}
	return words
}

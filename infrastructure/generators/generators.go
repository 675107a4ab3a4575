// Package generators provides seeded synthetic dataset generators for the
// evaluation harness. Each generator produces task instances that are
// deterministic for identical (task id, seed, count), which is what makes
// evaluation runs reproducible from a recorded seed.
package generators

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

// Task identifiers served by the built-in generators.
const (
	// TaskMMLU is the synthetic multiple-choice QA task.
	TaskMMLU = "mmlu"

	// TaskWordSorting is the alphabetical word-sorting task.
	TaskWordSorting = "word_sorting"

	// TaskDyck is the balanced-bracket completion task.
	TaskDyck = "dyck"
)

var _ ports.DatasetGenerator = (*Registry)(nil)

// InstanceSource produces instances for exactly one task. Sources must be
// deterministic for identical (seed, count) and safe for concurrent use.
type InstanceSource interface {
	// TaskID returns the task this source serves.
	TaskID() string

	// MaxCount returns the largest supported sample count per request.
	MaxCount() int

	// Instances returns count deterministic instances for the seed.
	// count is guaranteed to be within (0, MaxCount] by the registry.
	Instances(seed int64, count int) []domain.TaskInstance
}

// Registry routes generation requests to instance sources by task id and
// implements ports.DatasetGenerator. Unknown tasks and out-of-range counts
// surface as *domain.GenerationError per the consumed contract.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]InstanceSource
}

// NewRegistry creates a registry with the built-in synthetic sources
// registered: mmlu, word_sorting, and dyck.
func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]InstanceSource)}
	r.Register(NewMMLUSource())
	r.Register(NewWordSortingSource())
	r.Register(NewDyckSource())
	return r
}

// Register adds or replaces the source for its task id.
func (r *Registry) Register(src InstanceSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.TaskID()] = src
}

// TaskIDs returns the registered task identifiers in sorted order.
func (r *Registry) TaskIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Generate returns count instances for the task, deterministic for
// identical (taskID, seed, count). It honors context cancellation before
// doing any work, since callers treat generation as potentially slow.
func (r *Registry) Generate(ctx context.Context, taskID string, seed int64, count int) ([]domain.TaskInstance, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewGenerationError(taskID, err)
	}

	r.mu.RLock()
	src, ok := r.sources[taskID]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.NewGenerationError(taskID, fmt.Errorf("no generator registered for task %q", taskID))
	}

	if count <= 0 || count > src.MaxCount() {
		return nil, domain.NewGenerationError(taskID,
			fmt.Errorf("requested count %d outside supported range (0, %d]", count, src.MaxCount()))
	}

	return src.Instances(seed, count), nil
}

// instanceID builds the stable per-instance identifier "taskID-index".
func instanceID(taskID string, index int) string {
	return fmt.Sprintf("%s-%d", taskID, index)
}

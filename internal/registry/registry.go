// Package registry holds the process-wide competition state: which
// definitions have been published and which one is currently active.
//
// Publication is append-only and activation is the only mutation permitted
// on existing entries. State lives in an immutable snapshot behind an
// atomic pointer with a single-writer mutex, so concurrent readers never
// observe a torn or half-activated state, and an orchestrator run that
// snapshotted a definition keeps evaluating against that snapshot even if
// the active pointer moves mid-run.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/modelarena/go-arena/internal/domain"
)

// Package-level validator instance for definition validation at
// publication time.
var validate = validator.New()

// snapshot is one immutable view of the registry. Writers build a new
// snapshot and swap the pointer; they never mutate a published one.
type snapshot struct {
	// definitions maps id/version keys to published definitions.
	definitions map[string]domain.CompetitionDefinition

	// versions maps competition id to its published versions in
	// publication order.
	versions map[string][]int

	// activeKey is the id/version key of the ACTIVE definition,
	// or empty when none is active.
	activeKey string
}

// Registry is the process-wide competition store.
// The zero value is not usable; construct with NewRegistry.
type Registry struct {
	// mu serializes writers. Readers go through the atomic pointer only.
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snap.Store(&snapshot{
		definitions: make(map[string]domain.CompetitionDefinition),
		versions:    make(map[string][]int),
	})
	return r
}

// Publish appends a new competition definition. It fails fast, before the
// definition can ever be activated, on:
//   - struct validation errors (missing ids, non-positive sample counts)
//   - unknown evaluator kinds
//   - weight sums violating the 1.0 invariant (WeightInvariantError)
//   - an already-published id/version pair (ErrDuplicateCompetition)
//
// Published definitions are stored DEPRECATED; only Activate marks one
// ACTIVE, keeping the exactly-one-active rule enforceable in one place.
func (r *Registry) Publish(def domain.CompetitionDefinition) error {
	if err := validate.Struct(def); err != nil {
		return fmt.Errorf("competition %s: validation failed: %w", def.Key(), err)
	}

	for _, ts := range def.TaskSpecs {
		if !ts.Evaluator.Valid() {
			return fmt.Errorf("competition %s: task %s: unknown evaluator kind %q", def.Key(), ts.TaskID, ts.Evaluator)
		}
	}

	if err := def.ValidateWeights(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	curr := r.snap.Load()
	key := def.Key()
	if _, exists := curr.definitions[key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCompetition, key)
	}

	stored := def.Clone()
	stored.Status = domain.StatusDeprecated

	next := curr.clone()
	next.definitions[key] = stored
	next.versions[def.CompetitionID] = append(next.versions[def.CompetitionID], def.Version)
	r.snap.Store(next)

	return nil
}

// Activate marks the given id/version ACTIVE and deprecates the previously
// active definition in the same atomic swap, so readers always observe
// exactly one ACTIVE definition. It returns ErrUnknownCompetition when the
// pair was never published. Activating the already-active pair is a no-op.
func (r *Registry) Activate(competitionID string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	curr := r.snap.Load()
	key := domain.CompetitionDefinition{CompetitionID: competitionID, Version: version}.Key()

	def, exists := curr.definitions[key]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCompetition, key)
	}

	if curr.activeKey == key {
		return nil
	}

	next := curr.clone()

	if curr.activeKey != "" {
		prev := next.definitions[curr.activeKey]
		prev.Status = domain.StatusDeprecated
		next.definitions[curr.activeKey] = prev
	}

	def = def.Clone()
	def.Status = domain.StatusActive
	next.definitions[key] = def
	next.activeKey = key

	r.snap.Store(next)
	return nil
}

// Active returns a copy of the currently ACTIVE definition, or
// ErrNoActiveCompetition when none is set. The copy is the caller's
// snapshot: later activations do not affect it.
func (r *Registry) Active() (domain.CompetitionDefinition, error) {
	curr := r.snap.Load()
	if curr.activeKey == "" {
		return domain.CompetitionDefinition{}, domain.ErrNoActiveCompetition
	}
	return curr.definitions[curr.activeKey].Clone(), nil
}

// Get returns a copy of the definition for the id/version pair, or
// ErrUnknownCompetition.
func (r *Registry) Get(competitionID string, version int) (domain.CompetitionDefinition, error) {
	curr := r.snap.Load()
	key := domain.CompetitionDefinition{CompetitionID: competitionID, Version: version}.Key()

	def, exists := curr.definitions[key]
	if !exists {
		return domain.CompetitionDefinition{}, fmt.Errorf("%w: %s", domain.ErrUnknownCompetition, key)
	}
	return def.Clone(), nil
}

// Versions returns the published versions for a competition id in
// publication order. The returned slice is a copy.
func (r *Registry) Versions(competitionID string) []int {
	curr := r.snap.Load()
	out := make([]int, len(curr.versions[competitionID]))
	copy(out, curr.versions[competitionID])
	return out
}

// clone copies a snapshot so a writer can modify it before the swap.
func (s *snapshot) clone() *snapshot {
	next := &snapshot{
		definitions: make(map[string]domain.CompetitionDefinition, len(s.definitions)),
		versions:    make(map[string][]int, len(s.versions)),
		activeKey:   s.activeKey,
	}
	for k, v := range s.definitions {
		next.definitions[k] = v
	}
	for k, v := range s.versions {
		vs := make([]int, len(v))
		copy(vs, v)
		next.versions[k] = vs
	}
	return next
}

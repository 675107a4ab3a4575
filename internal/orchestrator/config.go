package orchestrator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance for orchestrator configuration.
var validate = validator.New()

// Default configuration values. These are starting points for local runs;
// production deployments tune them per provider quota.
const (
	// DefaultTaskConcurrency is the number of tasks evaluated in parallel.
	DefaultTaskConcurrency = 2

	// DefaultInstanceConcurrency is the number of in-flight model calls
	// per task.
	DefaultInstanceConcurrency = 8

	// DefaultInstanceTimeout bounds a single model invocation. An instance
	// exceeding it scores 0.0; the run continues.
	DefaultInstanceTimeout = 30 * time.Second
)

// Config controls run concurrency, per-instance timeouts, and seeding.
// Concurrency limits for tasks and instances are separate knobs: task
// parallelism trades run latency against burstiness, while instance
// parallelism is bounded by provider rate limits.
type Config struct {
	// TaskConcurrency bounds how many tasks run in parallel.
	TaskConcurrency int `yaml:"task_concurrency" json:"task_concurrency" validate:"gte=1,lte=64"`

	// InstanceConcurrency bounds in-flight model calls within one task.
	InstanceConcurrency int `yaml:"instance_concurrency" json:"instance_concurrency" validate:"gte=1,lte=256"`

	// InstanceTimeout is the per-instance inference deadline. A timed-out
	// instance scores 0.0 without aborting its batch.
	InstanceTimeout time.Duration `yaml:"instance_timeout" json:"instance_timeout" validate:"gt=0"`

	// Seed is the run seed from which per-task generator seeds derive.
	// Zero means derive a seed from the clock at run start; the chosen
	// value is recorded in the result either way, so every run is
	// reproducible after the fact.
	Seed int64 `yaml:"seed" json:"seed"`
}

// DefaultConfig returns the default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		TaskConcurrency:     DefaultTaskConcurrency,
		InstanceConcurrency: DefaultInstanceConcurrency,
		InstanceTimeout:     DefaultInstanceTimeout,
	}
}

// Validate checks the configuration against its declared constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}

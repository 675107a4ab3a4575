// Package orchestrator coordinates a full evaluation run: dataset
// generation, candidate model inference, scoring, and weighted
// aggregation under one competition definition snapshot.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/ports"
)

// EvaluatorResolver maps an evaluator kind to a scoring implementation.
// It decouples the orchestrator from concrete evaluator construction; the
// binary wires it to the evaluators package factory.
type EvaluatorResolver func(kind domain.EvaluatorKind) (ports.Evaluator, error)

// Orchestrator runs competitions against candidate models. It is safe for
// concurrent use; each Run is independent.
type Orchestrator struct {
	generator ports.DatasetGenerator
	resolve   EvaluatorResolver
	metrics   ports.MetricsCollector
	logger    *zap.Logger
	tracer    trace.Tracer
	config    Config
}

// New creates an orchestrator. The config is validated up front so a
// malformed concurrency or timeout setting fails loudly instead of being
// silently defaulted.
func New(
	generator ports.DatasetGenerator,
	resolve EvaluatorResolver,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	config Config,
) (*Orchestrator, error) {
	if generator == nil {
		return nil, errors.New("dataset generator is required")
	}
	if resolve == nil {
		return nil, errors.New("evaluator resolver is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics collector is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid orchestrator config: %w", err)
	}

	return &Orchestrator{
		generator: generator,
		resolve:   resolve,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer("orchestrator"),
		config:    config,
	}, nil
}

// taskOutcome carries one task's result plus a completion marker, so a
// cancelled run can distinguish finished tasks from in-flight ones.
type taskOutcome struct {
	result    domain.ScoreResult
	completed bool
}

// Run evaluates the candidate model under the given definition snapshot.
//
// Tasks execute in parallel up to TaskConcurrency, and instances within a
// task up to InstanceConcurrency. Failures degrade rather than abort: a
// generation failure marks its task FAILED with score 0.0, and a
// per-instance timeout or provider error scores that instance 0.0. Only
// cancellation of ctx ends the run early, returning a CANCELLED result
// holding the tasks that fully completed, alongside the context error.
func (o *Orchestrator) Run(
	ctx context.Context,
	def domain.CompetitionDefinition,
	model ports.ModelClient,
) (domain.CompetitionResult, error) {
	runSeed := o.config.Seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	ctx, span := o.tracer.Start(ctx, "Orchestrator.Run",
		trace.WithAttributes(
			attribute.String("competition.id", def.CompetitionID),
			attribute.Int("competition.version", def.Version),
			attribute.Int("competition.tasks", len(def.TaskSpecs)),
			attribute.Int64("run.seed", runSeed),
		),
	)
	defer span.End()

	start := time.Now()
	logger := o.logger.With(
		zap.String("competition", def.Key()),
		zap.Int64("seed", runSeed),
	)
	logger.Info("starting evaluation run", zap.Int("tasks", len(def.TaskSpecs)))

	outcomes := make([]taskOutcome, len(def.TaskSpecs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.TaskConcurrency)

	for i, spec := range def.TaskSpecs {
		g.Go(func() error {
			result, err := o.runTask(gctx, def, spec, taskSeed(runSeed, spec.TaskID), model)
			if err != nil {
				return err
			}
			outcomes[i] = taskOutcome{result: result, completed: true}

			logger.Info("task completed",
				zap.String("task", spec.TaskID),
				zap.String("status", string(result.Status)),
				zap.Float64("score", result.TaskScore),
			)
			return nil
		})
	}

	waitErr := g.Wait()

	result := domain.CompetitionResult{
		CompetitionID: def.CompetitionID,
		Version:       def.Version,
		Seed:          runSeed,
		PerTask:       make(map[string]domain.ScoreResult, len(def.TaskSpecs)),
		StartedAt:     start,
		CompletedAt:   time.Now(),
	}

	if waitErr != nil {
		// The only errors task workers return are context ones; everything
		// else is absorbed into FAILED tasks or 0.0 instances.
		result.Status = domain.RunCancelled
		for i := range outcomes {
			if outcomes[i].completed {
				result.PerTask[def.TaskSpecs[i].TaskID] = outcomes[i].result
			}
		}
		o.metrics.RecordCounter("runs_cancelled_total", 1, map[string]string{"competition": def.Key()})
		logger.Warn("run cancelled", zap.Error(waitErr))
		return result, waitErr
	}

	final := 0.0
	for i, spec := range def.TaskSpecs {
		result.PerTask[spec.TaskID] = outcomes[i].result
		final += outcomes[i].result.TaskScore * spec.Weight
	}
	result.FinalScore = final
	result.Status = domain.RunCompleted

	labels := map[string]string{"competition": def.Key()}
	o.metrics.RecordCounter("runs_total", 1, labels)
	o.metrics.RecordHistogram("final_score", final, labels)
	o.metrics.RecordLatency("run", time.Since(start), labels)

	span.SetAttributes(attribute.Float64("run.final_score", final))
	logger.Info("run completed",
		zap.Float64("final_score", final),
		zap.Duration("elapsed", time.Since(start)),
	)

	return result, nil
}

// runTask generates, infers, and scores one task. The returned error is
// non-nil only for context cancellation; task-level failures come back as
// a FAILED ScoreResult.
func (o *Orchestrator) runTask(
	ctx context.Context,
	def domain.CompetitionDefinition,
	spec domain.TaskSpec,
	seed int64,
	model ports.ModelClient,
) (domain.ScoreResult, error) {
	ctx, span := o.tracer.Start(ctx, "Orchestrator.runTask",
		trace.WithAttributes(
			attribute.String("task.id", spec.TaskID),
			attribute.String("task.evaluator", string(spec.Evaluator)),
			attribute.Int("task.sample_count", spec.SampleCount),
		),
	)
	defer span.End()

	labels := map[string]string{"competition": def.Key(), "task": spec.TaskID}

	instances, err := o.generator.Generate(ctx, spec.TaskID, seed, spec.SampleCount)
	if err != nil {
		if ctx.Err() != nil {
			return domain.ScoreResult{}, ctx.Err()
		}

		var genErr *domain.GenerationError
		if !errors.As(err, &genErr) {
			genErr = domain.NewGenerationError(spec.TaskID, err)
		}
		o.metrics.RecordCounter("task_generation_failures_total", 1, labels)
		o.logger.Error("dataset generation failed",
			zap.String("task", spec.TaskID),
			zap.Error(genErr),
		)
		return failedResult(spec.TaskID, genErr.Error()), nil
	}

	evaluator, err := o.resolve(spec.Evaluator)
	if err != nil {
		// Evaluator kinds are validated at publication; reaching this
		// means the resolver and registry disagree about the known set.
		return failedResult(spec.TaskID, fmt.Sprintf("resolve evaluator %s: %v", spec.Evaluator, err)), nil
	}

	scores := make([]float64, len(instances))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.InstanceConcurrency)

	for i, inst := range instances {
		g.Go(func() error {
			score, err := o.scoreInstance(gctx, inst, evaluator, model, labels)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.ScoreResult{}, err
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean := 0.0
	if len(scores) > 0 {
		mean = sum / float64(len(scores))
	}

	o.metrics.RecordHistogram("task_score", mean, labels)
	o.metrics.RecordCounter("instances_evaluated_total", float64(len(scores)), labels)
	span.SetAttributes(attribute.Float64("task.score", mean))

	return domain.ScoreResult{
		TaskID:            spec.TaskID,
		PerInstanceScores: scores,
		TaskScore:         mean,
		Status:            domain.TaskOK,
	}, nil
}

// scoreInstance runs one model invocation under the per-instance timeout
// and scores it. Inference failures and timeouts map to 0.0; only parent
// context cancellation propagates as an error.
func (o *Orchestrator) scoreInstance(
	ctx context.Context,
	inst domain.TaskInstance,
	evaluator ports.Evaluator,
	model ports.ModelClient,
	labels map[string]string,
) (float64, error) {
	instCtx, cancel := context.WithTimeout(ctx, o.config.InstanceTimeout)
	raw, err := model.Infer(instCtx, inst.Prompt)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		reason := "inference_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
			err = fmt.Errorf("%w: %v", domain.ErrInferenceTimeout, err)
		}
		o.metrics.RecordCounter("instance_failures_total", 1, withReason(labels, reason))
		o.logger.Debug("instance inference failed",
			zap.String("instance", inst.ID),
			zap.Error(err),
		)
		return 0, nil
	}

	response := domain.ModelResponse{InstanceID: inst.ID, RawOutput: raw}
	return evaluator.Score(response, inst), nil
}

// failedResult builds the ScoreResult for a task whose generation failed.
// A FAILED task contributes weight x 0.0 and stays visibly distinct from a
// low-scoring model.
func failedResult(taskID, reason string) domain.ScoreResult {
	return domain.ScoreResult{
		TaskID:        taskID,
		TaskScore:     0,
		Status:        domain.TaskFailed,
		FailureReason: reason,
	}
}

// taskSeed derives a per-task generator seed from the run seed and the
// task id. Hashing the id keeps the derivation stable when tasks are
// reordered between definition versions.
func taskSeed(runSeed int64, taskID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(taskID))
	return runSeed ^ int64(h.Sum64())
}

// withReason copies labels and adds a failure reason without mutating the
// shared map.
func withReason(labels map[string]string, reason string) map[string]string {
	out := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		out[k] = v
	}
	out["reason"] = reason
	return out
}

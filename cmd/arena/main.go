// Command arena runs the active competition against a candidate model and
// prints the result as JSON.
//
// Usage:
//
//	arena -competitions competitions.yaml -provider openai -model gpt-4o-mini
//
// The provider API key is read from the environment variable matching the
// provider (OPENAI_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/modelarena/go-arena/infrastructure/evaluators"
	"github.com/modelarena/go-arena/infrastructure/generators"
	"github.com/modelarena/go-arena/infrastructure/metrics"
	"github.com/modelarena/go-arena/infrastructure/model"
	"github.com/modelarena/go-arena/internal/domain"
	"github.com/modelarena/go-arena/internal/orchestrator"
	"github.com/modelarena/go-arena/internal/ports"
	"github.com/modelarena/go-arena/internal/registry"
)

func main() {
	var (
		competitionsPath = flag.String("competitions", "competitions.yaml", "Path to the competitions YAML file")
		provider         = flag.String("provider", "openai", "Model provider: openai, anthropic, or google")
		modelName        = flag.String("model", "", "Model identifier (empty uses the provider default)")
		seed             = flag.Int64("seed", 0, "Run seed (0 derives one from the clock)")
		taskConcurrency  = flag.Int("task-concurrency", orchestrator.DefaultTaskConcurrency, "Tasks evaluated in parallel")
		instConcurrency  = flag.Int("instance-concurrency", orchestrator.DefaultInstanceConcurrency, "In-flight model calls per task")
		instTimeout      = flag.Duration("instance-timeout", orchestrator.DefaultInstanceTimeout, "Per-instance inference timeout")
		requestsPerSec   = flag.Float64("rps", 5, "Sustained provider requests per second")
		fuzzyThreshold   = flag.Float64("fuzzy-threshold", 0, "Fuzzy match threshold override (0 uses the default)")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, runOptions{
		competitionsPath: *competitionsPath,
		provider:         *provider,
		model:            *modelName,
		seed:             *seed,
		taskConcurrency:  *taskConcurrency,
		instConcurrency:  *instConcurrency,
		instTimeout:      *instTimeout,
		requestsPerSec:   *requestsPerSec,
		fuzzyThreshold:   *fuzzyThreshold,
	}); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

type runOptions struct {
	competitionsPath string
	provider         string
	model            string
	seed             int64
	taskConcurrency  int
	instConcurrency  int
	instTimeout      time.Duration
	requestsPerSec   float64
	fuzzyThreshold   float64
}

func run(logger *zap.Logger, opts runOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.NewRegistry()
	if err := registry.LoadCompetitionsFile(reg, opts.competitionsPath); err != nil {
		return fmt.Errorf("load competitions: %w", err)
	}

	def, err := reg.Active()
	if err != nil {
		return err
	}
	logger.Info("evaluating active competition",
		zap.String("competition", def.Key()),
		zap.Int("tasks", len(def.TaskSpecs)),
	)

	client, err := buildModelClient(opts)
	if err != nil {
		return err
	}

	collector := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	resolver := func(kind domain.EvaluatorKind) (ports.Evaluator, error) {
		return evaluators.ForKind(kind, evaluators.Params{FuzzyThreshold: opts.fuzzyThreshold})
	}

	orch, err := orchestrator.New(generators.NewRegistry(), resolver, collector, logger, orchestrator.Config{
		TaskConcurrency:     opts.taskConcurrency,
		InstanceConcurrency: opts.instConcurrency,
		InstanceTimeout:     opts.instTimeout,
		Seed:                opts.seed,
	})
	if err != nil {
		return err
	}

	result, runErr := orch.Run(ctx, def, client)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return runErr
}

// buildModelClient assembles the provider client with the standard
// middleware stack: rate limiting outermost, then retries, with the
// per-request timeout innermost.
func buildModelClient(opts runOptions) (ports.ModelClient, error) {
	apiKey := os.Getenv(apiKeyEnvVar(opts.provider))
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", apiKeyEnvVar(opts.provider))
	}

	return model.NewClient(opts.provider, model.ClientConfig{
		APIKey: apiKey,
		Model:  opts.model,
		Middleware: []model.Middleware{
			model.RateLimitMiddleware(rate.Limit(opts.requestsPerSec), int(opts.requestsPerSec)+1),
			model.RetryMiddleware(2, 500*time.Millisecond, 10*time.Second),
			model.TimeoutMiddleware(opts.instTimeout),
		},
	})
}

func apiKeyEnvVar(provider string) string {
	return strings.ToUpper(provider) + "_API_KEY"
}

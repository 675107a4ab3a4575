// Package model provides the candidate-model client used by evaluation
// runs. It abstracts hosted model providers (OpenAI, Anthropic, Google)
// behind the small CoreModel interface and layers cross-cutting concerns
// (timeouts, retries, rate limiting, metrics) through a middleware chain,
// so the orchestrator invokes every candidate the same way regardless of
// where it is hosted.
//
// Basic usage:
//
//	client, err := model.NewClient("openai", model.ClientConfig{
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	    Model:  "gpt-4o-mini",
//	})
//	answer, err := client.Infer(ctx, prompt)
//
// With middleware:
//
//	client, err := model.NewClient("anthropic", model.ClientConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    Middleware: []model.Middleware{
//	        model.RateLimitMiddleware(10, 20),
//	        model.RetryMiddleware(3, 500*time.Millisecond, 10*time.Second),
//	    },
//	})
package model

import (
	"context"
	"fmt"
	"time"

	"github.com/modelarena/go-arena/internal/ports"
)

// CoreModel is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation, so operational behavior composes
// without touching provider code.
type CoreModel interface {
	// Complete sends a prompt to the candidate model and returns the raw
	// completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the configured model identifier.
	Model() string
}

// Middleware wraps a CoreModel to add cross-cutting behavior. Middleware
// listed first in ClientConfig becomes the outermost layer.
type Middleware func(CoreModel) CoreModel

// ClientConfig holds everything needed to construct a provider-backed
// client. Generation parameters are fixed at construction: evaluation runs
// must issue identical requests for every instance, so there is no
// per-call parameter surface.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string `yaml:"api_key" json:"api_key"`

	// Model selects the candidate model. Empty means the provider default.
	Model string `yaml:"model" json:"model"`

	// BaseURL overrides the provider's default endpoint when set.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// MaxTokens caps the completion length. Zero means the package default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`

	// Temperature, when non-nil, overrides the provider default. Runs that
	// need reproducible completions typically pin this to 0.
	Temperature *float64 `yaml:"temperature" json:"temperature"`

	// Timeout bounds each underlying HTTP request. Zero disables the
	// provider-level timeout; per-instance deadlines still apply via the
	// request context.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Middleware is applied outermost-first.
	Middleware []Middleware `yaml:"-" json:"-"`
}

// DefaultMaxTokens bounds completions when the config does not set a cap.
// Harness tasks expect short answers, so the default is deliberately small.
const DefaultMaxTokens = 1024

// Client adapts a middleware-wrapped CoreModel to the ports.ModelClient
// interface consumed by the orchestrator.
type Client struct{ core CoreModel }

var _ ports.ModelClient = (*Client)(nil)

// NewClient builds a client for the named provider, assembling the
// middleware chain before returning.
func NewClient(provider string, config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	factory, ok := providerFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", provider, err)
	}

	return NewClientFromCore(core, config.Middleware...), nil
}

// NewClientFromCore wraps an existing CoreModel with middleware. It exists
// so tests and embedded deployments can supply their own core.
func NewClientFromCore(core CoreModel, mw ...Middleware) *Client {
	// Reverse application makes the first middleware the outermost.
	for i := len(mw) - 1; i >= 0; i-- {
		core = mw[i](core)
	}
	return &Client{core: core}
}

// Infer implements ports.ModelClient.
func (c *Client) Infer(ctx context.Context, prompt string) (string, error) {
	return c.core.Complete(ctx, prompt)
}

// Model returns the configured model identifier of the underlying provider.
func (c *Client) Model() string { return c.core.Model() }

// ProviderFactory creates a CoreModel from configuration.
type ProviderFactory func(ClientConfig) (CoreModel, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider under a name usable with
// NewClient. Providers in this package self-register from init.
func RegisterProviderFactory(provider string, factory ProviderFactory) {
	providerFactories[provider] = factory
}

// maxTokens resolves the completion cap from config.
func (c ClientConfig) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}

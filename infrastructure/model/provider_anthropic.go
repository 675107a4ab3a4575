package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicDefaultModel is used when the config does not name a model.
const AnthropicDefaultModel = "claude-3-5-haiku-20241022"

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreModel against Anthropic's Messages API.
type anthropicProvider struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature *float64
	classifier  *ErrorClassifier
}

func newAnthropicProvider(config ClientConfig) (CoreModel, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	mdl := config.Model
	if mdl == "" {
		mdl = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	return &anthropicProvider{
		client:      anthropic.NewClient(opts...),
		model:       mdl,
		maxTokens:   config.maxTokens(),
		temperature: config.Temperature,
		classifier:  &ErrorClassifier{Provider: "anthropic"},
	}, nil
}

func (p *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if p.temperature != nil {
		params.Temperature = anthropic.Float(*p.temperature)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", p.handleError(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text.String(), nil
}

func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.classifier.ClassifyContextError(err)
	}

	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return p.classifier.ClassifyHTTPError(anthropicErr.StatusCode, "", err)
	}

	return NewProviderError("anthropic", ErrorTypeUnknown, 0, "request failed", err)
}

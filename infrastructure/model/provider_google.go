package model

import (
	"context"
	"errors"
	"math"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GoogleDefaultModel is used when the config does not name a model.
const GoogleDefaultModel = "gemini-2.0-flash"

func init() {
	RegisterProviderFactory("google", newGoogleProvider)
}

// googleProvider implements CoreModel against Google's Gemini API.
type googleProvider struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature *float64
	classifier  *ErrorClassifier
}

func newGoogleProvider(config ClientConfig) (CoreModel, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	mdl := config.Model
	if mdl == "" {
		mdl = GoogleDefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &googleProvider{
		client:      client,
		model:       mdl,
		maxTokens:   config.maxTokens(),
		temperature: config.Temperature,
		classifier:  &ErrorClassifier{Provider: "google"},
	}, nil
}

func (p *googleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	genConfig := &genai.GenerateContentConfig{}
	if p.maxTokens > 0 && p.maxTokens <= math.MaxInt32 {
		genConfig.MaxOutputTokens = int32(p.maxTokens)
	}
	if p.temperature != nil {
		genConfig.Temperature = genai.Ptr(float32(*p.temperature))
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genConfig)
	if err != nil {
		return "", p.handleError(err)
	}

	content := resp.Text()
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (p *googleProvider) Model() string { return p.model }

func (p *googleProvider) handleError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.classifier.ClassifyContextError(err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" && len(apiErr.Errors) > 0 {
			message = apiErr.Errors[0].Message
		}

		if isContentPolicyError(apiErr) {
			return NewProviderError("google", ErrorTypeContentPolicy, apiErr.Code,
				"request blocked by safety filters", err)
		}

		return p.classifier.ClassifyHTTPError(apiErr.Code, message, err)
	}

	return NewProviderError("google", ErrorTypeUnknown, 0, "request failed", err)
}

// isContentPolicyError detects safety-filter rejections, which must not be
// retried.
func isContentPolicyError(apiErr *googleapi.Error) bool {
	lower := strings.ToLower(apiErr.Message)
	if strings.Contains(lower, "safety") || strings.Contains(lower, "blocked") {
		return true
	}
	for _, e := range apiErr.Errors {
		if e.Reason == "SAFETY" || e.Reason == "BLOCKED" {
			return true
		}
	}
	return false
}

package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/kindredapp/kindred/pkg/model"
)

// Gemini is the capability interface for the model backend. The model ID
// is a per-call parameter because the chat router picks a different
// model for each request tier.
type Gemini interface {
	GenerateContent(ctx context.Context, modelID string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, projectID, location string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, modelID string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, modelID, contents, config)
	if err != nil {
		return nil, goerr.Wrap(ClassifyError(err), "failed to generate content", goerr.V("model", modelID))
	}
	return resp, nil
}

// ClassifyError maps a backend failure onto the error taxonomy so that
// rate-limit, quota-exhausted and generic failures stay distinguishable
// for the caller. Non-API errors (network, context cancellation) become
// ErrClassifierUnavailable.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return goerr.Wrap(model.ErrClassifierUnavailable, err.Error())
	}

	switch {
	case apiErr.Code == 402:
		return goerr.Wrap(model.ErrQuotaExhausted, apiErr.Message, goerr.V("code", apiErr.Code))
	case apiErr.Code == 429 && isQuotaMessage(apiErr.Message):
		return goerr.Wrap(model.ErrQuotaExhausted, apiErr.Message, goerr.V("code", apiErr.Code))
	case apiErr.Code == 429:
		return goerr.Wrap(model.ErrRateLimited, apiErr.Message, goerr.V("code", apiErr.Code))
	default:
		return goerr.Wrap(model.ErrClassifierUnavailable, apiErr.Message,
			goerr.V("code", apiErr.Code), goerr.V("status", apiErr.Status))
	}
}

// isQuotaMessage tells a billing/quota exhaustion apart from a transient
// rate limit. Both arrive as 429 RESOURCE_EXHAUSTED from the API; only
// the message distinguishes them.
func isQuotaMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "billing") || strings.Contains(lower, "credit")
}

package triage

import (
	"github.com/kindredapp/kindred/pkg/adapter"
	"github.com/kindredapp/kindred/pkg/repository"
)

// Defaults for the classification call. The classifier always runs on
// the standard model; tier routing only applies to free-text chat.
const defaultModel = "gemini-2.5-flash"

// UseCase runs the health-signal triage pipeline: assemble a bounded
// context for a new reading, classify it, persist the resulting alert.
type UseCase struct {
	repo      repository.Repository
	gemini    adapter.Gemini
	knowledge Knowledge
	modelID   string
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithModel overrides the model used for classification
func WithModel(modelID string) Option {
	return func(uc *UseCase) {
		uc.modelID = modelID
	}
}

// WithKnowledge injects the medication side-effect table embedded into
// the classifier prompt. Defaults to the built-in table.
func WithKnowledge(k Knowledge) Option {
	return func(uc *UseCase) {
		uc.knowledge = k
	}
}

// New creates a new triage UseCase instance
func New(repo repository.Repository, gemini adapter.Gemini, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:      repo,
		gemini:    gemini,
		knowledge: DefaultKnowledge(),
		modelID:   defaultModel,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

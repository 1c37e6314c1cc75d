package chat

import (
	"context"
	_ "embed"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/kindredapp/kindred/pkg/adapter"
	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/utils/logging"
)

//go:embed prompt/assistant.md
var assistantPromptRaw string

// Message is one role-tagged entry of a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UseCase answers free-text questions from caregivers, routing each
// request to the cheapest model tier sufficient for it.
type UseCase struct {
	gemini adapter.Gemini
}

// New creates a new chat UseCase instance
func New(gemini adapter.Gemini) *UseCase {
	return &UseCase{gemini: gemini}
}

// Send classifies the latest user message, forwards the conversation to
// the routed model, and returns the response text.
func (u *UseCase) Send(ctx context.Context, circleID model.CareCircleID, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", goerr.New("no messages to send", goerr.V("circle", circleID))
	}

	route := ClassifyMessage(lastUserMessage(messages))
	logging.From(ctx).Info("chat message routed",
		"circle", circleID, "tier", route.Tier, "model", route.Model)

	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(assistantPromptRaw, ""),
	}

	resp, err := u.gemini.GenerateContent(ctx, route.Model, contents, config)
	if err != nil {
		return "", goerr.Wrap(err, "chat call failed", goerr.V("tier", route.Tier))
	}

	text := responseText(resp)
	if text == "" {
		return "", goerr.Wrap(model.ErrClassifierUnavailable, "empty chat response", goerr.V("tier", route.Tier))
	}
	return text, nil
}

// lastUserMessage returns the content of the most recent user-role
// message; classification runs on what the caregiver actually asked,
// not on the assistant's replies.
func lastUserMessage(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" || messages[i].Role == "" {
			return messages[i].Content
		}
	}
	return ""
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

package triage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPromptRaw string

//go:embed prompt/reading.md
var readingPromptRaw string

var (
	systemPromptTmpl  = template.Must(template.New("system").Parse(systemPromptRaw))
	readingPromptTmpl = template.Must(template.New("reading").Parse(readingPromptRaw))
)

// fallbackTitle is used when the backend did not produce a conforming
// structured response.
const fallbackTitle = "Reading logged"

// assessment mirrors the response schema declared in schema.go
type assessment struct {
	Severity     string   `json:"severity"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Correlations []string `json:"correlations"`
	Action       string   `json:"action"`
}

// ClassifyReading converts an assembled context bundle into a persisted
// HealthAlert. Severity interpretation is fully delegated to the model;
// the only local checks are the schema constraint and the four-level
// enum clamp. A malformed response degrades to a normal-severity alert
// carrying the raw text; classification never fails on bad model output.
func (u *UseCase) ClassifyReading(ctx context.Context, bundle *ContextBundle) (*model.HealthAlert, error) {
	logger := logging.From(ctx)

	systemPrompt, userPrompt, err := renderPrompts(bundle, u.knowledge)
	if err != nil {
		return nil, err
	}

	schema, err := convertJSONSchemaToGenai(assessmentSchema())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build assessment schema")
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}
	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt, genai.RoleUser),
	}

	resp, err := u.gemini.GenerateContent(ctx, u.modelID, contents, config)
	if err != nil {
		return nil, goerr.Wrap(err, "classification call failed", goerr.V("reading", bundle.Reading.ID))
	}

	alert, err := u.buildAlert(ctx, bundle, responseText(resp))
	if err != nil {
		return nil, err
	}

	if err := u.repo.PutAlert(ctx, alert); err != nil {
		// Never discard a completed analysis because storage failed;
		// return it flagged as unsaved.
		logger.Error("failed to persist alert, returning unsaved",
			"alert_id", alert.ID, "reading_id", bundle.Reading.ID, "error", err)
		alert.Unsaved = true
		return alert, nil
	}

	logger.Info("health alert created",
		"alert_id", alert.ID,
		"reading_id", bundle.Reading.ID,
		"severity", alert.Severity)

	return alert, nil
}

// buildAlert parses the model response into an alert. Missing or
// unparsable structured fields fall back to a normal-severity alert; a
// severity outside the enum is a hard error.
func (u *UseCase) buildAlert(ctx context.Context, bundle *ContextBundle, raw string) (*model.HealthAlert, error) {
	alert := &model.HealthAlert{
		ID:           model.NewAlertID(),
		CareCircleID: bundle.Reading.CareCircleID,
		ReadingID:    bundle.Reading.ID,
		Correlations: []string{},
		Model:        u.modelID,
		CreatedAt:    time.Now(),
	}

	var parsed assessment
	cleaned := extractJSON(raw)
	if cleaned == "" || json.Unmarshal([]byte(cleaned), &parsed) != nil || parsed.Severity == "" {
		logging.From(ctx).Warn("malformed classifier response, falling back to normal severity",
			"reading_id", bundle.Reading.ID)
		alert.Severity = model.SeverityNormal
		alert.Title = fallbackTitle
		alert.Message = strings.TrimSpace(raw)
		if alert.Message == "" {
			alert.Message = "The reading was recorded but could not be assessed automatically."
		}
		return alert, nil
	}

	severity := model.Severity(parsed.Severity)
	if err := severity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "classifier returned severity outside the enum",
			goerr.V("reading", bundle.Reading.ID))
	}

	alert.Severity = severity
	alert.Title = parsed.Title
	alert.Message = parsed.Summary
	if parsed.Correlations != nil {
		alert.Correlations = parsed.Correlations
	}
	alert.ActionNeeded = parsed.Action

	return alert, nil
}

func renderPrompts(bundle *ContextBundle, knowledge Knowledge) (system string, user string, err error) {
	var sysBuf bytes.Buffer
	if err := systemPromptTmpl.Execute(&sysBuf, map[string]any{
		"RecipientName":   bundle.RecipientName,
		"Age":             bundle.Age,
		"Conditions":      bundle.Conditions,
		"MedicationTable": knowledge.RenderTable(),
	}); err != nil {
		return "", "", goerr.Wrap(err, "failed to render system prompt")
	}

	var userBuf bytes.Buffer
	if err := readingPromptTmpl.Execute(&userBuf, map[string]any{
		"ReadingLine":  bundle.ReadingLine,
		"HistoryBlock": bundle.HistoryBlock,
	}); err != nil {
		return "", "", goerr.Wrap(err, "failed to render reading prompt")
	}

	return sysBuf.String(), userBuf.String(), nil
}

// responseText concatenates the text parts of the first candidate
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

// extractJSON strips markdown code fences and surrounding prose, keeping
// the first balanced JSON object or array. Models occasionally wrap
// structured output despite the MIME-type constraint.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}
	s = s[start:]

	depth := 0
	inString := false
	escape := false
	for i, c := range s {
		if escape {
			escape = false
			continue
		}
		switch c {
		case '\\':
			escape = true
		case '"':
			inString = !inString
		case '{', '[':
			if !inString {
				depth++
			}
		case '}', ']':
			if !inString {
				depth--
				if depth == 0 {
					return s[:i+1]
				}
			}
		}
	}
	return ""
}

package triage

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kindredapp/kindred/pkg/model"
)

const (
	// historyWindow bounds retrieval by time: a recipient with years of
	// history only contributes the trailing 30 days.
	historyWindow = 30 * 24 * time.Hour

	// maxHistoryRows bounds retrieval by count, independent of the
	// window, so prompt size cannot grow without limit for heavy loggers.
	maxHistoryRows = 200

	// maxLinesPerType bounds each signal's narrative separately: a
	// device streaming one signal hourly cannot crowd out the others.
	maxLinesPerType = 10

	// NoHistorySentinel marks an empty history explicitly so the model
	// never sees an ambiguous blank block.
	NoHistorySentinel = "No prior readings recorded."

	// defaultRecipientName is used when recipient metadata has no name.
	defaultRecipientName = "the care recipient"

	// noConditionsSentinel is used when the condition list is empty.
	noConditionsSentinel = "none listed"
)

const historyLineTime = "2006-01-02 15:04"

// ContextBundle is the assembled input for one classification: the
// triggering reading, its one-line description, the rendered per-type
// history, and recipient metadata ready to embed verbatim in a prompt.
type ContextBundle struct {
	Reading       *model.HealthReading
	ReadingLine   string
	HistoryBlock  string
	RecipientName string
	// Age in whole years as a string, empty when date of birth is unknown.
	Age        string
	Conditions string
}

// AssembleContext retrieves the recipient's trailing 30 days of readings
// (newest first, capped at 200 rows), renders at most 10 lines per
// signal type, and pairs that with recipient metadata. Read-only; fails
// with ErrReadingNotFound when the triggering reading is not in the
// retrieved set.
func (u *UseCase) AssembleContext(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID, readingID model.ReadingID) (*ContextBundle, error) {
	now := time.Now()

	readings, err := u.repo.ListReadings(ctx, circleID, recipientID, now.Add(-historyWindow), maxHistoryRows)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list readings",
			goerr.V("circle", circleID), goerr.V("recipient", recipientID))
	}

	var trigger *model.HealthReading
	for _, r := range readings {
		if r.ID == readingID {
			trigger = r
			break
		}
	}
	if trigger == nil {
		// Race between insert and analysis, or wrong recipient scoping.
		// Surfaced as not-found; the caller must not retry silently.
		return nil, goerr.Wrap(model.ErrReadingNotFound, "triggering reading not in context window",
			goerr.V("reading", readingID), goerr.V("recipient", recipientID))
	}

	recipient, err := u.repo.GetRecipient(ctx, circleID, recipientID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get recipient", goerr.V("recipient", recipientID))
	}

	bundle := &ContextBundle{
		Reading:       trigger,
		ReadingLine:   renderReadingLine(trigger),
		HistoryBlock:  renderHistory(readings, trigger.ID),
		RecipientName: recipient.Name,
		Conditions:    strings.Join(recipient.Conditions, ", "),
	}

	if bundle.RecipientName == "" {
		bundle.RecipientName = defaultRecipientName
	}
	if bundle.Conditions == "" {
		bundle.Conditions = noConditionsSentinel
	}
	if age, ok := recipient.Age(now); ok {
		bundle.Age = strconv.Itoa(age)
	}

	return bundle, nil
}

// renderHistory groups readings by type preserving newest-first order of
// first appearance, keeps at most maxLinesPerType entries per type, and
// renders one line per reading. The triggering reading is rendered
// separately and excluded here.
func renderHistory(readings []*model.HealthReading, trigger model.ReadingID) string {
	grouped := make(map[model.ReadingType][]*model.HealthReading)
	var order []model.ReadingType

	for _, r := range readings {
		if r.ID == trigger {
			continue
		}
		if _, ok := grouped[r.Type]; !ok {
			order = append(order, r.Type)
		}
		if len(grouped[r.Type]) >= maxLinesPerType {
			continue
		}
		grouped[r.Type] = append(grouped[r.Type], r)
	}

	if len(order) == 0 {
		return NoHistorySentinel
	}

	var sb strings.Builder
	for i, typ := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(typ))
		sb.WriteString(":\n")
		for _, r := range grouped[typ] {
			sb.WriteString("  ")
			sb.WriteString(renderReadingLine(r))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderReadingLine renders one reading with type-specific formatting.
// Blood pressure shows all three components in systolic/diastolic/pulse
// order, filling absent components with N/A; other types render as
// "value unit".
func renderReadingLine(r *model.HealthReading) string {
	ts := r.CreatedAt.Format(historyLineTime)

	if r.Type == model.ReadingTypeBloodPressure {
		unit := r.Unit
		if unit == "" {
			unit = "mmHg"
		}
		return ts + ": " + formatValue(r.ValuePrimary) + "/" + formatOptional(r.ValueSecondary) +
			" " + unit + ", pulse " + formatOptional(r.ValueTertiary)
	}

	line := ts + ": " + formatValue(r.ValuePrimary)
	if r.Unit != "" {
		line += " " + r.Unit
	}
	return line
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatValue(*v)
}

package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kindredapp/kindred/pkg/model"
)

// Memory implements Repository with in-process maps. Used by unit tests
// and local runs without a Firestore project. Safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	readings   map[model.ReadingID]*model.HealthReading
	alerts     map[model.AlertID]*model.HealthAlert
	recipients map[model.CareRecipientID]*model.CareRecipient
	feedback   map[model.FeedbackID]*model.Feedback
}

var _ Repository = (*Memory)(nil)

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		readings:   make(map[model.ReadingID]*model.HealthReading),
		alerts:     make(map[model.AlertID]*model.HealthAlert),
		recipients: make(map[model.CareRecipientID]*model.CareRecipient),
		feedback:   make(map[model.FeedbackID]*model.Feedback),
	}
}

func (r *Memory) PutReading(ctx context.Context, reading *model.HealthReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *reading
	r.readings[reading.ID] = &copied
	return nil
}

func (r *Memory) GetReading(ctx context.Context, id model.ReadingID) (*model.HealthReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, ok := r.readings[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrReadingNotFound, "no such reading", goerr.V("id", id))
	}
	copied := *reading
	return &copied, nil
}

func (r *Memory) ListReadings(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID, since time.Time, limit int) ([]*model.HealthReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var readings []*model.HealthReading
	for _, reading := range r.readings {
		if reading.CareCircleID != circleID || reading.CareRecipientID != recipientID {
			continue
		}
		if reading.CreatedAt.Before(since) {
			continue
		}
		copied := *reading
		readings = append(readings, &copied)
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].CreatedAt.After(readings[j].CreatedAt)
	})

	if limit > 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings, nil
}

func (r *Memory) PutAlert(ctx context.Context, alert *model.HealthAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *alert
	r.alerts[alert.ID] = &copied
	return nil
}

func (r *Memory) GetAlert(ctx context.Context, id model.AlertID) (*model.HealthAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	alert, ok := r.alerts[id]
	if !ok {
		return nil, goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
	}
	copied := *alert
	return &copied, nil
}

func (r *Memory) ListAlerts(ctx context.Context, circleID model.CareCircleID, limit int) ([]*model.HealthAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var alerts []*model.HealthAlert
	for _, alert := range r.alerts {
		if alert.CareCircleID != circleID {
			continue
		}
		copied := *alert
		alerts = append(alerts, &copied)
	}

	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})

	if limit > 0 && len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts, nil
}

func (r *Memory) AcknowledgeAlert(ctx context.Context, id model.AlertID, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	alert, ok := r.alerts[id]
	if !ok {
		return goerr.Wrap(model.ErrAlertNotFound, "no such alert", goerr.V("id", id))
	}

	for _, existing := range alert.AcknowledgedBy {
		if existing == actor {
			return nil
		}
	}
	alert.AcknowledgedBy = append(alert.AcknowledgedBy, actor)
	return nil
}

func (r *Memory) GetRecipient(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID) (*model.CareRecipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipient, ok := r.recipients[recipientID]
	if !ok || recipient.CareCircleID != circleID {
		return nil, goerr.Wrap(model.ErrRecipientNotFound, "no such recipient",
			goerr.V("id", recipientID), goerr.V("circle", circleID))
	}
	copied := *recipient
	return &copied, nil
}

// PutRecipient seeds recipient metadata. Not part of the Repository
// interface; the pipeline treats recipients as read-only.
func (r *Memory) PutRecipient(recipient *model.CareRecipient) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *recipient
	r.recipients[recipient.ID] = &copied
}

func (r *Memory) PutFeedback(ctx context.Context, feedback *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *feedback
	r.feedback[feedback.ID] = &copied
	return nil
}

// Feedback returns all recorded feedback, for tests
func (r *Memory) Feedback() []*model.Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Feedback
	for _, f := range r.feedback {
		copied := *f
		out = append(out, &copied)
	}
	return out
}

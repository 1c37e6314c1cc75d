package repository

import (
	"context"
	"time"

	"github.com/kindredapp/kindred/pkg/model"
)

// Repository defines persistence for readings, alerts, recipient
// metadata and feedback. Readings are append-only; alerts support a
// single mutation, appending an acknowledger.
type Repository interface {
	// PutReading saves a reading
	PutReading(ctx context.Context, reading *model.HealthReading) error

	// GetReading retrieves a reading by ID
	GetReading(ctx context.Context, id model.ReadingID) (*model.HealthReading, error)

	// ListReadings retrieves readings for a recipient created at or
	// after since, newest first, capped at limit rows
	ListReadings(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID, since time.Time, limit int) ([]*model.HealthReading, error)

	// PutAlert saves an alert
	PutAlert(ctx context.Context, alert *model.HealthAlert) error

	// GetAlert retrieves an alert by ID
	GetAlert(ctx context.Context, id model.AlertID) (*model.HealthAlert, error)

	// ListAlerts retrieves a circle's alerts, newest first
	ListAlerts(ctx context.Context, circleID model.CareCircleID, limit int) ([]*model.HealthAlert, error)

	// AcknowledgeAlert appends an actor to the alert's AcknowledgedBy list
	AcknowledgeAlert(ctx context.Context, id model.AlertID, actor string) error

	// GetRecipient retrieves recipient metadata by (circle, recipient) key
	GetRecipient(ctx context.Context, circleID model.CareCircleID, recipientID model.CareRecipientID) (*model.CareRecipient, error)

	// PutFeedback saves a feedback note
	PutFeedback(ctx context.Context, feedback *model.Feedback) error
}

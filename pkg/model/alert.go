package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type AlertID string

// NewAlertID generates a new unique AlertID
func NewAlertID() AlertID {
	return AlertID(uuid.New().String())
}

// Severity is the categorical urgency of an assessment, totally ordered
// from SeverityNormal up to SeverityUrgent.
type Severity string

const (
	// SeverityNormal: values within healthy range, no action needed
	SeverityNormal Severity = "normal"
	// SeverityWatch: slightly off, monitor only
	SeverityWatch Severity = "watch"
	// SeverityAttention: above target or concerning trend, consider contacting a doctor
	SeverityAttention Severity = "attention"
	// SeverityUrgent: significantly dangerous values, act now
	SeverityUrgent Severity = "urgent"
)

// Validate checks if the severity is one of the four known levels.
// An unknown level is never coerced to a default: renaming an unknown
// urgency silently would risk under-alerting.
func (s Severity) Validate() error {
	switch s {
	case SeverityNormal, SeverityWatch, SeverityAttention, SeverityUrgent:
		return nil
	default:
		return goerr.Wrap(ErrUnrecognizedSeverity, "unrecognized severity", goerr.V("severity", s))
	}
}

// HealthAlert is one AI-produced assessment of a reading or trend.
// Created once by the classifier; afterwards only AcknowledgedBy is
// appended to.
type HealthAlert struct {
	ID           AlertID
	CareCircleID CareCircleID
	// ReadingID is empty when the alert assesses a general trend
	// rather than a single reading.
	ReadingID    ReadingID
	Severity     Severity
	Title        string
	Message      string
	Correlations []string
	ActionNeeded string
	// Model records which backend model produced the assessment.
	Model          string
	AcknowledgedBy []string
	CreatedAt      time.Time

	// Unsaved is set when classification succeeded but persisting the
	// alert failed. The assessment is still returned to the caller.
	Unsaved bool `firestore:"-"`
}

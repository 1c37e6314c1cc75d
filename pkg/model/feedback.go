package model

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackID string

// NewFeedbackID generates a new unique FeedbackID
func NewFeedbackID() FeedbackID {
	return FeedbackID(uuid.New().String())
}

// Feedback is a raw text note submitted by a caregiver about the
// assistant. Stored as-is, never interpreted by the pipeline.
type Feedback struct {
	ID           FeedbackID
	CareCircleID CareCircleID
	SubmittedBy  string
	Text         string
	CreatedAt    time.Time
}

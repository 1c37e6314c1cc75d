package model

import (
	"time"

	"github.com/google/uuid"
)

type ReadingID string

// NewReadingID generates a new unique ReadingID
func NewReadingID() ReadingID {
	return ReadingID(uuid.New().String())
}

type CareCircleID string

type CareRecipientID string

// ReadingType identifies the kind of measurement. The set is open:
// unknown types are stored and rendered generically.
type ReadingType string

const (
	ReadingTypeBloodPressure ReadingType = "bp"
	ReadingTypeWeight        ReadingType = "weight"
	ReadingTypeHeartRate     ReadingType = "heart_rate"
	ReadingTypeSteps         ReadingType = "steps"
	ReadingTypeSleep         ReadingType = "sleep"
)

type ReadingSource string

const (
	ReadingSourceManual      ReadingSource = "manual"
	ReadingSourceAppleHealth ReadingSource = "apple_health"
	ReadingSourceDevice      ReadingSource = "device"
)

// HealthReading is one timestamped measurement event. Readings are
// append-only: created once on logging, never mutated or deleted.
// The meaning of ValueSecondary/ValueTertiary depends on Type; for
// blood pressure they are diastolic and pulse.
type HealthReading struct {
	ID              ReadingID
	CareCircleID    CareCircleID
	CareRecipientID CareRecipientID
	Type            ReadingType
	ValuePrimary    float64
	ValueSecondary  *float64
	ValueTertiary   *float64
	Unit            string
	Source          ReadingSource
	LoggedBy        string
	LoggedByName    string
	Notes           string
	CreatedAt       time.Time
}

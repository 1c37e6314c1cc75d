package model

import "time"

// CareRecipient is the person being cared for. Read-only input to the
// triage pipeline; ownership of readings and alerts is scoped by
// (CareCircleID, ID).
type CareRecipient struct {
	ID           CareRecipientID
	CareCircleID CareCircleID
	Name         string
	// DateOfBirth is nil when unknown; age is then omitted from the
	// assembled context.
	DateOfBirth *time.Time
	Conditions  []string
}

// Age returns the recipient's age in whole years at the given time, or
// false when the date of birth is unknown.
func (r *CareRecipient) Age(now time.Time) (int, bool) {
	if r.DateOfBirth == nil {
		return 0, false
	}

	dob := *r.DateOfBirth
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}

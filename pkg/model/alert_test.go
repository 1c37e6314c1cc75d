package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/kindredapp/kindred/pkg/model"
)

func TestSeverityValidate(t *testing.T) {
	tests := []struct {
		severity model.Severity
		valid    bool
	}{
		{model.SeverityNormal, true},
		{model.SeverityWatch, true},
		{model.SeverityAttention, true},
		{model.SeverityUrgent, true},
		{model.Severity("critical"), false},
		{model.Severity(""), false},
		{model.Severity("URGENT"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			err := tt.severity.Validate()
			if tt.valid {
				gt.NoError(t, err)
			} else {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, model.ErrUnrecognizedSeverity))
			}
		})
	}
}

func TestRecipientAge(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("birthday already passed this year", func(t *testing.T) {
		dob := time.Date(1950, 3, 14, 0, 0, 0, 0, time.UTC)
		r := &model.CareRecipient{DateOfBirth: &dob}
		age, ok := r.Age(now)
		gt.True(t, ok)
		gt.Equal(t, age, 76)
	})

	t.Run("birthday later this year", func(t *testing.T) {
		dob := time.Date(1950, 11, 2, 0, 0, 0, 0, time.UTC)
		r := &model.CareRecipient{DateOfBirth: &dob}
		age, ok := r.Age(now)
		gt.True(t, ok)
		gt.Equal(t, age, 75)
	})

	t.Run("birthday today", func(t *testing.T) {
		dob := time.Date(1950, 8, 29, 0, 0, 0, 0, time.UTC)
		r := &model.CareRecipient{DateOfBirth: &dob}
		age, ok := r.Age(now)
		gt.True(t, ok)
		gt.Equal(t, age, 76)
	})

	t.Run("unknown date of birth", func(t *testing.T) {
		r := &model.CareRecipient{}
		_, ok := r.Age(now)
		gt.False(t, ok)
	})
}

package triage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"google.golang.org/genai"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/repository"
	"github.com/kindredapp/kindred/pkg/usecase/triage"
)

// mockGemini is a mock implementation of adapter.Gemini for testing
type mockGemini struct {
	generateFunc func(ctx context.Context, modelID string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func (m *mockGemini) GenerateContent(ctx context.Context, modelID string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, modelID, contents, config)
	}
	return nil, errors.New("not implemented")
}

const (
	testCircle    = model.CareCircleID("circle-1")
	testRecipient = model.CareRecipientID("recipient-1")
)

func seedRecipient(repo *repository.Memory) {
	dob := time.Date(1948, 5, 2, 0, 0, 0, 0, time.UTC)
	repo.PutRecipient(&model.CareRecipient{
		ID:           testRecipient,
		CareCircleID: testCircle,
		Name:         "Margaret",
		DateOfBirth:  &dob,
		Conditions:   []string{"hypertension", "type 2 diabetes"},
	})
}

func putBP(t *testing.T, repo *repository.Memory, systolic, diastolic float64, pulse *float64, createdAt time.Time) *model.HealthReading {
	t.Helper()
	reading := &model.HealthReading{
		ID:              model.NewReadingID(),
		CareCircleID:    testCircle,
		CareRecipientID: testRecipient,
		Type:            model.ReadingTypeBloodPressure,
		ValuePrimary:    systolic,
		ValueSecondary:  &diastolic,
		ValueTertiary:   pulse,
		Unit:            "mmHg",
		Source:          model.ReadingSourceManual,
		CreatedAt:       createdAt,
	}
	gt.NoError(t, repo.PutReading(context.Background(), reading))
	return reading
}

func putGeneric(t *testing.T, repo *repository.Memory, typ model.ReadingType, value float64, unit string, createdAt time.Time) *model.HealthReading {
	t.Helper()
	reading := &model.HealthReading{
		ID:              model.NewReadingID(),
		CareCircleID:    testCircle,
		CareRecipientID: testRecipient,
		Type:            typ,
		ValuePrimary:    value,
		Unit:            unit,
		Source:          model.ReadingSourceDevice,
		CreatedAt:       createdAt,
	}
	gt.NoError(t, repo.PutReading(context.Background(), reading))
	return reading
}

func TestAssembleContext(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("bundle carries recipient metadata", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		pulse := 72.0
		trigger := putBP(t, repo, 128, 82, &pulse, now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.Equal(t, bundle.RecipientName, "Margaret")
		gt.S(t, bundle.Conditions).Contains("hypertension")
		gt.S(t, bundle.Conditions).Contains("type 2 diabetes")
		gt.V(t, bundle.Age).NotEqual("")
	})

	t.Run("bp line includes systolic, diastolic and pulse in order", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		pulse := 72.0
		trigger := putBP(t, repo, 128, 82, &pulse, now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.S(t, bundle.ReadingLine).Contains("128/82 mmHg, pulse 72")
	})

	t.Run("bp line fills absent pulse with N/A", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		trigger := putBP(t, repo, 140, 90, nil, now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.S(t, bundle.ReadingLine).Contains("140/90 mmHg, pulse N/A")
	})

	t.Run("generic types render value and unit", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		trigger := putGeneric(t, repo, model.ReadingTypeWeight, 152.5, "lbs", now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.S(t, bundle.ReadingLine).Contains("152.5 lbs")
	})

	t.Run("history caps at 10 lines per type", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)

		// A device streaming heart rate hourly: 30 readings of one type
		for i := 1; i <= 30; i++ {
			putGeneric(t, repo, model.ReadingTypeHeartRate, float64(60+i), "bpm", now.Add(-time.Duration(i)*time.Hour))
		}
		trigger := putGeneric(t, repo, model.ReadingTypeHeartRate, 65, "bpm", now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		lines := 0
		for _, line := range strings.Split(bundle.HistoryBlock, "\n") {
			if strings.Contains(line, "bpm") {
				lines++
			}
		}
		gt.Equal(t, lines, 10)
	})

	t.Run("history keeps the most recent entries per type", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)

		for i := 1; i <= 15; i++ {
			putGeneric(t, repo, model.ReadingTypeSteps, float64(1000*i), "steps", now.Add(-time.Duration(i)*time.Hour))
		}
		trigger := putGeneric(t, repo, model.ReadingTypeSteps, 500, "steps", now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		// Newest 10 history entries are 1000..10000; 11000+ fall off
		gt.S(t, bundle.HistoryBlock).Contains("1000 steps")
		gt.S(t, bundle.HistoryBlock).Contains("10000 steps")
		gt.S(t, bundle.HistoryBlock).NotContains("11000 steps")
	})

	t.Run("no prior readings sentinel", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		trigger := putBP(t, repo, 120, 80, nil, now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.Equal(t, bundle.HistoryBlock, triage.NoHistorySentinel)
	})

	t.Run("missing trigger reading is not found", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		putBP(t, repo, 120, 80, nil, now)

		uc := triage.New(repo, &mockGemini{})
		_, err := uc.AssembleContext(ctx, testCircle, testRecipient, model.ReadingID("missing"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrReadingNotFound))
	})

	t.Run("reading outside the 30-day window is not found", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		stale := putBP(t, repo, 120, 80, nil, now.Add(-45*24*time.Hour))

		uc := triage.New(repo, &mockGemini{})
		_, err := uc.AssembleContext(ctx, testCircle, testRecipient, stale.ID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrReadingNotFound))
	})

	t.Run("wrong recipient scoping is not found", func(t *testing.T) {
		repo := repository.NewMemory()
		seedRecipient(repo)
		repo.PutRecipient(&model.CareRecipient{
			ID:           model.CareRecipientID("recipient-2"),
			CareCircleID: testCircle,
			Name:         "Harold",
		})
		trigger := putBP(t, repo, 120, 80, nil, now)

		uc := triage.New(repo, &mockGemini{})
		_, err := uc.AssembleContext(ctx, testCircle, model.CareRecipientID("recipient-2"), trigger.ID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrReadingNotFound))
	})

	t.Run("placeholder name and conditions sentinel", func(t *testing.T) {
		repo := repository.NewMemory()
		repo.PutRecipient(&model.CareRecipient{
			ID:           testRecipient,
			CareCircleID: testCircle,
		})
		trigger := putBP(t, repo, 120, 80, nil, now)

		uc := triage.New(repo, &mockGemini{})
		bundle, err := uc.AssembleContext(ctx, testCircle, testRecipient, trigger.ID)
		gt.NoError(t, err)

		gt.Equal(t, bundle.RecipientName, "the care recipient")
		gt.Equal(t, bundle.Conditions, "none listed")
		gt.Equal(t, bundle.Age, "")
	})
}

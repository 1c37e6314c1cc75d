package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kindredapp/kindred/pkg/utils/logging"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		infoShown  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"WARNING", false, false},
		{"invalid", false, true}, // falls back to info
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tt.level, buf)

			logger.Debug("reading decoded")
			logger.Info("alert created")

			out := buf.String()
			if tt.debugShown {
				gt.S(t, out).Contains("reading decoded")
			} else {
				gt.S(t, out).NotContains("reading decoded")
			}
			if tt.infoShown {
				gt.S(t, out).Contains("alert created")
			} else {
				gt.S(t, out).NotContains("alert created")
			}
		})
	}
}

func TestContextCarry(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", buf).With("component", "triage")

	ctx := logging.With(context.Background(), logger)
	gt.Equal(t, logging.From(ctx), logger)

	logging.From(ctx).Info("context assembled")
	out := buf.String()
	gt.S(t, out).Contains("context assembled")
	gt.S(t, out).Contains("triage")
}

func TestFromFallsBackToDefault(t *testing.T) {
	gt.V(t, logging.From(context.Background())).NotNil()
}

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New("warn", buf))

	logging.From(context.Background()).Warn("persist failed")
	gt.S(t, buf.String()).Contains("persist failed")
}

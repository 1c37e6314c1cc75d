package feedback_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kindredapp/kindred/pkg/repository"
	"github.com/kindredapp/kindred/pkg/usecase/feedback"
)

func TestRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("stores text verbatim", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := feedback.New(repo)

		fb, err := uc.Record(ctx, "circle-1", "user-7", "the urgent alert for a normal reading scared us")
		gt.NoError(t, err)
		gt.V(t, fb.ID).NotEqual("")
		gt.Equal(t, fb.CareCircleID, "circle-1")
		gt.Equal(t, fb.SubmittedBy, "user-7")
		gt.Equal(t, fb.Text, "the urgent alert for a normal reading scared us")

		stored := repo.Feedback()
		gt.A(t, stored).Length(1)
		gt.Equal(t, stored[0].ID, fb.ID)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		uc := feedback.New(repository.NewMemory())

		_, err := uc.Record(ctx, "circle-1", "user-7", "   ")
		gt.Error(t, err)
	})
}

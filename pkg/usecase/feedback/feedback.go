package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/repository"
	"github.com/kindredapp/kindred/pkg/utils/logging"
)

// UseCase records caregiver feedback about the assistant
type UseCase struct {
	repo repository.Repository
}

// New creates a new feedback UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Record persists one feedback note. The text is stored verbatim, the
// pipeline never interprets it.
func (u *UseCase) Record(ctx context.Context, circleID model.CareCircleID, submittedBy, text string) (*model.Feedback, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.New("feedback text is empty", goerr.V("circle", circleID))
	}

	fb := &model.Feedback{
		ID:           model.NewFeedbackID(),
		CareCircleID: circleID,
		SubmittedBy:  submittedBy,
		Text:         text,
		CreatedAt:    time.Now(),
	}

	if err := u.repo.PutFeedback(ctx, fb); err != nil {
		return nil, goerr.Wrap(err, "failed to save feedback", goerr.V("circle", circleID))
	}

	logging.From(ctx).Info("feedback recorded", "circle", circleID, "id", fb.ID)
	return fb, nil
}

package records

import (
	"context"
	"time"
)

// Repo defines persistence operations for analysis records.
type Repo interface {
	Save(ctx context.Context, rec Record) error
	SetFeedback(ctx context.Context, id string, feedback Feedback) error
	Summary(ctx context.Context, start, end time.Time) (Summary, error)
}

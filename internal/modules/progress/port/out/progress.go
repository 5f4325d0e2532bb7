package out

import (
	"context"
	"time"

	dailydomain "mih/internal/modules/daily/domain"
)

// ActionSource is the slice of the daily store this module reads. The daily
// module's sqlite store satisfies it.
type ActionSource interface {
	ActionsSince(ctx context.Context, userID string, cutoff time.Time) ([]dailydomain.Action, error)
	ActionsInRange(ctx context.Context, userID string, start, end time.Time) ([]dailydomain.Action, error)
}

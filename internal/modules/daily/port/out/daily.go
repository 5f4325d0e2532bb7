package out

import (
	"context"
	"time"

	"mih/internal/modules/daily/domain"
	plandomain "mih/internal/modules/plan/domain"
)

type ActionStore interface {
	InsertActions(ctx context.Context, actions []domain.Action) error
	// ActionsByDay returns the user's actions for one calendar day, oldest
	// insert first.
	ActionsByDay(ctx context.Context, userID string, day time.Time) ([]domain.Action, error)
	// CheckIn sets or clears completion and returns the updated action, or
	// apperrors.ErrNotFound when the action does not belong to the user.
	CheckIn(ctx context.Context, userID, actionID string, completed bool, completedAt *time.Time) (domain.Action, error)
	// CompletedDays returns one day per completed action, duplicates kept.
	CompletedDays(ctx context.Context, userID string) ([]time.Time, error)
	// FirstDay returns the earliest action day recorded for a plan; ok is
	// false when the plan has no actions yet.
	FirstDay(ctx context.Context, userID, planID string) (time.Time, bool, error)
	// ActionsSince returns actions on or after cutoff, day ascending.
	ActionsSince(ctx context.Context, userID string, cutoff time.Time) ([]domain.Action, error)
	// ActionsInRange returns actions with start <= day <= end.
	ActionsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Action, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}

// NextActionGenerator proposes today's action for one focus area, given
// yesterday's actions for context and how many days the plan has been
// running.
type NextActionGenerator interface {
	NextAction(ctx context.Context, area plandomain.FocusArea, yesterday []domain.Action, dayIndex int) (string, error)
}

package out

import (
	"context"

	"mih/internal/modules/plan/domain"
)

type GoalStore interface {
	SaveGoal(ctx context.Context, goal domain.Goal) error
}

type PlanStore interface {
	SavePlan(ctx context.Context, plan domain.Plan) error
	// PlansByUser returns plans newest first.
	PlansByUser(ctx context.Context, userID string) ([]domain.Plan, error)
	// CurrentPlan returns the latest active plan, or
	// apperrors.ErrNoActivePlan.
	CurrentPlan(ctx context.Context, userID string) (domain.Plan, error)
	// ActivePlans returns active plans oldest first.
	ActivePlans(ctx context.Context, userID string) ([]domain.Plan, error)
	// ArchiveAll marks every non-archived plan archived.
	ArchiveAll(ctx context.Context, userID string) error
}

// Generator produces focus areas from a raw goal dump. Implementations may
// fail; the service falls back to a canned plan.
type Generator interface {
	GeneratePlan(ctx context.Context, text string, images []string, timeline string) ([]domain.FocusArea, error)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mih/internal/modules/plan/domain"
	planout "mih/internal/modules/plan/port/out"
	"mih/internal/platform/clock"
	apperrors "mih/internal/platform/errors"
	"mih/internal/platform/id"
)

type PlanService struct {
	clock clock.Clock
	idGen id.Generator
	goals planout.GoalStore
	plans planout.PlanStore
	gen   planout.Generator
	log   *slog.Logger
}

// NewPlanService wires the plan module. gen may be nil; the fallback plan
// is used then.
func NewPlanService(clk clock.Clock, idGen id.Generator, goals planout.GoalStore, plans planout.PlanStore, gen planout.Generator, log *slog.Logger) *PlanService {
	if log == nil {
		log = slog.Default()
	}
	return &PlanService{clock: clk, idGen: idGen, goals: goals, plans: plans, gen: gen, log: log}
}

// DumpGoal stores the raw dump, generates a plan for it, and returns both.
// Generation failures degrade to the fallback plan rather than failing the
// dump.
func (s *PlanService) DumpGoal(ctx context.Context, userID, text string, images []string, timeline string) (domain.Goal, domain.Plan, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Goal{}, domain.Plan{}, fmt.Errorf("%w: goal text is required", apperrors.ErrInvalidInput)
	}
	if !domain.ValidTimeline(timeline) {
		return domain.Goal{}, domain.Plan{}, fmt.Errorf("%w: unknown timeline %q", apperrors.ErrInvalidInput, timeline)
	}
	if images == nil {
		images = []string{}
	}

	goal := domain.Goal{
		ID:        s.idGen.New(),
		UserID:    userID,
		RawInput:  text,
		Images:    images,
		Timeline:  timeline,
		CreatedAt: s.clock.Now(),
	}
	if err := s.goals.SaveGoal(ctx, goal); err != nil {
		return domain.Goal{}, domain.Plan{}, err
	}

	areas := s.generate(ctx, text, images, timeline)

	plan := domain.Plan{
		ID:         s.idGen.New(),
		UserID:     userID,
		GoalID:     goal.ID,
		FocusAreas: areas,
		Timeline:   timeline,
		Status:     domain.StatusActive,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.plans.SavePlan(ctx, plan); err != nil {
		return domain.Goal{}, domain.Plan{}, err
	}
	return goal, plan, nil
}

func (s *PlanService) generate(ctx context.Context, text string, images []string, timeline string) []domain.FocusArea {
	if s.gen == nil {
		s.log.Warn("plan generator not configured, using fallback plan")
		return domain.FallbackFocusAreas()
	}
	areas, err := s.gen.GeneratePlan(ctx, text, images, timeline)
	if err != nil {
		s.log.Warn("plan generation failed, using fallback plan", "error", err)
		return domain.FallbackFocusAreas()
	}
	if len(areas) == 0 {
		s.log.Warn("plan generation returned no focus areas, using fallback plan")
		return domain.FallbackFocusAreas()
	}
	return areas
}

func (s *PlanService) List(ctx context.Context, userID string) ([]domain.Plan, error) {
	return s.plans.PlansByUser(ctx, userID)
}

func (s *PlanService) Current(ctx context.Context, userID string) (domain.Plan, error) {
	return s.plans.CurrentPlan(ctx, userID)
}

// Archive marks every non-archived plan archived. Half of start-fresh; the
// daily module clears the actions.
func (s *PlanService) Archive(ctx context.Context, userID string) error {
	return s.plans.ArchiveAll(ctx, userID)
}

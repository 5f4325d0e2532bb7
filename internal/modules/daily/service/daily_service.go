package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mih/internal/modules/daily/domain"
	dailyout "mih/internal/modules/daily/port/out"
	plandomain "mih/internal/modules/plan/domain"
	planout "mih/internal/modules/plan/port/out"
	"mih/internal/platform/clock"
	"mih/internal/platform/id"
)

const defaultSeedAction = "Take one small step today."

type DailyService struct {
	clock        clock.Clock
	idGen        id.Generator
	store        dailyout.ActionStore
	plans        planout.PlanStore
	gen          dailyout.NextActionGenerator
	loc          *time.Location
	rolloverHour int
	maxConc      int
	log          *slog.Logger
}

// NewDailyService wires the daily module. gen may be nil; fresh actions are
// then produced by the rotating fallback.
func NewDailyService(clk clock.Clock, idGen id.Generator, store dailyout.ActionStore, plans planout.PlanStore, gen dailyout.NextActionGenerator, loc *time.Location, rolloverHour, maxConcurrency int, log *slog.Logger) *DailyService {
	if loc == nil {
		loc = time.UTC
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &DailyService{
		clock:        clk,
		idGen:        idGen,
		store:        store,
		plans:        plans,
		gen:          gen,
		loc:          loc,
		rolloverHour: rolloverHour,
		maxConc:      maxConcurrency,
		log:          log,
	}
}

// EffectiveToday is the user's current calendar day after rollover.
func (s *DailyService) EffectiveToday() time.Time {
	return domain.EffectiveDay(s.clock.Now(), s.loc, s.rolloverHour)
}

// Today returns the user's actions for the effective day, materializing them
// first: yesterday's incomplete actions carry over once, and every active
// plan without actions today gets one fresh action per focus area.
func (s *DailyService) Today(ctx context.Context, userID string) ([]domain.Action, error) {
	today := s.EffectiveToday()
	yesterday := today.AddDate(0, 0, -1)

	existing, err := s.store.ActionsByDay(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	yesterdays, err := s.store.ActionsByDay(ctx, userID, yesterday)
	if err != nil {
		return nil, err
	}
	var incomplete []domain.Action
	for _, a := range yesterdays {
		if !a.Completed {
			incomplete = append(incomplete, a)
		}
	}

	carried := domain.CarryOver(incomplete, today, yesterday, existing)
	for i := range carried {
		carried[i].ID = s.idGen.New()
	}
	if len(carried) > 0 {
		if err := s.store.InsertActions(ctx, carried); err != nil {
			return nil, err
		}
		existing = append(existing, carried...)
	}

	plans, err := s.plans.ActivePlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Carried-over copies do not count as coverage; a plan is covered only
	// once it has an action generated for today itself.
	covered := make(map[string]bool, len(existing))
	for _, a := range existing {
		if a.Fresh() {
			covered[a.PlanID] = true
		}
	}

	var fresh []domain.Action
	for _, plan := range plans {
		if covered[plan.ID] {
			continue
		}
		generated, err := s.generateForPlan(ctx, userID, plan, yesterdays, today)
		if err != nil {
			return nil, err
		}
		fresh = append(fresh, generated...)
	}
	if len(fresh) > 0 {
		if err := s.store.InsertActions(ctx, fresh); err != nil {
			return nil, err
		}
	}

	return s.store.ActionsByDay(ctx, userID, today)
}

// generateForPlan produces one action per focus area. Calls to the generator
// run concurrently, bounded by maxConc; any failure degrades that area to
// the fallback text.
func (s *DailyService) generateForPlan(ctx context.Context, userID string, plan plandomain.Plan, yesterdays []domain.Action, today time.Time) ([]domain.Action, error) {
	dayIndex := 0
	if first, ok, err := s.store.FirstDay(ctx, userID, plan.ID); err != nil {
		return nil, err
	} else if ok {
		dayIndex = int(today.Sub(first).Hours() / 24)
		if dayIndex < 0 {
			dayIndex = 0
		}
	}

	texts := make([]string, len(plan.FocusAreas))
	sem := make(chan struct{}, s.maxConc)
	var wg sync.WaitGroup
	for i, area := range plan.FocusAreas {
		wg.Add(1)
		go func(i int, area plandomain.FocusArea) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			texts[i] = s.nextAction(ctx, area, yesterdays, dayIndex)
		}(i, area)
	}
	wg.Wait()

	actions := make([]domain.Action, 0, len(plan.FocusAreas))
	for i, area := range plan.FocusAreas {
		actions = append(actions, domain.Action{
			ID:        s.idGen.New(),
			UserID:    userID,
			PlanID:    plan.ID,
			FocusArea: area.Name,
			Text:      texts[i],
			Day:       today,
		})
	}
	return actions, nil
}

func (s *DailyService) nextAction(ctx context.Context, area plandomain.FocusArea, yesterdays []domain.Action, dayIndex int) string {
	if s.gen == nil {
		return domain.FallbackNextAction(area, dayIndex)
	}
	text, err := s.gen.NextAction(ctx, area, yesterdays, dayIndex)
	if err != nil || text == "" {
		s.log.Warn("next-action generation failed, using fallback", "focus_area", area.Name, "error", err)
		return domain.FallbackNextAction(area, dayIndex)
	}
	return text
}

// CheckIn toggles completion. Completing stamps completed_at with the
// current instant; un-completing clears it.
func (s *DailyService) CheckIn(ctx context.Context, userID, actionID string, completed bool) (domain.Action, error) {
	var completedAt *time.Time
	if completed {
		now := s.clock.Now()
		completedAt = &now
	}
	return s.store.CheckIn(ctx, userID, actionID, completed, completedAt)
}

func (s *DailyService) Streak(ctx context.Context, userID string) (domain.Streak, error) {
	days, err := s.store.CompletedDays(ctx, userID)
	if err != nil {
		return domain.Streak{}, err
	}
	return domain.ComputeStreak(days, s.EffectiveToday()), nil
}

// SeedPlanActions creates today's actions for a freshly generated plan, one
// per focus area, using each area's own daily action.
func (s *DailyService) SeedPlanActions(ctx context.Context, plan plandomain.Plan) ([]domain.Action, error) {
	today := s.EffectiveToday()
	actions := make([]domain.Action, 0, len(plan.FocusAreas))
	for _, area := range plan.FocusAreas {
		text := area.DailyAction
		if text == "" {
			text = defaultSeedAction
		}
		actions = append(actions, domain.Action{
			ID:        s.idGen.New(),
			UserID:    plan.UserID,
			PlanID:    plan.ID,
			FocusArea: area.Name,
			Text:      text,
			Day:       today,
		})
	}
	if len(actions) == 0 {
		return nil, nil
	}
	if err := s.store.InsertActions(ctx, actions); err != nil {
		return nil, err
	}
	return actions, nil
}

// ClearAll removes every action the user has. The other half of
// start-fresh, next to plan archival.
func (s *DailyService) ClearAll(ctx context.Context, userID string) error {
	return s.store.DeleteAllForUser(ctx, userID)
}

package service

import (
	"context"
	"time"

	dailydomain "mih/internal/modules/daily/domain"
	"mih/internal/modules/progress/domain"
	progressout "mih/internal/modules/progress/port/out"
	"mih/internal/platform/clock"
)

const historyDays = 30

type ProgressService struct {
	clock        clock.Clock
	source       progressout.ActionSource
	loc          *time.Location
	rolloverHour int
}

func NewProgressService(clk clock.Clock, source progressout.ActionSource, loc *time.Location, rolloverHour int) *ProgressService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressService{clock: clk, source: source, loc: loc, rolloverHour: rolloverHour}
}

func (s *ProgressService) today() time.Time {
	return dailydomain.EffectiveDay(s.clock.Now(), s.loc, s.rolloverHour)
}

// History returns the last 30 days of actions, day ascending, with window
// totals.
func (s *ProgressService) History(ctx context.Context, userID string) ([]dailydomain.Action, domain.HistoryTotals, error) {
	cutoff := s.today().AddDate(0, 0, -historyDays)
	actions, err := s.source.ActionsSince(ctx, userID, cutoff)
	if err != nil {
		return nil, domain.HistoryTotals{}, err
	}
	return actions, domain.Totals(actions), nil
}

// Weekly summarizes the Monday-to-Sunday week enclosing today.
func (s *ProgressService) Weekly(ctx context.Context, userID string) (domain.WeeklySummary, error) {
	today := s.today()
	start, end := domain.WeekBounds(today)
	actions, err := s.source.ActionsInRange(ctx, userID, start, end)
	if err != nil {
		return domain.WeeklySummary{}, err
	}
	return domain.Summarize(actions, today), nil
}

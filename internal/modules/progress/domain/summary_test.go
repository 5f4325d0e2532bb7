package domain_test

import (
	"strings"
	"testing"
	"time"

	dailydomain "mih/internal/modules/daily/domain"
	"mih/internal/modules/progress/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekBoundsMondayThroughSunday(t *testing.T) {
	t.Parallel()
	// 2026-08-19 is a Wednesday.
	start, end := domain.WeekBounds(day(2026, 8, 19))
	if !start.Equal(day(2026, 8, 17)) || !end.Equal(day(2026, 8, 23)) {
		t.Fatalf("expected Mon 17 .. Sun 23, got %s .. %s", start, end)
	}
	// A Monday is its own week start.
	start, _ = domain.WeekBounds(day(2026, 8, 17))
	if !start.Equal(day(2026, 8, 17)) {
		t.Fatalf("monday must be its own week start, got %s", start)
	}
	// Sundays belong to the week that started six days earlier.
	start, _ = domain.WeekBounds(day(2026, 8, 23))
	if !start.Equal(day(2026, 8, 17)) {
		t.Fatalf("sunday must close the week of Mon 17, got %s", start)
	}
}

func TestSummarizeAggregatesPerFocusAreaInFirstSeenOrder(t *testing.T) {
	t.Parallel()
	actions := []dailydomain.Action{
		{FocusArea: "Writing", Text: "draft page", Completed: true},
		{FocusArea: "Health", Text: "run 2k", Completed: false},
		{FocusArea: "Writing", Text: "edit page", Completed: true},
		{FocusArea: "Health", Text: "stretch", Completed: true},
	}

	s := domain.Summarize(actions, day(2026, 8, 19))
	if s.TotalActions != 4 || s.CompletedActions != 3 {
		t.Fatalf("expected 3/4 completed, got %d/%d", s.CompletedActions, s.TotalActions)
	}
	if s.CompletionRate != 75 {
		t.Fatalf("expected 75%%, got %.1f", s.CompletionRate)
	}
	if len(s.FocusAreasProgress) != 2 {
		t.Fatalf("expected 2 focus areas, got %d", len(s.FocusAreasProgress))
	}
	if s.FocusAreasProgress[0].Name != "Writing" || s.FocusAreasProgress[1].Name != "Health" {
		t.Fatalf("focus areas must keep first-seen order: %+v", s.FocusAreasProgress)
	}
	if s.FocusAreasProgress[0].Rate != 100 || s.FocusAreasProgress[1].Rate != 50 {
		t.Fatalf("unexpected per-area rates: %+v", s.FocusAreasProgress)
	}
	if len(s.Wins) != 3 || !strings.HasPrefix(s.Wins[0], "Writing: ") {
		t.Fatalf("wins must list completed actions with their area: %v", s.Wins)
	}
	if s.MomentumMessage == "" {
		t.Fatalf("summary must carry a momentum message")
	}
}

func TestSummarizeCapsWinsAtFive(t *testing.T) {
	t.Parallel()
	var actions []dailydomain.Action
	for i := 0; i < 8; i++ {
		actions = append(actions, dailydomain.Action{FocusArea: "A", Text: "x", Completed: true})
	}
	s := domain.Summarize(actions, day(2026, 8, 19))
	if len(s.Wins) != 5 {
		t.Fatalf("expected wins capped at 5, got %d", len(s.Wins))
	}
}

func TestSummarizeEmptyWeek(t *testing.T) {
	t.Parallel()
	s := domain.Summarize(nil, day(2026, 8, 19))
	if s.TotalActions != 0 || s.CompletionRate != 0 {
		t.Fatalf("empty week must be all zeroes: %+v", s)
	}
	if s.MomentumMessage == "" {
		t.Fatalf("empty week still gets a message")
	}
}

func TestMomentumMessageTiers(t *testing.T) {
	t.Parallel()
	build := func(completed, total int) string {
		var actions []dailydomain.Action
		for i := 0; i < total; i++ {
			actions = append(actions, dailydomain.Action{FocusArea: "A", Text: "x", Completed: i < completed})
		}
		return domain.Summarize(actions, day(2026, 8, 19)).MomentumMessage
	}

	msgs := map[string]bool{}
	for _, tc := range []struct{ completed, total int }{
		{9, 10}, // >= 80
		{7, 10}, // >= 60
		{5, 10}, // >= 40
		{1, 10}, // > 0
		{0, 10}, // zero
	} {
		msgs[build(tc.completed, tc.total)] = true
	}
	if len(msgs) != 5 {
		t.Fatalf("expected a distinct message per tier, got %d", len(msgs))
	}
}

func TestTotals(t *testing.T) {
	t.Parallel()
	got := domain.Totals([]dailydomain.Action{
		{Completed: true}, {Completed: false}, {Completed: true},
	})
	if got.TotalActions != 3 || got.CompletedActions != 2 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.CompletionRate != 66.7 {
		t.Fatalf("expected 66.7, got %.1f", got.CompletionRate)
	}
	if empty := domain.Totals(nil); empty.CompletionRate != 0 {
		t.Fatalf("empty history rate must be 0, got %.1f", empty.CompletionRate)
	}
}

package dashboard

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	dailydto "mih/internal/modules/daily/dto"
	plandto "mih/internal/modules/plan/dto"
	progressdto "mih/internal/modules/progress/dto"
)

type fakePort struct {
	checkIns int
}

func (f *fakePort) Today(context.Context) ([]dailydto.ActionResponse, error) {
	return nil, nil
}
func (f *fakePort) Streak(context.Context) (dailydto.StreakResponse, error) {
	return dailydto.StreakResponse{}, nil
}
func (f *fakePort) CurrentPlan(context.Context) (*plandto.PlanResponse, error) {
	return nil, nil
}
func (f *fakePort) WeeklySummary(context.Context) (progressdto.WeeklySummaryResponse, error) {
	return progressdto.WeeklySummaryResponse{}, nil
}
func (f *fakePort) CheckIn(_ context.Context, actionID string, completed bool) (dailydto.ActionResponse, error) {
	f.checkIns++
	return dailydto.ActionResponse{ID: actionID, Completed: completed}, nil
}

func TestLoadingUntilAllThreeSettle(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	if m.pending != primaryFetches || !m.refreshing {
		t.Fatalf("fresh model must start gated: pending=%d refreshing=%v", m.pending, m.refreshing)
	}
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init issued no fetches")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Fatalf("first render must show the loading state, got %q", m.View())
	}
	// A manual refresh cannot start while the initial fetches are in flight.
	if cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}); cmd != nil {
		t.Fatal("refresh started during the initial load")
	}

	m, _ = m.Update(TodayLoadedMsg{})
	if m.pending != 2 || !m.refreshing {
		t.Fatalf("after today: pending=%d refreshing=%v", m.pending, m.refreshing)
	}
	m, _ = m.Update(StreakLoadedMsg{Primary: true, Streak: dailydto.StreakResponse{CurrentStreak: 3}})
	m, _ = m.Update(PlanLoadedMsg{HasPlan: true})
	if m.pending != 0 || m.refreshing {
		t.Fatalf("after all three: pending=%d refreshing=%v", m.pending, m.refreshing)
	}
	if !m.hasStreak || m.streak.CurrentStreak != 3 || !m.hasPlan {
		t.Fatalf("state = %+v", m)
	}
}

func TestFailureIsolation(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})

	// Streak and plan failures are silent; only today's failure surfaces.
	m, _ = m.Update(StreakLoadedMsg{Primary: true, Err: errFake})
	m, _ = m.Update(PlanLoadedMsg{Err: errFake})
	if m.errText != "" {
		t.Fatalf("silent failures surfaced: %q", m.errText)
	}
	m, _ = m.Update(TodayLoadedMsg{Err: errFake})
	if m.errText == "" {
		t.Fatal("today failure did not surface")
	}
	if m.pending != 0 {
		t.Fatalf("failures must still settle the gate, pending=%d", m.pending)
	}
}

func TestSortIncompleteFirstIsStable(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(TodayLoadedMsg{Actions: []dailydto.ActionResponse{
		{ID: "a", Completed: true},
		{ID: "b"},
		{ID: "c", Completed: true},
		{ID: "d"},
	}})

	var got []string
	for _, a := range m.actions {
		got = append(got, a.ID)
	}
	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestCheckInConfirmThenUpdate(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(TodayLoadedMsg{Actions: []dailydto.ActionResponse{{ID: "a"}, {ID: "b"}}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil || !m.checking {
		t.Fatal("space should start a check-in")
	}
	// Nothing updated before the server confirms.
	if m.actions[0].Completed {
		t.Fatal("optimistic update happened")
	}

	// A second toggle while one is in flight is ignored.
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace}); cmd != nil {
		t.Fatal("in-flight guard failed")
	}

	m, cmd = m.Update(CheckInDoneMsg{Action: dailydto.ActionResponse{ID: "a", Completed: true}})
	if m.checking {
		t.Fatal("checking flag not cleared")
	}
	// Completed item sorts behind the remaining incomplete one.
	if m.actions[0].ID != "b" || !m.actions[1].Completed {
		t.Fatalf("actions after confirm: %+v", m.actions)
	}
	// Completion triggers the fire-and-forget streak refetch, which must not
	// carry the gate-settling mark.
	if cmd == nil {
		t.Fatal("no streak refetch after completion")
	}
	if sm, ok := cmd().(StreakLoadedMsg); !ok || sm.Primary {
		t.Fatalf("expected a background streak refetch, got %#v", cmd())
	}
}

func TestCheckInFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(TodayLoadedMsg{Actions: []dailydto.ActionResponse{{ID: "a"}}})
	m.checking = true

	m, _ = m.Update(CheckInDoneMsg{Err: errFake})
	if m.actions[0].Completed {
		t.Fatal("failure mutated the action")
	}
	if m.errText == "" {
		t.Fatal("failure not reported")
	}
}

func TestRefreshGuardedByBusyFlag(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(TodayLoadedMsg{})
	m, _ = m.Update(StreakLoadedMsg{Primary: true})
	m, _ = m.Update(PlanLoadedMsg{})

	keyR := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	cmd := m.handleKey(keyR)
	if cmd == nil || !m.refreshing {
		t.Fatal("refresh did not start once the view settled")
	}
	if cmd := m.handleKey(keyR); cmd != nil {
		t.Fatal("refresh double-started")
	}
}

func TestStreakRefetchDoesNotSettleTheGate(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	// A background refetch landing mid-refresh leaves the gate alone but
	// still updates the panel.
	m, _ = m.Update(StreakLoadedMsg{Streak: dailydto.StreakResponse{CurrentStreak: 2}})
	if m.pending != primaryFetches || !m.refreshing {
		t.Fatalf("gate moved: pending=%d refreshing=%v", m.pending, m.refreshing)
	}
	if !m.hasStreak || m.streak.CurrentStreak != 2 {
		t.Fatal("refetch result was dropped")
	}
	m, _ = m.Update(StreakLoadedMsg{Primary: true, Streak: dailydto.StreakResponse{CurrentStreak: 3}})
	if m.pending != primaryFetches-1 {
		t.Fatalf("primary fetch must settle the gate: pending=%d", m.pending)
	}
}

func TestSummaryPanelHiddenWhenEmptyOrFailed(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m, _ = m.Update(SummaryLoadedMsg{Err: errFake})
	if m.renderSummary() != "" {
		t.Fatal("panel rendered after failed fetch")
	}
	m, _ = m.Update(SummaryLoadedMsg{Summary: progressdto.WeeklySummaryResponse{TotalActions: 0}})
	if m.renderSummary() != "" {
		t.Fatal("panel rendered for an empty week")
	}
	m, _ = m.Update(SummaryLoadedMsg{Summary: progressdto.WeeklySummaryResponse{TotalActions: 4, CompletedActions: 2}})
	if m.renderSummary() == "" {
		t.Fatal("panel missing for a non-empty week")
	}
}

var errFake = &fakeErr{}

type fakeErr struct{}

func (*fakeErr) Error() string { return "boom" }

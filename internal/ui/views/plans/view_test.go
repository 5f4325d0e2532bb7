package plans

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	plandomain "mih/internal/modules/plan/domain"
	plandto "mih/internal/modules/plan/dto"
)

type fakePort struct {
	plans    []plandto.PlanResponse
	freshErr error
	freshes  int
}

func (f *fakePort) Plans(context.Context) ([]plandto.PlanResponse, error) {
	return f.plans, nil
}

func (f *fakePort) StartFresh(context.Context) error {
	f.freshes++
	return f.freshErr
}

func TestActiveAreasFilterAndFlatten(t *testing.T) {
	t.Parallel()

	plans := []plandto.PlanResponse{
		{ID: "p1", Status: "active", FocusAreas: []plandomain.FocusArea{{Name: "A1"}, {Name: "A2"}}},
		{ID: "p2", Status: "archived", FocusAreas: []plandomain.FocusArea{{Name: "B1"}}},
		// Absent status counts as active.
		{ID: "p3", FocusAreas: []plandomain.FocusArea{{Name: "C1"}}},
	}

	areas := activeAreas(plans)
	var names []string
	for _, a := range areas {
		names = append(names, a.Name)
	}
	want := []string{"A1", "A2", "C1"}
	if len(names) != len(want) {
		t.Fatalf("areas = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("areas = %v, want %v", names, want)
		}
	}
}

func TestStartFreshRequiresConfirmation(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	m := New(port)
	m.loaded = true

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if !m.confirming {
		t.Fatal("f did not open the confirmation")
	}
	if port.freshes != 0 {
		t.Fatal("start-fresh ran before confirmation")
	}

	// Declining leaves everything alone.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.confirming || m.freshBusy || port.freshes != 0 {
		t.Fatalf("decline state: %+v, freshes=%d", m, port.freshes)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !m.freshBusy || cmd == nil {
		t.Fatal("confirm did not start the request")
	}
	// The in-flight guard blocks a second confirm round.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if m.confirming {
		t.Fatal("in-flight guard failed")
	}
}

func TestFreshSuccessNavigatesToIntake(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m.loaded = true
	m.areas = []plandomain.FocusArea{{Name: "A1"}}
	m.freshBusy = true

	m, cmd := m.Update(FreshDoneMsg{})
	if m.freshBusy || len(m.areas) != 0 {
		t.Fatalf("state after success: busy=%v areas=%d", m.freshBusy, len(m.areas))
	}
	if cmd == nil {
		t.Fatal("no navigation command")
	}
	if _, ok := cmd().(GoIntakeMsg); !ok {
		t.Fatalf("cmd produced %T, want GoIntakeMsg", cmd())
	}
}

func TestFreshFailureKeepsState(t *testing.T) {
	t.Parallel()

	m := New(&fakePort{})
	m.loaded = true
	m.areas = []plandomain.FocusArea{{Name: "A1"}}
	m.freshBusy = true

	m, _ = m.Update(FreshDoneMsg{Err: errors.New("boom")})
	if len(m.areas) != 1 {
		t.Fatal("failure wiped the areas")
	}
	if m.errText == "" {
		t.Fatal("failure not reported")
	}
}

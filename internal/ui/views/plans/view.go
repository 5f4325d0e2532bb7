package plans

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	plandomain "mih/internal/modules/plan/domain"
	plandto "mih/internal/modules/plan/dto"
	"mih/internal/ui/msgs"
	"mih/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type PlansPort interface {
	Plans(ctx context.Context) ([]plandto.PlanResponse, error)
	StartFresh(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type PlansLoadedMsg struct {
	Plans []plandto.PlanResponse
	Err   error
}

type FreshDoneMsg struct {
	Err error
}

// GoIntakeMsg asks the shell to switch to the intake tab.
type GoIntakeMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port PlansPort

	areas      []plandomain.FocusArea
	loaded     bool
	confirming bool
	freshBusy  bool
	errText    string

	spinner spinner.Model
	width   int
	height  int
}

func New(port PlansPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadPlansCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case PlansLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.errText = "plans: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.errText = ""
		m.areas = activeAreas(msg.Plans)

	case FreshDoneMsg:
		m.freshBusy = false
		if msg.Err != nil {
			// State untouched; the error is only reported.
			m.errText = "start fresh: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.areas = nil
		m.errText = ""
		cmds = append(cmds, func() tea.Msg { return GoIntakeMsg{} })

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirming {
		switch msg.String() {
		case "y", "Y":
			m.confirming = false
			m.freshBusy = true
			return m.startFreshCmd()
		case "n", "N", "esc":
			m.confirming = false
		}
		return nil
	}
	switch msg.String() {
	case "f":
		if !m.freshBusy {
			m.confirming = true
		}
	case "r":
		m.loaded = false
		return m.loadPlansCmd()
	}
	return nil
}

// activeAreas keeps plans whose status is active or absent and flattens
// their focus areas in plan order, then area order within each plan.
func activeAreas(plans []plandto.PlanResponse) []plandomain.FocusArea {
	domainPlans := make([]plandomain.Plan, 0, len(plans))
	for _, p := range plans {
		domainPlans = append(domainPlans, p.Plan())
	}
	return plandomain.ActiveFocusAreas(domainPlans)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading plans…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus areas") + "\n\n")

	switch {
	case m.freshBusy:
		sb.WriteString(m.spinner.View() + " Starting fresh…\n")
	case m.confirming:
		sb.WriteString(theme.Hot.Render("Archive all plans and clear today's actions? (y/n)") + "\n")
	case len(m.areas) == 0:
		sb.WriteString(theme.Muted.Render("No active plan. Head to Intake to dump your goals.") + "\n")
	default:
		for _, area := range m.areas {
			sb.WriteString(theme.Hot.Render("● "+area.Name) + "\n")
			if area.Description != "" {
				sb.WriteString("  " + area.Description + "\n")
			}
			if area.WeeklyFocus != "" {
				sb.WriteString("  " + theme.Muted.Render("this week: ") + area.WeeklyFocus + "\n")
			}
			if area.MonthlyDirection != "" {
				sb.WriteString("  " + theme.Muted.Render("this month: ") + area.MonthlyDirection + "\n")
			}
			if len(area.Outcomes) > 0 {
				sb.WriteString("  " + theme.Muted.Render("outcomes: ") + strings.Join(area.Outcomes, "; ") + "\n")
			}
			sb.WriteString("\n")
		}
	}

	if m.errText != "" {
		sb.WriteString(theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d focus areas  ·  f: start fresh  r: reload", len(m.areas))))
	return sb.String()
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadPlansCmd() tea.Cmd {
	return func() tea.Msg {
		plans, err := m.port.Plans(context.Background())
		return PlansLoadedMsg{Plans: plans, Err: err}
	}
}

func (m Model) startFreshCmd() tea.Cmd {
	return func() tea.Msg {
		return FreshDoneMsg{Err: m.port.StartFresh(context.Background())}
	}
}

package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dailydto "mih/internal/modules/daily/dto"
	plandto "mih/internal/modules/plan/dto"
	progressdto "mih/internal/modules/progress/dto"
	"mih/internal/ui/msgs"
	"mih/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type DashboardPort interface {
	Today(ctx context.Context) ([]dailydto.ActionResponse, error)
	Streak(ctx context.Context) (dailydto.StreakResponse, error)
	CurrentPlan(ctx context.Context) (*plandto.PlanResponse, error)
	WeeklySummary(ctx context.Context) (progressdto.WeeklySummaryResponse, error)
	CheckIn(ctx context.Context, actionID string, completed bool) (dailydto.ActionResponse, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TodayLoadedMsg struct {
	Actions []dailydto.ActionResponse
	Err     error
}

// StreakLoadedMsg carries a streak fetch result. Primary is set on the
// fetches issued by a full refresh; the post-check-in refetch leaves it
// false so it cannot settle the loading gate.
type StreakLoadedMsg struct {
	Streak  dailydto.StreakResponse
	Primary bool
	Err     error
}

type PlanLoadedMsg struct {
	HasPlan bool
	Err     error
}

type SummaryLoadedMsg struct {
	Summary progressdto.WeeklySummaryResponse
	Err     error
}

type CheckInDoneMsg struct {
	Action dailydto.ActionResponse
	Err    error
}

// GoIntakeMsg asks the shell to switch to the intake tab.
type GoIntakeMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

// The three primary fetches settle independently; the view stays in its
// loading state until all of them have reported, success or not.
const primaryFetches = 3

type Model struct {
	port DashboardPort

	actions   []dailydto.ActionResponse
	streak    dailydto.StreakResponse
	hasStreak bool
	hasPlan   bool
	summary   progressdto.WeeklySummaryResponse
	summaryOK bool

	pending    int
	refreshing bool
	checking   bool
	cursor     int
	errText    string

	spinner spinner.Model
	width   int
	height  int
}

// New starts with the loading gate raised so the first render already shows
// the loading state; Init only issues the fetches.
func New(port DashboardPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp, pending: primaryFetches, refreshing: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmds(), m.spinner.Tick)
}

// Refresh raises the loading gate and reissues every fetch. Used by the
// manual refresh key and by the shell whenever the dashboard must reload.
func (m *Model) Refresh() tea.Cmd {
	m.pending = primaryFetches
	m.refreshing = true
	m.errText = ""
	return tea.Batch(m.fetchCmds(), m.spinner.Tick)
}

// fetchCmds issues the three primary fetches plus the summary together.
func (m Model) fetchCmds() tea.Cmd {
	return tea.Batch(m.loadTodayCmd(), m.loadStreakCmd(true), m.loadPlanCmd(), m.loadSummaryCmd())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TodayLoadedMsg:
		m.settle()
		if msg.Err != nil {
			// The only fetch whose failure is user-visible.
			m.errText = "today's actions: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.actions = msg.Actions
		m.sortActions()
		if m.cursor >= len(m.actions) {
			m.cursor = 0
		}

	case StreakLoadedMsg:
		if msg.Primary {
			m.settle()
		}
		if msg.Err == nil {
			m.streak = msg.Streak
			m.hasStreak = true
		}

	case PlanLoadedMsg:
		m.settle()
		if msg.Err == nil {
			m.hasPlan = msg.HasPlan
		}

	case SummaryLoadedMsg:
		// Not part of the primary gate; the panel just stays hidden on
		// failure.
		m.summaryOK = msg.Err == nil
		if msg.Err == nil {
			m.summary = msg.Summary
		}

	case CheckInDoneMsg:
		m.checking = false
		if msg.Err != nil {
			// Local state untouched; the failure is only reported.
			m.errText = "check-in: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.errText = ""
		for i := range m.actions {
			if m.actions[i].ID == msg.Action.ID {
				m.actions[i] = msg.Action
				break
			}
		}
		m.sortActions()
		if msg.Action.Completed {
			// Fire and forget; the streak panel updates whenever it lands.
			cmds = append(cmds, m.loadStreakCmd(false))
		}

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
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.checking || m.cursor >= len(m.actions) {
			return nil
		}
		m.checking = true
		target := m.actions[m.cursor]
		return m.checkInCmd(target.ID, !target.Completed)
	case "r":
		if m.refreshing {
			// A refresh is already in flight; never double-start.
			return nil
		}
		return m.Refresh()
	case "n":
		return func() tea.Msg { return GoIntakeMsg{} }
	}
	return nil
}

func (m *Model) settle() {
	if m.pending > 0 {
		m.pending--
	}
	if m.pending == 0 {
		m.refreshing = false
	}
}

// sortActions keeps incomplete actions first while preserving the original
// order inside each group.
func (m *Model) sortActions() {
	sort.SliceStable(m.actions, func(i, j int) bool {
		return !m.actions[i].Completed && m.actions[j].Completed
	})
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.pending > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading your day…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Today") + "\n\n")

	if m.hasStreak {
		sb.WriteString(fmt.Sprintf("%s %d day streak  %s longest %d  %s %d done\n",
			theme.Hot.Render("🔥"), m.streak.CurrentStreak,
			theme.Muted.Render("·"), m.streak.LongestStreak,
			theme.Muted.Render("·"), m.streak.TotalCompleted))
		sb.WriteString(theme.Muted.Render(m.streak.Message) + "\n\n")
	}

	switch {
	case len(m.actions) == 0 && !m.hasPlan:
		sb.WriteString(theme.Muted.Render("No plan yet. Press n to dump your goals and get started.") + "\n")
	case len(m.actions) == 0:
		sb.WriteString(theme.Muted.Render("Nothing scheduled for today.") + "\n")
	default:
		for i, a := range m.actions {
			box := "[ ]"
			line := fmt.Sprintf("%s %s  %s", box, a.Action, theme.Muted.Render(a.FocusArea))
			if a.Completed {
				box = "[x]"
				line = theme.Good.Render(fmt.Sprintf("%s %s", box, a.Action)) + "  " + theme.Muted.Render(a.FocusArea)
			}
			if a.RescheduledFrom != nil && !a.Completed {
				line += theme.Muted.Render("  (carried over)")
			}
			cursor := "  "
			if i == m.cursor {
				cursor = theme.Hot.Render("> ")
			}
			sb.WriteString(cursor + line + "\n")
		}
	}

	if panel := m.renderSummary(); panel != "" {
		sb.WriteString("\n" + panel + "\n")
	}

	if m.errText != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("space: toggle  r: refresh  n: new goals"))
	return sb.String()
}

// renderSummary renders the weekly panel, or nothing when the fetch failed
// or the week is empty.
func (m Model) renderSummary() string {
	if !m.summaryOK || m.summary.TotalActions == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("This week") + "\n")
	sb.WriteString(fmt.Sprintf("%d/%d actions (%.0f%%)\n",
		m.summary.CompletedActions, m.summary.TotalActions, m.summary.CompletionRate))
	sb.WriteString(m.summary.MomentumMessage)
	return theme.Pane.Render(sb.String())
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadTodayCmd() tea.Cmd {
	return func() tea.Msg {
		actions, err := m.port.Today(context.Background())
		return TodayLoadedMsg{Actions: actions, Err: err}
	}
}

func (m Model) loadStreakCmd(primary bool) tea.Cmd {
	return func() tea.Msg {
		streak, err := m.port.Streak(context.Background())
		return StreakLoadedMsg{Streak: streak, Primary: primary, Err: err}
	}
}

func (m Model) loadPlanCmd() tea.Cmd {
	return func() tea.Msg {
		plan, err := m.port.CurrentPlan(context.Background())
		return PlanLoadedMsg{HasPlan: plan != nil, Err: err}
	}
}

func (m Model) loadSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.port.WeeklySummary(context.Background())
		return SummaryLoadedMsg{Summary: summary, Err: err}
	}
}

func (m Model) checkInCmd(actionID string, completed bool) tea.Cmd {
	return func() tea.Msg {
		action, err := m.port.CheckIn(context.Background(), actionID, completed)
		return CheckInDoneMsg{Action: action, Err: err}
	}
}

package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "mih/internal/modules/auth/dto"
	dailydto "mih/internal/modules/daily/dto"
	plandto "mih/internal/modules/plan/dto"
	progressdto "mih/internal/modules/progress/dto"
	"mih/internal/ui/msgs"
	"mih/internal/ui/theme"
	authview "mih/internal/ui/views/auth"
	dashview "mih/internal/ui/views/dashboard"
	intakeview "mih/internal/ui/views/intake"
	plansview "mih/internal/ui/views/plans"
	progressview "mih/internal/ui/views/progress"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// apiPort is satisfied by the REST client; sessionPort by the session store.

type apiPort interface {
	Today(ctx context.Context) ([]dailydto.ActionResponse, error)
	Streak(ctx context.Context) (dailydto.StreakResponse, error)
	CurrentPlan(ctx context.Context) (*plandto.PlanResponse, error)
	WeeklySummary(ctx context.Context) (progressdto.WeeklySummaryResponse, error)
	CheckIn(ctx context.Context, actionID string, completed bool) (dailydto.ActionResponse, error)
	Plans(ctx context.Context) ([]plandto.PlanResponse, error)
	StartFresh(ctx context.Context) error
	DumpGoal(ctx context.Context, req plandto.DumpRequest) (plandto.DumpResponse, error)
	Progress(ctx context.Context) (progressdto.ProgressResponse, error)
}

type sessionPort interface {
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, email, password string) error
	Logout()
	Authenticated() bool
	User() *authdto.UserResponse
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabPlans
	tabIntake
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Plans", "Intake", "Progress",
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab    key.Binding
	Help   key.Binding
	Quit   key.Binding
	Logout key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Logout: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "log out")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Logout, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Help}, {k.Logout, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. Anonymous sessions see the auth view;
// authenticated ones get the four tabs. Messages belonging to a view land on
// that view's model whether or not the user is still looking at it.
type Model struct {
	session sessionPort

	authView authview.Model
	dashView dashview.Model
	planView plansview.Model
	dumpView intakeview.Model
	progView progressview.Model

	authed    bool
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	width     int
	height    int
}

// NewModel builds the shell. The session store must be bootstrapped before
// this runs; Authenticated decides the starting screen.
func NewModel(api apiPort, session sessionPort) Model {
	return Model{
		session:  session,
		authView: authview.New(session),
		dashView: dashview.New(api),
		planView: plansview.New(api),
		dumpView: intakeview.New(api),
		progView: progressview.New(api),
		authed:   session.Authenticated(),
		keys:     defaultKeys(),
		help:     help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	if !m.authed {
		return m.authView.Init()
	}
	return m.initTabs()
}

// initTabs starts every tab's fetches. Refresh re-raises the dashboard's
// loading gate, which matters when the tabs restart after a re-login.
func (m *Model) initTabs() tea.Cmd {
	return tea.Batch(
		m.dashView.Refresh(),
		m.planView.Init(),
		m.dumpView.Init(),
		m.progView.Init(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case authview.AuthenticatedMsg:
		m.authed = true
		m.activeTab = tabDashboard
		return m, m.initTabs()

	case msgs.AuthExpiredMsg:
		// Any unauthorized response anywhere drops the whole session.
		m.session.Logout()
		m.authed = false
		m.authView = authview.New(m.session)
		return m, m.authView.Init()

	case dashview.GoIntakeMsg, plansview.GoIntakeMsg:
		m.activeTab = tabIntake
		return m, nil

	case intakeview.GoPlansMsg:
		m.activeTab = tabPlans
		// The new plan and its seeded actions must show up on return.
		return m, tea.Batch(m.planView.Init(), m.dashView.Refresh())

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m.route(msg, cmds)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit, true
	}
	if !m.authed {
		return nil, false
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return nil, true
	}
	switch {
	case key.Matches(msg, m.keys.Help):
		// '?' types in the intake form.
		if m.activeTab != tabIntake {
			m.showHelp = true
			return nil, true
		}
	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		return func() tea.Msg { return msgs.AuthExpiredMsg{} }, true
	case key.Matches(msg, m.keys.Tab):
		// Intake and auth use tab for field focus.
		if m.activeTab != tabIntake {
			m.activeTab = (m.activeTab + 1) % tabCount
			return nil, true
		}
	case msg.String() == "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return nil, true
	}
	return nil, false
}

// route delivers a message to its owning view. Fetch results always reach
// the view that started them, even after the user moved on; key input goes
// only to what is on screen.
func (m Model) route(msg tea.Msg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.authed {
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch msg.(type) {
	case dashview.TodayLoadedMsg, dashview.StreakLoadedMsg, dashview.PlanLoadedMsg,
		dashview.SummaryLoadedMsg, dashview.CheckInDoneMsg:
		m.dashView, cmd = m.dashView.Update(msg)
	case plansview.PlansLoadedMsg, plansview.FreshDoneMsg:
		m.planView, cmd = m.planView.Update(msg)
	case intakeview.ImageEncodedMsg, intakeview.SubmitDoneMsg:
		m.dumpView, cmd = m.dumpView.Update(msg)
	case progressview.HistoryLoadedMsg:
		m.progView, cmd = m.progView.Update(msg)
	default:
		switch m.activeTab {
		case tabDashboard:
			m.dashView, cmd = m.dashView.Update(msg)
		case tabPlans:
			m.planView, cmd = m.planView.Update(msg)
		case tabIntake:
			m.dumpView, cmd = m.dumpView.Update(msg)
		case tabProgress:
			m.progView, cmd = m.progView.Update(msg)
		}
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.authed {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.authView.View())
	}

	tabBar := m.renderTabBar()
	contentH := m.height - lipgloss.Height(tabBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	if m.showHelp {
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	} else {
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabPlans:
		return m.planView.View()
	case tabIntake:
		return m.dumpView.View()
	case tabProgress:
		return m.progView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "mih  " + strings.Join(parts, sep)
	if user := m.session.User(); user != nil {
		bar += theme.Muted.Render("   " + user.Email)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 2}
	m.authView, _ = m.authView.Update(sz)
	m.dashView, _ = m.dashView.Update(sz)
	m.planView, _ = m.planView.Update(sz)
	m.dumpView, _ = m.dumpView.Update(sz)
	m.progView, _ = m.progView.Update(sz)
}

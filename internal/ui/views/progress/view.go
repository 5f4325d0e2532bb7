package progress

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	dailydto "mih/internal/modules/daily/dto"
	progressdto "mih/internal/modules/progress/dto"
	"mih/internal/ui/msgs"
	"mih/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type ProgressPort interface {
	Progress(ctx context.Context) (progressdto.ProgressResponse, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type HistoryLoadedMsg struct {
	Resp progressdto.ProgressResponse
	Err  error
}

// ─── model ───────────────────────────────────────────────────────────────────

type dayGroup struct {
	date    string
	actions []dailydto.ActionResponse
}

func (g dayGroup) completed() int {
	n := 0
	for _, a := range g.actions {
		if a.Completed {
			n++
		}
	}
	return n
}

type Model struct {
	port ProgressPort

	groups  []dayGroup
	totals  progressdto.ProgressResponse
	loaded  bool
	errText string

	spinner spinner.Model
	width   int
	height  int
}

func New(port ProgressPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadHistoryCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case HistoryLoadedMsg:
		m.loaded = true
		if msg.Err != nil {
			m.errText = "history: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.errText = ""
		m.totals = msg.Resp
		m.groups = groupByDate(msg.Resp.Actions)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loaded = false
			cmds = append(cmds, m.loadHistoryCmd())
		}
	}

	return m, tea.Batch(cmds...)
}

// groupByDate buckets actions by their exact date string and orders the
// buckets newest first. Within a bucket the server's order is kept.
func groupByDate(actions []dailydto.ActionResponse) []dayGroup {
	byDate := map[string]*dayGroup{}
	var order []string
	for _, a := range actions {
		g, ok := byDate[a.Date]
		if !ok {
			g = &dayGroup{date: a.Date}
			byDate[a.Date] = g
			order = append(order, a.Date)
		}
		g.actions = append(g.actions, a)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(order)))

	groups := make([]dayGroup, 0, len(order))
	for _, date := range order {
		groups = append(groups, *byDate[date])
	}
	return groups
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading history…")
	}

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Progress") + "\n\n")

	if len(m.groups) == 0 {
		// Empty history is a normal state for a new account.
		sb.WriteString(theme.Muted.Render("No history yet. Completed actions will show up here.") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("last 30 days: %d/%d actions (%.1f%%)\n\n",
			m.totals.CompletedActions, m.totals.TotalActions, m.totals.CompletionRate))
		for _, g := range m.groups {
			done := g.completed()
			percent := 0.0
			if len(g.actions) > 0 {
				percent = float64(done) / float64(len(g.actions)) * 100
			}
			sb.WriteString(theme.Hot.Render(g.date) +
				theme.Muted.Render(fmt.Sprintf("  %d/%d (%.0f%%)", done, len(g.actions), percent)) + "\n")
			for _, a := range g.actions {
				mark := theme.Muted.Render("·")
				if a.Completed {
					mark = theme.Good.Render("✓")
				}
				sb.WriteString(fmt.Sprintf("  %s %s  %s\n", mark, a.Action, theme.Muted.Render(a.FocusArea)))
			}
			sb.WriteString("\n")
		}
	}

	if m.errText != "" {
		sb.WriteString(theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString(theme.Muted.Render("r: reload"))
	return sb.String()
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.port.Progress(context.Background())
		return HistoryLoadedMsg{Resp: resp, Err: err}
	}
}

package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"mih/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AuthPort interface {
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, email, password string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type SubmitDoneMsg struct {
	Err error
}

// AuthenticatedMsg tells the shell a session is established.
type AuthenticatedMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type mode int

const (
	modeLogin mode = iota
	modeSignup
)

type Model struct {
	port AuthPort

	email    textinput.Model
	password textinput.Model
	onEmail  bool
	mode     mode
	busy     bool
	errText  string
	width    int
	height   int
}

func New(port AuthPort) Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return Model{port: port, email: email, password: password, onEmail: true}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SubmitDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			break
		}
		m.password.Reset()
		m.errText = ""
		cmds = append(cmds, func() tea.Msg { return AuthenticatedMsg{} })

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			m.onEmail = !m.onEmail
			if m.onEmail {
				m.password.Blur()
				cmds = append(cmds, m.email.Focus())
			} else {
				m.email.Blur()
				cmds = append(cmds, m.password.Focus())
			}
			return m, tea.Batch(cmds...)
		case "ctrl+l":
			if m.mode == modeLogin {
				m.mode = modeSignup
			} else {
				m.mode = modeLogin
			}
			return m, nil
		case "enter":
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	if m.onEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) submit() tea.Cmd {
	if m.busy {
		return nil
	}
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	m.busy = true
	m.errText = ""

	signup := m.mode == modeSignup
	return func() tea.Msg {
		var err error
		if signup {
			err = m.port.Signup(context.Background(), email, password)
		} else {
			err = m.port.Login(context.Background(), email, password)
		}
		return SubmitDoneMsg{Err: err}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	title := "Sign in"
	if m.mode == modeSignup {
		title = "Create account"
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	sb.WriteString(theme.Muted.Render("email:    ") + m.email.View() + "\n")
	sb.WriteString(theme.Muted.Render("password: ") + m.password.View() + "\n")

	if m.busy {
		sb.WriteString("\n" + theme.Hot.Render("Signing in…") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: submit  tab: switch field  ctrl+l: toggle login/signup"))

	return theme.Pane.Render(sb.String())
}

package intake

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	plandomain "mih/internal/modules/plan/domain"
	plandto "mih/internal/modules/plan/dto"
	"mih/internal/ui/msgs"
	"mih/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type IntakePort interface {
	DumpGoal(ctx context.Context, req plandto.DumpRequest) (plandto.DumpResponse, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// ImageEncodedMsg lands once per file, in whatever order the encodes finish.
type ImageEncodedMsg struct {
	Name string
	Data string
	Err  error
}

type SubmitDoneMsg struct {
	Resp plandto.DumpResponse
	Err  error
}

// GoPlansMsg asks the shell to switch to the plans tab.
type GoPlansMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

type encodedImage struct {
	name string
	data string
}

type focusField int

const (
	focusText focusField = iota
	focusPath
)

type Model struct {
	port IntakePort

	text        textarea.Model
	path        textinput.Model
	focus       focusField
	timelineIdx int
	images      []encodedImage
	encoding    int
	busy        bool
	errText     string
	width       int
	height      int
}

func New(port IntakePort) Model {
	ta := textarea.New()
	ta.Placeholder = "Dump everything on your mind: goals, dreams, projects…"
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "path to an image (optional)"

	return Model{port: port, text: ta, path: ti}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.text.SetWidth(msg.Width - 4)

	case ImageEncodedMsg:
		if m.encoding > 0 {
			m.encoding--
		}
		if msg.Err != nil {
			m.errText = "image " + msg.Name + ": " + msg.Err.Error()
			break
		}
		// Appended in completion order, never dropped.
		m.images = append(m.images, encodedImage{name: msg.Name, data: msg.Data})

	case SubmitDoneMsg:
		m.busy = false
		if msg.Err != nil {
			// The form stays populated for another try.
			m.errText = "submit: " + msg.Err.Error()
			if cmd := msgs.AuthExpired(msg.Err); cmd != nil {
				cmds = append(cmds, cmd)
			}
			break
		}
		m.text.Reset()
		m.path.Reset()
		m.images = nil
		m.errText = ""
		cmds = append(cmds, func() tea.Msg { return GoPlansMsg{} })

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.text, cmd = m.text.Update(msg)
	case focusPath:
		m.path, cmd = m.path.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		if m.focus == focusText {
			m.focus = focusPath
			m.text.Blur()
			return m.path.Focus(), true
		}
		m.focus = focusText
		m.path.Blur()
		return m.text.Focus(), true

	case "ctrl+t":
		m.timelineIdx = (m.timelineIdx + 1) % len(plandomain.Timelines)
		return nil, true

	case "enter":
		if m.focus != focusPath {
			return nil, false
		}
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			return nil, true
		}
		m.path.Reset()
		m.encoding++
		return encodeImageCmd(path), true

	case "ctrl+s":
		return m.submit(), true
	}
	return nil, false
}

// submit validates locally first; an empty dump never reaches the network.
func (m *Model) submit() tea.Cmd {
	if m.busy {
		return nil
	}
	text := strings.TrimSpace(m.text.Value())
	if text == "" {
		m.errText = "tell me something about your goals first"
		return nil
	}
	m.busy = true
	m.errText = ""

	images := make([]string, 0, len(m.images))
	for _, img := range m.images {
		images = append(images, img.data)
	}
	req := plandto.DumpRequest{
		Text:     text,
		Images:   images,
		Timeline: plandomain.Timelines[m.timelineIdx],
	}
	return func() tea.Msg {
		resp, err := m.port.DumpGoal(context.Background(), req)
		return SubmitDoneMsg{Resp: resp, Err: err}
	}
}

// encodeImageCmd reads and base64-encodes one file off the event loop.
func encodeImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ImageEncodedMsg{Name: filepath.Base(path), Err: err}
		}
		return ImageEncodedMsg{
			Name: filepath.Base(path),
			Data: base64.StdEncoding.EncodeToString(raw),
		}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("What do you want to make happen?") + "\n\n")
	sb.WriteString(m.text.View() + "\n\n")
	sb.WriteString(theme.Muted.Render("timeline: ") + theme.Hot.Render(plandomain.Timelines[m.timelineIdx]) + "\n")
	sb.WriteString(theme.Muted.Render("image:    ") + m.path.View() + "\n")

	if len(m.images) > 0 || m.encoding > 0 {
		names := make([]string, 0, len(m.images))
		for _, img := range m.images {
			names = append(names, img.name)
		}
		line := strings.Join(names, ", ")
		if m.encoding > 0 {
			line += fmt.Sprintf("  (%d encoding…)", m.encoding)
		}
		sb.WriteString(theme.Muted.Render("attached: ") + line + "\n")
	}

	if m.busy {
		sb.WriteString("\n" + theme.Hot.Render("Building your plan…") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n" + theme.Bad.Render(m.errText) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("ctrl+s: submit  ctrl+t: cycle timeline  tab: switch field  enter (on image): attach"))
	return sb.String()
}

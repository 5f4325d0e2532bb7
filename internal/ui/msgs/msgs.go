package msgs

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "mih/internal/platform/errors"
)

// AuthExpiredMsg tells the app shell to drop the session and return to the
// auth view. Any view may raise it when a fetch comes back unauthorized.
type AuthExpiredMsg struct{}

// AuthExpired returns a command raising AuthExpiredMsg when err is the
// unauthorized sentinel, nil otherwise.
func AuthExpired(err error) tea.Cmd {
	if !errors.Is(err, apperrors.ErrUnauthorized) {
		return nil
	}
	return func() tea.Msg { return AuthExpiredMsg{} }
}

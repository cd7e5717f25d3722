package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/session"
)

// Run starts the command browser and blocks until it quits
func Run(sess *session.Session, registry *keybinds.Registry) error {
	m := New(sess, registry)

	// Pass pointer since Update uses pointer receiver
	p := tea.NewProgram(&m, tea.WithAltScreen())

	// Index rebuilds triggered outside the browser (CLI, file reload) reach
	// the model as messages
	unsubscribe := sess.Commands.Subscribe(func() {
		p.Send(indexChangedMsg{})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

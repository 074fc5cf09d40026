package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ollamachat/ollamachat/internal/chat"
)

// RunChat starts the chat TUI and blocks until the user quits. Session
// changes made outside Update (the model fetch and the reply of an
// exchange) reach the program through a session observer.
func RunChat(ctx context.Context, session *chat.Session, cfg Config) error {
	m := NewChatModel(ctx, session, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Send blocks until Update runs, so it must not be called inline: the
	// observer may fire from inside Update.
	unsubscribe := session.Subscribe(func(chat.State) {
		go p.Send(stateChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

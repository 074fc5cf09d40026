package commands

import (
	"context"
	"os"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/api"
	"github.com/ollamachat/ollamachat/internal/chat"
	"github.com/ollamachat/ollamachat/internal/config"
	"github.com/ollamachat/ollamachat/internal/tui"
)

// ChatClient is the server client the commands need.
type ChatClient interface {
	chat.Client
	Close()
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the server client for the resolved configuration.
	NewClient func(cfg config.Config, log pslog.Logger) (ChatClient, error)

	// RunChat runs the interactive chat UI until the user quits.
	RunChat func(ctx context.Context, session *chat.Session, cfg tui.Config) error

	// StdinPiped reports whether a prompt may be read from stdin.
	StdinPiped func() bool

	// StdoutIsTTY reports whether stdout is a terminal.
	StdoutIsTTY func() bool

	// TerminalWidth returns the width of the terminal.
	TerminalWidth func() int

	// Clipboard copies text to the system clipboard.
	Clipboard func(string) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:     newAPIClient,
		RunChat:       tui.RunChat,
		StdinPiped:    stdinPiped,
		StdoutIsTTY:   isStdoutTTY,
		TerminalWidth: getTerminalWidth,
		Clipboard:     clipboard.WriteAll,
	}
}

func newAPIClient(cfg config.Config, log pslog.Logger) (ChatClient, error) {
	client, err := api.NewClient(
		api.WithBaseURL(cfg.BaseURL),
		api.WithTimeout(cfg.TimeoutSeconds),
		api.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// stdinPiped returns true when stdin is not a terminal
func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

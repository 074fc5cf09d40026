package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// command is a parsed slash command
type command struct {
	name string
	arg  string
}

const helpText = "/models  /model <name>  /copy  /clear  /help  exit"

func isExitCommand(input string) bool {
	switch input {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// parseCommand splits "/name arg..." into a command. Input that does not
// start with a slash is not a command.
func parseCommand(input string) (command, bool) {
	if !strings.HasPrefix(input, "/") || len(input) < 2 {
		return command{}, false
	}
	name, arg, _ := strings.Cut(input[1:], " ")
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}

func (m Model) runCommand(cmd command) (tea.Model, tea.Cmd) {
	switch cmd.name {
	case "models", "model":
		if cmd.arg == "" {
			m.openSelector()
			return m, nil
		}
		if err := m.session.Registry().Select(cmd.arg); err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.refresh()
		m.setNotice("Model set to "+cmd.arg, false)

	case "copy":
		reply, ok := lastReply(m.state.Messages)
		if !ok {
			m.setNotice("Nothing to copy yet", true)
			return m, nil
		}
		if err := m.copy(reply); err != nil {
			m.setNotice(fmt.Sprintf("Copy failed: %v", err), true)
			return m, nil
		}
		m.setNotice("Copied last reply to clipboard", false)

	case "clear":
		m.input.Reset()

	case "help":
		m.setNotice(helpText, false)

	default:
		m.setNotice(fmt.Sprintf("Unknown command /%s (try /help)", cmd.name), true)
	}
	return m, nil
}

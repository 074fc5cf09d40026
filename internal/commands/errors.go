package commands

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ollamachat/ollamachat/internal/tui"
)

// formatErrorMessage formats an error with a context line and the details
// carried by the structured error types
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	heading := lipgloss.NewStyle().Foreground(colorError).Bold(true).Render(context)
	return heading + "\n" + tui.FormatError(err)
}

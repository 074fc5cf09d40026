package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ollamachat/ollamachat/internal/render"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)
)

// runQuery sends a single prompt through a fresh session and prints the
// reply. Raw mode (--raw or a non-terminal stdout) prints only the text.
func (a *app) runQuery(cmd *cobra.Command, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	raw := a.rawFlag || !a.deps.StdoutIsTTY()

	session, client, err := a.newSession()
	if err != nil {
		return err
	}
	defer client.Close()

	spin := startSpinner(stderr, "Loading models", raw)
	if err := session.Registry().Load(ctx); err != nil {
		spin.stopWithError()
		fmt.Fprintln(stderr, formatErrorMessage(err, "Failed to load models"))
		return err
	}
	model := session.Registry().Selection()
	spin.stopWithSuccess("Using " + displayModel(model))

	spin = startSpinner(stderr, "Sending...", raw)
	start := time.Now()
	if err := session.Controller().Send(ctx, prompt); err != nil {
		spin.stopWithError()
		fmt.Fprintln(stderr, formatErrorMessage(err, "Failed to send message"))
		return err
	}
	spin.stopWithSuccess("Done")

	messages := session.Controller().Messages()
	text := messages[len(messages)-1].Text
	a.log.Info("query answered", "model", model, "duration", time.Since(start), "reply_len", len(text))

	if raw {
		if a.outputFlag != "" {
			return writeOutput(a.outputFlag, text)
		}
		_, err := fmt.Fprint(stdout, text)
		return err
	}

	fmt.Fprintln(stderr)

	if a.cfg.CopyToClipboard {
		if err := a.deps.Clipboard(text); err != nil {
			warn := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(stderr, warn)
		} else {
			fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if a.outputFlag != "" {
		if err := writeOutput(a.outputFlag, text); err != nil {
			return err
		}
		fmt.Fprintln(stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", a.outputFlag),
		))
		return nil
	}

	bubbleWidth := a.deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(stdout, assistantLabelStyle.Render("✦ "+displayModel(model)))
	rendered := render.Reply(text, render.OptionsFromConfig(a.cfg, contentWidth))
	fmt.Fprintln(stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func displayModel(name string) string {
	if name == "" {
		return "no model"
	}
	return name
}

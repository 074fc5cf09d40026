package commands

import (
	"github.com/spf13/cobra"

	"github.com/ollamachat/ollamachat/internal/render"
	"github.com/ollamachat/ollamachat/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with a model on the server.

The model list is fetched on startup. Press Ctrl+O or type /models to pick
another model, /help for the other commands, and Esc or Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
	session, client, err := a.newSession()
	if err != nil {
		return err
	}
	defer client.Close()

	a.log.Info("chat started", "base_url", a.cfg.BaseURL)
	err = a.deps.RunChat(cmd.Context(), session, tui.Config{
		Render:    render.OptionsFromConfig(a.cfg, 80),
		Theme:     a.cfg.TUITheme,
		ServerURL: a.cfg.BaseURL,
	})
	a.log.Info("chat ended", "messages", len(session.Controller().Messages()))
	return err
}

package commands

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the server offers",
		Long: `Fetch the model list from the server and print one name per line.
The model a new chat would start with is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runModels(cmd)
		},
	}
}

func (a *app) runModels(cmd *cobra.Command) error {
	session, client, err := a.newSession()
	if err != nil {
		return err
	}
	defer client.Close()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	raw := a.rawFlag || !a.deps.StdoutIsTTY()

	spin := startSpinner(stderr, "Loading models", raw)
	if err := session.Registry().Load(cmd.Context()); err != nil {
		spin.stopWithError()
		fmt.Fprintln(stderr, formatErrorMessage(err, "Failed to load models"))
		return err
	}
	list := session.Registry().Models()
	spin.stopWithSuccess(fmt.Sprintf("%d models", len(list)))

	if len(list) == 0 {
		fmt.Fprintln(stderr, "No models installed on the server")
		return nil
	}

	selected := session.Registry().Selection()
	activeStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	for _, m := range list {
		switch {
		case raw && m.Name == selected:
			fmt.Fprintf(stdout, "* %s\n", m.Name)
		case raw:
			fmt.Fprintf(stdout, "  %s\n", m.Name)
		case m.Name == selected:
			fmt.Fprintln(stdout, activeStyle.Render("* "+m.Name))
		default:
			fmt.Fprintln(stdout, "  "+m.Name)
		}
	}
	return nil
}

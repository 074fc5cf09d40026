package commands

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ollamachat/ollamachat/internal/mockserver"
)

func newMockServerCmd(a *app) *cobra.Command {
	var (
		addr         string
		modelList    []string
		latency      time.Duration
		failModels   bool
		failChat     bool
		emptyChoices bool
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a fake model server for local testing",
		Long: `Serve GET /api/models and POST /api/chat with canned answers.
Replies echo the prompt, so the chat UI can be tried without a real server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mockserver.New(mockserver.Options{
				Models:       modelList,
				Latency:      latency,
				FailModels:   failModels,
				FailChat:     failChat,
				EmptyChoices: emptyChoices,
				Logger:       a.log,
			})
			out := cmd.OutOrStdout()
			return srv.ListenAndServe(cmd.Context(), addr, func(bound net.Addr) {
				fmt.Fprintf(out, "Mock server listening on http://%s\n", bound.String())
				if len(modelList) > 0 {
					fmt.Fprintf(out, "Models: %s\n", strings.Join(modelList, ", "))
				}
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:11434", "Listen address")
	cmd.Flags().StringSliceVar(&modelList, "models", nil, "Models to offer (default llama2,mistral,codellama)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Delay before each chat reply")
	cmd.Flags().BoolVar(&failModels, "fail-models", false, "Answer the model list with HTTP 500")
	cmd.Flags().BoolVar(&failChat, "fail-chat", false, "Answer chat requests with HTTP 500")
	cmd.Flags().BoolVar(&emptyChoices, "empty-choices", false, "Answer chat requests with no choices")
	return cmd
}

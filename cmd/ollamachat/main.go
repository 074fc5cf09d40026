// Command ollamachat is a terminal chat client for an Ollama-compatible
// model server.
package main

import (
	"context"
	"os"

	"pkt.systems/psi"
	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/commands"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	if err := commands.Execute(ctx, os.Args[1:]); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("ollamachat command failed")
		return 1
	}
	return 0
}

// Package commands provides CLI commands for ollamachat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/chat"
	"github.com/ollamachat/ollamachat/internal/config"
	"github.com/ollamachat/ollamachat/internal/logx"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// skipSetup marks commands that run without loading the configuration
const skipSetup = "skip-setup"

// app is the state of one CLI invocation, shared by all subcommands
type app struct {
	deps *Dependencies

	// Global flags
	configPath string
	baseURL    string
	model      string
	logFile    string
	debug      bool

	// Root flags
	fileFlag   string
	outputFlag string
	rawFlag    bool

	cfg       config.Config
	log       pslog.Logger
	logCloser io.Closer
}

func newApp(deps *Dependencies) *app {
	if deps == nil {
		deps = NewDependencies()
	}
	return &app{
		deps: deps,
		cfg:  config.DefaultConfig(),
		log:  logx.Discard(),
	}
}

// setup loads the configuration, applies flag overrides and opens the log
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.baseURL != "" {
		cfg.BaseURL = strings.TrimRight(a.baseURL, "/")
	}
	if a.model != "" {
		cfg.DefaultModel = a.model
	}
	if a.logFile != "" {
		cfg.Logging.File = a.logFile
	}
	if a.debug {
		cfg.Logging.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logx.Open(logx.Options{File: cfg.Logging.File, Debug: cfg.Logging.Debug})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log.With("cmd", cmd.Name())
	a.logCloser = closer
	cmd.SetContext(logx.WithLogger(cmd.Context(), a.log))

	a.log.Debug("configuration loaded", "base_url", cfg.BaseURL, "default_model", cfg.DefaultModel)
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// newSession creates a client and a session bound to it. The returned
// client must be closed by the caller.
func (a *app) newSession() (*chat.Session, ChatClient, error) {
	client, err := a.deps.NewClient(a.cfg, a.log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	session := chat.NewSession(client,
		chat.WithLogger(a.log),
		chat.WithPreferredModel(a.cfg.DefaultModel),
	)
	return session, client, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ollamachat [prompt]",
		Short: "Chat with models served by a local Ollama server",
		Long: `ollamachat is a terminal client for an Ollama-compatible model server.
It lists the models the server offers and exchanges messages with the
selected one.

Examples:
  ollamachat                            Start interactive chat
  ollamachat chat -m mistral            Chat with a specific model
  ollamachat "What is Go?"              Send a single query
  ollamachat -f prompt.md               Read prompt from file
  cat prompt.md | ollamachat            Read prompt from stdin
  ollamachat "Hello" -o response.md     Save response to file
  ollamachat models                     List available models`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			if v, _ := cmd.Flags().GetBool("version"); v {
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "ollamachat %s (built %s)\n", Version, BuildTime)
				return err
			}

			prompt, ok, err := a.readPrompt(cmd, args)
			if err != nil {
				return err
			}
			if ok {
				return a.runQuery(cmd, prompt)
			}

			if a.deps.StdoutIsTTY() {
				return a.runChat(cmd)
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default ~/.ollamachat/config.yaml)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Model server URL (default http://localhost:11434)")
	root.PersistentFlags().StringVarP(&a.model, "model", "m", "", "Preferred model (falls back to the first model offered)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write structured logs to this file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log at debug level")

	root.Flags().StringVarP(&a.fileFlag, "file", "f", "", "Read prompt from file")
	root.Flags().StringVarP(&a.outputFlag, "output", "o", "", "Save response to file")
	root.Flags().BoolVar(&a.rawFlag, "raw", false, "Print the reply without decoration")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(newChatCmd(a))
	root.AddCommand(newModelsCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newMockServerCmd(a))

	return root
}

// readPrompt picks the one-shot prompt from --file, piped stdin or the
// positional argument, in that order. ok is false when there is none.
func (a *app) readPrompt(cmd *cobra.Command, args []string) (string, bool, error) {
	if a.fileFlag != "" {
		data, err := os.ReadFile(a.fileFlag)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if a.deps.StdinPiped() {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" || len(args) == 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// Execute runs the CLI with args and returns the error of the command that ran.
func Execute(ctx context.Context, args []string) error {
	a := newApp(NewDependencies())
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

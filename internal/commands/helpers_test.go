package commands

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/chat"
	"github.com/ollamachat/ollamachat/internal/config"
	"github.com/ollamachat/ollamachat/internal/models"
	"github.com/ollamachat/ollamachat/internal/tui"
)

// fakeClient is a scripted server client
type fakeClient struct {
	mu sync.Mutex

	list    []models.Model
	listErr error
	reply   string
	chatErr error

	lastModel  string
	lastPrompt string
	chatCalls  int
	closed     bool
}

func (f *fakeClient) ListModels(ctx context.Context) ([]models.Model, error) {
	return f.list, f.listErr
}

func (f *fakeClient) Chat(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastModel = model
	f.lastPrompt = prompt
	return f.reply, f.chatErr
}

func (f *fakeClient) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		list:  []models.Model{{Name: "llama2"}, {Name: "mistral"}},
		reply: "hi there",
	}
}

// fakeDeps records how the commands used their dependencies
type fakeDeps struct {
	client      *fakeClient
	clientCfg   config.Config
	stdinPiped  bool
	stdoutTTY   bool
	clipboard   string
	chatRuns    int
	chatCfg     tui.Config
	chatSession *chat.Session
}

func (f *fakeDeps) build() *Dependencies {
	return &Dependencies{
		NewClient: func(cfg config.Config, log pslog.Logger) (ChatClient, error) {
			f.clientCfg = cfg
			return f.client, nil
		},
		RunChat: func(ctx context.Context, session *chat.Session, cfg tui.Config) error {
			f.chatRuns++
			f.chatCfg = cfg
			f.chatSession = session
			return nil
		},
		StdinPiped:    func() bool { return f.stdinPiped },
		StdoutIsTTY:   func() bool { return f.stdoutTTY },
		TerminalWidth: func() int { return 100 },
		Clipboard: func(text string) error {
			f.clipboard = text
			return nil
		},
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command against a config file in a temp dir unless
// args already name one
func execute(t *testing.T, deps *fakeDeps, stdin io.Reader, args ...string) result {
	t.Helper()
	return executeContext(t, context.Background(), deps, stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, deps *fakeDeps, stdin io.Reader, args ...string) result {
	t.Helper()

	hasConfig := false
	for _, arg := range args {
		if arg == "-c" || arg == "--config" || strings.HasPrefix(arg, "--config=") {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", filepath.Join(t.TempDir(), "config.yaml"))
	}

	a := newApp(deps.build())
	t.Cleanup(a.close)

	root := newRootCmd(a)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	root.SetIn(stdin)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// syncBuffer is a bytes.Buffer safe for a writer and a reader goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

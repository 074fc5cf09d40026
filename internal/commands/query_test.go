package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apierrors "github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/models"
)

func TestQuery_Raw(t *testing.T) {
	deps := &fakeDeps{client: newFakeClient()}
	res := execute(t, deps, nil, "hello")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if res.stdout != "hi there" {
		t.Errorf("stdout = %q, want raw reply", res.stdout)
	}
	if res.stderr != "" {
		t.Errorf("stderr = %q, want no spinner output in raw mode", res.stderr)
	}
	if deps.client.lastModel != "llama2" || deps.client.lastPrompt != "hello" {
		t.Errorf("Chat(%q, %q), want (llama2, hello)", deps.client.lastModel, deps.client.lastPrompt)
	}
	if !deps.client.closed {
		t.Error("client was not closed")
	}
}

func TestQuery_PreferredModel(t *testing.T) {
	tests := []struct {
		name string
		flag string
		want string
	}{
		{name: "offered", flag: "mistral", want: "mistral"},
		{name: "not offered falls back to first", flag: "phi", want: "llama2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &fakeDeps{client: newFakeClient()}
			res := execute(t, deps, nil, "-m", tt.flag, "hello")
			if res.err != nil {
				t.Fatalf("error = %v", res.err)
			}
			if deps.client.lastModel != tt.want {
				t.Errorf("model = %q, want %q", deps.client.lastModel, tt.want)
			}
		})
	}
}

func TestQuery_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("from a file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deps := &fakeDeps{client: newFakeClient()}
	res := execute(t, deps, nil, "-f", path)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if deps.client.lastPrompt != "from a file\n" {
		t.Errorf("prompt = %q, want file contents sent as is", deps.client.lastPrompt)
	}
}

func TestQuery_MissingFile(t *testing.T) {
	deps := &fakeDeps{client: newFakeClient()}
	res := execute(t, deps, nil, "-f", filepath.Join(t.TempDir(), "nope.md"))
	if res.err == nil || !strings.Contains(res.err.Error(), "failed to read file") {
		t.Fatalf("error = %v, want read failure", res.err)
	}
}

func TestQuery_FromStdin(t *testing.T) {
	deps := &fakeDeps{client: newFakeClient(), stdinPiped: true}
	res := execute(t, deps, strings.NewReader("piped prompt"))
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if deps.client.lastPrompt != "piped prompt" {
		t.Errorf("prompt = %q, want stdin", deps.client.lastPrompt)
	}
}

func TestQuery_EmptyStdinUsesArg(t *testing.T) {
	deps := &fakeDeps{client: newFakeClient(), stdinPiped: true}
	res := execute(t, deps, strings.NewReader(""), "from arg")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if deps.client.lastPrompt != "from arg" {
		t.Errorf("prompt = %q, want argument", deps.client.lastPrompt)
	}
}

func TestQuery_EmptyPrompt(t *testing.T) {
	deps := &fakeDeps{client: newFakeClient()}
	res := execute(t, deps, nil, "   ")
	if res.err == nil || res.err.Error() != "prompt cannot be empty" {
		t.Fatalf("error = %v, want empty prompt error", res.err)
	}
	if deps.client.chatCalls != 0 {
		t.Error("empty prompt must not reach the server")
	}
}

func TestQuery_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reply.md")
	deps := &fakeDeps{client: newFakeClient()}
	res := execute(t, deps, nil, "hello", "-o", out)
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "hi there" {
		t.Errorf("output = %q", data)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want nothing", res.stdout)
	}
}

func TestQuery_ModelFetchFails(t *testing.T) {
	client := newFakeClient()
	client.listErr = apierrors.NewNetworkError("list models", errors.New("connection refused"))
	deps := &fakeDeps{client: client}

	res := execute(t, deps, nil, "hello")
	if res.err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(res.stderr, "Failed to load models") {
		t.Errorf("stderr = %q, want context heading", res.stderr)
	}
	if !strings.Contains(res.stderr, models.MsgModelFetchFailed) {
		t.Errorf("stderr = %q, want %q", res.stderr, models.MsgModelFetchFailed)
	}
	if client.chatCalls != 0 {
		t.Error("Chat should not be called after a failed fetch")
	}
}

func TestQuery_SendFails(t *testing.T) {
	client := newFakeClient()
	client.chatErr = apierrors.NewAPIError(500, models.EndpointChat, "boom")
	deps := &fakeDeps{client: client}

	res := execute(t, deps, nil, "hello")
	if res.err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(res.stderr, models.MsgSendFailed) {
		t.Errorf("stderr = %q, want %q", res.stderr, models.MsgSendFailed)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want nothing", res.stdout)
	}
}

func TestQuery_Decorated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("copy_to_clipboard: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deps := &fakeDeps{client: newFakeClient(), stdoutTTY: true}

	res := execute(t, deps, nil, "-c", path, "hello")
	if res.err != nil {
		t.Fatalf("error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "✦ llama2") {
		t.Errorf("stdout = %q, want model label", res.stdout)
	}
	if !strings.Contains(res.stdout, "there") {
		t.Errorf("stdout = %q, want rendered reply", res.stdout)
	}
	if deps.clipboard != "hi there" {
		t.Errorf("clipboard = %q, want reply", deps.clipboard)
	}
	if !strings.Contains(res.stderr, "Copied to clipboard") {
		t.Errorf("stderr = %q, want clipboard notice", res.stderr)
	}
}

func TestDisplayModel(t *testing.T) {
	if got := displayModel(""); got != "no model" {
		t.Errorf("displayModel(\"\") = %q", got)
	}
	if got := displayModel("llama2"); got != "llama2" {
		t.Errorf("displayModel(llama2) = %q", got)
	}
}

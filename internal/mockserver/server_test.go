package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ollamachat/ollamachat/internal/api"
	"github.com/ollamachat/ollamachat/internal/chat"
	"github.com/ollamachat/ollamachat/internal/models"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func chatBody(model, prompt string) string {
	data, _ := json.Marshal(models.NewSingleTurnRequest(model, prompt))
	return string(data)
}

func TestListModels(t *testing.T) {
	h := New(Options{Models: []string{"a", "b"}}).Handler()
	rec := doRequest(t, h, http.MethodGet, models.EndpointModels, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list models.ModelList
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got := models.ModelNames(list.Models); strings.Join(got, ",") != "a,b" {
		t.Errorf("models = %v", got)
	}
}

func TestListModels_Defaults(t *testing.T) {
	rec := doRequest(t, New(Options{}).Handler(), http.MethodGet, models.EndpointModels, "")
	if !strings.Contains(rec.Body.String(), DefaultModels[0]) {
		t.Errorf("body = %s, want default models", rec.Body.String())
	}
}

func TestChat(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		body       string
		wantStatus int
		wantReply  string
	}{
		{
			name:       "echo",
			opts:       Options{},
			body:       chatBody("llama2", "hello"),
			wantStatus: http.StatusOK,
			wantReply:  "**llama2** says: hello",
		},
		{
			name:       "custom reply",
			opts:       Options{Reply: func(m, p string) string { return strings.ToUpper(p) }},
			body:       chatBody("mistral", "hi"),
			wantStatus: http.StatusOK,
			wantReply:  "HI",
		},
		{
			name:       "unknown model",
			opts:       Options{},
			body:       chatBody("gpt-4", "hi"),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid body",
			opts:       Options{},
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no messages",
			opts:       Options{},
			body:       `{"model":"llama2","messages":[]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "forced failure",
			opts:       Options{FailChat: true},
			body:       chatBody("llama2", "hi"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, New(tt.opts).Handler(), http.MethodPost, models.EndpointChat, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantReply == "" {
				return
			}
			var resp models.ChatResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != tt.wantReply {
				t.Errorf("choices = %+v, want reply %q", resp.Choices, tt.wantReply)
			}
		})
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	rec := doRequest(t, New(Options{EmptyChoices: true}).Handler(), http.MethodPost, models.EndpointChat, chatBody("llama2", "x"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"choices":[]`) {
		t.Errorf("body = %s, want empty choices", rec.Body.String())
	}
}

func TestFailModels(t *testing.T) {
	rec := doRequest(t, New(Options{FailModels: true}).Handler(), http.MethodGet, models.EndpointModels, "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := doRequest(t, New(Options{}).Handler(), http.MethodGet, models.EndpointChat, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

// TestSessionAgainstServer drives the whole client stack against the fake
// server over a real socket.
func TestSessionAgainstServer(t *testing.T) {
	srv := httptest.NewServer(New(Options{Models: []string{"llama2", "mistral"}}).Handler())
	defer srv.Close()

	client, err := api.NewClient(api.WithBaseURL(srv.URL), api.WithTimeout(10))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	session := chat.NewSession(client, chat.WithPreferredModel("mistral"))
	ctx := context.Background()

	if err := session.Registry().Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := session.Registry().Selection(); got != "mistral" {
		t.Errorf("Selection() = %q, want preferred model", got)
	}

	if err := session.Controller().Send(ctx, "ping"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	msgs := session.Controller().Messages()
	if len(msgs) != 2 || msgs[1].Text != "**mistral** says: ping" {
		t.Errorf("Messages() = %+v", msgs)
	}
}

func TestSessionAgainstFailingServer(t *testing.T) {
	srv := httptest.NewServer(New(Options{FailChat: true}).Handler())
	defer srv.Close()

	client, err := api.NewClient(api.WithBaseURL(srv.URL), api.WithTimeout(10))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	session := chat.NewSession(client)
	ctx := context.Background()
	if err := session.Registry().Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := session.Controller().Send(ctx, "ping"); err == nil {
		t.Fatal("Send() expected error")
	}
	st := session.Snapshot()
	if st.Error != models.MsgSendFailed || st.Status != chat.StatusIdle {
		t.Errorf("state = %+v", st)
	}
	if last := st.Messages[len(st.Messages)-1]; last.Text != models.MsgReplyPlaceholder {
		t.Errorf("last message = %q, want placeholder", last.Text)
	}
}

func TestListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- New(Options{}).ListenAndServe(ctx, "127.0.0.1:0", func(a net.Addr) { addrCh <- a })
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("ListenAndServe() error = %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(fmt.Sprintf("http://%s/health", addr))
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if !strings.Contains(string(body), "ok") {
		t.Errorf("health body = %s", body)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe() after cancel = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServe_BadAddr(t *testing.T) {
	err := New(Options{}).ListenAndServe(context.Background(), "256.0.0.1:bad", nil)
	if err == nil {
		t.Fatal("expected listen error")
	}
}

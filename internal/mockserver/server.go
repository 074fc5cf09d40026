// Package mockserver implements a fake model server speaking the same two
// endpoints as Ollama, for local testing of the client.
package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/logx"
	"github.com/ollamachat/ollamachat/internal/models"
)

// DefaultModels are served when no model list is configured.
var DefaultModels = []string{"llama2", "mistral", "codellama"}

// Replier produces the assistant reply for a prompt.
type Replier func(model, prompt string) string

// EchoReply answers with the prompt, prefixed by the model name.
func EchoReply(model, prompt string) string {
	return fmt.Sprintf("**%s** says: %s", model, prompt)
}

// Options configures the fake server
type Options struct {
	Models []string
	Reply  Replier
	// Latency delays every chat reply.
	Latency time.Duration
	// FailModels makes GET /api/models answer 500.
	FailModels bool
	// FailChat makes POST /api/chat answer 500.
	FailChat bool
	// EmptyChoices makes POST /api/chat answer with no choices.
	EmptyChoices bool
	Logger       pslog.Logger
}

// Server is the fake model server
type Server struct {
	opts Options
	log  pslog.Logger
}

// New creates a server. Zero options serve DefaultModels with EchoReply.
func New(opts Options) *Server {
	if opts.Models == nil {
		opts.Models = DefaultModels
	}
	if opts.Reply == nil {
		opts.Reply = EchoReply
	}
	log := opts.Logger
	if log == nil {
		log = logx.Discard()
	}
	return &Server{opts: opts, log: log}
}

// Handler returns the HTTP handler serving both endpoints.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get(models.EndpointModels, s.listModels)
	r.Post(models.EndpointChat, s.chat)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	if s.opts.FailModels {
		writeJSON(w, http.StatusInternalServerError, errorResp("model list unavailable"))
		return
	}

	list := models.ModelList{Models: make([]models.Model, 0, len(s.opts.Models))}
	for _, name := range s.opts.Models {
		list.Models = append(list.Models, models.Model{Name: name})
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("invalid request body"))
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("messages is required"))
		return
	}
	if !s.knows(req.Model) {
		writeJSON(w, http.StatusNotFound, errorResp(fmt.Sprintf("model %q not found", req.Model)))
		return
	}

	if s.opts.Latency > 0 {
		select {
		case <-time.After(s.opts.Latency):
		case <-r.Context().Done():
			return
		}
	}

	if s.opts.FailChat {
		writeJSON(w, http.StatusInternalServerError, errorResp("generation failed"))
		return
	}

	resp := models.ChatResponse{Choices: []models.ChatChoice{}}
	if !s.opts.EmptyChoices {
		prompt := req.Messages[len(req.Messages)-1].Content
		resp.Choices = append(resp.Choices, models.ChatChoice{
			Message: models.ChatMessage{
				Role:    string(models.RoleAssistant),
				Content: s.opts.Reply(req.Model, prompt),
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) knows(model string) bool {
	for _, name := range s.opts.Models {
		if strings.EqualFold(name, model) {
			return true
		}
	}
	return false
}

// ListenAndServe serves on addr until ctx is cancelled. ready, when not
// nil, receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ready != nil {
		ready(ln.Addr())
	}
	s.log.Info("mock server listening", "addr", ln.Addr().String(), "models", len(s.opts.Models))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		s.log.Info("mock server stopped")
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorResp(message string) map[string]string {
	return map[string]string{"error": message}
}

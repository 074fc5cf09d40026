// Package chat holds the client-side conversation state machine: the model
// registry, the conversation controller and the status/error state they
// share.
package chat

import (
	"context"
	"sync"

	"pkt.systems/pslog"

	"github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/logx"
	"github.com/ollamachat/ollamachat/internal/models"
)

// Client is the server contract the session depends on.
type Client interface {
	ListModels(ctx context.Context) ([]models.Model, error)
	Chat(ctx context.Context, model, prompt string) (string, error)
}

// State is an immutable snapshot of the session.
type State struct {
	Models           []models.Model
	Selection        string
	Messages         []models.Message
	Input            string
	Status           Status
	Error            string
	ModelsLoaded     bool
	ModelFetchFailed bool
}

// Busy reports whether an operation is in flight.
func (s State) Busy() bool {
	return s.Status != StatusIdle
}

// ChatReady reports whether the selection and chat surfaces may be shown.
// A failed send keeps the transcript visible; only loading or a failed model
// fetch hides it.
func (s State) ChatReady() bool {
	return s.Status != StatusLoadingModels && !s.ModelFetchFailed
}

// Observer is called with a fresh snapshot after every state change. It runs
// on the goroutine that made the change and must not block.
type Observer func(State)

// Option configures a Session
type Option func(*Session)

// WithLogger sets the structured logger
func WithLogger(log pslog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPreferredModel makes name the initial selection when the server
// offers it. Otherwise the first model wins.
func WithPreferredModel(name string) Option {
	return func(s *Session) {
		s.preferred = name
	}
}

// Session owns the state shared by the registry and the controller.
type Session struct {
	client    Client
	log       pslog.Logger
	preferred string

	mu          sync.Mutex
	status      Status
	errText     string
	fetchFailed bool
	nextID      int
	observers   map[int]Observer

	registry   *Registry
	controller *Controller
}

// NewSession creates a session bound to client
func NewSession(client Client, opts ...Option) *Session {
	s := &Session{
		client:    client,
		log:       logx.Discard(),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registry = &Registry{s: s}
	s.controller = &Controller{s: s}
	return s
}

// Registry returns the model registry
func (s *Session) Registry() *Registry {
	return s.registry
}

// Controller returns the conversation controller
func (s *Session) Controller() *Controller {
	return s.controller
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Session) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Snapshot returns the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the current request status
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the current error message, or ""
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errText
}

func (s *Session) snapshotLocked() State {
	r, c := s.registry, s.controller
	st := State{
		Models:           append([]models.Model(nil), r.models...),
		Selection:        r.selection,
		Messages:         append([]models.Message(nil), c.messages...),
		Input:            c.input,
		Status:           s.status,
		Error:            s.errText,
		ModelsLoaded:     r.loaded,
		ModelFetchFailed: s.fetchFailed,
	}
	return st
}

// beginLocked moves from idle to status and clears the previous error.
func (s *Session) beginLocked(status Status) error {
	if s.status != StatusIdle {
		return errors.ErrBusy
	}
	s.status = status
	s.errText = ""
	return nil
}

// notify delivers a snapshot to every observer. Must be called without the
// lock held.
func (s *Session) notify() {
	s.mu.Lock()
	st := s.snapshotLocked()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(st)
	}
}

package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/logx"
	"github.com/ollamachat/ollamachat/internal/models"
)

// Controller owns the message history and the pending input, and runs the
// request/response cycle for each send.
type Controller struct {
	s *Session

	messages []models.Message
	input    string
}

// Exchange is a send whose user message has been recorded and whose request
// has not run yet. Run must be called exactly once.
type Exchange struct {
	c      *Controller
	model  string
	prompt string
	once   sync.Once
	err    error
}

// Model returns the model the exchange is addressed to
func (e *Exchange) Model() string {
	return e.model
}

// Prompt returns the user text being sent
func (e *Exchange) Prompt() string {
	return e.prompt
}

// SetInput replaces the pending input text
func (c *Controller) SetInput(text string) {
	c.s.mu.Lock()
	changed := c.input != text
	c.input = text
	c.s.mu.Unlock()

	if changed {
		c.s.notify()
	}
}

// Input returns the pending input text
func (c *Controller) Input() string {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.input
}

// Messages returns a copy of the history in chronological order
func (c *Controller) Messages() []models.Message {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return append([]models.Message(nil), c.messages...)
}

// Send appends text as a user message, sends it and appends the reply.
// Blank text is a no-op. A send while another operation is in flight fails
// with ErrBusy and changes nothing.
func (c *Controller) Send(ctx context.Context, text string) error {
	ex, err := c.Begin(text)
	if err != nil || ex == nil {
		return err
	}
	return ex.Run(ctx)
}

// Submit sends the pending input. The input is cleared as soon as the user
// message is recorded.
func (c *Controller) Submit(ctx context.Context) error {
	ex, err := c.BeginInput()
	if err != nil || ex == nil {
		return err
	}
	return ex.Run(ctx)
}

// Begin records text as a user message, clears the error and marks the
// session as sending. It returns nil, nil for blank text.
func (c *Controller) Begin(text string) (*Exchange, error) {
	return c.begin(text, false)
}

// BeginInput is Begin for the pending input.
func (c *Controller) BeginInput() (*Exchange, error) {
	return c.begin("", true)
}

func (c *Controller) begin(text string, fromInput bool) (*Exchange, error) {
	s := c.s

	s.mu.Lock()
	if fromInput {
		text = c.input
	}
	if strings.TrimSpace(text) == "" {
		s.mu.Unlock()
		return nil, nil
	}
	if s.status != StatusIdle {
		s.mu.Unlock()
		return nil, errors.ErrBusy
	}

	c.messages = append(c.messages, models.Message{Role: models.RoleUser, Text: text})
	if fromInput {
		c.input = ""
	}
	_ = s.beginLocked(StatusSending)
	ex := &Exchange{c: c, model: c.s.registry.selection, prompt: text}
	s.mu.Unlock()
	s.notify()

	return ex, nil
}

// Run issues the chat request and appends exactly one assistant message:
// the reply on success, a placeholder on failure. Status returns to Idle
// either way.
func (e *Exchange) Run(ctx context.Context) error {
	e.once.Do(func() {
		e.err = e.run(ctx)
	})
	return e.err
}

func (e *Exchange) run(ctx context.Context) error {
	c, s := e.c, e.c.s
	log := logx.WithModel(s.log, e.model)

	log.Debug("sending message", "prompt_len", len(e.prompt))
	reply, err := s.client.Chat(ctx, e.model, e.prompt)

	s.mu.Lock()
	var result error
	if err != nil {
		s.errText = models.MsgSendFailed
		c.messages = append(c.messages, models.Message{Role: models.RoleAssistant, Text: models.MsgReplyPlaceholder})
		result = errors.NewSendError(e.model, err)
	} else {
		c.messages = append(c.messages, models.Message{Role: models.RoleAssistant, Text: reply})
	}
	s.status = StatusIdle
	total := len(c.messages)
	s.mu.Unlock()
	s.notify()

	if result != nil {
		log.Warn("send failed", "err", err, "messages", total)
	} else {
		log.Info("reply received", "reply_len", len(reply), "messages", total)
	}
	return result
}

package chat

import (
	"context"
	"sync"

	"github.com/ollamachat/ollamachat/internal/models"
)

// fakeClient is a scripted implementation of Client for testing
type fakeClient struct {
	mu sync.Mutex

	ListVal []models.Model
	ListErr error
	Reply   string
	ChatErr error

	// Gate, when set, blocks Chat until it is closed or receives a value
	Gate chan struct{}
	// Started receives once Chat has been entered
	Started chan struct{}

	ListCalls  int
	ChatCalls  int
	LastModel  string
	LastPrompt string
}

func (f *fakeClient) ListModels(ctx context.Context) ([]models.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	return f.ListVal, f.ListErr
}

func (f *fakeClient) Chat(ctx context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.ChatCalls++
	f.LastModel = model
	f.LastPrompt = prompt
	gate, started := f.Gate, f.Started
	reply, err := f.Reply, f.ChatErr
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return reply, err
}

func (f *fakeClient) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls, f.ChatCalls
}

package models

// Role tags who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn in the displayed conversation.
type Message struct {
	Role Role
	Text string
}

// IsUser reports whether the message was written by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// ChatMessage is a message as it travels on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a chat request.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// NewSingleTurnRequest builds a chat request carrying only the given prompt.
func NewSingleTurnRequest(model, prompt string) ChatRequest {
	return ChatRequest{
		Model: model,
		Messages: []ChatMessage{
			{Role: string(RoleUser), Content: prompt},
		},
	}
}

// ChatChoice is one candidate reply in a chat response.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse is the body of a chat response. The reply is the content
// of the first choice.
type ChatResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ModelList is the body of a model list response.
type ModelList struct {
	Models []Model `json:"models"`
}

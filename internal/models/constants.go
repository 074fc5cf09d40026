// Package models contains data types and constants for the Ollama chat client.
package models

// DefaultBaseURL is where a local Ollama server listens out of the box.
const DefaultBaseURL = "http://localhost:11434"

// Endpoint paths, relative to the server base URL.
const (
	EndpointModels = "/api/models"
	EndpointChat   = "/api/chat"
)

// User-facing messages. Transport, server and parse failures all collapse
// into these fixed strings.
const (
	MsgModelFetchFailed = "Failed to fetch models. Please check your Ollama server."
	MsgSendFailed       = "Failed to send message. Please try again."
	MsgReplyPlaceholder = "An error occurred while processing your request."
)

// DefaultHeaders returns the headers sent with every API request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "ollamachat",
	}
}

// JSONHeaders returns the headers for requests that carry a JSON body.
func JSONHeaders() map[string]string {
	h := DefaultHeaders()
	h["Content-Type"] = "application/json"
	return h
}

// Package errors provides custom error types for the Ollama chat client.
package errors

import (
	"errors"
	"fmt"

	"github.com/ollamachat/ollamachat/internal/models"
)

// Sentinel errors for common cases
var (
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoContent       = errors.New("no content in response")
	ErrBusy            = errors.New("another request is in progress")
	ErrUnknownModel    = errors.New("unknown model")
	ErrAlreadyLoaded   = errors.New("models already loaded")
)

// APIError represents a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches a (truncated) response body for diagnostics.
func (e *APIError) WithBody(body string) *APIError {
	e.Body = body
	return e
}

// NetworkError represents a transport failure talking to the server
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a NetworkError that records the endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// ModelFetchError is returned when the startup model retrieval fails.
type ModelFetchError struct {
	Err error
}

func (e *ModelFetchError) Error() string {
	if e.Err == nil {
		return "model fetch failed"
	}
	return fmt.Sprintf("model fetch failed: %v", e.Err)
}

func (e *ModelFetchError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed text shown to the user.
func (e *ModelFetchError) UserMessage() string {
	return models.MsgModelFetchFailed
}

// NewModelFetchError creates a new ModelFetchError
func NewModelFetchError(err error) *ModelFetchError {
	return &ModelFetchError{Err: err}
}

// SendError is returned when a chat exchange fails.
type SendError struct {
	Model string
	Err   error
}

func (e *SendError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("send to %s failed: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("send failed: %v", e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed text shown to the user.
func (e *SendError) UserMessage() string {
	return models.MsgSendFailed
}

// NewSendError creates a new SendError
func NewSendError(model string, err error) *SendError {
	return &SendError{Model: model, Err: err}
}

// GetHTTPStatus returns the HTTP status code carried by err, or 0.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint recorded in err, or "".
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// IsNetworkError reports whether err was caused by a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsAPIError reports whether err was caused by a non-2xx response.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsParseError reports whether err was caused by a malformed response.
func IsParseError(err error) bool {
	return errors.Is(err, ErrInvalidResponse)
}

// IsModelFetchError reports whether err is a ModelFetchError.
func IsModelFetchError(err error) bool {
	var e *ModelFetchError
	return errors.As(err, &e)
}

// IsSendError reports whether err is a SendError.
func IsSendError(err error) bool {
	var e *SendError
	return errors.As(err, &e)
}

// UserMessage returns the user-facing text for err. Errors outside the two
// user-facing classes fall back to their own message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}

// GetResponseBody returns the response body kept on an APIError, or "".
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

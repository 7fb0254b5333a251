package integration

import (
	"fmt"
	"strings"
)

// TransportError reports an HTTP exchange with the platform that completed
// with a failure status. Request and Response hold the raw wire messages.
type TransportError struct {
	Request      string
	Response     string
	StatusCode   int
	ReasonPhrase string
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("integration: platform responded %s", e.StatusLine())
}

// Unwrap lets errors.Is match ErrPlatformRequestFailed
func (e *TransportError) Unwrap() error {
	return ErrPlatformRequestFailed
}

// StatusLine returns the status code and reason phrase, e.g. "404 (Not Found)"
func (e *TransportError) StatusLine() string {
	return fmt.Sprintf("%d (%s)", e.StatusCode, e.ReasonPhrase)
}

// ErrorResponse is a well-formed error body returned by the platform
type ErrorResponse struct {
	// Type is the error classification (Sender, Platform)
	Type string
	// Action is the API action that failed
	Action string
	// Code is the platform error code
	Code    int
	Message string
	// Details holds per-record error details when the platform sends them
	Details []FeedMessage
}

// Error implements the error interface
func (e *ErrorResponse) Error() string {
	var b strings.Builder
	b.WriteString("integration: platform error")
	if e.Action != "" {
		b.WriteString(" on ")
		b.WriteString(e.Action)
	}
	fmt.Fprintf(&b, " (%s %d)", e.Type, e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap lets errors.Is match ErrPlatformRequestFailed
func (e *ErrorResponse) Unwrap() error {
	return ErrPlatformRequestFailed
}

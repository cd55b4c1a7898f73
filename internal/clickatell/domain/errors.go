package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection: the gateway could not be reached.
	ErrConnection = errors.New("connection to gateway failed")
	// ErrMessageSend: the gateway answered with an HTTP error status.
	ErrMessageSend = errors.New("gateway request failed")
	// ErrMalformedResponse: the response matched none of the expected shapes.
	// This means an unsupported API version, not a classified gateway error.
	ErrMalformedResponse = errors.New("malformed gateway response")
	// ErrInvalidWebhook: a webhook call is missing a field or carries an unparsable one.
	ErrInvalidWebhook = errors.New("invalid webhook payload")
)

// TransportError is a failure below the gateway protocol: either the host
// was unreachable (Kind == ErrConnection) or it answered with a non-2xx
// status (Kind == ErrMessageSend).
type TransportError struct {
	Kind       error
	StatusCode int // set for ErrMessageSend
	Err        error
}

// NewConnectionError wraps a dial/URL failure.
func NewConnectionError(err error) *TransportError {
	return &TransportError{Kind: ErrConnection, Err: err}
}

// NewMessageSendError records an HTTP error status returned by the gateway.
func NewMessageSendError(statusCode int, body string) *TransportError {
	return &TransportError{
		Kind:       ErrMessageSend,
		StatusCode: statusCode,
		Err:        fmt.Errorf("HTTP %d: %s", statusCode, body),
	}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

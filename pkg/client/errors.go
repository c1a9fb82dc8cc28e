package client

import (
	"errors"
	"fmt"
)

// ErrNoValidCodes is returned with an empty result set when an uploaded file
// contained no analyzable code blocks. It is informational, not a failure.
var ErrNoValidCodes = errors.New("no valid codes found")

// TransportError reports a failure to reach the service or to read its reply:
// request construction, network errors, and malformed payloads.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendError is a response the service produced but flagged as failed,
// either with ok=false or with an embedded error message.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// IsNoValidCodes reports whether err is the empty-upload condition.
func IsNoValidCodes(err error) bool {
	return errors.Is(err, ErrNoValidCodes)
}

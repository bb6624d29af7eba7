package internal

import (
	"fmt"
	"net/http"
)

// genericErrorText is shown when the backend gives no usable detail.
const genericErrorText = "Error interno"

// StorageError represents errors accessing the client state database
type StorageError struct {
	Key string
	Op  string // "open", "migrate", "read", "write"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError represents a failed exchange with the backend: a
// connection-level failure, a non-success status, or a mid-stream read
// error. Detail carries the backend's structured error field when the
// response body had one.
type TransportError struct {
	Endpoint string
	Status   int
	Detail   string
	Err      error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error [%s]: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport error [%s]: status %d: %s", e.Endpoint, e.Status, e.UserMessage())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UserMessage returns the short human-readable text for this failure:
// the backend's detail field, else the status text, else a generic
// fallback.
func (e *TransportError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status != 0 {
		if text := http.StatusText(e.Status); text != "" {
			return text
		}
	}
	return genericErrorText
}

// StreamError represents a streaming exchange that ended without a
// committable reply, such as an end-of-stream with no accumulated text.
type StreamError struct {
	Reason string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Reason)
}

// UserMessage returns the short human-readable text for this failure.
// An empty stream is indistinguishable from a broken backend, so it is
// reported as an internal error rather than described to the user.
func (e *StreamError) UserMessage() string {
	return genericErrorText
}

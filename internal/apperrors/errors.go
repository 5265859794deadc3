// Package apperrors defines the error taxonomy shared by the CLI and the
// dashboard: local validation failures, HTTP status failures, and transport
// failures.
package apperrors

import (
	"errors"
	"fmt"
	"strconv"
)

// Validation failures. These never reach the network.
var (
	// ErrEmptyTitle rejects a start with a blank title.
	ErrEmptyTitle = errors.New("empty title")
	// ErrNotOpen rejects a finish for a title with no open session.
	ErrNotOpen = errors.New("session not open")
)

// StatusError is a completed HTTP exchange that came back non-2xx.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// TransportError is a request that never completed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Describe renders err for the status line: validation messages verbatim,
// HTTP failures as the bare status code, transport failures as the
// underlying cause.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var status *StatusError
	if errors.As(err, &status) {
		return strconv.Itoa(status.Code)
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		return transport.Err.Error()
	}
	return err.Error()
}

package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDescribeStatusError(t *testing.T) {
	err := fmt.Errorf("finish: %w", &StatusError{Code: 500})
	if got := Describe(err); got != "500" {
		t.Fatalf("Describe(StatusError 500) = %q, want %q", got, "500")
	}
	if got := Describe(&StatusError{Code: 404}); got != "404" {
		t.Fatalf("Describe(StatusError 404) = %q, want %q", got, "404")
	}
}

func TestDescribeTransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &TransportError{Err: cause}
	if got := Describe(err); got != cause.Error() {
		t.Fatalf("Describe(TransportError) = %q, want %q", got, cause.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("TransportError should unwrap to its cause")
	}
}

func TestDescribeValidation(t *testing.T) {
	if got := Describe(ErrEmptyTitle); got != "empty title" {
		t.Fatalf("Describe(ErrEmptyTitle) = %q", got)
	}
	if got := Describe(nil); got != "" {
		t.Fatalf("Describe(nil) = %q, want empty", got)
	}
}

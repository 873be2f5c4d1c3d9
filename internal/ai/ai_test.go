package ai

import (
	"errors"
	"fmt"
	"testing"
)

func TestRateLimitErrorMatchesSentinel(t *testing.T) {
	err := &RateLimitError{Provider: "gemini", Cause: errors.New("429")}

	if !errors.Is(err, ErrRateLimited) {
		t.Fatal("expected errors.Is to match the sentinel")
	}

	wrapped := fmt.Errorf("generating: %w", err)
	if !errors.Is(wrapped, ErrRateLimited) {
		t.Fatal("expected the wrapped error to match the sentinel")
	}
}

func TestRateLimitErrorUnwrap(t *testing.T) {
	cause := errors.New("too many requests")
	err := &RateLimitError{Provider: "anthropic", Cause: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to be reachable via errors.Is")
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &RateLimitError{Provider: "gemini", Cause: errors.New("quota exceeded")}
	want := "gemini rate limited: quota exceeded"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}

	bare := &RateLimitError{}
	if bare.Error() != "rate limited" {
		t.Fatalf("got %q", bare.Error())
	}
}

func TestPlainErrorDoesNotMatch(t *testing.T) {
	if errors.Is(errors.New("boom"), ErrRateLimited) {
		t.Fatal("a plain error must not match the rate-limit sentinel")
	}
}

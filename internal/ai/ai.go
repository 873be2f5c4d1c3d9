// Package ai defines the text-generation capability consumed by the letter
// generator. Providers fail with a distinguishable rate-limit condition so
// callers can decide between falling back and aborting.
package ai

import "context"

// ErrRateLimited marks a provider failure caused by throttling. Retrying the
// same provider immediately is pointless; callers should fall back instead.
var ErrRateLimited = &RateLimitError{}

// RateLimitError wraps a provider throttling response.
type RateLimitError struct {
	Provider string
	Cause    error
}

func (e *RateLimitError) Error() string {
	msg := "rate limited"
	if e.Provider != "" {
		msg = e.Provider + " " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RateLimitError) Unwrap() error { return e.Cause }

// Is makes every RateLimitError match ErrRateLimited via errors.Is.
func (e *RateLimitError) Is(target error) bool {
	_, ok := target.(*RateLimitError)
	return ok
}

// Generator is a single text-generation capability. Implementations must
// bound the call with the context deadline; a timeout is reported as a plain
// (non-rate-limit) failure.
type Generator interface {
	// Generate sends the prompt and returns the produced text.
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Name identifies the provider in logs and errors.
	Name() string
}

package repository

import (
	"context"
	"errors"
)

// Closed error taxonomy for the generative-text boundary. Provider-specific
// failures are translated into exactly one of these at the adapter, so the
// core never depends on provider error types.
var (
	// ErrGenerationBlocked means the provider refused the prompt outright
	// (content safety filter).
	ErrGenerationBlocked = errors.New("query was blocked by content safety filters")
	// ErrGenerationStopped means the provider aborted or truncated generation
	// before a complete answer was produced.
	ErrGenerationStopped = errors.New("response generation was stopped")
	// ErrGenerationEmpty means the provider returned no usable text.
	ErrGenerationEmpty = errors.New("empty response from provider")
	// ErrProviderFailure wraps any other transport or provider error.
	ErrProviderFailure = errors.New("provider request failed")
)

// TextGenerator defines the contract for the generative-text provider.
// A single call per analysis attempt; retry policy belongs to the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

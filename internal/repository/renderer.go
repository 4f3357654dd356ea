package repository

import (
	"context"
	"errors"
)

var (
	// ErrRenderTimeout is returned when navigation does not complete within
	// the configured timeout.
	ErrRenderTimeout = errors.New("page render timed out")
	// ErrNavigationFailed is returned for any other browser-side failure.
	ErrNavigationFailed = errors.New("page navigation failed")
)

// PageRenderer defines the contract for the headless-browser fetch boundary.
// Implementations own an isolated browser context per invocation and must
// release it on every exit path.
type PageRenderer interface {
	// Render navigates to a safety-cleared URL and returns the final HTML.
	Render(ctx context.Context, url string) (string, error)
}

package repository

import (
	"context"
	"errors"

	"github.com/user/pagechat-service/internal/entity"
)

// ErrSessionNotFound is returned when a session has no stored state.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores per-session state: the current document and the
// chat history bound to it. State lives at most for the session's lifetime.
type SessionRepository interface {
	// Get returns the session state, or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*entity.Session, error)
	// ReplaceDocument installs a freshly scraped document and clears the
	// chat history of the previous document generation.
	ReplaceDocument(ctx context.Context, id string, doc *entity.Document) error
	// AppendTurn appends a completed chat turn to the current generation's
	// history. Returns ErrSessionNotFound if no document is active.
	AppendTurn(ctx context.Context, id string, turn entity.ChatTurn) error
	// Clear discards the session's document and history.
	Clear(ctx context.Context, id string) error
}

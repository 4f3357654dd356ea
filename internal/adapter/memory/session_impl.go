// Package memory implements the SessionRepository in process memory, for
// single-replica deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/user/pagechat-service/internal/entity"
	"github.com/user/pagechat-service/internal/repository"
)

// SessionRepoImpl keeps session state in a mutex-guarded map.
type SessionRepoImpl struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewSessionRepo creates an empty in-memory session repository.
func NewSessionRepo() *SessionRepoImpl {
	return &SessionRepoImpl{sessions: make(map[string]*entity.Session)}
}

// Get returns a copy of the stored session, or repository.ErrSessionNotFound.
func (r *SessionRepoImpl) Get(_ context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}

	// Copy so callers never mutate shared state.
	out := *sess
	out.History = append([]entity.ChatTurn(nil), sess.History...)
	return &out, nil
}

// ReplaceDocument installs the new document and resets the history.
func (r *SessionRepoImpl) ReplaceDocument(_ context.Context, id string, doc *entity.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &entity.Session{
		ID:        id,
		Document:  doc,
		History:   []entity.ChatTurn{},
		ScrapedAt: time.Now().UTC(),
	}
	return nil
}

// AppendTurn extends the current generation's history.
func (r *SessionRepoImpl) AppendTurn(_ context.Context, id string, turn entity.ChatTurn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	sess.History = append(sess.History, turn)
	return nil
}

// Clear discards the session's document and history.
func (r *SessionRepoImpl) Clear(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

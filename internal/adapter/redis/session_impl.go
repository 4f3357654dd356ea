// Package redis implements the SessionRepository on a Redis backend so
// multiple API replicas can serve the same session. Keys carry a TTL equal
// to the session lifetime; nothing outlives the session.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/pagechat-service/internal/entity"
	"github.com/user/pagechat-service/internal/repository"
	"github.com/user/pagechat-service/pkg/utils"
)

const sessionKeyPrefix = "session:"

// SessionRepoImpl stores session state as JSON values with expiry.
type SessionRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepo creates a Redis-backed session repository.
func NewSessionRepo(client *redis.Client, ttl time.Duration) *SessionRepoImpl {
	return &SessionRepoImpl{client: client, ttl: ttl}
}

// generateKey creates a consistent Redis key for a session ID by hashing it.
func (r *SessionRepoImpl) generateKey(id string) string {
	return sessionKeyPrefix + utils.HashKey(id)
}

// Get returns the stored session, or repository.ErrSessionNotFound.
func (r *SessionRepoImpl) Get(ctx context.Context, id string) (*entity.Session, error) {
	raw, err := r.client.Get(ctx, r.generateKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var sess entity.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

// ReplaceDocument installs the new document and resets the history, starting
// a fresh document generation and a fresh TTL window.
func (r *SessionRepoImpl) ReplaceDocument(ctx context.Context, id string, doc *entity.Document) error {
	sess := entity.Session{
		ID:        id,
		Document:  doc,
		History:   []entity.ChatTurn{},
		ScrapedAt: time.Now().UTC(),
	}
	raw, err := json.Marshal(&sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	return r.client.Set(ctx, r.generateKey(id), raw, r.ttl).Err()
}

// AppendTurn reads, extends and writes back the session history, keeping the
// remaining TTL intact.
func (r *SessionRepoImpl) AppendTurn(ctx context.Context, id string, turn entity.ChatTurn) error {
	sess, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.History = append(sess.History, turn)
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", id, err)
	}
	return r.client.Set(ctx, r.generateKey(id), raw, redis.KeepTTL).Err()
}

// Clear discards the session's document and history.
func (r *SessionRepoImpl) Clear(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.generateKey(id)).Err()
}

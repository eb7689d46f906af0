package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/exam-service/internal/domain"
)

const sessionKeyPrefix = "session:"

// SessionCache stores the denormalized logged-in principal, keyed by email.
// Snapshots have no TTL: they live until logout deletes them or a new login
// overwrites them (last writer wins for concurrent logins). The snapshot is a
// point-in-time copy; role edits in the durable store are not reflected until
// the next login.
type SessionCache struct {
	client *redis.Client
}

// NewSessionCache wraps the redis client.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client}
}

func (c *SessionCache) key(email string) string {
	return sessionKeyPrefix + email
}

// Put stores the snapshot for the principal, overwriting any previous one.
func (c *SessionCache) Put(ctx context.Context, snapshot *domain.SessionSnapshot) error {
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(snapshot.Email), encoded, 0).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Get returns the snapshot for the principal. A missing key means the session
// expired or never existed; the caller must treat it as "log in again".
func (c *SessionCache) Get(ctx context.Context, email string) (*domain.SessionSnapshot, error) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var snapshot domain.SessionSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &snapshot, nil
}

// Delete removes the snapshot, ending the session.
func (c *SessionCache) Delete(ctx context.Context, email string) error {
	removed, err := c.client.Del(ctx, c.key(email)).Result()
	if err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	if removed == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

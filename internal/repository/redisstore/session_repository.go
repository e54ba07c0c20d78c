package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sparkmart-ai-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// SessionRepository keeps session state in Redis so follow-up turns resolve
// correctly when the API runs with multiple replicas.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}
	return r.rdb.Set(ctx, keyPrefix+session.ID, data, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session store.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, keyPrefix+sessionID).Err()
}

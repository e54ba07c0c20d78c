package memory

import (
	"context"
	"time"

	"sparkmart-ai-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps session state in-process. Suitable for a single
// replica; use the Redis store when running more than one.
type SessionRepository struct {
	cache *cache.Cache
}

var _ store.SessionStore = &SessionRepository{}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

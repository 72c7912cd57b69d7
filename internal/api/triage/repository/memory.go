package triageRepository

import (
	"HealthTriageBot/internal/entity"
	"context"
	"sync"
	"time"
)

// memorySessionStore backs local development and tests. Expiry is enforced on
// read; a background sweeper is unnecessary at that scale.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	ttl      time.Duration
	now      func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) ISessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*entity.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewMemorySessionStoreWithClock injects a clock for tests.
func NewMemorySessionStoreWithClock(ttl time.Duration, now func() time.Time) ISessionStore {
	return &memorySessionStore{
		sessions: make(map[string]*entity.Session),
		ttl:      ttl,
		now:      now,
	}
}

func (s *memorySessionStore) Get(_ context.Context, userID string) (*entity.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(s.now(), s.ttl) {
		s.mu.Lock()
		delete(s.sessions, userID)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	// hand out a copy so callers cannot mutate the stored session in place
	clone := *session
	return &clone, nil
}

func (s *memorySessionStore) Save(_ context.Context, session *entity.Session) error {
	clone := *session
	s.mu.Lock()
	s.sessions[session.UserID] = &clone
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

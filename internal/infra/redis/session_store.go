package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"butterfly-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Controllers own live timers, so sessions stay in a local map; Redis carries a
// liveness key per session that expires after ttl of inactivity. A session whose
// key is gone is evicted and closed.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.Mutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Save(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()
	if err := s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err(); err != nil {
		log.Printf("session %s: set liveness key: %v", session.ID(), err)
	}
}

// Get returns a local session and refreshes its liveness key. A session whose
// key has expired is evicted. Redis errors keep the session alive.
func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	ctx := context.Background()
	alive := true
	if s.ttl > 0 {
		refreshed, err := s.client.Expire(ctx, s.key(id), s.ttl).Result()
		if err != nil {
			log.Printf("session %s: refresh liveness key: %v", id, err)
		} else {
			alive = refreshed
		}
	} else {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			log.Printf("session %s: check liveness key: %v", id, err)
		} else {
			alive = n > 0
		}
	}
	if !alive {
		s.evict(id, session)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

// Sweep evicts and closes every local session whose liveness key expired.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	if len(ids) == 0 {
		return 0
	}

	ctx := context.Background()
	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("sweep sessions: %v", err)
		return 0
	}

	evicted := 0
	for i, id := range ids {
		if checks[i].Val() > 0 {
			continue
		}
		s.mu.Lock()
		session, ok := s.sessions[id]
		s.mu.Unlock()
		if ok && s.evict(id, session) {
			evicted++
		}
	}
	return evicted
}

// evict removes session if it is still the one stored under id and closes it.
func (s *SessionStore) evict(id string, session *app.Session) bool {
	s.mu.Lock()
	current, ok := s.sessions[id]
	if !ok || current != session {
		s.mu.Unlock()
		return false
	}
	delete(s.sessions, id)
	s.mu.Unlock()
	session.Close()
	return true
}

func (s *SessionStore) key(id string) string {
	return "game:session:" + id
}

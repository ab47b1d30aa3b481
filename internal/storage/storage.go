package storage

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/catgallery/internal/models"
	"github.com/robfig/cron/v3"
)

// SessionStore keeps gallery sessions in memory. Nothing survives a restart.
type SessionStore struct {
	sessions map[string]*models.GallerySession
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*SessionStore)

func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

func New(ttl time.Duration, opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*models.GallerySession),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Now() time.Time { return s.now() }

func (s *SessionStore) Get(sessionID string) (*models.GallerySession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

// GetOrCreate returns the live session with the given ID, creating a new one
// when it is unknown or has expired. The returned session is touched.
func (s *SessionStore) GetOrCreate(sessionID string, newID func() string) (*models.GallerySession, bool) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		if !s.expired(session, now) {
			session.Touch(now)
			return session, false
		}
		session.End()
		delete(s.sessions, sessionID)
	}

	session := models.NewGallerySession(newID(), now)
	s.sessions[session.ID] = session
	return session, true
}

func (s *SessionStore) GetAll() map[string]*models.GallerySession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.GallerySession, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		session.End()
		delete(s.sessions, sessionID)
	}
}

func (s *SessionStore) expired(session *models.GallerySession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.LastSeen()) > s.ttl
}

// Expire ends and removes sessions idle for longer than the TTL. It returns
// the number removed.
func (s *SessionStore) Expire() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			session.End()
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor runs Expire on the given cron schedule. Stop the returned
// cron to end it.
func (s *SessionStore) StartJanitor(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := s.Expire(); n > 0 {
			slog.Info("Expired idle sessions", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}

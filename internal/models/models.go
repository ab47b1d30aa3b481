package models

import (
	"sync"
	"time"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"github.com/lehigh-university-libraries/catgallery/internal/favorites"
)

// Settings are per-session defaults applied when a fetch request leaves a
// field empty.
type Settings struct {
	DefaultCaption string `json:"default_caption"`
	DefaultTag     string `json:"default_tag"`
}

// GallerySession is one browser session: its favorites, the last cat it
// fetched and its settings. It ends when it has been idle for the session TTL.
type GallerySession struct {
	ID        string
	CreatedAt time.Time
	Favorites *favorites.List

	mu       sync.Mutex
	lastSeen time.Time
	last     *catapi.Result
	settings Settings
}

func NewGallerySession(id string, now time.Time) *GallerySession {
	return &GallerySession{
		ID:        id,
		CreatedAt: now,
		Favorites: favorites.NewList(),
		lastSeen:  now,
	}
}

func (s *GallerySession) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

func (s *GallerySession) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SetLast records the most recent successful fetch, the one a "save" acts on.
func (s *GallerySession) SetLast(res catapi.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &res
}

func (s *GallerySession) Last() (catapi.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return catapi.Result{}, false
	}
	return *s.last, true
}

func (s *GallerySession) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *GallerySession) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// End drops everything the session accumulated.
func (s *GallerySession) End() {
	s.Favorites.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
}

// SessionSummary is the JSON view of a session.
type SessionSummary struct {
	ID        string    `json:"id"`
	Favorites int       `json:"favorites"`
	HasLast   bool      `json:"has_last"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

func (s *GallerySession) Summary() SessionSummary {
	_, hasLast := s.Last()
	return SessionSummary{
		ID:        s.ID,
		Favorites: s.Favorites.Len(),
		HasLast:   hasLast,
		Settings:  s.Settings(),
		CreatedAt: s.CreatedAt,
		LastSeen:  s.LastSeen(),
	}
}

// CatView is the JSON shape returned for a fetched or saved cat.
type CatView struct {
	ID          string    `json:"id"`
	Caption     string    `json:"caption,omitempty"`
	Tag         string    `json:"tag,omitempty"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SourceURL   string    `json:"source_url"`
	ImageURL    string    `json:"image_url"`
	Attempts    int       `json:"attempts,omitempty"`
	SavedAt     time.Time `json:"saved_at,omitzero"`
}

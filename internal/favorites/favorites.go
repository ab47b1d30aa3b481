package favorites

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
)

var ErrNotFound = errors.New("favorite not found")

// Favorite is a saved cat. Bytes are kept so the image can be re-served
// without another call to the image service.
type Favorite struct {
	ID          string    `json:"id" yaml:"id"`
	ImageID     string    `json:"image_id" yaml:"image_id"`
	Caption     string    `json:"caption,omitempty" yaml:"caption,omitempty"`
	Tag         string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	ContentType string    `json:"content_type" yaml:"content_type"`
	SourceURL   string    `json:"source_url" yaml:"source_url"`
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	SavedAt     time.Time `json:"saved_at" yaml:"saved_at"`
	Bytes       []byte    `json:"-" yaml:"-"`
}

// FromResult builds a Favorite from a successful fetch.
func FromResult(res catapi.Result, savedAt time.Time) (Favorite, error) {
	if !res.OK() {
		return Favorite{}, fmt.Errorf("cannot save a failed fetch: %s", res.Reason())
	}
	img := res.Image
	return Favorite{
		ID:          uuid.NewString(),
		ImageID:     img.ID,
		Caption:     res.Caption,
		Tag:         res.Tag,
		ContentType: img.ContentType,
		SourceURL:   img.SourceURL,
		Width:       img.Width,
		Height:      img.Height,
		SavedAt:     savedAt,
		Bytes:       img.Bytes,
	}, nil
}

// List is an ordered collection of favorites owned by one session.
// Duplicates are allowed; order is insertion order.
type List struct {
	mu    sync.RWMutex
	items []Favorite
}

func NewList() *List {
	return &List{}
}

func (l *List) Add(f Favorite) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, f)
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of the favorites in insertion order.
func (l *List) Items() []Favorite {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Favorite, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) Get(id string) (Favorite, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, f := range l.items {
		if f.ID == id {
			return f, true
		}
	}
	return Favorite{}, false
}

// Remove deletes the favorite with the given ID, keeping the order of the rest.
func (l *List) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.items {
		if f.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

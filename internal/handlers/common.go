package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"github.com/lehigh-university-libraries/catgallery/internal/models"
	"github.com/lehigh-university-libraries/catgallery/internal/storage"
)

const sessionCookie = "catgallery_session"

// Fetcher is the part of catapi.Client the handlers use.
type Fetcher interface {
	Fetch(ctx context.Context, opts ...catapi.FetchOption) catapi.Result
}

type Handler struct {
	sessionStore *storage.SessionStore
	fetcher      Fetcher
	sessionTTL   time.Duration
}

func New(fetcher Fetcher, store *storage.SessionStore, sessionTTL time.Duration) *Handler {
	return &Handler{
		sessionStore: store,
		fetcher:      fetcher,
		sessionTTL:   sessionTTL,
	}
}

// Routes registers every handler on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cats", h.HandleCats)
	mux.HandleFunc("/api/cats/", h.HandleLastCat)
	mux.HandleFunc("/api/favorites", h.HandleFavorites)
	mux.HandleFunc("/api/favorites/", h.HandleFavoriteDetail)
	mux.HandleFunc("/api/settings", h.HandleSettings)
	mux.HandleFunc("/api/session", h.HandleSession)
	mux.HandleFunc("/", h.HandleStatic)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	http.Error(w, message, code)
}

func (h *Handler) writeImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write image", "err", err)
	}
}

// Session helpers

// session returns the caller's session, starting a new one when the request
// carries no live session. The cookie is re-issued on every call so its
// lifetime tracks idle time, matching the server-side expiry.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *models.GallerySession {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	session, created := h.sessionStore.GetOrCreate(id, uuid.NewString)
	if created {
		slog.Info("Session started", "session_id", session.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	return session
}

func catView(res catapi.Result, imageURL string) models.CatView {
	return models.CatView{
		ID:          res.Image.ID,
		Caption:     res.Caption,
		Tag:         res.Tag,
		ContentType: res.Image.ContentType,
		Width:       res.Image.Width,
		Height:      res.Image.Height,
		SourceURL:   res.Image.SourceURL,
		ImageURL:    imageURL,
		Attempts:    res.Attempts,
	}
}

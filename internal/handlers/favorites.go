package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/catgallery/internal/favorites"
	"github.com/lehigh-university-libraries/catgallery/internal/models"
)

func favoriteView(f favorites.Favorite) models.CatView {
	return models.CatView{
		ID:          f.ID,
		Caption:     f.Caption,
		Tag:         f.Tag,
		ContentType: f.ContentType,
		Width:       f.Width,
		Height:      f.Height,
		SourceURL:   f.SourceURL,
		ImageURL:    "/api/favorites/" + f.ID + "/image",
		SavedAt:     f.SavedAt,
	}
}

// HandleFavorites lists favorites (GET) or saves the last fetched cat (POST).
// Saving the same cat twice stores it twice.
func (h *Handler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)

	switch r.Method {
	case "GET":
		items := session.Favorites.Items()
		list := make([]models.CatView, 0, len(items))
		for _, f := range items {
			list = append(list, favoriteView(f))
		}
		h.writeJSON(w, list)
	case "POST":
		res, ok := session.Last()
		if !ok {
			h.writeError(w, "No cat to save, fetch one first", http.StatusConflict)
			return
		}
		fav, err := favorites.FromResult(res, h.sessionStore.Now())
		if err != nil {
			h.writeError(w, err.Error(), http.StatusConflict)
			return
		}
		session.Favorites.Add(fav)
		slog.Info("Favorite saved", "session_id", session.ID, "favorite_id", fav.ID, "count", session.Favorites.Len())
		h.writeJSONStatus(w, http.StatusCreated, favoriteView(fav))
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleFavoriteDetail serves /api/favorites/export, /api/favorites/{id}
// and /api/favorites/{id}/image.
func (h *Handler) HandleFavoriteDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/favorites/"), "/")
	if rest == "export" {
		h.handleExport(w, r)
		return
	}

	favoriteID, sub, _ := strings.Cut(rest, "/")
	if favoriteID == "" || (sub != "" && sub != "image") {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	session := h.session(w, r)
	fav, ok := session.Favorites.Get(favoriteID)
	if !ok {
		h.writeError(w, "Favorite not found", http.StatusNotFound)
		return
	}

	switch {
	case r.Method == "GET" && sub == "image":
		h.writeImage(w, fav.ContentType, fav.Bytes)
	case r.Method == "GET":
		h.writeJSON(w, favoriteView(fav))
	case r.Method == "DELETE" && sub == "":
		if err := session.Favorites.Remove(favoriteID); err != nil {
			if errors.Is(err, favorites.ErrNotFound) {
				h.writeError(w, "Favorite not found", http.StatusNotFound)
				return
			}
			h.writeError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		slog.Info("Favorite removed", "session_id", session.ID, "favorite_id", favoriteID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := favorites.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := h.session(w, r)

	var buf bytes.Buffer
	if err := favorites.Encode(&buf, format, session.Favorites.Items()); err != nil {
		h.writeError(w, "Failed to export favorites: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "favorites."+format.Extension()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write export", "err", err)
	}
}

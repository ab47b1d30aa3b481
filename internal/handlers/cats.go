package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
)

const (
	lastImageURL = "/api/cats/last/image"
	maxBodyBytes = 64 * 1024
)

type fetchRequest struct {
	Caption *string `json:"caption"`
	Tag     *string `json:"tag"`
}

// HandleCats fetches a new cat for the session. Absent fields fall back to the
// session settings; a field sent empty is passed through and rejected as
// invalid input.
func (h *Handler) HandleCats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := h.session(w, r)

	var request fetchRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	settings := session.Settings()
	var opts []catapi.FetchOption
	switch {
	case request.Caption != nil:
		opts = append(opts, catapi.WithCaption(*request.Caption))
	case settings.DefaultCaption != "":
		opts = append(opts, catapi.WithCaption(settings.DefaultCaption))
	}
	switch {
	case request.Tag != nil:
		opts = append(opts, catapi.WithTag(*request.Tag))
	case settings.DefaultTag != "":
		opts = append(opts, catapi.WithTag(settings.DefaultTag))
	}

	res := h.fetcher.Fetch(r.Context(), opts...)
	if !res.OK() {
		var code int
		switch {
		case errors.Is(res.Err, catapi.ErrInvalidInput):
			code = http.StatusBadRequest
		case catapi.IsRetryable(res.Err):
			code = http.StatusBadGateway
		default:
			code = http.StatusServiceUnavailable
		}
		slog.Warn("Cat fetch failed", "session_id", session.ID, "attempts", res.Attempts, "error", res.Err)
		h.writeError(w, "Could not fetch a cat: "+res.Reason(), code)
		return
	}

	session.SetLast(res)
	h.writeJSON(w, catView(res, lastImageURL))
}

// HandleLastCat serves the session's most recent cat:
// GET /api/cats/last and GET /api/cats/last/image.
func (h *Handler) HandleLastCat(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/cats/"), "/")
	if rest != "last" && rest != "last/image" {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	session := h.session(w, r)
	res, ok := session.Last()
	if !ok {
		h.writeError(w, "No cat fetched yet", http.StatusNotFound)
		return
	}

	if rest == "last/image" {
		h.writeImage(w, res.Image.ContentType, res.Image.Bytes)
		return
	}
	h.writeJSON(w, catView(res, lastImageURL))
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/catgallery/internal/catapi"
	"github.com/lehigh-university-libraries/catgallery/internal/models"
)

// HandleSettings reads and replaces the session's default caption and tag.
// Non-empty defaults must pass the same checks a fetch applies, so a stored
// default can never turn every later fetch into invalid input.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)

	switch r.Method {
	case "GET":
		h.writeJSON(w, session.Settings())
	case "PUT":
		var updated models.Settings
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&updated); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		var err error
		if updated.DefaultCaption = strings.TrimSpace(updated.DefaultCaption); updated.DefaultCaption != "" {
			if updated.DefaultCaption, err = catapi.ValidateCaption(updated.DefaultCaption); err != nil {
				h.writeError(w, "Invalid default_caption: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		if updated.DefaultTag = strings.TrimSpace(updated.DefaultTag); updated.DefaultTag != "" {
			if updated.DefaultTag, err = catapi.ValidateTag(updated.DefaultTag); err != nil {
				h.writeError(w, "Invalid default_tag: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		session.SetSettings(updated)
		h.writeJSON(w, updated)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

package handlers

import (
	"log/slog"
	"net/http"
)

// HandleSession reports (GET) or ends (DELETE) the caller's session.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session := h.session(w, r)

	switch r.Method {
	case "GET":
		h.writeJSON(w, session.Summary())
	case "DELETE":
		h.sessionStore.Delete(session.ID)
		w.Header().Del("Set-Cookie")
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		slog.Info("Session ended", "session_id", session.ID)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

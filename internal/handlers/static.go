package handlers

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	filepath := strings.TrimPrefix(r.URL.Path, "/")
	if filepath == "" {
		filepath = "index.html"
	}

	// Prevent directory traversal attacks
	if strings.Contains(filepath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	data, err := fs.ReadFile(staticFiles, "static/"+filepath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	// Start the session on page load so the first fetch already has a cookie
	h.session(w, r)

	switch {
	case strings.HasSuffix(filepath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(filepath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(filepath, ".html"):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write static file", "path", filepath, "err", err)
	}
}

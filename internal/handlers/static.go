package handlers

import (
	"log/slog"
	"net/http"
)

// HandleMarkers serves the marker mapping the page was configured with
func (h *Handler) HandleMarkers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.markers)
}

// HandleStatic serves the embedded scanner page
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	http.FileServer(http.FS(h.static)).ServeHTTP(w, r)
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

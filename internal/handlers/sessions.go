package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/coverscan/internal/markers"
	"github.com/lehigh-university-libraries/coverscan/internal/session"
)

// Tracking signals fired by the page's anchor element
const (
	EventMarkerFound = "markerFound"
	EventMarkerLost  = "markerLost"
)

// HandleCreateSession opens a session for a scanner page. The body carries the
// anchor's marker attribute as the scene library exposes it (string or object).
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Marker any `json:"marker"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	markerID := markers.ParseMarkerAttr(request.Marker)
	sess := session.New(markerID, h.catalog, h.currentLostPolicy())
	if err := sess.Tracker.Start(markerID, h.markers); err != nil {
		// The page still gets a session so it can show the status text
		slog.Warn("Scanner session not armed", "session_id", sess.ID, "marker", markerID, "err", err)
	}
	h.sessionStore.Set(sess.ID, sess)

	slog.Info("Session created", "session_id", sess.ID, "marker", markerID, "state", sess.Tracker.State())
	h.writeJSONStatus(w, http.StatusCreated, sess.Snapshot())
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	h.writeJSON(w, sess.Snapshot())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, ok := h.getSessionOrError(w, sessionID); !ok {
		return
	}
	h.sessionStore.Delete(sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvent feeds a markerFound/markerLost signal to the session's tracker and
// answers with the resulting view. A markerFound that starts a lookup answers once
// the card is rendered; a duplicate one answers immediately.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var request struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	switch request.Type {
	case EventMarkerFound:
		// Lookups are not cancelled when the page disconnects
		sess.Tracker.Acquired(context.WithoutCancel(r.Context()))
	case EventMarkerLost:
		sess.Tracker.Lost()
	default:
		h.writeError(w, "Invalid event type. Must be 'markerFound' or 'markerLost'", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, sess.Snapshot())
}

package handlers

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/lehigh-university-libraries/coverscan/internal/bridge"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"github.com/lehigh-university-libraries/coverscan/internal/session"
	"github.com/lehigh-university-libraries/coverscan/internal/storage"
)

type Handler struct {
	sessionStore *storage.SessionStore
	catalog      catalog.Provider
	markers      models.MarkerConfig
	static       fs.FS

	mu         sync.RWMutex
	lostPolicy bridge.LostPolicy
}

func New(provider catalog.Provider, markers models.MarkerConfig, static fs.FS, policy bridge.LostPolicy) *Handler {
	return &Handler{
		sessionStore: storage.New(),
		catalog:      provider,
		markers:      markers,
		static:       static,
		lostPolicy:   bridge.ParseLostPolicy(string(policy)),
	}
}

// Sessions exposes the session store, e.g. for pruning
func (h *Handler) Sessions() *storage.SessionStore {
	return h.sessionStore
}

// SetLostPolicy changes the policy for new and existing sessions
func (h *Handler) SetLostPolicy(policy bridge.LostPolicy) {
	h.mu.Lock()
	h.lostPolicy = bridge.ParseLostPolicy(string(policy))
	h.mu.Unlock()

	for _, sess := range h.sessionStore.GetAll() {
		sess.Tracker.SetLostPolicy(policy)
	}
	slog.Info("Lost policy updated", "policy", policy)
}

func (h *Handler) currentLostPolicy() bridge.LostPolicy {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lostPolicy
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
	slog.Error(message, "code", code)
	http.Error(w, message, code)
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*session.Session, bool) {
	sess, exists := h.sessionStore.Get(sessionID)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	sess.Touch()
	return sess, true
}

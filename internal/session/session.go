// Package session holds the server-side state of one open scanner page.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/coverscan/internal/bridge"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/render"
)

// View is what the page renders: the status line, the card region and the
// number of detection cues it should have played so far.
type View struct {
	SessionID string      `json:"session_id"`
	MarkerID  string      `json:"marker_id,omitempty"`
	State     string      `json:"state"`
	Status    string      `json:"status"`
	Card      render.Card `json:"card"`
	Cues      int         `json:"cues"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Session pairs a tracker with the view its ports write to
type Session struct {
	ID        string
	MarkerID  string
	CreatedAt time.Time
	Tracker   *bridge.Tracker

	mu       sync.RWMutex
	status   string
	card     render.Card
	cues     int
	lastSeen time.Time
}

// New creates a session whose card starts hidden. The tracker is not started.
func New(markerID string, provider catalog.Provider, policy bridge.LostPolicy) *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		MarkerID:  markerID,
		CreatedAt: now,
		card:      render.Card{Hidden: true},
		lastSeen:  now,
	}
	s.Tracker = bridge.NewTracker(provider, s, s, s, policy)
	return s
}

// SetStatus implements bridge.StatusPort
func (s *Session) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
	s.lastSeen = time.Now()
}

// Show implements bridge.CardPort
func (s *Session) Show(card render.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card.Hidden = false
	s.card = card
	s.lastSeen = time.Now()
}

// Hide implements bridge.CardPort
func (s *Session) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card.Hidden = true
	s.lastSeen = time.Now()
}

// Detected implements bridge.FeedbackPort. The page plays the cue when it sees the counter move.
func (s *Session) Detected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues++
}

// Touch records page activity
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

// LastSeen returns the time of the last activity on the session
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Snapshot returns the current view
func (s *Session) Snapshot() View {
	state := s.Tracker.State().String()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		SessionID: s.ID,
		MarkerID:  s.MarkerID,
		State:     state,
		Status:    s.status,
		Card:      s.card,
		Cues:      s.cues,
		UpdatedAt: s.lastSeen,
	}
}

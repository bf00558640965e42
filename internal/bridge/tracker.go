// Package bridge turns the tracker's markerFound/markerLost signals into catalog
// lookups, card renders and status updates.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"github.com/lehigh-university-libraries/coverscan/internal/render"
)

// Status texts shown to the user
const (
	StatusReady       = "Ready. Scan the registered cover."
	StatusNoMarkerID  = "Marker id not found in scene."
	StatusDetecting   = "Book detected. Loading info..."
	StatusShown       = "Detected. Info shown."
	StatusFetchFailed = "Detected, but fetch failed."
	StatusLost        = "Marker lost. Point at the cover again."
)

var (
	// ErrNoMarkerID is returned by Start when the scene carries no marker id
	ErrNoMarkerID = errors.New("marker id not found in scene")
	// ErrMarkerNotConfigured is returned by Start when the marker has no ISBN mapping
	ErrMarkerNotConfigured = errors.New("marker not configured")
)

// State of the tracking state machine
type State int

const (
	// Disabled: startup failed, every signal is ignored
	Disabled State = iota
	Idle
	Detecting
	Displayed
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Idle:
		return "idle"
	case Detecting:
		return "detecting"
	case Displayed:
		return "displayed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Tracker drives one scanner page. The lookup runs without holding the lock, so
// a markerFound delivered while a lookup is in flight is suppressed by state alone.
type Tracker struct {
	catalog  catalog.Provider
	status   StatusPort
	card     CardPort
	feedback FeedbackPort

	mu       sync.Mutex
	state    State
	policy   LostPolicy
	markerID string
	isbn     string

	// generation increments on every markerLost so a lookup started in an
	// earlier detection cannot move the state of a later one
	generation uint64
}

// NewTracker creates a tracker in the Disabled state; call Start to arm it.
func NewTracker(provider catalog.Provider, status StatusPort, card CardPort, feedback FeedbackPort, policy LostPolicy) *Tracker {
	if feedback == nil {
		feedback = NoFeedback{}
	}
	return &Tracker{
		catalog:  provider,
		status:   status,
		card:     card,
		feedback: feedback,
		policy:   ParseLostPolicy(string(policy)),
		state:    Disabled,
	}
}

// Start resolves the marker's ISBN and arms the tracker.
// Failures are reported through the status port and leave the tracker Disabled.
func (t *Tracker) Start(markerID string, markers models.MarkerConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if markerID == "" {
		t.status.SetStatus(StatusNoMarkerID)
		return ErrNoMarkerID
	}

	isbn, ok := markers.ISBNFor(markerID)
	if !ok {
		t.status.SetStatus("No ISBN mapped for marker: " + markerID)
		return fmt.Errorf("%w: %s", ErrMarkerNotConfigured, markerID)
	}

	t.markerID = markerID
	t.isbn = isbn
	t.state = Idle
	t.status.SetStatus(StatusReady)
	slog.Info("Tracker armed", "marker", markerID, "isbn", isbn)
	return nil
}

// Acquired handles markerFound. It blocks until the lookup it started, if any, completes.
func (t *Tracker) Acquired(ctx context.Context) {
	t.mu.Lock()
	if t.state == Disabled {
		t.mu.Unlock()
		return
	}
	t.status.SetStatus(StatusDetecting)
	if t.state != Idle {
		slog.Debug("Ignoring markerFound", "marker", t.markerID, "state", t.state)
		t.mu.Unlock()
		return
	}
	t.state = Detecting
	generation := t.generation
	isbn := t.isbn
	t.mu.Unlock()

	safeFeedback(t.feedback)

	record, found, err := t.catalog.LookupByISBN(ctx, isbn)

	t.mu.Lock()
	defer t.mu.Unlock()
	current := generation == t.generation

	if err != nil {
		slog.Warn("Catalog lookup failed", "marker", t.markerID, "isbn", isbn, "err", err)
		t.card.Show(render.Error(err))
		t.status.SetStatus(StatusFetchFailed)
		if current {
			t.state = Idle
		}
		return
	}

	if found {
		t.card.Show(render.Book(record))
	} else {
		t.card.Show(render.NotFound(isbn))
	}
	t.status.SetStatus(StatusShown)
	if current {
		t.state = Displayed
	}
	slog.Info("Card shown", "marker", t.markerID, "isbn", isbn, "found", found, "stale", !current)
}

// Lost handles markerLost
func (t *Tracker) Lost() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Disabled {
		return
	}
	t.status.SetStatus(StatusLost)
	t.state = Idle
	t.generation++
	if t.policy == HideCard {
		t.card.Hide()
	}
}

// State returns the current state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetLostPolicy changes the policy applied on the next markerLost
func (t *Tracker) SetLostPolicy(policy LostPolicy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.policy = ParseLostPolicy(string(policy))
}

// ISBN returns the ISBN the tracker looks up, empty while Disabled
func (t *Tracker) ISBN() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isbn
}

package bridge

import (
	"log/slog"

	"github.com/lehigh-university-libraries/coverscan/internal/render"
)

// StatusPort receives the short status line shown to the user
type StatusPort interface {
	SetStatus(text string)
}

// CardPort owns the visible card region
type CardPort interface {
	Show(card render.Card)
	Hide()
}

// FeedbackPort emits the haptic/audible cue on detection.
// Implementations are best effort; the tracker never lets them fail a detection.
type FeedbackPort interface {
	Detected()
}

// NoFeedback is the feedback port for environments without vibration or audio
type NoFeedback struct{}

func (NoFeedback) Detected() {}

func safeFeedback(f FeedbackPort) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Feedback cue failed", "err", r)
		}
	}()
	f.Detected()
}

// LostPolicy decides what happens to the card when the marker leaves the view
type LostPolicy string

const (
	// KeepCard leaves the last card visible after the marker is lost
	KeepCard LostPolicy = "keep"
	// HideCard hides the card region when the marker is lost
	HideCard LostPolicy = "hide"
)

// ParseLostPolicy maps a config value to a policy; unknown values keep the card.
func ParseLostPolicy(s string) LostPolicy {
	if LostPolicy(s) == HideCard {
		return HideCard
	}
	return KeepCard
}

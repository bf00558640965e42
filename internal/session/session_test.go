package session

import (
	"context"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/coverscan/internal/bridge"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

func TestSessionView(t *testing.T) {
	snapshot := catalog.NewSnapshot([]catalog.SnapshotEntry{
		catalog.NewSnapshotEntry("dune-cover", "9780441013593", &models.BookRecord{Title: "Dune"}),
	})
	markers := models.MarkerConfig{"dune-cover": {ISBN: "9780441013593"}}

	sess := New("dune-cover", snapshot, bridge.HideCard)
	if sess.ID == "" {
		t.Fatal("Expected generated session id")
	}

	view := sess.Snapshot()
	if !view.Card.Hidden || view.State != "disabled" {
		t.Errorf("Expected hidden card in disabled state, got %+v", view)
	}

	if err := sess.Tracker.Start("dune-cover", markers); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	sess.Tracker.Acquired(context.Background())

	view = sess.Snapshot()
	if view.State != "displayed" || view.Status != bridge.StatusShown {
		t.Errorf("Unexpected view after detection: %+v", view)
	}
	if view.Card.Hidden || !strings.Contains(view.Card.HTML, "Dune") {
		t.Errorf("Expected visible Dune card, got %+v", view.Card)
	}
	if view.Cues != 1 {
		t.Errorf("Expected 1 cue, got %d", view.Cues)
	}

	sess.Tracker.Lost()
	view = sess.Snapshot()
	if !view.Card.Hidden || view.Status != bridge.StatusLost {
		t.Errorf("Expected hidden card after loss, got %+v", view)
	}
}

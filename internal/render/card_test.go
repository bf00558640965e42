package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

func TestBookCard(t *testing.T) {
	card := Book(&models.BookRecord{
		Title:         "Dune",
		Authors:       []string{"Frank Herbert"},
		PublishDate:   "1965",
		PageCount:     412,
		CoverImageURL: "http://x/c.jpg",
		CatalogURL:    "https://openlibrary.org/works/OL1",
	})

	for _, want := range []string{
		"<h3>Dune</h3>",
		"Frank Herbert",
		"1965 • 412 pages",
		`<img src="http://x/c.jpg"`,
		`href="https://openlibrary.org/works/OL1"`,
		"Open in Open Library",
	} {
		if !strings.Contains(card.HTML, want) {
			t.Errorf("Expected card to contain %q, got:\n%s", want, card.HTML)
		}
	}
	if card.Hidden {
		t.Error("Expected rendered card to be visible")
	}
}

func TestBookCardDefaults(t *testing.T) {
	tests := []struct {
		name     string
		record   models.BookRecord
		contains []string
		excludes []string
	}{
		{
			name:     "empty record",
			record:   models.BookRecord{},
			contains: []string{"Unknown title", "Unknown author"},
			excludes: []string{"<img", "<a ", "•"},
		},
		{
			name:     "only pages",
			record:   models.BookRecord{PageCount: 90},
			contains: []string{"<p>90 pages</p>"},
			excludes: []string{"•"},
		},
		{
			name:     "only date",
			record:   models.BookRecord{PublishDate: "2001"},
			contains: []string{"<p>2001</p>"},
			excludes: []string{"pages"},
		},
		{
			name:     "several authors",
			record:   models.BookRecord{Authors: []string{"A", "", "B"}},
			contains: []string{"A, B"},
			excludes: []string{"Unknown author"},
		},
		{
			name:     "unsafe cover scheme is dropped",
			record:   models.BookRecord{CoverImageURL: "javascript:alert(1)"},
			excludes: []string{"javascript:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := Book(&tt.record).HTML
			for _, want := range tt.contains {
				if !strings.Contains(html, want) {
					t.Errorf("Expected %q in:\n%s", want, html)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(html, unwanted) {
					t.Errorf("Did not expect %q in:\n%s", unwanted, html)
				}
			}
		})
	}
}

func TestBookCardEscapesRemoteText(t *testing.T) {
	card := Book(&models.BookRecord{
		Title:       `<script>alert('x')</script>`,
		Authors:     []string{`Tom & "Jerry"`},
		PublishDate: "<b>1999</b>",
	})

	for _, raw := range []string{"<script", "<b>", `"Jerry"`, "'x'", "Tom & "} {
		if strings.Contains(card.HTML, raw) {
			t.Errorf("Found unescaped %q in:\n%s", raw, card.HTML)
		}
	}
	for _, escaped := range []string{"&lt;script&gt;", "Tom &amp; ", "&lt;b&gt;1999&lt;/b&gt;"} {
		if !strings.Contains(card.HTML, escaped) {
			t.Errorf("Expected %q in:\n%s", escaped, card.HTML)
		}
	}
}

func TestNotFoundCard(t *testing.T) {
	card := NotFound("9780441013593")
	if !strings.Contains(card.HTML, "Not found") || !strings.Contains(card.HTML, "9780441013593") {
		t.Errorf("Unexpected not found card: %s", card.HTML)
	}

	if hostile := NotFound("<i>1</i>"); strings.Contains(hostile.HTML, "<i>") {
		t.Errorf("Expected ISBN to be escaped, got %s", hostile.HTML)
	}
}

func TestErrorCard(t *testing.T) {
	card := Error(errors.New("OpenLibrary error: 500"))
	if !strings.Contains(card.HTML, "<h3>Error</h3>") || !strings.Contains(card.HTML, "OpenLibrary error: 500") {
		t.Errorf("Unexpected error card: %s", card.HTML)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`&<>"'x`)
	want := "&amp;&lt;&gt;&quot;&#39;x"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

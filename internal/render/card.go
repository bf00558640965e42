// Package render builds the detail card markup shown over a detected cover.
package render

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// Card is the rendered content of the card region
type Card struct {
	HTML   string `json:"html"`
	Hidden bool   `json:"hidden"`
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes & < > " ' for safe insertion into markup
func EscapeHTML(s string) string {
	return escaper.Replace(s)
}

// policy is the allow-list applied to every assembled card. Catalog data is
// escaped field by field; the policy additionally drops non-http(s) URLs.
var policy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("h3", "p", "strong")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	return p
}()

func sanitize(markup string) Card {
	return Card{HTML: policy.Sanitize(markup)}
}

// NotFound renders the informational card for an ISBN without catalog data
func NotFound(isbn string) Card {
	return sanitize(fmt.Sprintf(
		"<h3>Not found</h3><p>No Open Library data for ISBN: <strong>%s</strong></p>",
		EscapeHTML(isbn),
	))
}

// Error renders the card shown when a lookup failed
func Error(err error) Card {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return sanitize(fmt.Sprintf("<h3>Error</h3><p>%s</p>", EscapeHTML(msg)))
}

// Book renders the detail card for a record
func Book(record *models.BookRecord) Card {
	var b strings.Builder

	if record.CoverImageURL != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="Cover"/>`, EscapeHTML(record.CoverImageURL))
	}

	fmt.Fprintf(&b, "<h3>%s</h3>", EscapeHTML(Title(record)))
	fmt.Fprintf(&b, "<p><strong>Author:</strong> %s</p>", EscapeHTML(Authors(record)))

	if details := Details(record); details != "" {
		fmt.Fprintf(&b, "<p>%s</p>", EscapeHTML(details))
	}

	if record.CatalogURL != "" {
		fmt.Fprintf(&b, `<p><a href="%s" target="_blank" rel="noreferrer">Open in Open Library</a></p>`,
			EscapeHTML(record.CatalogURL))
	}

	return sanitize(b.String())
}

// Title returns the record title or "Unknown title"
func Title(record *models.BookRecord) string {
	if record.Title == "" {
		return "Unknown title"
	}
	return record.Title
}

// Authors joins the non-empty author names, or returns "Unknown author"
func Authors(record *models.BookRecord) string {
	names := make([]string, 0, len(record.Authors))
	for _, name := range record.Authors {
		if name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "Unknown author"
	}
	return strings.Join(names, ", ")
}

// Details combines publish date and page count with a bullet, omitting absent parts
func Details(record *models.BookRecord) string {
	var parts []string
	if record.PublishDate != "" {
		parts = append(parts, record.PublishDate)
	}
	if record.PageCount > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", record.PageCount))
	}
	return strings.Join(parts, " • ")
}

package models

// BookRecord is the normalized result of a catalog lookup
type BookRecord struct {
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors       []string `json:"authors" yaml:"authors"`
	PublishDate   string   `json:"publish_date,omitempty" yaml:"publish_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty" yaml:"cover_image_url,omitempty"`
	CatalogURL    string   `json:"catalog_url,omitempty" yaml:"catalog_url,omitempty"`
	Source        string   `json:"source,omitempty" yaml:"source,omitempty"` // provider that answered
}

// MarkerEntry is the book bound to a single printed marker
type MarkerEntry struct {
	ISBN string `json:"isbn" yaml:"isbn"`
}

// MarkerConfig maps marker identifiers to their book. Read-only after load.
type MarkerConfig map[string]MarkerEntry

// ISBNFor returns the ISBN mapped to a marker id.
// Entries without an ISBN count as unmapped.
func (m MarkerConfig) ISBNFor(markerID string) (string, bool) {
	entry, ok := m[markerID]
	if !ok || entry.ISBN == "" {
		return "", false
	}
	return entry.ISBN, true
}

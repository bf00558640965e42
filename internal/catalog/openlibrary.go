package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

const (
	// DefaultOpenLibraryURL is the public Open Library host
	DefaultOpenLibraryURL = "https://openlibrary.org"
)

// OpenLibrary queries the Open Library Books API (jscmd=data)
type OpenLibrary struct {
	BaseURL string
	// LinkBase prefixes the relative record paths the API returns
	LinkBase   string
	httpClient *http.Client
}

// openLibraryBook is one entry of the Books API response, keyed by bibkey
type openLibraryBook struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Authors []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"authors"`
	PublishDate   string `json:"publish_date"`
	NumberOfPages int    `json:"number_of_pages"`
	Cover         struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
		Large  string `json:"large"`
	} `json:"cover"`
}

// NewOpenLibrary creates an Open Library provider. An empty baseURL uses the public host.
func NewOpenLibrary(baseURL string, client *http.Client) *OpenLibrary {
	if baseURL == "" {
		baseURL = DefaultOpenLibraryURL
	}
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &OpenLibrary{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		LinkBase:   DefaultOpenLibraryURL,
		httpClient: client,
	}
}

func (o *OpenLibrary) Name() string {
	return "OpenLibrary"
}

// LookupByISBN issues a single request keyed by ISBN:<isbn>. No retry is attempted here.
func (o *OpenLibrary) LookupByISBN(ctx context.Context, isbn string) (*models.BookRecord, bool, error) {
	if isbn == "" {
		return nil, false, ErrEmptyISBN
	}

	bibkey := "ISBN:" + isbn
	query := url.Values{}
	query.Set("bibkeys", bibkey)
	query.Set("format", "json")
	query.Set("jscmd", "data")
	booksURL := fmt.Sprintf("%s/api/books?%s", o.BaseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, booksURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create Open Library request: %w", err)
	}

	slog.Debug("Querying Open Library", "isbn", isbn)
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, false, &UnavailableError{Provider: o.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &UnavailableError{Provider: o.Name(), StatusCode: resp.StatusCode}
	}

	var result map[string]openLibraryBook
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, false, fmt.Errorf("failed to decode Open Library response: %w", err)
	}

	book, ok := result[bibkey]
	if !ok {
		slog.Debug("No Open Library record", "isbn", isbn)
		return nil, false, nil
	}

	return o.normalize(book), true, nil
}

func (o *OpenLibrary) normalize(book openLibraryBook) *models.BookRecord {
	record := &models.BookRecord{
		Title:       book.Title,
		Authors:     make([]string, 0, len(book.Authors)),
		PublishDate: book.PublishDate,
		PageCount:   book.NumberOfPages,
		Source:      o.Name(),
	}

	for _, author := range book.Authors {
		if author.Name != "" {
			record.Authors = append(record.Authors, author.Name)
		}
	}

	record.CoverImageURL = book.Cover.Medium
	if record.CoverImageURL == "" {
		record.CoverImageURL = book.Cover.Small
	}

	switch {
	case book.URL == "":
	case strings.HasPrefix(book.URL, "/"):
		record.CatalogURL = o.LinkBase + book.URL
	default:
		record.CatalogURL = book.URL
	}

	return record
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
	books "google.golang.org/api/books/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleBooks queries the Google Books volumes API
type GoogleBooks struct {
	service *books.Service
	apiKey  string
}

// NewGoogleBooks creates a Google Books provider. The API key is optional;
// unauthenticated requests are subject to a lower quota.
func NewGoogleBooks(ctx context.Context, apiKey string, client *http.Client, opts ...option.ClientOption) (*GoogleBooks, error) {
	if client == nil {
		client = NewHTTPClient(0)
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	service, err := books.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Books client: %w", err)
	}

	return &GoogleBooks{service: service, apiKey: apiKey}, nil
}

func (g *GoogleBooks) Name() string {
	return "GoogleBooks"
}

// LookupByISBN returns the first volume matching isbn:<isbn>
func (g *GoogleBooks) LookupByISBN(ctx context.Context, isbn string) (*models.BookRecord, bool, error) {
	if isbn == "" {
		return nil, false, ErrEmptyISBN
	}

	var callOpts []googleapi.CallOption
	if g.apiKey != "" {
		callOpts = append(callOpts, googleapi.QueryParameter("key", g.apiKey))
	}

	slog.Debug("Querying Google Books", "isbn", isbn)
	volumes, err := g.service.Volumes.List("isbn:" + isbn).MaxResults(1).Context(ctx).Do(callOpts...)
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, false, &UnavailableError{Provider: g.Name(), StatusCode: apiErr.Code, Err: err}
		}
		return nil, false, &UnavailableError{Provider: g.Name(), Err: err}
	}

	if len(volumes.Items) == 0 || volumes.Items[0].VolumeInfo == nil {
		slog.Debug("No Google Books volume", "isbn", isbn)
		return nil, false, nil
	}

	info := volumes.Items[0].VolumeInfo
	record := &models.BookRecord{
		Title:       info.Title,
		Authors:     make([]string, 0, len(info.Authors)),
		PublishDate: info.PublishedDate,
		PageCount:   int(info.PageCount),
		CatalogURL:  info.InfoLink,
		Source:      g.Name(),
	}
	for _, author := range info.Authors {
		if author != "" {
			record.Authors = append(record.Authors, author)
		}
	}
	if links := info.ImageLinks; links != nil {
		record.CoverImageURL = firstNonEmpty(links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail)
	}

	return record, true, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

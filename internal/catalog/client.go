package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"golang.org/x/net/http2"
)

// ErrEmptyISBN is returned when a lookup is attempted without an ISBN
var ErrEmptyISBN = errors.New("isbn must not be empty")

// Provider looks up book metadata by ISBN.
// A lookup that succeeds without a matching record returns (nil, false, nil).
type Provider interface {
	Name() string
	LookupByISBN(ctx context.Context, isbn string) (*models.BookRecord, bool, error)
}

// UnavailableError reports a catalog that answered with a non-success status
// or could not be reached at all (StatusCode 0).
type UnavailableError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s error: %d", e.Provider, e.StatusCode)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NewHTTPClient creates the outbound client shared by the catalog providers.
// A zero timeout leaves request lifetime to the caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Fails when h2 is already registered on the clone, which still negotiates HTTP/2.
	if err := http2.ConfigureTransport(transport); err != nil {
		slog.Debug("Using built-in HTTP/2 support", "err", err)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Package markers loads the marker-id to book mapping used by the scanner page.
package markers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

// LoadError reports a marker configuration that could not be fetched or parsed.
// The scanner cannot start without a mapping, so callers treat it as fatal.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load marker config from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads the marker configuration from a URL or a local file
type Loader struct {
	HTTPClient *http.Client
}

// NewLoader creates a loader using the given HTTP client for URL sources.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{HTTPClient: client}
}

// Load fetches and parses the mapping once. There is no retry and no partial load.
func (l *Loader) Load(ctx context.Context, source string) (models.MarkerConfig, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	var cfg models.MarkerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if cfg == nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("expected a JSON object")}
	}
	for id, entry := range cfg {
		entry.ISBN = CleanISBN(entry.ISBN)
		cfg[id] = entry
	}

	slog.Info("Marker config loaded", "source", source, "markers", len(cfg))
	return cfg, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// CleanISBN removes hyphens and surrounding space so printed ISBNs can be pasted as-is
func CleanISBN(isbn string) string {
	return strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
}

// ParseMarkerAttr extracts the marker id from the anchor's declarative attribute.
// Scene libraries hand the attribute over either raw ("id: abc") or already parsed
// into an object ({"id": "abc"}). An empty result means no id is present.
func ParseMarkerAttr(attr any) string {
	switch v := attr.(type) {
	case string:
		_, after, found := strings.Cut(v, "id:")
		if !found {
			return ""
		}
		// Other properties may follow, separated by ';'
		id, _, _ := strings.Cut(after, ";")
		return strings.TrimSpace(id)
	case map[string]any:
		id, ok := v["id"].(string)
		if !ok {
			return ""
		}
		return strings.TrimSpace(id)
	case map[string]string:
		return strings.TrimSpace(v["id"])
	default:
		return ""
	}
}

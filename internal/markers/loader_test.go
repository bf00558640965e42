package markers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markers.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"dune-cover": {"isbn": " 978-0-441-01359-3 "}, "empty": {"isbn": ""}}`))
	}))
	defer srv.Close()

	cfg, err := NewLoader(srv.Client()).Load(context.Background(), srv.URL+"/markers.json")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	isbn, ok := cfg.ISBNFor("dune-cover")
	if !ok || isbn != "9780441013593" {
		t.Errorf("Expected ISBN 9780441013593, got %q (ok=%v)", isbn, ok)
	}
	if _, ok := cfg.ISBNFor("empty"); ok {
		t.Error("Expected entry without ISBN to be unmapped")
	}
	if _, ok := cfg.ISBNFor("missing"); ok {
		t.Error("Expected missing entry to be unmapped")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.json")
	if err := os.WriteFile(path, []byte(`{"a": {"isbn": "1"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg) != 1 {
		t.Errorf("Expected 1 marker, got %d", len(cfg))
	}
}

func TestLoadFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken.json":
			_, _ = w.Write([]byte(`{"a": `))
		case "/array.json":
			_, _ = w.Write([]byte(`[1, 2]`))
		case "/null.json":
			_, _ = w.Write([]byte(`null`))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		source string
	}{
		{name: "server error", source: srv.URL + "/markers.json"},
		{name: "invalid JSON", source: srv.URL + "/broken.json"},
		{name: "not an object", source: srv.URL + "/array.json"},
		{name: "null body", source: srv.URL + "/null.json"},
		{name: "missing file", source: filepath.Join(t.TempDir(), "nope.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewLoader(srv.Client()).Load(context.Background(), tt.source)
			if err == nil {
				t.Fatalf("Expected error, got config %v", cfg)
			}
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *LoadError, got %T", err)
			}
			if loadErr.Source != tt.source {
				t.Errorf("Expected source %s, got %s", tt.source, loadErr.Source)
			}
		})
	}
}

func TestParseMarkerAttr(t *testing.T) {
	tests := []struct {
		name     string
		attr     any
		expected string
	}{
		{name: "raw string", attr: "id: dune-cover", expected: "dune-cover"},
		{name: "raw string with more properties", attr: "id: dune-cover; size: 1", expected: "dune-cover"},
		{name: "string without id", attr: "size: 1", expected: ""},
		{name: "parsed object", attr: map[string]any{"id": " abc "}, expected: "abc"},
		{name: "object without id", attr: map[string]any{"size": 1}, expected: ""},
		{name: "string map", attr: map[string]string{"id": "xyz"}, expected: "xyz"},
		{name: "nil", attr: nil, expected: ""},
		{name: "empty id", attr: "id:   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMarkerAttr(tt.attr); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

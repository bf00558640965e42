package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/coverscan/internal/bridge"
	"github.com/lehigh-university-libraries/coverscan/internal/catalog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != "8888" {
		t.Errorf("Expected default port 8888, got %s", cfg.Server.Port)
	}
	if len(cfg.Catalog.Providers) != 1 || cfg.Catalog.Providers[0] != "openlibrary" {
		t.Errorf("Expected openlibrary provider, got %v", cfg.Catalog.Providers)
	}
	if cfg.Catalog.RetryAttempts != 1 {
		t.Errorf("Expected no retries by default, got %d attempts", cfg.Catalog.RetryAttempts)
	}
	if cfg.LostPolicy() != bridge.KeepCard {
		t.Errorf("Expected keep policy, got %s", cfg.LostPolicy())
	}
}

func TestWriteDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverscan.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault returned error: %v", err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	cfg := m.Get()
	if cfg.Server.Port != "8888" {
		t.Errorf("Expected port 8888, got %s", cfg.Server.Port)
	}
	if cfg.Sessions.TTL != 30*time.Minute {
		t.Errorf("Expected 30m TTL, got %s", cfg.Sessions.TTL)
	}
	if cfg.Catalog.RetryDelay != 500*time.Millisecond {
		t.Errorf("Expected 500ms retry delay, got %s", cfg.Catalog.RetryDelay)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverscan.yaml")
	content := `server:
  port: "9000"
catalog:
  providers: [openlibrary, snapshot]
  snapshot_path: books.yaml
  timeout: 5s
tracking:
  lost_policy: hide
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	cfg := m.Get()
	if cfg.Server.Port != "9000" {
		t.Errorf("Expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %s", cfg.Catalog.Timeout)
	}
	if len(cfg.Catalog.Providers) != 2 {
		t.Errorf("Expected 2 providers, got %v", cfg.Catalog.Providers)
	}
	if cfg.LostPolicy() != bridge.HideCard {
		t.Errorf("Expected hide policy, got %s", cfg.LostPolicy())
	}
	// Untouched keys keep their defaults
	if cfg.Markers.Source != "web/static/markers.json" {
		t.Errorf("Expected default marker source, got %s", cfg.Markers.Source)
	}
}

func TestBuildProvider(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "books.yaml")
	if err := catalog.WriteSnapshot(snapshotPath, nil); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		providers []string
		snapshot  string
		wantName  string
		wantErr   bool
	}{
		{name: "open library", providers: []string{"openlibrary"}, wantName: "OpenLibrary"},
		{name: "chain", providers: []string{"snapshot", "openlibrary"}, snapshot: snapshotPath, wantName: "Snapshot+OpenLibrary"},
		{name: "snapshot without path", providers: []string{"snapshot"}, wantErr: true},
		{name: "unknown provider", providers: []string{"worldcat"}, wantErr: true},
		{name: "no providers", providers: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Catalog.Providers = tt.providers
			cfg.Catalog.SnapshotPath = tt.snapshot

			p, err := cfg.BuildProvider(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got provider %v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildProvider returned error: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("Expected %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// SnapshotEntry is one resolved marker as stored in a snapshot file
type SnapshotEntry struct {
	MarkerID      string   `yaml:"marker_id" parquet:"marker_id"`
	ISBN          string   `yaml:"isbn" parquet:"isbn"`
	Found         bool     `yaml:"found" parquet:"found"`
	Title         string   `yaml:"title,omitempty" parquet:"title"`
	Authors       []string `yaml:"authors,omitempty" parquet:"authors,list"`
	PublishDate   string   `yaml:"publish_date,omitempty" parquet:"publish_date"`
	PageCount     int      `yaml:"page_count,omitempty" parquet:"page_count"`
	CoverImageURL string   `yaml:"cover_image_url,omitempty" parquet:"cover_image_url"`
	CatalogURL    string   `yaml:"catalog_url,omitempty" parquet:"catalog_url"`
	Source        string   `yaml:"source,omitempty" parquet:"source"`
}

// NewSnapshotEntry builds an entry from a lookup result. A nil record marks a NotFound.
func NewSnapshotEntry(markerID, isbn string, record *models.BookRecord) SnapshotEntry {
	entry := SnapshotEntry{MarkerID: markerID, ISBN: isbn}
	if record == nil {
		return entry
	}
	entry.Found = true
	entry.Title = record.Title
	entry.Authors = record.Authors
	entry.PublishDate = record.PublishDate
	entry.PageCount = record.PageCount
	entry.CoverImageURL = record.CoverImageURL
	entry.CatalogURL = record.CatalogURL
	entry.Source = record.Source
	return entry
}

// Record converts the entry back to a book record
func (e SnapshotEntry) Record() *models.BookRecord {
	authors := e.Authors
	if authors == nil {
		authors = []string{}
	}
	return &models.BookRecord{
		Title:         e.Title,
		Authors:       authors,
		PublishDate:   e.PublishDate,
		PageCount:     e.PageCount,
		CoverImageURL: e.CoverImageURL,
		CatalogURL:    e.CatalogURL,
		Source:        e.Source,
	}
}

// WriteSnapshot writes entries to path; the format follows the extension (.parquet, .yaml, .yml)
func WriteSnapshot(path string, entries []SnapshotEntry) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		if err := parquet.WriteFile(path, entries); err != nil {
			return fmt.Errorf("failed to write parquet snapshot: %w", err)
		}
	case ".yaml", ".yml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write YAML snapshot: %w", err)
		}
	default:
		return fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .yaml)", filepath.Ext(path))
	}

	slog.Info("Snapshot written", "path", path, "entries", len(entries))
	return nil
}

// ReadSnapshot loads entries written by WriteSnapshot
func ReadSnapshot(path string) ([]SnapshotEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		entries, err := parquet.ReadFile[SnapshotEntry](path)
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet snapshot: %w", err)
		}
		return entries, nil
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML snapshot: %w", err)
		}
		var entries []SnapshotEntry
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s (supported: .parquet, .yaml)", filepath.Ext(path))
	}
}

// Snapshot serves lookups from a snapshot file without touching the network
type Snapshot struct {
	entries map[string]SnapshotEntry
}

// NewSnapshot indexes the given entries by ISBN
func NewSnapshot(entries []SnapshotEntry) *Snapshot {
	s := &Snapshot{entries: make(map[string]SnapshotEntry, len(entries))}
	for _, e := range entries {
		s.entries[e.ISBN] = e
	}
	return s
}

// OpenSnapshot reads a snapshot file into a provider
func OpenSnapshot(path string) (*Snapshot, error) {
	entries, err := ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	slog.Info("Snapshot catalog opened", "path", path, "entries", len(entries))
	return NewSnapshot(entries), nil
}

func (s *Snapshot) Name() string {
	return "Snapshot"
}

func (s *Snapshot) LookupByISBN(_ context.Context, isbn string) (*models.BookRecord, bool, error) {
	if isbn == "" {
		return nil, false, ErrEmptyISBN
	}
	entry, ok := s.entries[isbn]
	if !ok || !entry.Found {
		return nil, false, nil
	}
	return entry.Record(), true, nil
}

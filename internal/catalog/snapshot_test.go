package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/coverscan/internal/models"
)

func TestSnapshotProvider(t *testing.T) {
	dune := &models.BookRecord{
		Title:       "Dune",
		Authors:     []string{"Frank Herbert"},
		PublishDate: "1965",
		PageCount:   412,
		Source:      "OpenLibrary",
	}

	for _, ext := range []string{".yaml", ".parquet"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "books"+ext)
			entries := []SnapshotEntry{
				NewSnapshotEntry("dune-cover", "9780441013593", dune),
				NewSnapshotEntry("unknown", "0000000000", nil),
			}
			if err := WriteSnapshot(path, entries); err != nil {
				t.Fatalf("WriteSnapshot returned error: %v", err)
			}

			snapshot, err := OpenSnapshot(path)
			if err != nil {
				t.Fatalf("OpenSnapshot returned error: %v", err)
			}

			record, found, err := snapshot.LookupByISBN(context.Background(), "9780441013593")
			if err != nil || !found {
				t.Fatalf("Expected Dune, got found=%v err=%v", found, err)
			}
			if record.Title != "Dune" || record.PageCount != 412 || len(record.Authors) != 1 {
				t.Errorf("Unexpected record: %+v", record)
			}

			for _, isbn := range []string{"0000000000", "1111111111"} {
				if _, found, err := snapshot.LookupByISBN(context.Background(), isbn); found || err != nil {
					t.Errorf("Expected NotFound for %s, got found=%v err=%v", isbn, found, err)
				}
			}
		})
	}
}

func TestSnapshotUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := WriteSnapshot(path, nil); err == nil {
		t.Error("Expected error for unsupported format")
	}
	if _, err := ReadSnapshot(path); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenCreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := os.Stat(filepath.Join(dir, dbName)); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestInsertList(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	entries := []Entry{
		{Code: "25f", Title: "First", Artist: "Artist A", Mapper: "Mapper A", Difficulties: 2, Converted: 100, Dropped: 3},
		{Code: "1a2b", Title: "Second", Artist: "Artist B", Mapper: "Mapper B", Difficulties: 1, Converted: 40, Failed: 1},
	}
	for _, e := range entries {
		if err := s.Insert(ctx, e); err != nil {
			t.Fatalf("Insert(%s) error = %v", e.Code, err)
		}
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Code != "1a2b" || got[1].Code != "25f" {
		t.Errorf("order = %q, %q, want 1a2b, 25f", got[0].Code, got[1].Code)
	}
	if got[1].Title != "First" || got[1].Converted != 100 || got[1].Dropped != 3 {
		t.Errorf("entry = %+v", got[1])
	}
	if got[0].Failed != 1 {
		t.Errorf("Failed = %d, want 1", got[0].Failed)
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not recorded")
	}
}

func TestListLimit(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Insert(ctx, Entry{Code: "x", Title: "T", Artist: "A", Mapper: "M"}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	got, err := s.List(ctx, 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len(List(3)) = %d, want 3", len(got))
	}
}

func TestInsertKeepsExplicitTimestamp(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()
	ctx := context.Background()

	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := s.Insert(ctx, Entry{Code: "old", Title: "T", Artist: "A", Mapper: "M", CreatedAt: stamp}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	got, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !got[0].CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, stamp)
	}
}

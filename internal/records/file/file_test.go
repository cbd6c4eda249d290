package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ledger/internal/records"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := s.Get(ctx, records.KeySettings); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, records.KeySettings, []byte(`{"currency":"EUR"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, records.KeySettings, []byte(`{"currency":"USD"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, records.KeySettings)
	if err != nil || string(got) != `{"currency":"USD"}` {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}

	if _, err := os.Stat(filepath.Join(dir, records.KeySettings+".json")); err != nil {
		t.Fatalf("record file missing: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}

	if err := s.Delete(ctx, records.KeySettings); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, records.KeySettings); err != nil {
		t.Fatalf("deleting a missing record should not fail: %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Put(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatal("expected error for key with path separators")
	}
}

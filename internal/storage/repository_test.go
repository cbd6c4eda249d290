package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/log"
	"ledger/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "db", "ledger.db"), nil)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.Get(ctx, records.KeyLedger); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, records.KeyLedger, []byte(`{"transactions":[],"accounts":[]}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, records.KeyLedger, []byte(`{"transactions":[{"id":1}],"accounts":[]}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, records.KeyLedger)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"transactions":[{"id":1}],"accounts":[]}` {
		t.Fatalf("unexpected value: %s", got)
	}

	if err := repo.Delete(ctx, records.KeyLedger); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, records.KeyLedger); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteRepositoryMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: &buf})

	first, err := NewSQLiteRepository(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Put(context.Background(), records.KeyCategories, []byte(`["Food"]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	first.Close()

	second, err := NewSQLiteRepository(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Get(context.Background(), records.KeyCategories)
	if err != nil || string(got) != `["Food"]` {
		t.Fatalf("record lost across reopen: %q err=%v", got, err)
	}

	out := buf.String()
	if strings.Count(out, "SQLite schema ready") != 2 || !strings.Contains(out, "component=storage") {
		t.Errorf("migrations should log through the storage logger:\n%s", out)
	}
}

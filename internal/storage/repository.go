package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/log"
	"ledger/internal/records"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

// NewSQLiteRepository opens dbPath and brings its schema up to date. A nil
// logger discards output.
func NewSQLiteRepository(ctx context.Context, dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(ctx, dbPath, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements records.Reader
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	rec, err := r.queries.GetRecord(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, records.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

// Put implements records.Writer
func (r *SQLiteRepository) Put(ctx context.Context, key string, value []byte) error {
	err := r.queries.UpsertRecord(ctx, UpsertRecordParams{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}

	r.logger.DebugContext(ctx, "Record saved to SQLite",
		log.FieldKey, key, log.FieldOperation, log.OpSave, "bytes", len(value))
	return nil
}

// Delete implements records.Writer
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if err := r.queries.DeleteRecord(ctx, key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Record deleted from SQLite", log.FieldKey, key, log.FieldOperation, log.OpDelete)
	return nil
}

var _ records.Store = (*SQLiteRepository)(nil)

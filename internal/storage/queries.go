package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Record struct {
	Key       string
	Value     string
	Version   int64
	UpdatedAt time.Time
}

const getRecord = `SELECT key, value, version, updated_at FROM records WHERE key = ?`

func (q *Queries) GetRecord(ctx context.Context, key string) (Record, error) {
	row := q.db.QueryRowContext(ctx, getRecord, key)
	var r Record
	var updatedAt string
	if err := row.Scan(&r.Key, &r.Value, &r.Version, &updatedAt); err != nil {
		return r, err
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return r, nil
}

const upsertRecord = `INSERT INTO records (key, value, version, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    version = records.version + 1,
    updated_at = excluded.updated_at`

type UpsertRecordParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (q *Queries) UpsertRecord(ctx context.Context, arg UpsertRecordParams) error {
	_, err := q.db.ExecContext(ctx, upsertRecord, arg.Key, arg.Value, arg.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

const deleteRecord = `DELETE FROM records WHERE key = ?`

func (q *Queries) DeleteRecord(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteRecord, key)
	return err
}

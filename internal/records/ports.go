package records

import (
	"context"
	"errors"
)

// Keys of the durable records. Each is written atomically and independently.
const (
	KeyLedger     = "financeData"
	KeySettings   = "financeSettings"
	KeyCategories = "financeCategories"
)

// ErrNotFound is returned by Get when no record exists for the key.
var ErrNotFound = errors.New("record not found")

// Ports for durable record backends.
type (
	Reader interface {
		// Get returns the raw JSON stored under key, or ErrNotFound.
		Get(ctx context.Context, key string) ([]byte, error)
	}

	Writer interface {
		// Put replaces the record under key as one atomic write.
		Put(ctx context.Context, key string, value []byte) error
		// Delete removes the record; deleting a missing key is not an error.
		Delete(ctx context.Context, key string) error
	}

	// Store is a key/value record backend shared by the ledger, settings and categories.
	Store interface {
		Reader
		Writer
		Close() error
	}
)

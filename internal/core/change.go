package core

import "time"

const (
	EntityTransaction = "transaction"
	EntityAccount     = "account"
	EntityCategory    = "category"
	EntitySettings    = "settings"
	EntityLedger      = "ledger"
)

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
	ChangeReset   ChangeKind = "reset"
)

type ChangeKind string

// Change describes one completed mutation. Presentation layers use it to decide
// what to re-render.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Entity string     `json:"entity"`
	ID     int64      `json:"id,omitempty"`
	Key    string     `json:"key,omitempty"` // category name for category changes
	At     time.Time  `json:"at"`
}

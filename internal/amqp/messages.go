package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// ChangeMessage mirrors a completed ledger mutation onto the exchange.
type ChangeMessage struct {
	MessageID string          `json:"message_id"`
	Kind      core.ChangeKind `json:"kind"`
	Entity    string          `json:"entity"`
	ID        int64           `json:"id,omitempty"`
	Key       string          `json:"key,omitempty"`
	At        time.Time       `json:"at"`
}

// NewChangeMessage wraps c with a fresh message id.
func NewChangeMessage(c core.Change) *ChangeMessage {
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}
	return &ChangeMessage{
		MessageID: uuid.NewString(),
		Kind:      c.Kind,
		Entity:    c.Entity,
		ID:        c.ID,
		Key:       c.Key,
		At:        at,
	}
}

// RoutingKey is ledger.<entity>.<kind>, e.g. ledger.transaction.created.
func (m *ChangeMessage) RoutingKey() string {
	return "ledger." + m.Entity + "." + string(m.Kind)
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

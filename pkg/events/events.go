package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// RowChange is one change-feed event: a row inserted, updated or deleted in
// one of the fed tables. ConversationId and ClientToken are lifted out of
// the row so the hub can route and scope without parsing the payload.
type RowChange struct {
	Table          string          `json:"table"`
	Action         string          `json:"action"`
	ConversationId string          `json:"conversation_id,omitempty"`
	ClientToken    string          `json:"client_token,omitempty"`
	Row            json.RawMessage `json:"row"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Subject returns the NATS subject this event is published on.
func (e RowChange) Subject() string {
	return fmt.Sprintf("feed.%s.%s", e.Table, e.Action)
}

// NewRowChange serializes the row payload and builds the event envelope.
func NewRowChange(table, action string, row interface{}) (RowChange, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return RowChange{}, fmt.Errorf("failed to marshal row payload: %w", err)
	}
	return RowChange{
		Table:      table,
		Action:     action,
		Row:        data,
		OccurredAt: time.Now(),
	}, nil
}

package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	EntityTransaction = "transaction"
	EntityMember      = "member"

	OpCreated = "created"
	OpDeleted = "deleted"
)

// ChangeMessage announces one ledger mutation. It carries only the entity
// kind, the operation and the document id; consumers fetch the current
// record from the store themselves.
type ChangeMessage struct {
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(entity, op, id string) *ChangeMessage {
	return &ChangeMessage{
		Entity:    entity,
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// Validate checks the enumerated fields.
func (m *ChangeMessage) Validate() error {
	if m.Entity != EntityTransaction && m.Entity != EntityMember {
		return fmt.Errorf("unknown entity %q", m.Entity)
	}
	if m.Op != OpCreated && m.Op != OpDeleted {
		return fmt.Errorf("unknown op %q", m.Op)
	}
	if m.ID == "" {
		return fmt.Errorf("empty id")
	}
	return nil
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

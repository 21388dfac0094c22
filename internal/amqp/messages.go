package amqp

import (
	"encoding/json"

	"financas/internal/core"
)

// TransactionMessage is the wire envelope for a transaction event.
type TransactionMessage struct {
	Version int                   `json:"version"`
	Event   core.TransactionEvent `json:"event"`
}

const messageVersion = 1

// NewTransactionMessage wraps an event in the current envelope version.
func NewTransactionMessage(ev core.TransactionEvent) *TransactionMessage {
	return &TransactionMessage{Version: messageVersion, Event: ev}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RoutingKey is "<kind>.<op>", e.g. "despesa.criado".
func (m *TransactionMessage) RoutingKey() string {
	return string(m.Event.Kind) + "." + string(m.Event.Op)
}

package core

import "time"

type EventOp string

const (
	EventCreated       EventOp = "criado"
	EventUpdated       EventOp = "atualizado"
	EventDeleted       EventOp = "excluido"
	EventStatusChanged EventOp = "status"
	EventMarkedOverdue EventOp = "vencido"
)

// TransactionEvent describes one mutation of a transaction. It carries the
// row as it was after the change (before it, for deletes) so consumers never
// need to read it back.
type TransactionEvent struct {
	Op           EventOp   `json:"op"`
	Kind         Kind      `json:"tipo"`
	ID           int64     `json:"id"`
	ClientID     int64     `json:"cliente_id"`
	Description  string    `json:"descricao,omitempty"`
	Amount       Money     `json:"valor"`
	Date         Date      `json:"data"`
	Status       Status    `json:"status,omitempty"`
	CategoryName string    `json:"categoria,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTransactionEvent snapshots t for op.
func NewTransactionEvent(op EventOp, t Transaction, categoryName string) TransactionEvent {
	return TransactionEvent{
		Op:           op,
		Kind:         t.Kind,
		ID:           t.ID,
		ClientID:     t.ClientID,
		Description:  t.Description,
		Amount:       t.Amount,
		Date:         t.Date,
		Status:       t.Status,
		CategoryName: categoryName,
		Timestamp:    time.Now().UTC(),
	}
}

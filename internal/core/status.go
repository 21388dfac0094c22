package core

import "strings"

// Status is the lifecycle state of a transaction.
type Status string

const (
	StatusPending  Status = "pendente"
	StatusReceived Status = "recebido" // income only
	StatusPaid     Status = "pago"     // expense only
	StatusOverdue  Status = "vencido"
)

const (
	colorPending = "#f59e0b"
	colorSettled = "#10b981"
	colorOverdue = "#ef4444"
	colorNeutral = "#9ca3af"
)

// ParseStatus trims and lowercases s and checks it is allowed for kind.
func ParseStatus(kind Kind, s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.ValidFor(kind) {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// ValidFor reports whether the status exists for the given kind. "recebido"
// belongs to income and "pago" to expenses.
func (s Status) ValidFor(k Kind) bool {
	switch s {
	case StatusPending, StatusOverdue:
		return k == KindIncome || k == KindExpense
	case StatusReceived:
		return k == KindIncome
	case StatusPaid:
		return k == KindExpense
	}
	return false
}

func (s Status) IsSettled() bool {
	return s == StatusReceived || s == StatusPaid
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusReceived:
		return "Recebido"
	case StatusPaid:
		return "Pago"
	case StatusOverdue:
		return "Vencido"
	}
	return string(s)
}

// SettledStatus is "recebido" for income and "pago" for expenses.
func (k Kind) SettledStatus() Status {
	if k == KindIncome {
		return StatusReceived
	}
	return StatusPaid
}

// StatusColor is the badge color for a status; unknown values render neutral.
func StatusColor(s Status) string {
	switch {
	case s == StatusPending:
		return colorPending
	case s.IsSettled():
		return colorSettled
	case s == StatusOverdue:
		return colorOverdue
	}
	return colorNeutral
}

package core

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		kind    Kind
		in      string
		want    Status
		wantErr bool
	}{
		{KindExpense, "pago", StatusPaid, false},
		{KindExpense, " PAGO ", StatusPaid, false},
		{KindIncome, "Recebido", StatusReceived, false},
		{KindIncome, "vencido", StatusOverdue, false},
		{KindIncome, "pago", "", true},
		{KindExpense, "recebido", "", true},
		{KindExpense, "", "", true},
		{KindExpense, "quitado", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.kind, tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidStatus) {
				t.Errorf("ParseStatus(%s, %q) error = %v, want ErrInvalidStatus", tt.kind, tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%s, %q) = %q, %v, want %q", tt.kind, tt.in, got, err, tt.want)
		}
	}
}

package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateAddMonthsClampsDay(t *testing.T) {
	cases := []struct {
		in   Date
		n    int
		want string
	}{
		{NewDate(2025, 1, 31), 1, "2025-02-28"},
		{NewDate(2024, 1, 31), 1, "2024-02-29"},
		{NewDate(2025, 11, 15), 2, "2026-01-15"},
		{NewDate(2025, 3, 10), 0, "2025-03-10"},
	}
	for _, tc := range cases {
		if got := tc.in.AddMonths(tc.n).String(); got != tc.want {
			t.Errorf("%s + %d months = %s, want %s", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestDateJSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-09"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("got %s", d)
	}
	if err := json.Unmarshal([]byte(`"09/03/2025"`), &d); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
	b, _ := json.Marshal(Date{})
	if string(b) != "null" {
		t.Fatalf("zero date should marshal to null, got %s", b)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"receitas": KindIncome,
		"Receita":  KindIncome,
		"despesas": KindExpense,
		"despesa":  KindExpense,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseKind("metas"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        KindExpense,
		Date:        NewDate(2025, 1, 1),
		Description: "Aluguel",
		Amount:      Money{Cents: 100},
		Status:      StatusPaid,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := func(mut func(*Transaction)) Transaction {
		tx := good
		mut(&tx)
		return tx
	}
	bads := []Transaction{
		bad(func(tx *Transaction) { tx.Date = Date{} }),
		bad(func(tx *Transaction) { tx.Description = "  " }),
		bad(func(tx *Transaction) { tx.Amount = Money{} }),
		bad(func(tx *Transaction) { tx.Kind = "x" }),
		bad(func(tx *Transaction) { tx.Status = StatusReceived }), // income-only status on an expense
		bad(func(tx *Transaction) { tx.Installments = 3; tx.Installment = 4 }),
		bad(func(tx *Transaction) { tx.Installment = 1 }),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Kind: KindIncome, Name: "Salário", Color: "#10b981"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Kind: KindIncome, Name: "Salário", Color: "green"}).Validate(); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if err := (Category{Kind: KindIncome}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestGoalCategoryPairing(t *testing.T) {
	id := int64(7)
	base := Goal{Name: "Reserva", Target: Money{Cents: 100000}, Deadline: NewDate(2026, 12, 31)}

	income := base
	income.Kind = KindIncome
	income.IncomeCategoryID = &id
	if err := income.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	wrong := base
	wrong.Kind = KindIncome
	wrong.ExpenseCategoryID = &id
	if err := wrong.Validate(); !errors.Is(err, ErrGoalCategory) {
		t.Fatalf("expected ErrGoalCategory, got %v", err)
	}

	both := income
	both.ExpenseCategoryID = &id
	if _, err := both.CategoryID(); !errors.Is(err, ErrGoalCategory) {
		t.Fatalf("expected ErrGoalCategory, got %v", err)
	}
}

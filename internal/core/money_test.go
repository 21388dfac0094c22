package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1,005", 101, true}, // half-up rounding
		{"1.2355", 124, true},
		{"1.234,56", 123456, true},
		{"R$ 1.234,56", 123456, true},
		{"1.234.567,89", 123456789, true},
		{"1234,5", 123450, true},
		{"1.234", 0, false},
		{"1.234.567", 0, false},
		{"12.34,56", 0, false},
		{"1.2345,00", 0, false},
		{".123,00", 0, false},
		{"1,2,3", 0, false},
		{"1.5,00", 0, false},
		{" 2.50 ", 250, true},
		{"R$ 10,90", 1090, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseNonNegativeCentsAllowsZero(t *testing.T) {
	got, err := ParseNonNegativeCents("0")
	if err != nil || got != 0 {
		t.Fatalf("expected 0, got %d (err=%v)", got, err)
	}
	if _, err := ParseNonNegativeCents("-5"); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := map[int64]string{
		0:         "R$ 0,00",
		5:         "R$ 0,05",
		123450:    "R$ 1.234,50",
		100000000: "R$ 1.000.000,00",
		-2550:     "-R$ 25,50",
	}
	for cents, want := range cases {
		if got := (Money{Cents: cents}).Format(); got != want {
			t.Errorf("Format(%d) = %q, want %q", cents, got, want)
		}
	}
}

func TestFormatParsesBack(t *testing.T) {
	for _, cents := range []int64{1, 99, 100, 123456, 100000000, 987654321} {
		got, err := ParseDecimalToCents(Money{Cents: cents}.Format())
		if err != nil || got != cents {
			t.Errorf("Format(%d) parsed back as %d (err=%v)", cents, got, err)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 123405})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1234.05" {
		t.Fatalf("got %s", b)
	}

	var payload struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "7,25"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A.Cents != 1250 || payload.B.Cents != 725 {
		t.Fatalf("got %+v", payload)
	}

	// A JSON number always uses a decimal point.
	if err := json.Unmarshal([]byte(`{"a": 1.234, "b": "1.234,56"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.A.Cents != 123 || payload.B.Cents != 123456 {
		t.Fatalf("got %+v", payload)
	}
	if err := json.Unmarshal([]byte(`{"a": "1.234"}`), &payload); err == nil {
		t.Fatalf("expected error for dot-grouped string")
	}
}

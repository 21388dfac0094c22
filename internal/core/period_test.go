package core

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodResolve(t *testing.T) {
	now := time.Date(2025, 8, 17, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		f    PeriodFilter
		want Period
	}{
		{"default is current month", PeriodFilter{}, Period{"2025-08-01", "2025-09-01"}},
		{"month", PeriodFilter{Mode: PeriodMonth, Year: 2024, Month: 2}, Period{"2024-02-01", "2024-03-01"}},
		{"december rolls over", PeriodFilter{Mode: PeriodMonth, Year: 2024, Month: 12}, Period{"2024-12-01", "2025-01-01"}},
		{"month defaults year", PeriodFilter{Mode: PeriodMonth, Month: 3}, Period{"2025-03-01", "2025-04-01"}},
		{"year", PeriodFilter{Mode: PeriodYear, Year: 2023}, Period{"2023-01-01", "2024-01-01"}},
		{"custom end is inclusive", PeriodFilter{Mode: PeriodCustom, Start: "2025-01-10", End: "2025-01-31"}, Period{"2025-01-10", "2025-02-01"}},
		{"custom single day", PeriodFilter{Mode: PeriodCustom, Start: "2025-12-31", End: "2025-12-31"}, Period{"2025-12-31", "2026-01-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.f.Resolve(now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPeriodResolveInvalid(t *testing.T) {
	now := time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)
	bads := []PeriodFilter{
		{Mode: PeriodMonth, Year: 2025, Month: 13},
		{Mode: PeriodCustom, Start: "2025-02-01", End: "2025-01-01"},
		{Mode: PeriodCustom, Start: "x", End: "2025-01-01"},
		{Mode: "semana"},
	}
	for i, f := range bads {
		if _, err := f.Resolve(now); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("case %d expected ErrInvalidPeriod, got %v", i, err)
		}
	}
}

func TestPeriodContains(t *testing.T) {
	p := MonthPeriod(2025, 12)
	if !p.Contains(NewDate(2025, 12, 31)) {
		t.Fatalf("Dec 31 should be inside")
	}
	if p.Contains(NewDate(2026, 1, 1)) {
		t.Fatalf("end bound is exclusive")
	}
}

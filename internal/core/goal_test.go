package core

import "testing"

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		target, current int64
		percent, bar    float64
		tier            GoalTier
	}{
		{1000, 750, 75, 75, GoalHigh},
		{0, 500, 0, 0, GoalLow},
		{1000, 0, 0, 0, GoalLow},
		{1000, 500, 50, 50, GoalMedium},
		{1000, 250, 25, 25, GoalLow},
		{1000, 1500, 150, 100, GoalHigh},
	}
	for _, tc := range cases {
		p := ComputeProgress(Money{Cents: tc.target}, Money{Cents: tc.current})
		if p.Percent != tc.percent || p.BarWidth != tc.bar || p.Tier != tc.tier {
			t.Errorf("ComputeProgress(%d, %d) = %+v", tc.target, tc.current, p)
		}
		if p.Color != TierColor(tc.tier) {
			t.Errorf("color mismatch for tier %s", tc.tier)
		}
	}
}

func TestStatusColor(t *testing.T) {
	cases := map[Status]string{
		StatusPending:  "#f59e0b",
		StatusPaid:     "#10b981",
		StatusReceived: "#10b981",
		StatusOverdue:  "#ef4444",
		"desconhecido": "#9ca3af",
	}
	for s, want := range cases {
		if got := StatusColor(s); got != want {
			t.Errorf("StatusColor(%s) = %s, want %s", s, got, want)
		}
	}
	if KindIncome.SettledStatus() != StatusReceived || KindExpense.SettledStatus() != StatusPaid {
		t.Fatalf("settled status per kind is wrong")
	}
}

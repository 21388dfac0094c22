package core

// Progress is the derived completion of a goal.
type Progress struct {
	// Percent is current/target*100 and may exceed 100.
	Percent  float64  `json:"percentual"`
	BarWidth float64  `json:"largura_barra"`
	Tier     GoalTier `json:"faixa"`
	Color    string   `json:"cor"`
}

// ComputeProgress never divides by zero: a non-positive target is 0%.
func ComputeProgress(target, current Money) Progress {
	var pct float64
	if target.Cents > 0 {
		pct = float64(current.Cents) / float64(target.Cents) * 100
	}
	bar := pct
	if bar > 100 {
		bar = 100
	}
	if bar < 0 {
		bar = 0
	}
	tier := TierFor(pct)
	return Progress{Percent: pct, BarWidth: bar, Tier: tier, Color: TierColor(tier)}
}

func TierFor(percent float64) GoalTier {
	switch {
	case percent >= 75:
		return GoalHigh
	case percent >= 50:
		return GoalMedium
	}
	return GoalLow
}

func TierColor(t GoalTier) string {
	switch t {
	case GoalHigh:
		return colorSettled
	case GoalMedium:
		return colorPending
	}
	return colorOverdue
}

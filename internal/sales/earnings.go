package sales

import "time"

// Per-sale rates by valid-sale volume. Thresholds are inclusive lower
// bounds; the highest satisfied threshold wins.
const (
	rateTier25 = 2500
	rateTier20 = 2200
	rateTier15 = 2000
	rateTier10 = 1800
	rateBase   = 1500

	volumeBonus          = 10000
	volumeBonusThreshold = 10
)

// EarningsReport breaks down a computed earnings estimate.
type EarningsReport struct {
	ValidCount int `json:"valid_count"`
	Rate       int `json:"rate"`
	Bonus      int `json:"bonus"`
	Total      int `json:"total"`
}

// ComputeEarnings returns the payout estimate for the given sales at the
// given moment. Deterministic, no I/O.
func ComputeEarnings(list []*Sale, now time.Time) int {
	return ComputeEarningsReport(list, now).Total
}

// ComputeEarningsReport filters the list to valid sales, applies the
// volume tier, and adds the flat bonus when the threshold is met.
//
// A sale counts as valid when it is not annulled and its install month
// is not the calendar month after now's month. The comparison is
// month-of-year only: an install in the same month one year out is also
// excluded. Intentionally kept as-is.
func ComputeEarningsReport(list []*Sale, now time.Time) EarningsReport {
	nextMonth := now.Month()%12 + 1

	n := 0
	for _, sale := range list {
		if sale.Status == StatusAnnulled {
			continue
		}
		if sale.InstallDate.Month() == nextMonth {
			continue
		}
		n++
	}

	var rate int
	switch {
	case n >= 25:
		rate = rateTier25
	case n >= 20:
		rate = rateTier20
	case n >= 15:
		rate = rateTier15
	case n >= 10:
		rate = rateTier10
	default:
		rate = rateBase
	}

	report := EarningsReport{
		ValidCount: n,
		Rate:       rate,
		Total:      n * rate,
	}
	if n >= volumeBonusThreshold {
		report.Bonus = volumeBonus
		report.Total += volumeBonus
	}
	return report
}

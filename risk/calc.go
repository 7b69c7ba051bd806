package risk

import "math"

// PlannedRisk is the amount lost if the stop is hit: size * |entry - stop|.
func PlannedRisk(entry, stop, size float64) float64 {
	return math.Abs(entry-stop) * size
}

// RiskFraction is PlannedRisk as a fraction of balance. A non-positive
// balance yields 0 rather than dividing by zero.
func RiskFraction(plannedRisk, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return plannedRisk / balance
}

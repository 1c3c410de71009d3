package core

import "github.com/shopspring/decimal"

const (
	HealthGreen  = "green"
	HealthYellow = "yellow"
	HealthRed    = "red"

	// HealthyMarginThreshold is the fixed policy margin below which a
	// profitable period is still flagged.
	HealthyMarginThreshold = 0.15
)

// Health is the traffic-light classification of a period's result.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ClassifyHealth maps margin and result into a health status. A negative
// result overrides the margin entirely.
func ClassifyHealth(margin float64, result decimal.Decimal) Health {
	if result.IsNegative() {
		return Health{Status: HealthRed, Message: "loss this period"}
	}
	if margin >= HealthyMarginThreshold {
		return Health{Status: HealthGreen, Message: "healthy"}
	}
	return Health{Status: HealthYellow, Message: "margin needs attention"}
}

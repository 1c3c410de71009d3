package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestClassifyHealth(t *testing.T) {
	tests := []struct {
		name       string
		margin     float64
		result     decimal.Decimal
		wantStatus string
	}{
		{"negative result overrides high margin", 0.5, decimal.NewFromInt(-50), HealthRed},
		{"healthy margin", 0.2, decimal.NewFromInt(200), HealthGreen},
		{"thin margin", 0.05, decimal.NewFromInt(50), HealthYellow},
		{"margin exactly at threshold", 0.15, decimal.NewFromInt(150), HealthGreen},
		{"zero result zero margin", 0, decimal.Zero, HealthYellow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHealth(tt.margin, tt.result)
			if got.Status != tt.wantStatus {
				t.Errorf("ClassifyHealth(%v, %v) = %q, want %q", tt.margin, tt.result, got.Status, tt.wantStatus)
			}
			if got.Message == "" {
				t.Error("ClassifyHealth() returned empty message")
			}
		})
	}
}

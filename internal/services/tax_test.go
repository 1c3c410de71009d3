package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
)

func TestEstimateWith(t *testing.T) {
	tests := []struct {
		name    string
		rates   [3]string
		revenue string
		want    string
	}{
		{"typical presumptive profile", [3]string{"11.33", "4.25", "0"}, "1000", "155.8"},
		{"single component", [3]string{"6", "0", "0"}, "2500", "150"},
		{"all zero rates", [3]string{"0", "0", "0"}, "9999.99", "0"},
		{"zero revenue", [3]string{"15", "0", "0"}, "0", "0"},
		{"fractional rate", [3]string{"0.5", "0", "0"}, "200", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.TaxConfig{
				PresumptiveRate: mustDecimal(t, tt.rates[0]),
				OtherTaxesRate:  mustDecimal(t, tt.rates[1]),
				MiscRate:        mustDecimal(t, tt.rates[2]),
			}
			got := EstimateWith(cfg, mustDecimal(t, tt.revenue))
			wantEqual(t, "EstimateWith()", got, mustDecimal(t, tt.want))
		})
	}
}

func TestEstimateWithNegativeRevenue(t *testing.T) {
	cfg := core.TaxConfig{PresumptiveRate: mustDecimal(t, "10")}
	got := EstimateWith(cfg, mustDecimal(t, "-500"))
	wantEqual(t, "EstimateWith(negative)", got, decimal.Zero)
}

func TestEstimateUnconfiguredCompany(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Sem Imposto Ltda")

	estimator := NewTaxEstimator(repo)
	got, err := estimator.Estimate(context.Background(), companyID, mustDecimal(t, "10000"))
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	wantEqual(t, "Estimate() without config", got, decimal.Zero)
}

func TestEstimateUsesStoredRates(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Consultoria XYZ")
	seedTaxConfig(t, repo, companyID, "10", "5", "1")

	estimator := NewTaxEstimator(repo)
	got, err := estimator.Estimate(context.Background(), companyID, mustDecimal(t, "2000"))
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	wantEqual(t, "Estimate()", got, mustDecimal(t, "320"))
}

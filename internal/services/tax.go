package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// TaxEstimator computes the simplified tax estimate: gross revenue times the
// sum of the company's configured percentage components. Companies without a
// saved configuration are taxed at zero.
type TaxEstimator struct {
	store *storage.SQLiteRepository
}

func NewTaxEstimator(store *storage.SQLiteRepository) *TaxEstimator {
	return &TaxEstimator{store: store}
}

// Estimate returns the estimated tax for the company over the given gross
// revenue.
func (t *TaxEstimator) Estimate(ctx context.Context, companyID int64, revenue decimal.Decimal) (decimal.Decimal, error) {
	cfg, err := t.store.GetTaxConfig(ctx, companyID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("tax config for company %d: %w", companyID, err)
	}
	return EstimateWith(cfg, revenue), nil
}

// EstimateWith applies an already-loaded configuration. The estimate is an
// indicative figure, not a filing amount.
func EstimateWith(cfg core.TaxConfig, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Mul(cfg.RateFraction())
}

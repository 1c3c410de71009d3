package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// Projection window bounds. Requests outside the range are clamped, not
// rejected.
const (
	MinProjectionWindow = 3
	MaxProjectionWindow = 24
)

// Scope selects either one company or all of them. A nil CompanyID means
// all companies combined.
type Scope struct {
	CompanyID *int64
}

// ScopeCompany scopes to a single company.
func ScopeCompany(id int64) Scope {
	return Scope{CompanyID: &id}
}

// ScopeAll spans every company.
func ScopeAll() Scope {
	return Scope{}
}

// DashboardService computes the overview cards and the moving-average
// projection. Dashboard reads never trigger materialization; they show what
// is currently in the ledger.
type DashboardService struct {
	store  *storage.SQLiteRepository
	taxes  *TaxEstimator
	logger *log.Logger
}

func NewDashboardService(store *storage.SQLiteRepository, taxes *TaxEstimator, logger *log.Logger) *DashboardService {
	return &DashboardService{
		store:  store,
		taxes:  taxes,
		logger: logger.WithComponent(log.ComponentDashboard),
	}
}

// Overview returns the month's headline figures and health classification
// for the scope.
func (s *DashboardService) Overview(ctx context.Context, scope Scope, year, month int) (core.Overview, error) {
	if month < 1 || month > 12 {
		return core.Overview{}, fmt.Errorf("overview period %d-%d: %w", year, month, core.ErrInvalidInput)
	}

	entries, err := s.store.ListEntries(ctx, storage.EntryFilter{
		Year:      year,
		Month:     month,
		CompanyID: scope.CompanyID,
	})
	if err != nil {
		return core.Overview{}, err
	}

	revenue, expense := sumByKind(entries)
	result := revenue.Sub(expense)

	tax, err := s.estimateTax(ctx, scope, entries, revenue)
	if err != nil {
		return core.Overview{}, err
	}

	margin := core.Ratio(result, revenue)
	return core.Overview{
		Year:         year,
		Month:        month,
		Revenue:      revenue,
		Expense:      expense,
		Result:       result,
		EstimatedTax: tax,
		NetRevenue:   revenue.Sub(tax),
		Margin:       margin,
		Health:       core.ClassifyHealth(margin, result),
	}, nil
}

// estimateTax applies each company's own rate. In all-companies scope the
// revenue is split by company before estimating, so one company's rate never
// applies to another's revenue.
func (s *DashboardService) estimateTax(ctx context.Context, scope Scope, entries []core.LedgerEntry, revenue decimal.Decimal) (decimal.Decimal, error) {
	if scope.CompanyID != nil {
		return s.taxes.Estimate(ctx, *scope.CompanyID, revenue)
	}

	revenueByCompany := map[int64]decimal.Decimal{}
	for _, e := range entries {
		if e.Kind == core.KindRevenue {
			revenueByCompany[e.CompanyID] = revenueByCompany[e.CompanyID].Add(e.Amount)
		}
	}

	total := decimal.Zero
	for companyID, companyRevenue := range revenueByCompany {
		tax, err := s.taxes.Estimate(ctx, companyID, companyRevenue)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(tax)
	}
	return total, nil
}

// Projection returns the trailing month series and the forecast for the
// month after the target. The forecast is the average of the last three
// months with activity; if the whole window is flat it averages everything,
// yielding zero.
func (s *DashboardService) Projection(ctx context.Context, scope Scope, year, month, window int) (core.Projection, error) {
	if month < 1 || month > 12 {
		return core.Projection{}, fmt.Errorf("projection period %d-%d: %w", year, month, core.ErrInvalidInput)
	}
	if window < MinProjectionWindow {
		window = MinProjectionWindow
	}
	if window > MaxProjectionWindow {
		window = MaxProjectionWindow
	}

	months := make([]core.MonthTotals, 0, window)
	for i := window - 1; i >= 0; i-- {
		y, m := core.ShiftMonth(year, month, -i)
		entries, err := s.store.ListEntries(ctx, storage.EntryFilter{
			Year:      y,
			Month:     m,
			CompanyID: scope.CompanyID,
		})
		if err != nil {
			return core.Projection{}, fmt.Errorf("totals for %s: %w", core.PeriodKey(y, m), err)
		}
		revenue, expense := sumByKind(entries)
		months = append(months, core.MonthTotals{
			Year:    y,
			Month:   m,
			Revenue: revenue,
			Expense: expense,
			Result:  revenue.Sub(expense),
		})
	}

	sample := trailingActive(months, 3)
	divisor := decimal.NewFromInt(int64(max(1, len(sample))))

	var revenueSum, expenseSum decimal.Decimal
	for _, mt := range sample {
		revenueSum = revenueSum.Add(mt.Revenue)
		expenseSum = expenseSum.Add(mt.Expense)
	}
	avgRevenue := revenueSum.Div(divisor)
	avgExpense := expenseSum.Div(divisor)

	fy, fm := core.ShiftMonth(year, month, 1)
	return core.Projection{
		Window: window,
		Months: months,
		Forecast: core.MonthTotals{
			Year:    fy,
			Month:   fm,
			Revenue: avgRevenue,
			Expense: avgExpense,
			Result:  avgRevenue.Sub(avgExpense),
		},
	}, nil
}

// trailingActive picks the most recent n months that saw any revenue or
// expense. When no month qualifies it falls back to the full series.
func trailingActive(months []core.MonthTotals, n int) []core.MonthTotals {
	var active []core.MonthTotals
	for i := len(months) - 1; i >= 0 && len(active) < n; i-- {
		mt := months[i]
		if !mt.Revenue.IsZero() || !mt.Expense.IsZero() {
			active = append(active, mt)
		}
	}
	if len(active) == 0 {
		return months
	}
	return active
}

func sumByKind(entries []core.LedgerEntry) (revenue, expense decimal.Decimal) {
	for _, e := range entries {
		switch e.Kind {
		case core.KindRevenue:
			revenue = revenue.Add(e.Amount)
		case core.KindExpense:
			expense = expense.Add(e.Amount)
		}
	}
	return revenue, expense
}

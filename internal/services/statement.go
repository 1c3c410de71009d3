package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// uncategorizedLabel groups entries whose category was never set or has been
// removed.
const uncategorizedLabel = "uncategorized"

// StatementService computes monthly income statements. Every computation
// materializes the month's recurrences first, so the figures always include
// recurring items.
type StatementService struct {
	store        *storage.SQLiteRepository
	materializer *Materializer
	taxes        *TaxEstimator
	logger       *log.Logger
}

func NewStatementService(store *storage.SQLiteRepository, materializer *Materializer, taxes *TaxEstimator, logger *log.Logger) *StatementService {
	return &StatementService{
		store:        store,
		materializer: materializer,
		taxes:        taxes,
		logger:       logger.WithComponent(log.ComponentStatement),
	}
}

// Compute builds the income statement for one company and month.
func (s *StatementService) Compute(ctx context.Context, companyID int64, year, month int) (core.Statement, error) {
	if companyID <= 0 || month < 1 || month > 12 {
		return core.Statement{}, fmt.Errorf("statement for company %d period %d-%d: %w",
			companyID, year, month, core.ErrInvalidInput)
	}

	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return core.Statement{}, err
	}

	if _, err := s.materializer.EnsureGenerated(ctx, companyID, year, month); err != nil {
		return core.Statement{}, fmt.Errorf("materialize recurrences: %w", err)
	}

	entries, err := s.store.ListEntries(ctx, storage.EntryFilter{
		Year:      year,
		Month:     month,
		CompanyID: &companyID,
	})
	if err != nil {
		return core.Statement{}, err
	}

	st := buildStatement(companyID, company.Name, year, month, entries)

	tax, err := s.taxes.Estimate(ctx, companyID, st.GrossRevenue)
	if err != nil {
		return core.Statement{}, err
	}
	finalizeStatement(&st, tax)
	return st, nil
}

// ComputeWithVariance builds the statement plus the comparison against the
// previous calendar month. A failure computing the previous month degrades
// to a statement without comparison rather than failing the request.
func (s *StatementService) ComputeWithVariance(ctx context.Context, companyID int64, year, month int) (core.StatementReport, error) {
	current, err := s.Compute(ctx, companyID, year, month)
	if err != nil {
		return core.StatementReport{}, err
	}
	report := core.StatementReport{Statement: current}

	prevYear, prevMonth := core.ShiftMonth(year, month, -1)
	previous, err := s.Compute(ctx, companyID, prevYear, prevMonth)
	if err != nil {
		s.logger.WarnContext(ctx, "Previous month unavailable for comparison",
			log.FieldCompanyID, companyID,
			log.FieldYear, prevYear,
			log.FieldMonth, prevMonth,
			log.FieldError, err)
		return report, nil
	}

	report.Previous = &previous
	report.Variance = &core.Variance{
		Revenue:   current.GrossRevenue.Sub(previous.GrossRevenue),
		Cost:      current.TotalCost.Sub(previous.TotalCost),
		Expense:   current.TotalExpense.Sub(previous.TotalExpense),
		NetProfit: current.NetProfit.Sub(previous.NetProfit),
	}
	return report, nil
}

// ComputeConsolidated builds the statement for every active company
// concurrently and sums the figures. Margins on the combined statement are
// recomputed from the sums; the estimated tax is the sum of per-company
// estimates, each at its own rate. Any company failing fails the whole
// consolidation.
func (s *StatementService) ComputeConsolidated(ctx context.Context, year, month int) (core.ConsolidatedStatement, error) {
	companies, err := s.store.ListCompanies(ctx, true)
	if err != nil {
		return core.ConsolidatedStatement{}, fmt.Errorf("list active companies: %w", err)
	}

	results := make([]core.Statement, len(companies))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range companies {
		g.Go(func() error {
			st, err := s.Compute(gctx, c.ID, year, month)
			if err != nil {
				return fmt.Errorf("company %d: %w", c.ID, err)
			}
			results[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return core.ConsolidatedStatement{}, err
	}

	combined := core.Statement{Year: year, Month: month}
	for _, st := range results {
		combined.GrossRevenue = combined.GrossRevenue.Add(st.GrossRevenue)
		combined.TotalCost = combined.TotalCost.Add(st.TotalCost)
		combined.TotalExpense = combined.TotalExpense.Add(st.TotalExpense)
		combined.EstimatedTax = combined.EstimatedTax.Add(st.EstimatedTax)
		combined.Breakdown = mergeBreakdowns(combined.Breakdown, st.Breakdown)
	}
	combined.GrossProfit = combined.GrossRevenue.Sub(combined.TotalCost)
	combined.OperatingResult = combined.GrossProfit.Sub(combined.TotalExpense)
	combined.NetProfit = combined.OperatingResult.Sub(combined.EstimatedTax)
	combined.GrossMargin = core.Ratio(combined.GrossProfit, combined.GrossRevenue)
	combined.NetMargin = core.Ratio(combined.NetProfit, combined.GrossRevenue)

	return core.ConsolidatedStatement{Combined: combined, Companies: results}, nil
}

// buildStatement aggregates one month of entries into the pre-tax statement
// figures. Expense-kind entries split into cost and operating expense by
// their category group.
func buildStatement(companyID int64, companyName string, year, month int, entries []core.LedgerEntry) core.Statement {
	st := core.Statement{
		CompanyID:   companyID,
		CompanyName: companyName,
		Year:        year,
		Month:       month,
	}

	revenueByCat := map[string]decimal.Decimal{}
	costByCat := map[string]decimal.Decimal{}
	expenseByCat := map[string]decimal.Decimal{}

	for _, e := range entries {
		name := e.CategoryName
		if name == "" {
			name = uncategorizedLabel
		}
		switch e.Kind {
		case core.KindRevenue:
			st.GrossRevenue = st.GrossRevenue.Add(e.Amount)
			revenueByCat[name] = revenueByCat[name].Add(e.Amount)
		case core.KindExpense:
			if e.CategoryGroup.GroupOrDefault() == core.GroupCost {
				st.TotalCost = st.TotalCost.Add(e.Amount)
				costByCat[name] = costByCat[name].Add(e.Amount)
			} else {
				st.TotalExpense = st.TotalExpense.Add(e.Amount)
				expenseByCat[name] = expenseByCat[name].Add(e.Amount)
			}
		}
	}

	st.GrossProfit = st.GrossRevenue.Sub(st.TotalCost)
	st.OperatingResult = st.GrossProfit.Sub(st.TotalExpense)
	st.Breakdown = core.Breakdown{
		Revenue: sortedAmounts(revenueByCat),
		Cost:    sortedAmounts(costByCat),
		Expense: sortedAmounts(expenseByCat),
	}
	return st
}

func finalizeStatement(st *core.Statement, tax decimal.Decimal) {
	st.EstimatedTax = tax
	st.NetProfit = st.OperatingResult.Sub(tax)
	st.GrossMargin = core.Ratio(st.GrossProfit, st.GrossRevenue)
	st.NetMargin = core.Ratio(st.NetProfit, st.GrossRevenue)
}

// sortedAmounts flattens a category map ordered by amount descending, name
// ascending on ties, so output is deterministic.
func sortedAmounts(byCat map[string]decimal.Decimal) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0, len(byCat))
	for name, amount := range byCat {
		out = append(out, core.CategoryAmount{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func mergeBreakdowns(a, b core.Breakdown) core.Breakdown {
	return core.Breakdown{
		Revenue: mergeAmounts(a.Revenue, b.Revenue),
		Cost:    mergeAmounts(a.Cost, b.Cost),
		Expense: mergeAmounts(a.Expense, b.Expense),
	}
}

func mergeAmounts(a, b []core.CategoryAmount) []core.CategoryAmount {
	merged := map[string]decimal.Decimal{}
	for _, ca := range a {
		merged[ca.Name] = merged[ca.Name].Add(ca.Amount)
	}
	for _, ca := range b {
		merged[ca.Name] = merged[ca.Name].Add(ca.Amount)
	}
	return sortedAmounts(merged)
}

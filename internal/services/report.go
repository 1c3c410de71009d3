package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// ReportService assembles the printable monthly report payload. Unlike the
// dashboard it materializes recurrences first, so a report for the current
// month already includes the recurring items.
type ReportService struct {
	store        *storage.SQLiteRepository
	materializer *Materializer
	dashboards   *DashboardService
	logger       *log.Logger
}

func NewReportService(store *storage.SQLiteRepository, materializer *Materializer, dashboards *DashboardService, logger *log.Logger) *ReportService {
	return &ReportService{
		store:        store,
		materializer: materializer,
		dashboards:   dashboards,
		logger:       logger.WithComponent(log.ComponentReport),
	}
}

// BuildMonthly computes the report for the scope and month, listing at most
// topN expense categories.
func (s *ReportService) BuildMonthly(ctx context.Context, scope Scope, year, month, topN int) (core.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return core.MonthlyReport{}, fmt.Errorf("report period %d-%d: %w", year, month, core.ErrInvalidInput)
	}
	if topN <= 0 {
		topN = 5
	}

	report := core.MonthlyReport{Year: year, Month: month}

	if scope.CompanyID != nil {
		company, err := s.store.GetCompany(ctx, *scope.CompanyID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return core.MonthlyReport{}, err
		}
		report.CompanyID = scope.CompanyID
		report.CompanyName = company.Name

		if _, err := s.materializer.EnsureGenerated(ctx, *scope.CompanyID, year, month); err != nil {
			s.logger.WarnContext(ctx, "Materialization failed, reporting current ledger state",
				log.FieldCompanyID, *scope.CompanyID, log.FieldError, err)
		}
	} else {
		if _, err := s.materializer.EnsureGeneratedAll(ctx, year, month); err != nil {
			s.logger.WarnContext(ctx, "Materialization sweep failed, reporting current ledger state",
				log.FieldError, err)
		}
	}

	overview, err := s.dashboards.Overview(ctx, scope, year, month)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	report.Revenue = overview.Revenue
	report.Expense = overview.Expense
	report.Result = overview.Result
	report.EstimatedTax = overview.EstimatedTax
	report.NetRevenue = overview.NetRevenue
	report.Margin = overview.Margin
	report.Health = overview.Health

	entries, err := s.store.ListEntries(ctx, storage.EntryFilter{
		Year:      year,
		Month:     month,
		CompanyID: scope.CompanyID,
		Kind:      core.KindExpense,
	})
	if err != nil {
		return core.MonthlyReport{}, err
	}
	report.TopCategories = topCategories(entries, topN)

	return report, nil
}

// topCategories ranks expense totals per category, largest first.
func topCategories(entries []core.LedgerEntry, n int) []core.CategoryAmount {
	byCat := map[string]decimal.Decimal{}
	for _, e := range entries {
		name := e.CategoryName
		if name == "" {
			name = uncategorizedLabel
		}
		byCat[name] = byCat[name].Add(e.Amount)
	}
	ranked := sortedAmounts(byCat)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

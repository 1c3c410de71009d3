package services

import (
	"context"
	"testing"
	"time"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

func newReportService(repo *storage.SQLiteRepository) *ReportService {
	logger := testLogger()
	materializer := NewMaterializer(repo, nil, logger)
	dashboards := NewDashboardService(repo, NewTaxEstimator(repo), logger)
	return NewReportService(repo, materializer, dashboards, logger)
}

func TestBuildMonthlyReport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	companyID := seedCompany(t, repo, "Restaurante Sabor")
	seedTaxConfig(t, repo, companyID, "10", "0", "0")

	food := seedCategory(t, repo, companyID, core.CategoryCost, core.GroupCost, "Food supplies")
	staff := seedCategory(t, repo, companyID, core.CategoryExpense, core.GroupExpense, "Staff")
	power := seedCategory(t, repo, companyID, core.CategoryExpense, core.GroupExpense, "Electricity")

	aug := func(day int) time.Time { return time.Date(2025, 8, day, 0, 0, 0, 0, time.UTC) }
	seedEntry(t, repo, companyID, core.KindRevenue, aug(1), "20000", nil)
	seedEntry(t, repo, companyID, core.KindExpense, aug(2), "7000", &food)
	seedEntry(t, repo, companyID, core.KindExpense, aug(3), "5000", &staff)
	seedEntry(t, repo, companyID, core.KindExpense, aug(4), "900", &power)

	report, err := newReportService(repo).BuildMonthly(ctx, ScopeCompany(companyID), 2025, 8, 2)
	if err != nil {
		t.Fatalf("BuildMonthly() error = %v", err)
	}

	if report.CompanyName != "Restaurante Sabor" {
		t.Errorf("CompanyName = %q", report.CompanyName)
	}
	wantEqual(t, "Revenue", report.Revenue, mustDecimal(t, "20000"))
	wantEqual(t, "Expense", report.Expense, mustDecimal(t, "12900"))
	wantEqual(t, "EstimatedTax", report.EstimatedTax, mustDecimal(t, "2000"))

	if len(report.TopCategories) != 2 {
		t.Fatalf("got %d top categories, want 2", len(report.TopCategories))
	}
	if report.TopCategories[0].Name != "Food supplies" || report.TopCategories[1].Name != "Staff" {
		t.Errorf("top categories = %+v, want Food supplies then Staff", report.TopCategories)
	}
}

func TestBuildMonthlyReportMaterializesFirst(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Academia Forte")
	seedTemplate(t, repo, core.RecurrenceTemplate{
		CompanyID:   companyID,
		Kind:        core.KindExpense,
		Description: "Equipment lease",
		Amount:      mustDecimal(t, "1500"),
		DayOfMonth:  20,
	})

	report, err := newReportService(repo).BuildMonthly(context.Background(), ScopeCompany(companyID), 2025, 11, 5)
	if err != nil {
		t.Fatalf("BuildMonthly() error = %v", err)
	}
	wantEqual(t, "Expense", report.Expense, mustDecimal(t, "1500"))
	if report.Health.Status != core.HealthRed {
		t.Errorf("Health = %q, want red for pure-expense month", report.Health.Status)
	}
}

func TestBuildMonthlyReportAllCompanies(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := seedCompany(t, repo, "Loja Um")
	second := seedCompany(t, repo, "Loja Dois")
	feb := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	seedEntry(t, repo, first, core.KindRevenue, feb, "1000", nil)
	seedEntry(t, repo, second, core.KindRevenue, feb, "2000", nil)

	report, err := newReportService(repo).BuildMonthly(ctx, ScopeAll(), 2025, 2, 5)
	if err != nil {
		t.Fatalf("BuildMonthly() error = %v", err)
	}
	if report.CompanyID != nil || report.CompanyName != "" {
		t.Errorf("all-companies report carries a company identity: %+v", report)
	}
	wantEqual(t, "Revenue", report.Revenue, mustDecimal(t, "3000"))
}

func TestBuildMonthlyReportInvalidMonth(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := newReportService(repo).BuildMonthly(context.Background(), ScopeAll(), 2025, 0, 5); err == nil {
		t.Error("BuildMonthly() with month 0 should fail")
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

func newDashboard(repo *storage.SQLiteRepository) *DashboardService {
	return NewDashboardService(repo, NewTaxEstimator(repo), testLogger())
}

func TestOverviewSingleCompany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	companyID := seedCompany(t, repo, "Clinica Bem Estar")
	seedTaxConfig(t, repo, companyID, "10", "0", "0")

	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	seedEntry(t, repo, companyID, core.KindRevenue, may, "8000", nil)
	seedEntry(t, repo, companyID, core.KindExpense, may, "3000", nil)

	ov, err := newDashboard(repo).Overview(ctx, ScopeCompany(companyID), 2025, 5)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}

	wantEqual(t, "Revenue", ov.Revenue, mustDecimal(t, "8000"))
	wantEqual(t, "Expense", ov.Expense, mustDecimal(t, "3000"))
	wantEqual(t, "Result", ov.Result, mustDecimal(t, "5000"))
	wantEqual(t, "EstimatedTax", ov.EstimatedTax, mustDecimal(t, "800"))
	wantEqual(t, "NetRevenue", ov.NetRevenue, mustDecimal(t, "7200"))
	if ov.Margin != 0.625 {
		t.Errorf("Margin = %v, want 0.625", ov.Margin)
	}
	if ov.Health.Status != core.HealthGreen {
		t.Errorf("Health = %q, want green", ov.Health.Status)
	}
}

func TestOverviewHealthStates(t *testing.T) {
	tests := []struct {
		name    string
		revenue string
		expense string
		want    string
	}{
		{"loss is red", "1000", "1500", core.HealthRed},
		{"thin margin is yellow", "1000", "900", core.HealthYellow},
		{"healthy margin is green", "1000", "500", core.HealthGreen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestRepo(t)
			companyID := seedCompany(t, repo, "Empresa")
			jan := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
			seedEntry(t, repo, companyID, core.KindRevenue, jan, tt.revenue, nil)
			seedEntry(t, repo, companyID, core.KindExpense, jan, tt.expense, nil)

			ov, err := newDashboard(repo).Overview(context.Background(), ScopeCompany(companyID), 2025, 1)
			if err != nil {
				t.Fatalf("Overview() error = %v", err)
			}
			if ov.Health.Status != tt.want {
				t.Errorf("Health = %q, want %q", ov.Health.Status, tt.want)
			}
		})
	}
}

func TestOverviewAllCompaniesTaxIsPerCompany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := seedCompany(t, repo, "Alfa")
	second := seedCompany(t, repo, "Beta")
	seedTaxConfig(t, repo, first, "10", "0", "0")
	seedTaxConfig(t, repo, second, "20", "0", "0")

	apr := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	seedEntry(t, repo, first, core.KindRevenue, apr, "1000", nil)
	seedEntry(t, repo, second, core.KindRevenue, apr, "1000", nil)

	ov, err := newDashboard(repo).Overview(ctx, ScopeAll(), 2025, 4)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	wantEqual(t, "Revenue", ov.Revenue, mustDecimal(t, "2000"))
	// 10% of Alfa's 1000 plus 20% of Beta's 1000.
	wantEqual(t, "EstimatedTax", ov.EstimatedTax, mustDecimal(t, "300"))
}

func TestOverviewDoesNotMaterialize(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Banca de Jornal")
	seedTemplate(t, repo, core.RecurrenceTemplate{
		CompanyID:   companyID,
		Kind:        core.KindExpense,
		Description: "Rent",
		Amount:      mustDecimal(t, "700"),
		DayOfMonth:  1,
	})

	ov, err := newDashboard(repo).Overview(context.Background(), ScopeCompany(companyID), 2025, 10)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	wantEqual(t, "Expense", ov.Expense, mustDecimal(t, "0"))
}

func TestProjectionMovingAverage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	companyID := seedCompany(t, repo, "Transportadora")

	amounts := map[time.Month]string{
		time.March: "100",
		time.April: "200",
		time.May:   "300",
	}
	for month, amount := range amounts {
		seedEntry(t, repo, companyID, core.KindRevenue,
			time.Date(2025, month, 10, 0, 0, 0, 0, time.UTC), amount, nil)
	}

	proj, err := newDashboard(repo).Projection(ctx, ScopeCompany(companyID), 2025, 5, 6)
	if err != nil {
		t.Fatalf("Projection() error = %v", err)
	}

	if proj.Window != 6 || len(proj.Months) != 6 {
		t.Fatalf("window = %d with %d months, want 6 and 6", proj.Window, len(proj.Months))
	}
	if proj.Forecast.Year != 2025 || proj.Forecast.Month != 6 {
		t.Errorf("forecast period = %d-%d, want 2025-6", proj.Forecast.Year, proj.Forecast.Month)
	}
	// December 2024 through February 2025 are empty; the average uses the
	// three active months only.
	wantEqual(t, "forecast revenue", proj.Forecast.Revenue, mustDecimal(t, "200"))
}

func TestProjectionAllMonthsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Empresa Parada")

	proj, err := newDashboard(repo).Projection(context.Background(), ScopeCompany(companyID), 2025, 5, 6)
	if err != nil {
		t.Fatalf("Projection() error = %v", err)
	}
	wantEqual(t, "forecast revenue", proj.Forecast.Revenue, mustDecimal(t, "0"))
	wantEqual(t, "forecast expense", proj.Forecast.Expense, mustDecimal(t, "0"))
}

func TestProjectionWindowClamped(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Empresa")
	ctx := context.Background()
	dash := newDashboard(repo)

	tests := []struct {
		requested int
		want      int
	}{
		{0, MinProjectionWindow},
		{2, MinProjectionWindow},
		{6, 6},
		{24, MaxProjectionWindow},
		{100, MaxProjectionWindow},
	}
	for _, tt := range tests {
		proj, err := dash.Projection(ctx, ScopeCompany(companyID), 2025, 1, tt.requested)
		if err != nil {
			t.Fatalf("Projection(window %d) error = %v", tt.requested, err)
		}
		if proj.Window != tt.want {
			t.Errorf("Projection(window %d).Window = %d, want %d", tt.requested, proj.Window, tt.want)
		}
	}
}

func TestProjectionSpansYearBoundary(t *testing.T) {
	repo := newTestRepo(t)
	companyID := seedCompany(t, repo, "Empresa")
	seedEntry(t, repo, companyID, core.KindRevenue,
		time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), "600", nil)

	proj, err := newDashboard(repo).Projection(context.Background(), ScopeCompany(companyID), 2025, 1, 3)
	if err != nil {
		t.Fatalf("Projection() error = %v", err)
	}
	first := proj.Months[0]
	if first.Year != 2024 || first.Month != 11 {
		t.Errorf("series starts at %d-%d, want 2024-11", first.Year, first.Month)
	}
	wantEqual(t, "december revenue", proj.Months[1].Revenue, mustDecimal(t, "600"))
}

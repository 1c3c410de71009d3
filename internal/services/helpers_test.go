package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q) error = %v", s, err)
	}
	return d
}

func seedCompany(t *testing.T, repo *storage.SQLiteRepository, name string) int64 {
	t.Helper()
	id, err := repo.CreateCompany(context.Background(), core.Company{Name: name})
	if err != nil {
		t.Fatalf("CreateCompany(%q) error = %v", name, err)
	}
	return id
}

func seedCategory(t *testing.T, repo *storage.SQLiteRepository, companyID int64, kind core.CategoryKind, group core.CategoryGroup, name string) int64 {
	t.Helper()
	id, err := repo.CreateCategory(context.Background(), core.Category{
		CompanyID: companyID,
		Kind:      kind,
		Group:     group,
		Name:      name,
	})
	if err != nil {
		t.Fatalf("CreateCategory(%q) error = %v", name, err)
	}
	return id
}

func seedEntry(t *testing.T, repo *storage.SQLiteRepository, companyID int64, kind core.EntryKind, date time.Time, amount string, categoryID *int64) int64 {
	t.Helper()
	id, err := repo.CreateEntry(context.Background(), core.LedgerEntry{
		CompanyID:   companyID,
		Kind:        kind,
		Date:        date,
		Amount:      mustDecimal(t, amount),
		CategoryID:  categoryID,
		Description: "seed",
	})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	return id
}

func seedTemplate(t *testing.T, repo *storage.SQLiteRepository, rt core.RecurrenceTemplate) int64 {
	t.Helper()
	id, err := repo.CreateTemplate(context.Background(), rt)
	if err != nil {
		t.Fatalf("CreateTemplate() error = %v", err)
	}
	return id
}

func seedTaxConfig(t *testing.T, repo *storage.SQLiteRepository, companyID int64, presumptive, other, misc string) {
	t.Helper()
	err := repo.UpsertTaxConfig(context.Background(), core.TaxConfig{
		CompanyID:       companyID,
		PresumptiveRate: mustDecimal(t, presumptive),
		OtherTaxesRate:  mustDecimal(t, other),
		MiscRate:        mustDecimal(t, misc),
	})
	if err != nil {
		t.Fatalf("UpsertTaxConfig() error = %v", err)
	}
}

func wantEqual(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

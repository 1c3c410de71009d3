package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTaxConfigRateSum(t *testing.T) {
	cfg := TaxConfig{
		PresumptiveRate: decimal.NewFromInt(10),
		OtherTaxesRate:  decimal.NewFromInt(5),
		MiscRate:        decimal.Zero,
	}
	if got := cfg.RateSum(); !got.Equal(decimal.NewFromInt(15)) {
		t.Errorf("RateSum() = %s, want 15", got)
	}
	if got := cfg.RateFraction(); !got.Equal(decimal.NewFromFloat(0.15)) {
		t.Errorf("RateFraction() = %s, want 0.15", got)
	}
}

func TestTaxConfigZeroValueDefaults(t *testing.T) {
	var cfg TaxConfig
	if !cfg.RateSum().IsZero() {
		t.Errorf("zero-value TaxConfig RateSum() = %s, want 0", cfg.RateSum())
	}
}

func TestGroupOrDefault(t *testing.T) {
	tests := []struct {
		name  string
		group CategoryGroup
		want  CategoryGroup
	}{
		{"cost stays cost", GroupCost, GroupCost},
		{"expense stays expense", GroupExpense, GroupExpense},
		{"revenue stays revenue", GroupRevenue, GroupRevenue},
		{"missing defaults to expense", CategoryGroup(""), GroupExpense},
		{"unrecognized defaults to expense", CategoryGroup("capex"), GroupExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.GroupOrDefault(); got != tt.want {
				t.Errorf("GroupOrDefault() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecurrenceTemplateValidate(t *testing.T) {
	valid := RecurrenceTemplate{
		CompanyID:   1,
		Kind:        KindExpense,
		Description: "Office rent",
		Amount:      decimal.NewFromInt(1200),
		DayOfMonth:  5,
	}

	tests := []struct {
		name    string
		mutate  func(rt *RecurrenceTemplate)
		wantErr error
	}{
		{"valid", func(rt *RecurrenceTemplate) {}, nil},
		{"missing company", func(rt *RecurrenceTemplate) { rt.CompanyID = 0 }, ErrInvalidInput},
		{"bad kind", func(rt *RecurrenceTemplate) { rt.Kind = "TRANSFER" }, ErrInvalidKind},
		{"empty description", func(rt *RecurrenceTemplate) { rt.Description = "  " }, ErrEmptyDescription},
		{"day zero", func(rt *RecurrenceTemplate) { rt.DayOfMonth = 0 }, ErrInvalidDay},
		{"day 32", func(rt *RecurrenceTemplate) { rt.DayOfMonth = 32 }, ErrInvalidDay},
		{"zero amount", func(rt *RecurrenceTemplate) { rt.Amount = decimal.Zero }, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := valid
			tt.mutate(&rt)
			err := rt.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	valid := LedgerEntry{
		CompanyID: 1,
		Kind:      KindRevenue,
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.NewFromInt(2000),
		Status:    StatusPaid,
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid entry = %v", err)
	}

	bad := valid
	bad.Date = time.Time{}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted zero date")
	}

	bad = valid
	bad.Amount = decimal.NewFromInt(-10)
	if !errors.Is(bad.Validate(), ErrInvalidAmount) {
		t.Error("Validate() accepted negative amount")
	}
}

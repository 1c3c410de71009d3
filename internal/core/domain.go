package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Entry kinds
	KindRevenue EntryKind = "REVENUE"
	KindExpense EntryKind = "EXPENSE"

	// Category kinds
	CategoryRevenue CategoryKind = "REVENUE"
	CategoryCost    CategoryKind = "COST"
	CategoryExpense CategoryKind = "EXPENSE"

	// Category groups used by the income statement
	GroupRevenue CategoryGroup = "revenue"
	GroupCost    CategoryGroup = "cost"
	GroupExpense CategoryGroup = "expense"

	// Entry statuses
	StatusPaid     = "Paid"
	StatusForecast = "Forecast"

	// OriginRecurrence tags entries generated from a recurrence template.
	OriginRecurrence = "recurrence"
)

type (
	EntryKind     string
	CategoryKind  string
	CategoryGroup string

	Company struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		TaxID  string `json:"tax_id"`
		Active bool   `json:"active"`
	}

	// TaxConfig holds the three independent percentage components for a
	// company. Rates are whole-number-or-decimal percentages (12.5 = 12.5%).
	TaxConfig struct {
		CompanyID       int64           `json:"company_id"`
		PresumptiveRate decimal.Decimal `json:"presumptive_rate"`
		OtherTaxesRate  decimal.Decimal `json:"other_taxes_rate"`
		MiscRate        decimal.Decimal `json:"misc_rate"`
		UpdatedAt       time.Time       `json:"updated_at"`
	}

	Category struct {
		ID        int64         `json:"id"`
		CompanyID int64         `json:"company_id"`
		Kind      CategoryKind  `json:"kind"`
		Group     CategoryGroup `json:"group"`
		Name      string        `json:"name"`
		Active    bool          `json:"active"`
	}

	// RecurrenceTemplate is a pattern for a monthly bill or income, not a
	// transaction. The materializer turns it into one ledger entry per month.
	RecurrenceTemplate struct {
		ID            int64           `json:"id"`
		CompanyID     int64           `json:"company_id"`
		Kind          EntryKind       `json:"kind"`
		CategoryID    *int64          `json:"category_id,omitempty"`
		Description   string          `json:"description"`
		Amount        decimal.Decimal `json:"amount"`
		DayOfMonth    int             `json:"day_of_month"`
		DefaultStatus string          `json:"default_status"`
		Active        bool            `json:"active"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	LedgerEntry struct {
		ID            int64           `json:"id"`
		CompanyID     int64           `json:"company_id"`
		CompanyName   string          `json:"company_name,omitempty"`
		Kind          EntryKind       `json:"kind"`
		Date          time.Time       `json:"date"`
		Amount        decimal.Decimal `json:"amount"`
		CategoryID    *int64          `json:"category_id,omitempty"`
		CategoryName  string          `json:"category_name,omitempty"`
		CategoryGroup CategoryGroup   `json:"category_group,omitempty"`
		Status        string          `json:"status"`
		Description   string          `json:"description"`
		PaymentMethod string          `json:"payment_method"`
		Account       string          `json:"account"`
		Origin        string          `json:"origin,omitempty"`
		RecurrenceID  *int64          `json:"recurrence_id,omitempty"`
		CreatedAt     time.Time       `json:"created_at"`
	}

	User struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid entry kind")
	ErrInvalidDay       = errors.New("invalid day of month")
	ErrEmptyDescription = errors.New("empty description")
)

// RateSum returns the sum of the three percentage components.
func (tc TaxConfig) RateSum() decimal.Decimal {
	return tc.PresumptiveRate.Add(tc.OtherTaxesRate).Add(tc.MiscRate)
}

// RateFraction returns the total rate as a multiplier (15 -> 0.15).
func (tc TaxConfig) RateFraction() decimal.Decimal {
	return tc.RateSum().Div(decimal.NewFromInt(100))
}

func (k EntryKind) Validate() error {
	switch k {
	case KindRevenue, KindExpense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// GroupOrDefault classifies spend for the income statement. Entries without a
// category, or with an unrecognized group, count as plain expenses.
func (g CategoryGroup) GroupOrDefault() CategoryGroup {
	switch g {
	case GroupRevenue, GroupCost, GroupExpense:
		return g
	default:
		return GroupExpense
	}
}

func (c Category) Validate() error {
	if c.CompanyID <= 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("empty category name")
	}
	switch c.Kind {
	case CategoryRevenue, CategoryCost, CategoryExpense:
	default:
		return errors.New("invalid category kind")
	}
	return nil
}

func (rt RecurrenceTemplate) Validate() error {
	if rt.CompanyID <= 0 {
		return ErrInvalidInput
	}
	if err := rt.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(rt.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rt.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if rt.DayOfMonth < 1 || rt.DayOfMonth > 31 {
		return ErrInvalidDay
	}
	if !rt.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if e.CompanyID <= 0 {
		return ErrInvalidInput
	}
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return errors.New("entry date cannot be zero")
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

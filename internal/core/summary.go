package core

import "github.com/shopspring/decimal"

// Aggregate figures computed by the services layer. All money values are
// decimal; two-decimal rounding is the rendering layer's concern.

type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown lists per-category totals separately for revenue, cost and
// expense. The revenue breakdown is informational only.
type Breakdown struct {
	Revenue []CategoryAmount `json:"revenue"`
	Cost    []CategoryAmount `json:"cost"`
	Expense []CategoryAmount `json:"expense"`
}

// Statement is the monthly income statement (DRE) for one company, or the
// combined figures in consolidated mode.
type Statement struct {
	CompanyID       int64           `json:"company_id,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	OperatingResult decimal.Decimal `json:"operating_result"`
	EstimatedTax    decimal.Decimal `json:"estimated_tax"`
	NetProfit       decimal.Decimal `json:"net_profit"`
	GrossMargin     float64         `json:"gross_margin"`
	NetMargin       float64         `json:"net_margin"`
	Breakdown       Breakdown       `json:"breakdown"`
}

// Variance holds current minus previous month deltas.
type Variance struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

// StatementReport is a single-company statement with the optional
// month-over-month comparison. Previous and Variance are nil when prior
// period data is unavailable.
type StatementReport struct {
	Statement
	Previous *Statement `json:"previous,omitempty"`
	Variance *Variance  `json:"variance,omitempty"`
}

// ConsolidatedStatement combines all active companies. Combined figures are
// arithmetic sums with margins recomputed from the sums, never averaged.
type ConsolidatedStatement struct {
	Combined  Statement   `json:"combined"`
	Companies []Statement `json:"companies"`
}

// Overview is the dashboard summary for a period and company scope.
type Overview struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expense      decimal.Decimal `json:"expense"`
	Result       decimal.Decimal `json:"result"`
	EstimatedTax decimal.Decimal `json:"estimated_tax"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	Margin       float64         `json:"margin"`
	Health       Health          `json:"health"`
}

// MonthTotals is one point of the projection series.
type MonthTotals struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Result  decimal.Decimal `json:"result"`
}

// Projection is the trailing series plus the forecast for the month after
// the target month.
type Projection struct {
	Window   int           `json:"window"`
	Months   []MonthTotals `json:"months"`
	Forecast MonthTotals   `json:"forecast"`
}

// MonthlyReport is the fully computed payload handed to the printable
// report renderer.
type MonthlyReport struct {
	CompanyID     *int64           `json:"company_id,omitempty"`
	CompanyName   string           `json:"company_name,omitempty"`
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	Revenue       decimal.Decimal  `json:"revenue"`
	Expense       decimal.Decimal  `json:"expense"`
	Result        decimal.Decimal  `json:"result"`
	EstimatedTax  decimal.Decimal  `json:"estimated_tax"`
	NetRevenue    decimal.Decimal  `json:"net_revenue"`
	Margin        float64          `json:"margin"`
	Health        Health           `json:"health"`
	TopCategories []CategoryAmount `json:"top_categories"`
}

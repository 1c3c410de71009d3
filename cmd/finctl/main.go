// finctl is the operator's command line: seed data, force recurrence
// materialization, inspect statements and dashboards, and export reports to
// Google Sheets without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/export/sheets"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/services"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

type cliContext struct {
	ctx          context.Context
	repo         *storage.SQLiteRepository
	materializer *services.Materializer
	statements   *services.StatementService
	dashboards   *services.DashboardService
	reports      *services.ReportService
}

type periodFlags struct {
	Year  int `help:"Target year (defaults to current)." default:"0"`
	Month int `help:"Target month 1-12 (defaults to current)." default:"0"`
}

func (p periodFlags) resolve() (int, int) {
	now := time.Now()
	year, month := p.Year, p.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

type seedCmd struct {
	Name     string `arg:"" help:"Company name."`
	TaxID    string `help:"Company tax id."`
	Email    string `help:"Also create a user with this email."`
	Password string `help:"Password for the created user." default:"changeme"`
}

func (c *seedCmd) Run(cli *cliContext) error {
	id, err := cli.repo.CreateCompany(cli.ctx, core.Company{Name: c.Name, TaxID: c.TaxID})
	if err != nil {
		return err
	}
	fmt.Printf("created company %d (%s)\n", id, c.Name)

	if c.Email != "" {
		userID, err := cli.repo.CreateUser(cli.ctx, c.Name, c.Email, c.Password, "admin")
		if err != nil {
			return err
		}
		fmt.Printf("created user %d (%s)\n", userID, c.Email)
	}
	return nil
}

type materializeCmd struct {
	periodFlags
	Company int64 `help:"Company id; 0 sweeps every active company." default:"0"`
}

func (c *materializeCmd) Run(cli *cliContext) error {
	year, month := c.resolve()
	var (
		created int
		err     error
	)
	if c.Company > 0 {
		created, err = cli.materializer.EnsureGenerated(cli.ctx, c.Company, year, month)
	} else {
		created, err = cli.materializer.EnsureGeneratedAll(cli.ctx, year, month)
	}
	if err != nil {
		return err
	}
	fmt.Printf("materialized %d entries for %s\n", created, core.PeriodKey(year, month))
	return nil
}

type dreCmd struct {
	periodFlags
	Company int64 `help:"Company id; 0 prints the consolidated statement." default:"0"`
}

func (c *dreCmd) Run(cli *cliContext) error {
	year, month := c.resolve()
	if c.Company > 0 {
		report, err := cli.statements.ComputeWithVariance(cli.ctx, c.Company, year, month)
		if err != nil {
			return err
		}
		return printJSON(report)
	}
	cons, err := cli.statements.ComputeConsolidated(cli.ctx, year, month)
	if err != nil {
		return err
	}
	return printJSON(cons)
}

type dashboardCmd struct {
	periodFlags
	Company int64 `help:"Company id; 0 spans all companies." default:"0"`
	Window  int   `help:"Projection window in months." default:"6"`
}

func (c *dashboardCmd) Run(cli *cliContext) error {
	year, month := c.resolve()
	scope := services.ScopeAll()
	if c.Company > 0 {
		scope = services.ScopeCompany(c.Company)
	}

	overview, err := cli.dashboards.Overview(cli.ctx, scope, year, month)
	if err != nil {
		return err
	}
	projection, err := cli.dashboards.Projection(cli.ctx, scope, year, month, c.Window)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"overview": overview, "projection": projection})
}

type exportCmd struct {
	periodFlags
	Company     int64  `help:"Company id; 0 spans all companies." default:"0"`
	Spreadsheet string `help:"Target spreadsheet id." env:"SHEETS_SPREADSHEET_ID"`
	Sheet       string `help:"Sheet name inside the spreadsheet." env:"SHEETS_SHEET_NAME" default:"Reports"`
	Top         int    `help:"How many expense categories to include." default:"5"`
}

func (c *exportCmd) Run(cli *cliContext) error {
	year, month := c.resolve()
	scope := services.ScopeAll()
	if c.Company > 0 {
		scope = services.ScopeCompany(c.Company)
	}

	report, err := cli.reports.BuildMonthly(cli.ctx, scope, year, month, c.Top)
	if err != nil {
		return err
	}

	exporter, err := sheets.New(cli.ctx, c.Spreadsheet, c.Sheet)
	if err != nil {
		return err
	}
	if err := exporter.AppendMonthlyReport(cli.ctx, report); err != nil {
		return err
	}
	fmt.Printf("exported %s report to sheet %q\n", core.PeriodKey(year, month), c.Sheet)
	return nil
}

func printJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

var cli struct {
	DBPath string `help:"SQLite database path." env:"SQLITE_DB_PATH" default:"./data/financeiro.db"`

	Seed        seedCmd        `cmd:"" help:"Create a company, optionally with an admin user."`
	Materialize materializeCmd `cmd:"" help:"Materialize recurrence templates for a month."`
	Dre         dreCmd         `cmd:"" help:"Print the monthly income statement."`
	Dashboard   dashboardCmd   `cmd:"" help:"Print the month overview and projection."`
	Export      exportCmd      `cmd:"" help:"Export the monthly report to Google Sheets."`
}

func main() {
	_ = godotenv.Load()

	parsed := kong.Parse(&cli,
		kong.Name("finctl"),
		kong.Description("Operator tooling for the financial ledger."),
		kong.UsageOnError())

	logger := log.New(log.DefaultConfig())

	repo, err := storage.NewSQLiteRepository(cli.DBPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", cli.DBPath)
		os.Exit(1)
	}
	defer repo.Close()

	materializer := services.NewMaterializer(repo, nil, logger)
	taxes := services.NewTaxEstimator(repo)
	dashboards := services.NewDashboardService(repo, taxes, logger)

	err = parsed.Run(&cliContext{
		ctx:          context.Background(),
		repo:         repo,
		materializer: materializer,
		statements:   services.NewStatementService(repo, materializer, taxes, logger),
		dashboards:   dashboards,
		reports:      services.NewReportService(repo, materializer, dashboards, logger),
	})
	parsed.FatalIfErrorf(err)
}

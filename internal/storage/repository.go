// Package storage provides the SQLite-backed repository for the ledger.
// All reads feeding aggregation return explicit zero-valued defaults when a
// referenced record is absent, so the services layer never branches on nil.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateCompany inserts a company and returns its id.
func (r *SQLiteRepository) CreateCompany(ctx context.Context, c core.Company) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (name, tax_id, active) VALUES (?, ?, 1)`,
		c.Name, c.TaxID)
	if err != nil {
		return 0, fmt.Errorf("create company: %w", err)
	}
	return res.LastInsertId()
}

// ListCompanies returns companies ordered by id.
func (r *SQLiteRepository) ListCompanies(ctx context.Context, activeOnly bool) ([]core.Company, error) {
	query := `SELECT id, name, tax_id, active FROM companies`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []core.Company
	for rows.Next() {
		var c core.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Active); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *SQLiteRepository) GetCompany(ctx context.Context, id int64) (core.Company, error) {
	var c core.Company
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, tax_id, active FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Company{}, fmt.Errorf("company %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Company{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// CreateUser inserts a user with a plaintext credential. Roles are stored,
// never enforced.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name, email, password, role string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)`,
		name, email, password, role)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return res.LastInsertId()
}

// Authenticate looks up a user by exact credential match.
func (r *SQLiteRepository) Authenticate(ctx context.Context, email, password string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM users WHERE email = ? AND password = ?`,
		email, password).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %s: %w", email, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// GetTaxConfig returns the company's tax configuration, or an all-zero
// configuration when none has been saved yet.
func (r *SQLiteRepository) GetTaxConfig(ctx context.Context, companyID int64) (core.TaxConfig, error) {
	var (
		cfg                                              core.TaxConfig
		presumptiveRate, otherTaxesRate, miscRate, stamp string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT company_id, presumptive_rate, other_taxes_rate, misc_rate, updated_at
		 FROM tax_configs WHERE company_id = ?`, companyID).
		Scan(&cfg.CompanyID, &presumptiveRate, &otherTaxesRate, &miscRate, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TaxConfig{CompanyID: companyID}, nil
	}
	if err != nil {
		return core.TaxConfig{}, fmt.Errorf("get tax config: %w", err)
	}

	if cfg.PresumptiveRate, err = decimal.NewFromString(presumptiveRate); err != nil {
		return core.TaxConfig{}, fmt.Errorf("parse presumptive rate: %w", err)
	}
	if cfg.OtherTaxesRate, err = decimal.NewFromString(otherTaxesRate); err != nil {
		return core.TaxConfig{}, fmt.Errorf("parse other taxes rate: %w", err)
	}
	if cfg.MiscRate, err = decimal.NewFromString(miscRate); err != nil {
		return core.TaxConfig{}, fmt.Errorf("parse misc rate: %w", err)
	}
	cfg.UpdatedAt = parseTimestamp(stamp)
	return cfg, nil
}

// UpsertTaxConfig inserts or replaces the company's tax configuration.
func (r *SQLiteRepository) UpsertTaxConfig(ctx context.Context, cfg core.TaxConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tax_configs (company_id, presumptive_rate, other_taxes_rate, misc_rate, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(company_id) DO UPDATE SET
		   presumptive_rate = excluded.presumptive_rate,
		   other_taxes_rate = excluded.other_taxes_rate,
		   misc_rate = excluded.misc_rate,
		   updated_at = datetime('now')`,
		cfg.CompanyID, cfg.PresumptiveRate.String(), cfg.OtherTaxesRate.String(), cfg.MiscRate.String())
	if err != nil {
		return fmt.Errorf("upsert tax config: %w", err)
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func scanAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

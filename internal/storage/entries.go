package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
)

// EntryFilter selects ledger entries for one calendar month. Year and Month
// are required; everything else narrows the result.
type EntryFilter struct {
	Year      int
	Month     int
	CompanyID *int64
	Kind      core.EntryKind
	Status    string
	Search    string
}

// ListEntries returns entries in the half-open month range, newest first,
// joined with company and category names.
func (r *SQLiteRepository) ListEntries(ctx context.Context, f EntryFilter) ([]core.LedgerEntry, error) {
	if f.Year == 0 || f.Month < 1 || f.Month > 12 {
		return nil, fmt.Errorf("entry filter needs a valid period: %w", core.ErrInvalidInput)
	}

	start, end := core.MonthRange(f.Year, f.Month)
	query := `SELECT l.id, l.company_id, e.name, l.kind, l.entry_date, l.amount,
	                 l.category_id, COALESCE(c.name, ''), COALESCE(c.cat_group, ''),
	                 l.status, l.description, l.payment_method, l.account,
	                 l.origin, l.recurrence_id, l.created_at
	          FROM ledger_entries l
	          JOIN companies e ON e.id = l.company_id
	          LEFT JOIN categories c ON c.id = l.category_id
	          WHERE l.entry_date >= ? AND l.entry_date < ?`
	args := []any{start.Format(dateLayout), end.Format(dateLayout)}

	if f.CompanyID != nil {
		query += ` AND l.company_id = ?`
		args = append(args, *f.CompanyID)
	}
	if f.Kind != "" {
		query += ` AND l.kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		query += ` AND l.status = ?`
		args = append(args, f.Status)
	}
	if f.Search != "" {
		query += ` AND (l.description LIKE ? OR l.payment_method LIKE ? OR l.account LIKE ?)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY l.entry_date DESC, l.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateEntry inserts a manual ledger entry and returns its id.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	status := e.Status
	if status == "" {
		status = core.StatusPaid
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_entries
		 (company_id, kind, entry_date, amount, category_id, status, description, payment_method, account, origin)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '')`,
		e.CompanyID, string(e.Kind), e.Date.Format(dateLayout), e.Amount.String(),
		e.CategoryID, status, e.Description, e.PaymentMethod, e.Account)
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}
	return res.LastInsertId()
}

// UpdateEntry replaces all mutable fields of an entry.
func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	status := e.Status
	if status == "" {
		status = core.StatusPaid
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries
		 SET company_id = ?, kind = ?, entry_date = ?, amount = ?, category_id = ?,
		     status = ?, description = ?, payment_method = ?, account = ?
		 WHERE id = ?`,
		e.CompanyID, string(e.Kind), e.Date.Format(dateLayout), e.Amount.String(),
		e.CategoryID, status, e.Description, e.PaymentMethod, e.Account, e.ID)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireRowAffected(res, "entry", e.ID)
}

// DeleteEntry removes an entry by id.
func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireRowAffected(res, "entry", id)
}

// InsertMaterialized atomically inserts an entry generated from a recurrence
// template. The partial unique index on (company, recurrence, period) makes
// the insert a no-op when the month is already materialized; the return
// value reports whether a row was actually created.
func (r *SQLiteRepository) InsertMaterialized(ctx context.Context, e core.LedgerEntry, period string) (bool, error) {
	if err := e.Validate(); err != nil {
		return false, err
	}
	if e.RecurrenceID == nil {
		return false, fmt.Errorf("materialized entry needs a recurrence reference: %w", core.ErrInvalidInput)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_entries
		 (company_id, kind, entry_date, amount, category_id, status, description, payment_method, account, origin, recurrence_id, period)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '', '', ?, ?, ?)
		 ON CONFLICT(company_id, recurrence_id, period) WHERE recurrence_id IS NOT NULL DO NOTHING`,
		e.CompanyID, string(e.Kind), e.Date.Format(dateLayout), e.Amount.String(),
		e.CategoryID, e.Status, e.Description, core.OriginRecurrence, *e.RecurrenceID, period)
	if err != nil {
		return false, fmt.Errorf("insert materialized entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func scanEntry(row rowScanner) (core.LedgerEntry, error) {
	var (
		e            core.LedgerEntry
		entryDate    string
		amount       string
		categoryID   sql.NullInt64
		recurrenceID sql.NullInt64
		createdAt    string
	)
	err := row.Scan(&e.ID, &e.CompanyID, &e.CompanyName, &e.Kind, &entryDate, &amount,
		&categoryID, &e.CategoryName, &e.CategoryGroup,
		&e.Status, &e.Description, &e.PaymentMethod, &e.Account,
		&e.Origin, &recurrenceID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.LedgerEntry{}, err
		}
		return core.LedgerEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	if e.Date, err = time.Parse(dateLayout, entryDate); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry date %q: %w", entryDate, err)
	}
	if e.Amount, err = scanAmount(amount); err != nil {
		return core.LedgerEntry{}, err
	}
	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if recurrenceID.Valid {
		e.RecurrenceID = &recurrenceID.Int64
	}
	e.CreatedAt = parseTimestamp(createdAt)
	return e, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
)

// CreateCategory inserts a category and returns its id.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (company_id, kind, cat_group, name, active) VALUES (?, ?, ?, ?, 1)`,
		c.CompanyID, string(c.Kind), string(c.Group.GroupOrDefault()), c.Name)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return res.LastInsertId()
}

// UpdateCategory replaces the mutable fields of a category.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET kind = ?, cat_group = ?, name = ? WHERE id = ?`,
		string(c.Kind), string(c.Group.GroupOrDefault()), c.Name, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRowAffected(res, "category", c.ID)
}

// DeactivateCategory soft-deletes a category; ledger entries keep pointing
// at it.
func (r *SQLiteRepository) DeactivateCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return requireRowAffected(res, "category", id)
}

// ListCategories returns the company's active categories, optionally
// filtered by kind, ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context, companyID int64, kind core.CategoryKind) ([]core.Category, error) {
	query := `SELECT id, company_id, kind, cat_group, name, active
	          FROM categories WHERE company_id = ? AND active = 1`
	args := []any{companyID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Kind, &c.Group, &c.Name, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CreateTemplate inserts a recurrence template and returns its id.
func (r *SQLiteRepository) CreateTemplate(ctx context.Context, rt core.RecurrenceTemplate) (int64, error) {
	if err := rt.Validate(); err != nil {
		return 0, err
	}
	status := rt.DefaultStatus
	if status == "" {
		status = core.StatusForecast
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurrence_templates
		 (company_id, kind, category_id, description, amount, day_of_month, default_status, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		rt.CompanyID, string(rt.Kind), rt.CategoryID, rt.Description,
		rt.Amount.String(), rt.DayOfMonth, status)
	if err != nil {
		return 0, fmt.Errorf("create template: %w", err)
	}
	return res.LastInsertId()
}

// UpdateTemplate replaces the mutable fields of a template.
func (r *SQLiteRepository) UpdateTemplate(ctx context.Context, rt core.RecurrenceTemplate) error {
	if err := rt.Validate(); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE recurrence_templates
		 SET kind = ?, category_id = ?, description = ?, amount = ?, day_of_month = ?, default_status = ?
		 WHERE id = ?`,
		string(rt.Kind), rt.CategoryID, rt.Description, rt.Amount.String(),
		rt.DayOfMonth, rt.DefaultStatus, rt.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireRowAffected(res, "template", rt.ID)
}

// DeactivateTemplate soft-deletes a template so it stops materializing.
func (r *SQLiteRepository) DeactivateTemplate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE recurrence_templates SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate template: %w", err)
	}
	return requireRowAffected(res, "template", id)
}

// ListTemplates returns the company's recurrence templates ordered by id.
func (r *SQLiteRepository) ListTemplates(ctx context.Context, companyID int64, activeOnly bool) ([]core.RecurrenceTemplate, error) {
	query := `SELECT id, company_id, kind, category_id, description, amount,
	                 day_of_month, default_status, active, created_at
	          FROM recurrence_templates WHERE company_id = ?`
	if activeOnly {
		query += ` AND active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []core.RecurrenceTemplate
	for rows.Next() {
		rt, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, rt)
	}
	return templates, rows.Err()
}

func (r *SQLiteRepository) GetTemplate(ctx context.Context, id int64) (core.RecurrenceTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, company_id, kind, category_id, description, amount,
		        day_of_month, default_status, active, created_at
		 FROM recurrence_templates WHERE id = ?`, id)
	rt, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurrenceTemplate{}, fmt.Errorf("template %d: %w", id, core.ErrNotFound)
	}
	return rt, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (core.RecurrenceTemplate, error) {
	var (
		rt         core.RecurrenceTemplate
		categoryID sql.NullInt64
		amount     string
		createdAt  string
	)
	err := row.Scan(&rt.ID, &rt.CompanyID, &rt.Kind, &categoryID, &rt.Description,
		&amount, &rt.DayOfMonth, &rt.DefaultStatus, &rt.Active, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.RecurrenceTemplate{}, err
		}
		return core.RecurrenceTemplate{}, fmt.Errorf("scan template: %w", err)
	}
	if categoryID.Valid {
		rt.CategoryID = &categoryID.Int64
	}
	if rt.Amount, err = scanAmount(amount); err != nil {
		return core.RecurrenceTemplate{}, err
	}
	rt.CreatedAt = parseTimestamp(createdAt)
	return rt, nil
}

func requireRowAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
	}
	return nil
}

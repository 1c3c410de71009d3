// Package services implements the aggregation pipeline: recurrence
// materialization, tax estimation, income statements, dashboards and the
// printable report payload.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/amqp"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// Materializer turns active recurrence templates into concrete ledger
// entries, at most one per (company, template, month). Idempotency is
// enforced by the storage layer's conditional insert, so concurrent calls
// for the same period cannot duplicate entries.
type Materializer struct {
	store  *storage.SQLiteRepository
	events *amqp.Client
	logger *log.Logger
}

func NewMaterializer(store *storage.SQLiteRepository, events *amqp.Client, logger *log.Logger) *Materializer {
	return &Materializer{
		store:  store,
		events: events,
		logger: logger.WithComponent(log.ComponentRecurrence),
	}
}

// EnsureGenerated makes sure every active template of the company has its
// entry for the given month, creating the missing ones. It returns the
// number of newly created entries. Per-template storage failures are logged
// and skipped (best-effort); only the inability to read the templates at
// all is an error.
func (m *Materializer) EnsureGenerated(ctx context.Context, companyID int64, year, month int) (int, error) {
	if companyID <= 0 || month < 1 || month > 12 {
		return 0, fmt.Errorf("company %d period %d-%d: %w", companyID, year, month, core.ErrInvalidInput)
	}

	templates, err := m.store.ListTemplates(ctx, companyID, true)
	if err != nil {
		return 0, fmt.Errorf("list active templates: %w", err)
	}

	period := core.PeriodKey(year, month)
	created := 0

	for _, rt := range templates {
		day := core.ClampDayToMonth(rt.DayOfMonth, year, month)
		status := rt.DefaultStatus
		if status == "" {
			status = core.StatusForecast
		}

		templateID := rt.ID
		entry := core.LedgerEntry{
			CompanyID:    companyID,
			Kind:         rt.Kind,
			Date:         time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			Amount:       rt.Amount,
			CategoryID:   rt.CategoryID,
			Status:       status,
			Description:  rt.Description,
			Origin:       core.OriginRecurrence,
			RecurrenceID: &templateID,
		}

		inserted, err := m.store.InsertMaterialized(ctx, entry, period)
		if err != nil {
			m.logger.ErrorContext(ctx, "Failed to materialize template",
				log.FieldTemplateID, rt.ID,
				log.FieldCompanyID, companyID,
				log.FieldPeriod, period,
				log.FieldError, err)
			continue
		}
		if !inserted {
			continue
		}

		created++
		m.publishMaterialized(ctx, companyID, rt.ID, period)
	}

	if created > 0 {
		m.logger.InfoContext(ctx, "Materialized recurring entries",
			log.FieldCompanyID, companyID,
			log.FieldPeriod, period,
			log.FieldCreatedCount, created)
	}

	return created, nil
}

// EnsureGeneratedAll materializes the month for every active company.
// Failures are per-company and do not stop the sweep.
func (m *Materializer) EnsureGeneratedAll(ctx context.Context, year, month int) (int, error) {
	companies, err := m.store.ListCompanies(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list active companies: %w", err)
	}

	total := 0
	for _, c := range companies {
		count, err := m.EnsureGenerated(ctx, c.ID, year, month)
		if err != nil {
			m.logger.ErrorContext(ctx, "Materialization failed for company",
				log.FieldCompanyID, c.ID, log.FieldError, err)
			continue
		}
		total += count
	}
	return total, nil
}

func (m *Materializer) publishMaterialized(ctx context.Context, companyID, templateID int64, period string) {
	if m.events == nil {
		return
	}
	ev := amqp.LedgerEvent{
		Event:      amqp.EventEntryMaterialized,
		CompanyID:  companyID,
		TemplateID: templateID,
		Period:     period,
	}
	if err := m.events.PublishLedgerEvent(ctx, ev); err != nil {
		// The entry is already persisted; event delivery is best-effort.
		m.logger.WarnContext(ctx, "Failed to publish materialization event",
			log.FieldTemplateID, templateID, log.FieldError, err)
	}
}

package services

import (
	"context"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/amqp"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

// LedgerService wraps entry writes with change-event publication. Events are
// best-effort: a broker outage never fails the write.
type LedgerService struct {
	store  *storage.SQLiteRepository
	events *amqp.Client
	logger *log.Logger
}

func NewLedgerService(store *storage.SQLiteRepository, events *amqp.Client, logger *log.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		events: events,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

func (s *LedgerService) List(ctx context.Context, f storage.EntryFilter) ([]core.LedgerEntry, error) {
	return s.store.ListEntries(ctx, f)
}

func (s *LedgerService) Create(ctx context.Context, e core.LedgerEntry) (int64, error) {
	id, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, amqp.EventEntryCreated, e.CompanyID, id)
	return id, nil
}

func (s *LedgerService) Update(ctx context.Context, e core.LedgerEntry) error {
	if err := s.store.UpdateEntry(ctx, e); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventEntryUpdated, e.CompanyID, e.ID)
	return nil
}

func (s *LedgerService) Delete(ctx context.Context, companyID, id int64) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.EventEntryDeleted, companyID, id)
	return nil
}

func (s *LedgerService) publish(ctx context.Context, event string, companyID, entryID int64) {
	if s.events == nil {
		return
	}
	ev := amqp.NewLedgerEvent(event, companyID, entryID)
	if err := s.events.PublishLedgerEvent(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEntryID, entryID, log.FieldError, err)
	}
}

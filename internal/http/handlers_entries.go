package http

import (
	"net/http"
	"strings"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	scope, err := parseScope(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	// Recurring bills must already exist in the month before it is read, so
	// listing materializes first. Materialization failure downgrades to
	// serving whatever is stored.
	var created int
	if scope.CompanyID != nil {
		created, err = s.svcs.Materializer.EnsureGenerated(r.Context(), *scope.CompanyID, year, month)
	} else {
		created, err = s.svcs.Materializer.EnsureGeneratedAll(r.Context(), year, month)
	}
	if err != nil {
		s.logger.WarnContext(r.Context(), "Materialization before entry listing failed",
			log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
	}
	if created > 0 {
		if scope.CompanyID != nil {
			s.invalidateCompany(*scope.CompanyID)
		} else {
			s.readCache.Clear()
		}
	}

	q := r.URL.Query()
	entries, err := s.svcs.Ledger.List(r.Context(), storage.EntryFilter{
		Year:      year,
		Month:     month,
		CompanyID: scope.CompanyID,
		Kind:      core.EntryKind(strings.ToUpper(q.Get("kind"))),
		Status:    q.Get("status"),
		Search:    sanitizeInput(q.Get("q")),
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.LedgerEntry{}
	}
	s.respondJSON(w, r, http.StatusOK, entries)
}

type entryRequest struct {
	CompanyID     int64  `json:"company_id"`
	Kind          string `json:"kind"`
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	CategoryID    *int64 `json:"category_id"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	PaymentMethod string `json:"payment_method"`
	Account       string `json:"account"`
}

func (s *Server) entryFromRequest(w http.ResponseWriter, r *http.Request, req entryRequest, id int64) (core.LedgerEntry, bool) {
	date, err := parseDate(req.Date)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return core.LedgerEntry{}, false
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid amount")
		return core.LedgerEntry{}, false
	}
	return core.LedgerEntry{
		ID:            id,
		CompanyID:     req.CompanyID,
		Kind:          core.EntryKind(strings.ToUpper(req.Kind)),
		Date:          date,
		Amount:        amount,
		CategoryID:    req.CategoryID,
		Status:        req.Status,
		Description:   sanitizeInput(req.Description),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Account:       sanitizeInput(req.Account),
	}, true
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	entry, ok := s.entryFromRequest(w, r, req, 0)
	if !ok {
		return
	}
	id, err := s.svcs.Ledger.Create(r.Context(), entry)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(entry.CompanyID)
	s.respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var req entryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	entry, ok := s.entryFromRequest(w, r, req, id)
	if !ok {
		return
	}
	if err := s.svcs.Ledger.Update(r.Context(), entry); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(entry.CompanyID)
	s.respondJSON(w, r, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	companyID := int64(queryInt(r, "company_id", 0))
	if err := s.svcs.Ledger.Delete(r.Context(), companyID, id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if companyID > 0 {
		s.invalidateCompany(companyID)
	} else {
		s.readCache.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r)
	if err != nil || scope.CompanyID == nil {
		s.respondError(w, r, http.StatusBadRequest, "company_id is required")
		return
	}
	activeOnly := r.URL.Query().Get("all") == ""
	templates, err := s.store.ListTemplates(r.Context(), *scope.CompanyID, activeOnly)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if templates == nil {
		templates = []core.RecurrenceTemplate{}
	}
	s.respondJSON(w, r, http.StatusOK, templates)
}

type templateRequest struct {
	CompanyID     int64  `json:"company_id"`
	Kind          string `json:"kind"`
	CategoryID    *int64 `json:"category_id"`
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	DayOfMonth    int    `json:"day_of_month"`
	DefaultStatus string `json:"default_status"`
}

func (s *Server) templateFromRequest(w http.ResponseWriter, r *http.Request, req templateRequest, id int64) (core.RecurrenceTemplate, bool) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid amount")
		return core.RecurrenceTemplate{}, false
	}
	return core.RecurrenceTemplate{
		ID:            id,
		CompanyID:     req.CompanyID,
		Kind:          core.EntryKind(strings.ToUpper(req.Kind)),
		CategoryID:    req.CategoryID,
		Description:   sanitizeInput(req.Description),
		Amount:        amount,
		DayOfMonth:    req.DayOfMonth,
		DefaultStatus: req.DefaultStatus,
	}, true
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	rt, ok := s.templateFromRequest(w, r, req, 0)
	if !ok {
		return
	}
	id, err := s.store.CreateTemplate(r.Context(), rt)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(req.CompanyID)
	s.respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

// handleUpdateTemplate changes the template going forward; entries already
// materialized from it keep their recorded values.
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var req templateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	rt, ok := s.templateFromRequest(w, r, req, id)
	if !ok {
		return
	}
	if err := s.store.UpdateTemplate(r.Context(), rt); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(req.CompanyID)
	s.respondJSON(w, r, http.StatusOK, map[string]int64{"id": id})
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if err := s.store.DeactivateTemplate(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.readCache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleMaterialize forces recurrence materialization for a month, normally
// only done implicitly by statement and report reads.
func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	scope, err := parseScope(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	var created int
	if scope.CompanyID != nil {
		created, err = s.svcs.Materializer.EnsureGenerated(r.Context(), *scope.CompanyID, year, month)
	} else {
		created, err = s.svcs.Materializer.EnsureGeneratedAll(r.Context(), year, month)
	}
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if created > 0 {
		if scope.CompanyID != nil {
			s.invalidateCompany(*scope.CompanyID)
		} else {
			s.readCache.Clear()
		}
	}
	s.respondJSON(w, r, http.StatusOK, map[string]int{"created": created})
}

package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User core.User `json:"user"`
}

// handleLogin checks the credential pair and returns the user record.
// There is no session or token; the client keeps the user around itself.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		s.respondError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.respondError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, loginResponse{User: user})
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") == ""
	companies, err := s.store.ListCompanies(r.Context(), activeOnly)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if companies == nil {
		companies = []core.Company{}
	}
	s.respondJSON(w, r, http.StatusOK, companies)
}

type companyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	req.Name = sanitizeInput(req.Name)
	if req.Name == "" {
		s.respondError(w, r, http.StatusBadRequest, "company name is required")
		return
	}

	id, err := s.store.CreateCompany(r.Context(), core.Company{
		Name:  req.Name,
		TaxID: sanitizeInput(req.TaxID),
	})
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleGetTaxConfig(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	cfg, err := s.store.GetTaxConfig(r.Context(), companyID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, cfg)
}

type taxConfigRequest struct {
	PresumptiveRate string `json:"presumptive_rate"`
	OtherTaxesRate  string `json:"other_taxes_rate"`
	MiscRate        string `json:"misc_rate"`
}

// handleSaveTaxConfig upserts the three rate components. Rates arrive as
// strings so clients can send "11,33" or "11.33" alike.
func (s *Server) handleSaveTaxConfig(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var req taxConfigRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cfg := core.TaxConfig{CompanyID: companyID}
	if cfg.PresumptiveRate, err = core.ParseRate(req.PresumptiveRate); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid presumptive rate")
		return
	}
	if cfg.OtherTaxesRate, err = core.ParseRate(req.OtherTaxesRate); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid other taxes rate")
		return
	}
	if cfg.MiscRate, err = core.ParseRate(req.MiscRate); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid misc rate")
		return
	}

	if err := s.store.UpsertTaxConfig(r.Context(), cfg); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(companyID)
	s.respondJSON(w, r, http.StatusOK, cfg)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	scope, err := parseScope(r)
	if err != nil || scope.CompanyID == nil {
		s.respondError(w, r, http.StatusBadRequest, "company_id is required")
		return
	}
	kind := core.CategoryKind(strings.ToUpper(r.URL.Query().Get("kind")))
	cats, err := s.store.ListCategories(r.Context(), *scope.CompanyID, kind)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	s.respondJSON(w, r, http.StatusOK, cats)
}

type categoryRequest struct {
	CompanyID int64  `json:"company_id"`
	Kind      string `json:"kind"`
	Group     string `json:"group"`
	Name      string `json:"name"`
}

func (req categoryRequest) toCategory(id int64) core.Category {
	return core.Category{
		ID:        id,
		CompanyID: req.CompanyID,
		Kind:      core.CategoryKind(strings.ToUpper(req.Kind)),
		Group:     core.CategoryGroup(strings.ToLower(req.Group)),
		Name:      sanitizeInput(req.Name),
	}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	id, err := s.store.CreateCategory(r.Context(), req.toCategory(0))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(req.CompanyID)
	s.respondJSON(w, r, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	var req categoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.store.UpdateCategory(r.Context(), req.toCategory(id)); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.invalidateCompany(req.CompanyID)
	s.respondJSON(w, r, http.StatusOK, map[string]int64{"id": id})
}

// handleDeleteCategory deactivates the category; ledger history is kept.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if err := s.store.DeactivateCategory(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.readCache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

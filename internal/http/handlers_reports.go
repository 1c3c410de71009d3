package http

import (
	"net/http"
)

// handleDashboard returns the month overview for the scope. Responses are
// cached; ledger writes invalidate them.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
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

	s.serveCached(w, r, scopeCacheKey(scope, r), func() (any, error) {
		return s.svcs.Dashboards.Overview(r.Context(), scope, year, month)
	})
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
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
	window := queryInt(r, "window", s.cfg.ProjectionWindow)

	s.serveCached(w, r, scopeCacheKey(scope, r), func() (any, error) {
		return s.svcs.Dashboards.Projection(r.Context(), scope, year, month, window)
	})
}

// handleStatement returns the income statement: per-company with the
// month-over-month comparison, or consolidated across all companies when no
// company is given.
func (s *Server) handleStatement(w http.ResponseWriter, r *http.Request) {
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

	s.serveCached(w, r, scopeCacheKey(scope, r), func() (any, error) {
		if scope.CompanyID != nil {
			return s.svcs.Statements.ComputeWithVariance(r.Context(), *scope.CompanyID, year, month)
		}
		return s.svcs.Statements.ComputeConsolidated(r.Context(), year, month)
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
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
	topN := queryInt(r, "top", s.cfg.ReportTopCategories)

	s.serveCached(w, r, scopeCacheKey(scope, r), func() (any, error) {
		return s.svcs.Reports.BuildMonthly(r.Context(), scope, year, month, topN)
	})
}

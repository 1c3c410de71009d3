package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/core"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/services"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to encode response",
			log.FieldPath, r.URL.Path, log.FieldError, err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.respondJSON(w, r, status, errorResponse{Error: msg})
}

// respondServiceError maps domain errors onto HTTP statuses. Validation
// failures are 400, missing records 404, everything else is a logged 500
// with a generic body.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrEmptyDescription):
		s.respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
		s.respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads the request body into dst, rejecting oversized and
// malformed payloads.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// jsonBody renders a payload to a newline-terminated JSON body, the same
// shape json.Encoder writes.
func jsonBody(payload any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current calendar month.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("year %q: %w", v, core.ErrInvalidInput)
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("month %q: %w", v, core.ErrInvalidInput)
		}
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month %d out of range: %w", month, core.ErrInvalidInput)
	}
	return year, month, nil
}

// parseScope reads the company_id query parameter. Absent or "all" spans
// every company.
func parseScope(r *http.Request) (services.Scope, error) {
	v := strings.TrimSpace(r.URL.Query().Get("company_id"))
	if v == "" || v == "all" {
		return services.ScopeAll(), nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return services.Scope{}, fmt.Errorf("company_id %q: %w", v, core.ErrInvalidInput)
	}
	return services.ScopeCompany(id), nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	v := r.PathValue("id")
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", v, core.ErrInvalidInput)
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseDate parses a YYYY-MM-DD date.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, core.ErrInvalidInput)
	}
	return t, nil
}

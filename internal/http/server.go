// Package http exposes the JSON API: authentication, company and catalog
// management, the ledger itself and the computed views (dashboard,
// projection, income statement, monthly report).
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/cache"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/config"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/services"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

// Services groups the application services the API depends on.
type Services struct {
	Ledger       *services.LedgerService
	Materializer *services.Materializer
	Statements   *services.StatementService
	Dashboards   *services.DashboardService
	Reports      *services.ReportService
}

type Server struct {
	http.Server

	store *storage.SQLiteRepository
	svcs  Services
	cfg   config.Config

	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// readCache holds rendered JSON for the computed read endpoints, keyed
	// by scope so ledger writes can invalidate a single company.
	readCache    *cache.LRUCache[[]byte]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, middleware and the response cache, returning a
// ready-to-run server.
func NewServer(cfg config.Config, store *storage.SQLiteRepository, svcs Services, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		store:        store,
		svcs:         svcs,
		cfg:          cfg,
		logger:       logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
		readCache:    cache.NewLRUCache[[]byte](200, cfg.CacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.readCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/fin/login", s.withMiddleware(s.handleLogin))

	mux.HandleFunc("GET /api/fin/companies", s.withMiddleware(s.handleListCompanies))
	mux.HandleFunc("POST /api/fin/companies", s.withMiddleware(s.handleCreateCompany))
	mux.HandleFunc("GET /api/fin/companies/{id}/taxes", s.withMiddleware(s.handleGetTaxConfig))
	mux.HandleFunc("PUT /api/fin/companies/{id}/taxes", s.withMiddleware(s.handleSaveTaxConfig))

	mux.HandleFunc("GET /api/fin/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/fin/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/fin/categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/fin/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/fin/entries", s.withMiddleware(s.handleListEntries))
	mux.HandleFunc("POST /api/fin/entries", s.withMiddleware(s.handleCreateEntry))
	mux.HandleFunc("PUT /api/fin/entries/{id}", s.withMiddleware(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/fin/entries/{id}", s.withMiddleware(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/fin/recurrences", s.withMiddleware(s.handleListTemplates))
	mux.HandleFunc("POST /api/fin/recurrences", s.withMiddleware(s.handleCreateTemplate))
	mux.HandleFunc("PUT /api/fin/recurrences/{id}", s.withMiddleware(s.handleUpdateTemplate))
	mux.HandleFunc("DELETE /api/fin/recurrences/{id}", s.withMiddleware(s.handleDeleteTemplate))
	mux.HandleFunc("POST /api/fin/recurrences/materialize", s.withMiddleware(s.handleMaterialize))

	mux.HandleFunc("GET /api/fin/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/fin/projection", s.withMiddleware(s.handleProjection))
	mux.HandleFunc("GET /api/fin/dre", s.withMiddleware(s.handleStatement))
	mux.HandleFunc("GET /api/fin/report", s.withMiddleware(s.handleMonthlyReport))

	return s
}

// withMiddleware adds security headers, rate limiting on writes, a request
// ID, a per-request deadline and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := uuid.NewString()

		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
		defer cancel()
		ctx = context.WithValue(ctx, ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		if isWrite(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			s.respondError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatus, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness check failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// scopeCacheKey namespaces cached responses by company scope.
func scopeCacheKey(scope services.Scope, r *http.Request) string {
	prefix := "all:"
	if scope.CompanyID != nil {
		prefix = fmt.Sprintf("company:%d:", *scope.CompanyID)
	}
	return prefix + r.URL.Path + "?" + r.URL.RawQuery
}

// serveCached writes a cached response when present, otherwise renders via
// build and stores the result.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() (any, error)) {
	if body, ok := s.readCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Cache", "HIT")
		_, _ = w.Write(body)
		return
	}

	payload, err := build()
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	body, err := jsonBody(payload)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.readCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	_, _ = w.Write(body)
}

// invalidateCompany drops every cached read that could include the
// company's figures, including the all-companies views.
func (s *Server) invalidateCompany(companyID int64) {
	s.readCache.DeletePrefix(fmt.Sprintf("company:%d:", companyID))
	s.readCache.DeletePrefix("all:")
}

// Shutdown stops the background routines and the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

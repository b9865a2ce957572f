package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"benefits/internal/amqp"
	"benefits/internal/cache"
	"benefits/internal/core"
	applog "benefits/internal/log"
	"benefits/internal/services"

	"github.com/shopspring/decimal"
)

const resolvedCacheKey = "resolved"

// IdentityService resolves employee identities and owns status toggles.
type IdentityService interface {
	ResolveIdentities(ctx context.Context) ([]services.ResolvedGroup, error)
	ToggleStatus(ctx context.Context, groupID int, tab services.Tab) error
}

// ReportService computes the invoice-level reports.
type ReportService interface {
	InvoiceSummary(ctx context.Context) ([]services.InvoiceSummaryRow, error)
	FiscalYearTotals(ctx context.Context) (map[int]decimal.Decimal, error)
	MonthlyAnalysis(ctx context.Context) ([]services.MonthlyBucket, error)
}

// FileStore lists and deletes uploaded invoice files.
type FileStore interface {
	ListInvoiceFiles(ctx context.Context) ([]core.InvoiceFile, error)
	DeleteInvoiceFile(ctx context.Context, planName string) error
}

// IngestPublisher hands uploaded files to the ingestion worker.
type IngestPublisher interface {
	PublishInvoiceIngest(ctx context.Context, msg *amqp.InvoiceIngestMessage) error
}

// Options tune the server's cache and readiness probe.
type Options struct {
	CacheSize  int
	CacheTTL   time.Duration
	ReadyCheck func(ctx context.Context) error
}

type Server struct {
	http.Server

	identities IdentityService
	reports    ReportService
	files      FileStore
	publisher  IngestPublisher

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *applog.StructuredLogger

	// Resolved groups are expensive to recompute on every request; the
	// cache is invalidated on toggles and file deletions, and expires on
	// its own after ingestion.
	groupCache *cache.LRUCache[[]services.ResolvedGroup]
	cacheMgr   *cache.Manager

	readyCheck   func(ctx context.Context) error
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ids IdentityService, reports ReportService, files FileStore, pub IngestPublisher, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 16
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		identities:  ids,
		reports:     reports,
		files:       files,
		publisher:   pub,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		logger:      applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentHTTP})),
		groupCache:  cache.NewLRUCache[[]services.ResolvedGroup](opts.CacheSize, opts.CacheTTL),
		cacheMgr:    cache.NewManager(),
		readyCheck:  opts.ReadyCheck,
	}

	s.cacheMgr.Register(s.groupCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/employees", s.withSecurityHeaders(s.handleListEmployees))
	mux.HandleFunc("GET /api/employees/lookup", s.withSecurityHeaders(s.handleLookupEmployee))
	mux.HandleFunc("POST /api/employees/{id}/status/toggle", s.withSecurityHeaders(s.handleToggleStatus))

	mux.HandleFunc("GET /api/invoices/summary", s.withSecurityHeaders(s.handleInvoiceSummary))
	mux.HandleFunc("GET /api/invoices/fiscal-totals", s.withSecurityHeaders(s.handleFiscalTotals))
	mux.HandleFunc("GET /api/invoices/monthly", s.withSecurityHeaders(s.handleMonthlyAnalysis))

	mux.HandleFunc("GET /api/files", s.withSecurityHeaders(s.handleListFiles))
	mux.HandleFunc("POST /api/files", s.withSecurityHeaders(s.handleUploadFile))
	mux.HandleFunc("DELETE /api/files/{plan}", s.withSecurityHeaders(s.handleDeleteFile))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		// Rate limit mutating requests only; list endpoints are cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		if err := s.readyCheck(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// resolvedGroups returns the cached resolution pipeline output, running
// the pipeline on a cold cache.
func (s *Server) resolvedGroups(ctx context.Context) ([]services.ResolvedGroup, error) {
	if groups, ok := s.groupCache.Get(resolvedCacheKey); ok {
		return groups, nil
	}
	groups, err := s.identities.ResolveIdentities(ctx)
	if err != nil {
		return nil, err
	}
	s.groupCache.Set(resolvedCacheKey, groups)
	return groups, nil
}

func (s *Server) invalidateGroups() {
	s.groupCache.Delete(resolvedCacheKey)
}

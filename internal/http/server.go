// Package http exposes the reporting and export API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/amqp"
	"tally/internal/analytics"
	"tally/internal/cache"
	"tally/internal/log"
	"tally/internal/store"
)

// ExportPublisher queues asynchronous export jobs. Nil disables the
// async endpoint.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error
}

type Options struct {
	ReportCacheSize int
	ReportCacheTTL  time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReportCacheSize <= 0 {
		o.ReportCacheSize = 64
	}
	if o.ReportCacheTTL <= 0 {
		o.ReportCacheTTL = 5 * time.Minute
	}
	return o
}

type Server struct {
	http.Server
	store        store.Store
	publisher    ExportPublisher
	rateLimiter  *rateLimiter
	logger       *log.Logger
	now          func() time.Time
	shutdownOnce sync.Once

	// Reports are cached per canonical filter key and purged on any
	// write, since every write can shift every aggregate.
	reportCache  *cache.LRUCache[*analytics.Report]
	cacheManager *cache.Manager
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(addr string, st store.Store, publisher ExportPublisher, logger *log.Logger, opts Options) *Server {
	opts = opts.withDefaults()
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	mux := http.NewServeMux()
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: log.Middleware(httpLogger)(mux),
		},
		store:        st,
		publisher:    publisher,
		rateLimiter:  newRateLimiter(),
		logger:       httpLogger,
		now:          time.Now,
		reportCache:  cache.NewLRUCache[*analytics.Report](opts.ReportCacheSize, opts.ReportCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/report", s.withSecurity(s.handleReport))
	mux.HandleFunc("/api/export", s.withSecurity(s.handleExport))
	mux.HandleFunc("/api/transactions", s.withSecurity(s.handleListTransactions))
	mux.HandleFunc("/api/expenses", s.withSecurity(s.handleCreateExpense))
	mux.HandleFunc("/api/income", s.withSecurity(s.handleCreateIncome))

	return s
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurity adds rate limiting and security headers.
func (s *Server) withSecurity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// buildReport assembles a report for the filter, serving from cache
// when a fresh copy exists.
func (s *Server) buildReport(ctx context.Context, spec analytics.FilterSpec) (*analytics.Report, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	key := spec.CacheKey()
	if report, found := s.reportCache.Get(key); found {
		s.logger.Debug("Report cache hit", log.FieldFilterKey, key)
		return report, nil
	}

	snap, err := store.TakeSnapshot(ctx, s.store)
	if err != nil {
		return nil, err
	}

	txs := analytics.Normalize(snap.Expenses, snap.Income,
		analytics.CategoryIndex(snap.Categories), analytics.UserIndex(snap.Users))

	report, err := analytics.BuildReport(txs, spec, s.now())
	if err != nil {
		return nil, err
	}

	s.reportCache.Set(key, report)
	return report, nil
}

func (s *Server) invalidateReports() {
	s.reportCache.Purge()
}

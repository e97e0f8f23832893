package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pftracker/internal/adapters"
	"pftracker/internal/cache"
	"pftracker/internal/core"
	applog "pftracker/internal/log"
	"pftracker/internal/services"
)

const (
	summaryCacheSize     = 100
	cacheCleanupInterval = 10 * time.Minute
)

// Options configures a Server.
type Options struct {
	// Currency is the ISO code used for display amounts.
	Currency string
	// CacheTTL bounds how long a month summary is served from cache.
	CacheTTL time.Duration
	Logger   *applog.Logger
}

// Server serves JSON views over the application state. Handlers only go
// through the state facade, never the store.
type Server struct {
	http.Server
	state    *services.State
	logger   *applog.Logger
	currency string

	summaryCache *cache.LRUCache[core.MonthOverview]
	caches       *cache.Manager
	rateLimiter  *rateLimiter
	metrics      *securityMetrics

	unsubscribe  func()
	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, state *services.State, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	logger := opts.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		state:        state,
		logger:       logger,
		currency:     opts.Currency,
		summaryCache: cache.NewLRUCache[core.MonthOverview](summaryCacheSize, opts.CacheTTL),
		caches:       cache.NewManager(opts.Logger),
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
	}
	s.caches.Register(s.summaryCache)

	// Every committed change may alter any month's totals.
	s.unsubscribe = state.Subscribe(func(ctx context.Context, c services.Change) {
		if c.Collection != adapters.Transactions {
			return
		}
		if n := s.summaryCache.Purge(); n > 0 {
			logger.DebugContext(ctx, "Summary cache purged", applog.FieldCount, n, "version", c.Version)
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleEditTransaction)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/sips", s.handleListSIPs)
	mux.HandleFunc("GET /api/months", s.handleListMonths)
	mux.HandleFunc("GET /api/summary", s.handleMonthSummary)

	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("POST /api/assets", s.handleCreateAsset)

	mux.HandleFunc("GET /api/lookups", s.handleLookups)
	mux.HandleFunc("GET /api/liquidations", s.handleLiquidations)

	handler := s.withSecurityHeaders(mux)
	handler = applog.Middleware(opts.Logger, requestID)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// RunCacheCleanup removes expired summaries until ctx is done.
func (s *Server) RunCacheCleanup(ctx context.Context) error {
	return s.caches.Run(ctx, cacheCleanupInterval)
}

// Shutdown stops background routines and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// withSecurityHeaders adds security headers and rate-limits writes.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)

		if detectSuspiciousRequest(r, s.metrics) {
			s.logger.WarnContext(r.Context(), "Suspicious request",
				"client_ip", clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports readiness along with cache and security counters.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	JSON(map[string]any{
		"status":   "ready",
		"version":  s.state.Version(),
		"cache":    s.summaryCache.Stats(),
		"security": s.metrics.snapshot(),
	}).Write(w)
}

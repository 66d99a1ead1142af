// Package http serves the web UI: server-rendered pages backed by the
// remote data gateway, with HTMX partials for the analytics view.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	appweb "fintrack/web"
)

// DataGateway is the slice of the gateway client the web layer consumes.
type DataGateway interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	CreateAccount(ctx context.Context, req gateway.CreateAccountRequest) (core.Account, error)
	UpdateAccount(ctx context.Context, id int64, req gateway.UpdateAccountRequest) (core.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
	AccountStatistics(ctx context.Context) (gateway.AccountStatistics, error)

	ListTransactions(ctx context.Context, q gateway.TransactionQuery) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	CreateTransaction(ctx context.Context, req gateway.CreateTransactionRequest) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, req gateway.UpdateTransactionRequest) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	Transfer(ctx context.Context, req core.TransferRequest) (core.Transaction, error)
	TransactionStatistics(ctx context.Context, q gateway.TransactionQuery) (gateway.TransactionStatistics, error)

	Health(ctx context.Context) error
}

// Server is the web server. It embeds http.Server so callers can use
// ListenAndServe directly.
type Server struct {
	http.Server
	templates *template.Template
	gw        DataGateway
	logger    *log.Logger

	limiter        *ratelimit.Limiter
	analyticsCache *cache.LRU[analyticsSnapshot]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes, templates and middleware.
func NewServer(cfg *config.Config, gw DataGateway, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		gw:               gw,
		logger:           logger.WithComponent(log.ComponentHTTP),
		limiter:          ratelimit.NewLimiter(cfg.RateLimitPerMinute, logger),
		analyticsCache:   cache.NewLRU[analyticsSnapshot]("analytics", cfg.CacheSize, cfg.CacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Error("failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssets(3600)(static))
	} else {
		s.logger.Error("failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/accounts", s.handleAccounts)
	mux.HandleFunc("/accounts/new", s.handleAccountNew)
	mux.HandleFunc("/accounts/edit", s.handleAccountEdit)
	mux.HandleFunc("/accounts/delete", s.handleAccountDelete)
	mux.HandleFunc("/transactions", s.handleTransactions)
	mux.HandleFunc("/transactions/new", s.handleTransactionNew)
	mux.HandleFunc("/transactions/edit", s.handleTransactionEdit)
	mux.HandleFunc("/transactions/delete", s.handleTransactionDelete)
	mux.HandleFunc("/transfer", s.handleTransfer)
	mux.HandleFunc("/analytics", s.handleAnalytics)
	mux.HandleFunc("/ui/analytics", s.handleAnalyticsPanel)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", metrics.Handler())

	traced := trace.NewMiddleware(logger)
	handler := traced.Middleware(
		security.Headers(security.DefaultHeadersConfig())(
			s.limitWrites(mux)))

	s.Server = http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// limitWrites applies the rate limiter to POST requests only.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	limited := s.limiter.Middleware(trace.ClientIP)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			limited.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) startCacheCleanup() {
	logger := s.logger.WithComponent(log.ComponentCache)
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.analyticsCache.CleanExpired(); cleaned > 0 {
				logger.Debug("cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleReady probes the data gateway; the UI is useless without it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.gw.Health(ctx); err != nil {
		s.logger.WarnContext(ctx, "readiness probe failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

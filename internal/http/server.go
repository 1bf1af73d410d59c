// Package http serves the tracker's web UI: session-authenticated pages
// rendered from embedded templates.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
	appweb "fintrack/web"
)

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	templates *template.Template

	dashboards   *services.DashboardService
	transactions *services.TransactionService
	budgets      *services.BudgetService

	authSvc  *auth.Service
	sessions *auth.SessionStore
	google   *auth.GoogleVerifier // nil when Google sign-in is not configured

	limiter  *ratelimit.Limiter
	detector *security.Detector
	db       Pinger

	// Dashboard views are cached per user and period; every write by a user
	// drops all of that user's entries.
	dashCache    *cache.LRUCache[services.DashboardView]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

type Deps struct {
	Dashboards   *services.DashboardService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Auth         *auth.Service
	Sessions     *auth.SessionStore
	Google       *auth.GoogleVerifier
	DB           Pinger
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		dashboards:   deps.Dashboards,
		transactions: deps.Transactions,
		budgets:      deps.Budgets,
		authSvc:      deps.Auth,
		sessions:     deps.Sessions,
		google:       deps.Google,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:     security.NewDetector(),
		db:           deps.DB,
		dashCache:    cache.NewLRUCache[services.DashboardView](cfg.CacheSize, cfg.CacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.dashCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /auth/google", s.handleGoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", s.handleGoogleCallback)

	mux.HandleFunc("GET /{$}", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("GET /dashboard", s.requireAuth(s.handleDashboard))
	mux.HandleFunc("GET /history", s.requireAuth(s.handleHistory))

	mux.HandleFunc("GET /add", s.requireAuth(s.handleAddTransactionPage))
	mux.HandleFunc("POST /add", s.requireAuth(s.handleAddTransaction))
	mux.HandleFunc("GET /edit/{id}", s.requireAuth(s.handleEditTransactionPage))
	mux.HandleFunc("POST /edit/{id}", s.requireAuth(s.handleEditTransaction))
	mux.HandleFunc("POST /delete/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /budgets", s.requireAuth(s.handleBudgetsPage))
	mux.HandleFunc("POST /budgets", s.requireAuth(s.handleCreateBudget))
	mux.HandleFunc("GET /budgets/{id}/edit", s.requireAuth(s.handleEditBudgetPage))
	mux.HandleFunc("POST /budgets/{id}/edit", s.requireAuth(s.handleEditBudget))
	mux.HandleFunc("POST /budgets/{id}/delete", s.requireAuth(s.handleDeleteBudget))

	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      tracer.Middleware(headers.Middleware(s.withRateLimit(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	return s, nil
}

// withRateLimit throttles write requests per client IP. Reads pass through.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		if s.detector.DetectSuspiciousRequest(r) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Package http exposes the ledger over a JSON API: entry CRUD plus the
// analytics endpoints that back the dashboard charts.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ledger/internal/cache"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

type Server struct {
	http.Server

	entries *services.EntryService
	logger  *applog.Logger

	rateLimiter *rateLimiter

	// Marshaled analytics responses keyed by endpoint and query. The whole
	// cache is flushed on every mutation.
	analyticsCache *cache.LRUCache[[]byte]

	// now supplies the reference date for period resolution.
	now func() time.Time

	shutdownOnce sync.Once
}

// Options tunes the server; zero values fall back to defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Now       func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, entries *services.EntryService, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		entries:        entries,
		logger:         applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		analyticsCache: cache.NewLRUCache[[]byte](opts.CacheSize, opts.CacheTTL),
		now:            opts.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.withRequestLogging)
	r.Use(withSecurityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/entries", s.handleListEntries)
		r.With(s.withRateLimit).Post("/entries", s.handleCreateEntry)
		r.With(s.withRateLimit).Delete("/entries/{id}", s.handleDeleteEntry)

		r.Get("/analytics/summary", s.handleSummary)
		r.Get("/charts/trend", s.handleTrend)
		r.Get("/charts/categories", s.handleCategories)
		r.Get("/dashboard", s.handleDashboard)
	})

	s.Server = http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "Request completed",
			applog.FieldRequestID, middleware.GetReqID(r.Context()),
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, ww.Status(),
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, r.RemoteAddr)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(r.RemoteAddr) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				applog.FieldClientIP, r.RemoteAddr,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Package web provides the HTTP server and JSON handlers for bookings,
// clients and upload history.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/freightdesk/internal/config"
	"github.com/JonMunkholm/freightdesk/internal/core"
	mw "github.com/JonMunkholm/freightdesk/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// healthPath is exempt from API key checks so probes work unauthenticated.
const healthPath = "/healthz"

// Server is the HTTP server for the freightdesk API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *mw.RateLimiter
}

// NewServer creates a Server with all middleware and routes installed.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	if cfg.Security.RateLimitRequests > 0 {
		s.limiter = mw.NewRateLimiter(cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if s.cfg.Metrics.Enabled {
		s.router.Use(mw.Metrics)
	}
	s.router.Use(newCORS(&s.cfg.Security))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
	if s.limiter != nil {
		s.router.Use(s.limiter.Handler)
	}
	s.router.Use(mw.APIKeyAuth(&s.cfg.Security, healthPath, s.cfg.Metrics.Path))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get(healthPath, s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, promhttp.Handler())
	}

	s.router.Route("/bookings", func(r chi.Router) {
		r.Post("/upload", s.handleUploadBookings)
		r.Get("/", s.handleListBookings)
		r.Get("/{bookingID}", s.handleGetBooking)
		r.Post("/{bookingID}/confirm", s.handleConfirmBooking)
	})

	s.router.Route("/clients", func(r chi.Router) {
		r.Post("/upload", s.handleUploadClients)
		r.Get("/", s.handleListClients)
		r.Post("/", s.handleCreateClient)
		r.Get("/{clientID}", s.handleGetClient)
		r.Put("/{clientID}", s.handleUpdateClient)
		r.Delete("/{clientID}", s.handleDeleteClient)
	})

	s.router.Get("/uploads/", s.handleListUploads)
}

// Start begins listening for HTTP requests. It blocks until the server
// stops; http.ErrServerClosed signals a clean Shutdown.
func (s *Server) Start(ctx context.Context) error {
	srv := s.cfg.Server
	s.server = &http.Server{
		Addr:         srv.Addr(),
		Handler:      s.router,
		ReadTimeout:  srv.ReadTimeout,
		WriteTimeout: srv.WriteTimeout,
		IdleTimeout:  srv.IdleTimeout,
	}
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	slog.Info("starting server", "addr", srv.Addr())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// newCORS builds the rs/cors handler from the configured origins.
// Credentials are only allowed for an explicit origin list.
func newCORS(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	wildcard := len(cfg.CORSAllowedOrigins) == 0
	for _, o := range cfg.CORSAllowedOrigins {
		if o == "*" {
			wildcard = true
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key", "X-Request-Id", "HX-Request"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
	return c.Handler
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/modites/internal/api/middleware"
	"github.com/good-yellow-bee/modites/internal/api/modites"
	"github.com/good-yellow-bee/modites/internal/api/projects"
	"github.com/good-yellow-bee/modites/internal/web"
	webmw "github.com/good-yellow-bee/modites/internal/web/middleware"
)

// setupRouter creates and configures the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	ipLimiter := middleware.NewRateLimiter(s.config.RateLimitPerMinute, s.config.RateLimitBurst)
	s.closers = append(s.closers, ipLimiter.Close)

	// Global middleware
	r.Use(middleware.RequestLogger(s.logger, s.config.Verbose))
	r.Use(middleware.PrometheusMiddleware)
	r.Use(middleware.SecurityHeaders(s.logger))
	r.Use(middleware.Recoverer(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ipLimiter))
		r.Use(webmw.LoadSession(s.sessions))

		moditeHandler := modites.NewHandler(s.data, s.config.DefaultMapHeight)
		r.Get("/modites", moditeHandler.List)
		r.Get("/modites/{id}", moditeHandler.Get)
		r.Get("/map", moditeHandler.Map)

		if s.storage != nil {
			projectHandler := projects.NewHandler(s.storage.Projects(), s.logger.Named("projects"))
			r.Get("/projects", projectHandler.List)
			r.Get("/projects/{id}", projectHandler.GetByID)
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			JSONError(w, ErrNotFound)
		})
	})

	// Health checks (public, no rate limit)
	r.Get("/health", s.healthHandler.Health)
	r.Get("/health/live", s.healthHandler.Live)
	r.Get("/health/ready", s.healthHandler.Ready)

	if s.config.WebUIEnabled {
		ui := web.NewServer(s.data, s.sessions, s.config.DefaultMapHeight, s.config.UseSecureCookies, s.logger.Named("web"))
		r.Mount("/", ui.Routes())
	}

	return r
}

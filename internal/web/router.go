package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/modites/internal/web/middleware"
)

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Handle("/static/*", http.StripPrefix("/static/", s.StaticFS()))

	// Only the detail page writes the map viewport, so it is the only route
	// that starts a session.
	r.With(middleware.LoadSession(s.sessions)).Get("/", s.handler.ShowList)
	r.With(middleware.LoadSession(s.sessions)).Get("/partials/modites", s.handler.ListFragment)
	r.With(middleware.EnsureSession(s.sessions, s.useSecureCookies)).Get("/modites/{id}", s.handler.ShowDetail)

	return r
}

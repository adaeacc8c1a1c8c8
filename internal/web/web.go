// Package web serves the server-rendered roster UI.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/web/handlers"
	"github.com/good-yellow-bee/modites/internal/web/session"
)

//go:embed static
var staticFS embed.FS

type Server struct {
	handler          *handlers.Handler
	sessions         *session.Store
	useSecureCookies bool
}

// NewServer creates the web UI. The session store is shared with the API
// server so both see the same map viewport.
func NewServer(roster handlers.Roster, sessions *session.Store, defaultHeight int, useSecureCookies bool, logger *zap.Logger) *Server {
	return &Server{
		handler:          handlers.NewHandler(roster, defaultHeight, logger),
		sessions:         sessions,
		useSecureCookies: useSecureCookies,
	}
}

func (s *Server) StaticFS() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Unrecoverable init error - server cannot function without static assets
		panic(fmt.Sprintf("failed to create static FS: %v", err))
	}
	return http.FileServer(http.FS(sub))
}

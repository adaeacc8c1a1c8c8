// Package handlers serves the HTML pages of the web UI.
package handlers

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/models"
)

// Roster is the data the pages render.
type Roster interface {
	Prime() <-chan struct{}
	Loaded() bool
	Modites() []models.Modite
	Detail(id string) (*data.Detail, error)
}

type Handler struct {
	roster        Roster
	defaultHeight int
	logger        *zap.Logger
	now           func() time.Time
}

func NewHandler(roster Roster, defaultHeight int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		roster:        roster,
		defaultHeight: defaultHeight,
		logger:        logger,
		now:           time.Now,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

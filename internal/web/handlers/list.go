package handlers

import (
	"net/http"

	"github.com/good-yellow-bee/modites/internal/api/middleware"
	"github.com/good-yellow-bee/modites/internal/roster"
	"github.com/good-yellow-bee/modites/internal/web/templates/pages"
)

// ShowList renders the roster page. An empty roster triggers a background
// fetch and the page shows placeholder rows until it lands.
func (h *Handler) ShowList(w http.ResponseWriter, r *http.Request) {
	d := h.listData(r)
	d.Nonce = middleware.GetCSPNonce(r.Context())
	h.render(w, r, pages.List(d))
}

// ListFragment renders only the list for filtering and periodic refresh.
func (h *Handler) ListFragment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, pages.ListFragment(h.listData(r)))
}

func (h *Handler) listData(r *http.Request) pages.ListData {
	h.roster.Prime()

	q := r.URL.Query().Get("q")
	d := pages.ListData{Query: q, Loaded: h.roster.Loaded()}
	if d.Loaded {
		d.Entries = roster.Entries(h.roster.Modites(), q, h.now())
	}
	return d
}

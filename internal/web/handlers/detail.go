package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/mapview"
	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
	"github.com/good-yellow-bee/modites/internal/web/session"
	"github.com/good-yellow-bee/modites/internal/web/templates/pages"
)

// ShowDetail renders one member. Unknown members, including any lookup
// before the roster loaded, redirect to the list.
func (h *Handler) ShowDetail(w http.ResponseWriter, r *http.Request) {
	id := memberID(r)

	h.roster.Prime()
	detail, err := h.roster.Detail(id)
	if err != nil {
		h.logger.Debug("modite not available", zap.String("id", id), zap.Error(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	m := detail.Modite
	height := mapview.ParseHeight(r.URL.Query().Get("h"), h.defaultHeight)

	var vp models.Viewport
	if sess := session.FromContext(r.Context()); sess != nil {
		vp = mapview.Apply(sess, m, height)
	} else {
		vp = mapview.Focus(models.DefaultViewport(), m, height)
	}
	metrics.MapFocusTotal.WithLabelValues(strconv.FormatBool(m.HasLocation())).Inc()

	now := h.now()
	h.render(w, r, pages.Detail(pages.DetailData{
		Modite:    m,
		Projects:  detail.Projects,
		Heading:   detail.Heading,
		LocalTime: roster.LocalTime(now, m.TZ),
		TimeOfDay: roster.TimeOfDayAt(now, m.TZ),
		Viewport:  vp,
	}))
}

// memberID returns the {id} route parameter decoded. chi matches on the raw
// path when the request escapes reserved characters such as "/".
func memberID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

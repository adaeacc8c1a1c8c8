// Package modites serves the roster, member detail and map viewport over
// the JSON API.
package modites

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/good-yellow-bee/modites/internal/data"
	"github.com/good-yellow-bee/modites/internal/mapview"
	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
	"github.com/good-yellow-bee/modites/internal/web/session"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeNotFound  = "NOT_FOUND"
	errCodeNotLoaded = "NOT_LOADED"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// Roster is the data served by the handler.
type Roster interface {
	Prime() <-chan struct{}
	Loaded() bool
	Modites() []models.Modite
	Detail(id string) (*data.Detail, error)
}

// EntryResponse is one roster list row.
type EntryResponse struct {
	ID        string `json:"id"`
	RealName  string `json:"real_name"`
	Image72   string `json:"image_72"`
	LocalTime string `json:"local_time"`
	TimeOfDay string `json:"time_of_day"`
}

// ListResponse is the roster list. Loaded is false until the first
// successful fetch, when Modites is empty.
type ListResponse struct {
	Loaded  bool            `json:"loaded"`
	Modites []EntryResponse `json:"modites"`
}

// ProjectResponse is a project the member participates in.
type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DetailResponse is the member detail.
type DetailResponse struct {
	Modite         *models.Modite    `json:"modite"`
	LocalTime      string            `json:"local_time"`
	TimeOfDay      string            `json:"time_of_day"`
	GitHubURL      string            `json:"github_url,omitempty"`
	SkypeURL       string            `json:"skype_url,omitempty"`
	ProjectHeading string            `json:"project_heading"`
	Projects       []ProjectResponse `json:"projects"`
	Viewport       models.Viewport   `json:"viewport"`
}

type Handler struct {
	roster        Roster
	defaultHeight int
	now           func() time.Time
}

func NewHandler(r Roster, defaultHeight int) *Handler {
	return &Handler{roster: r, defaultHeight: defaultHeight, now: time.Now}
}

// List handles GET /api/v1/modites?q=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.roster.Prime()

	resp := ListResponse{Loaded: h.roster.Loaded(), Modites: []EntryResponse{}}
	if resp.Loaded {
		for _, e := range roster.Entries(h.roster.Modites(), r.URL.Query().Get("q"), h.now()) {
			resp.Modites = append(resp.Modites, EntryResponse{
				ID:        e.Modite.ID,
				RealName:  e.Modite.RealName,
				Image72:   e.Modite.Profile.Image72,
				LocalTime: e.LocalTime,
				TimeOfDay: e.TimeOfDay.String(),
			})
		}
	}
	jsonOK(w, resp)
}

// Get handles GET /api/v1/modites/{id}?h=. It moves the caller's map
// viewport like the detail page does.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := memberID(r)

	h.roster.Prime()
	detail, err := h.roster.Detail(id)
	switch {
	case errors.Is(err, data.ErrNotLoaded):
		jsonError(w, http.StatusServiceUnavailable, errCodeNotLoaded, "roster is still loading")
		return
	case err != nil:
		jsonError(w, http.StatusNotFound, errCodeNotFound, "modite not found")
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
	resp := DetailResponse{
		Modite:         m,
		LocalTime:      roster.LocalTime(now, m.TZ),
		TimeOfDay:      roster.TimeOfDayAt(now, m.TZ).String(),
		GitHubURL:      m.GitHubURL(),
		SkypeURL:       m.SkypeURL(),
		ProjectHeading: detail.Heading,
		Projects:       make([]ProjectResponse, 0, len(detail.Projects)),
		Viewport:       vp,
	}
	for _, p := range detail.Projects {
		resp.Projects = append(resp.Projects, ProjectResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	jsonOK(w, resp)
}

// Map handles GET /api/v1/map: the caller's session viewport, or the
// default one without a session.
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	vp := models.DefaultViewport()
	if sess := session.FromContext(r.Context()); sess != nil {
		vp = sess.Viewport()
	}
	jsonOK(w, vp)
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

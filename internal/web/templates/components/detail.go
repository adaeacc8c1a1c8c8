package components

import (
	"context"
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
)

// ProjectRow renders one project of the member.
func ProjectRow(p *models.Project) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<li class="project-row"><strong>`)
		h.text(p.Name)
		h.raw(`</strong>`)
		if p.Description != "" {
			h.raw(`<p>`)
			h.text(p.Description)
			h.raw(`</p>`)
		}
		h.raw(`</li>`)
	})
}

// Projects renders the heading and the project rows, or the empty message.
func Projects(heading string, projects []*models.Project) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<section class="projects"><h3>`)
		h.text(heading)
		h.raw(`</h3>`)
		if len(projects) == 0 {
			h.raw(`<p class="empty">`)
			h.text(roster.NoProjectsMessage)
			h.raw(`</p>`)
		} else {
			h.raw(`<ul>`)
			for _, p := range projects {
				h.render(ctx, ProjectRow(p))
			}
			h.raw(`</ul>`)
		}
		h.raw(`</section>`)
	})
}

// ContactLinks renders the tacos badge and the GitHub and Skype links that
// the member has handles for.
func ContactLinks(m *models.Modite) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="contact"><span class="tacos" title="Tacos">🌮 `)
		h.text(strconv.Itoa(m.Tacos))
		h.raw(`</span>`)
		if u := m.GitHubURL(); u != "" {
			h.raw(`<a class="github" rel="noopener" target="_blank" href="`)
			h.text(string(templ.URL(u)))
			h.raw(`">GitHub</a>`)
		}
		if u := m.SkypeURL(); u != "" {
			// skype: is not a scheme templ.URL lets through.
			h.raw(`<a class="skype" href="`)
			h.text(string(templ.SafeURL(u)))
			h.raw(`">Skype</a>`)
		}
		h.raw(`</div>`)
	})
}

// MapPanel renders the viewport: center, zoom and the attached member's
// marker when there is one.
func MapPanel(vp models.Viewport) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.rawf(`<aside class="map" data-lat="%s" data-lon="%s" data-zoom="%s">`,
			coord(vp.Latitude), coord(vp.Longitude), coord(vp.Zoom))
		h.raw(`<p class="center">`)
		h.text(fmt.Sprintf("%.4f, %.4f @ zoom %s", vp.Latitude, vp.Longitude, coord(vp.Zoom)))
		h.raw(`</p>`)
		if m := vp.Modite; m != nil && m.HasLocation() {
			loc := m.Location()
			h.raw(`<p class="marker">📍 `)
			h.text(m.RealName)
			h.raw(`</p><a class="osm" rel="noopener" target="_blank" href="`)
			h.text(string(templ.URL(OpenStreetMapURL(loc.Lat, loc.Lon, vp))))
			h.raw(`">Open map</a>`)
		}
		h.raw(`</aside>`)
	})
}

// OpenStreetMapURL links to the viewport on openstreetmap.org with a marker
// at lat, lon.
func OpenStreetMapURL(lat, lon float64, vp models.Viewport) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%s&mlon=%s#map=%d/%s/%s",
		coord(lat), coord(lon), int(vp.Zoom), coord(vp.Latitude), coord(vp.Longitude))
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

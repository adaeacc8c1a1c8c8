package pages

import (
	"github.com/a-h/templ"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
	"github.com/good-yellow-bee/modites/internal/web/templates/components"
)

// DetailData is the member detail view model.
type DetailData struct {
	Modite    *models.Modite
	Projects  []*models.Project
	Heading   string
	LocalTime string
	TimeOfDay roster.TimeOfDay
	Viewport  models.Viewport
}

// Detail renders the member page.
func Detail(d DetailData) templ.Component {
	m := d.Modite
	parts := []templ.Component{
		markup(`<main class="detail"><nav><a href="/">← Modites</a></nav><article class="card">`),
		components.ContactLinks(m),
		markup(`<h1>`), text(m.RealName), markup(`</h1>`),
	}
	if loc := m.Profile.Fields.Location; loc != "" {
		parts = append(parts, markup(`<p class="location">`), text(loc), markup(`</p>`))
	}
	parts = append(parts,
		markup(`<p class="local-time">`),
		text(d.TimeOfDay.Emoji()+" "+d.LocalTime),
		markup(`</p>`),
	)
	if title := m.Profile.Fields.Title; title != "" {
		parts = append(parts, markup(`<p class="field-title">`), text(title), markup(`</p>`))
	}
	if m.Profile.DisplayName != "" {
		parts = append(parts, markup(`<p class="handle">`), text("@"+m.Profile.DisplayName), markup(`</p>`))
	}
	if m.Profile.Title != "" {
		parts = append(parts, markup(`<p class="title">`), text(m.Profile.Title), markup(`</p>`))
	}
	parts = append(parts, components.Projects(d.Heading, d.Projects))
	if img := m.Profile.Image192; img != "" {
		parts = append(parts,
			markup(`<img class="avatar-large" width="192" height="192" alt="" src="`),
			text(img),
			markup(`">`),
		)
	}
	parts = append(parts,
		markup(`</article>`),
		components.MapPanel(d.Viewport),
		markup(`</main>`),
	)
	return components.Layout(m.RealName+" · Modites", templ.Join(parts...))
}

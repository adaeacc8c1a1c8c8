package components

import (
	"context"
	"net/url"

	"github.com/a-h/templ"

	"github.com/good-yellow-bee/modites/internal/roster"
)

// SearchBar renders the roster filter input.
func SearchBar(query string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<form class="search" method="get" action="/" role="search">`)
		h.raw(`<input id="modite-filter" type="search" name="q" autocomplete="off" placeholder="Filter Modites" value="`)
		h.text(query)
		h.raw(`"></form>`)
	})
}

// Skeleton renders the placeholder rows.
func Skeleton() templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		for range roster.SkeletonRows {
			h.raw(`<li class="modite-row skeleton" aria-hidden="true">`)
			h.raw(`<span class="avatar"></span><span class="line"></span></li>`)
		}
	})
}

// ModiteRow renders one roster entry. Selecting it shows the member's name.
func ModiteRow(e roster.Entry) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		m := e.Modite
		h.raw(`<li class="modite-row" data-modite-name="`)
		h.text(m.RealName)
		h.raw(`">`)
		if m.Profile.Image72 != "" {
			h.raw(`<img class="avatar" width="36" height="36" alt="" src="`)
			h.text(m.Profile.Image72)
			h.raw(`">`)
		} else {
			h.raw(`<span class="avatar"></span>`)
		}
		h.raw(`<a class="name" href="`)
		h.text(string(templ.URL(DetailPath(m.ID))))
		h.raw(`">`)
		h.text(m.RealName)
		h.raw(`</a><span class="status" title="`)
		h.text(e.TimeOfDay.String())
		h.raw(`">`)
		h.text(e.TimeOfDay.Emoji())
		h.raw(`</span><span class="local-time">`)
		h.text(e.LocalTime)
		h.raw(`</span></li>`)
	})
}

// DetailPath is the detail page path of the member with the given id.
func DetailPath(id string) string {
	return "/modites/" + url.PathEscape(id)
}

// RosterList renders the list body: skeleton rows until loaded, then one row
// per entry.
func RosterList(loaded bool, entries []roster.Entry) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<ul id="modites" class="modites" data-loaded="`)
		if loaded {
			h.raw(`true">`)
			for _, e := range entries {
				h.render(ctx, ModiteRow(e))
			}
		} else {
			h.raw(`false">`)
			h.render(ctx, Skeleton())
		}
		h.raw(`</ul>`)
	})
}

package components

import (
	"context"

	"github.com/a-h/templ"
)

// Layout renders the HTML document around body. Scripts added by pages must
// carry nonce to pass the content security policy.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/static/app.css"></head><body>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
	})
}

// Script renders an inline script tagged with the request nonce.
func Script(nonce, source string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if nonce != "" {
			h.raw(`<script nonce="`)
			h.text(nonce)
			h.raw(`">`)
		} else {
			h.raw(`<script>`)
		}
		h.raw(source)
		h.raw(`</script>`)
	})
}

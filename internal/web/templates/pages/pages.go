// Package pages renders the full HTML pages of the web UI.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// markup emits s unescaped. Pages assemble components and only write the
// markup that glues them together.
func markup(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// text emits s HTML-escaped.
func text(s string) templ.Component {
	return markup(templ.EscapeString(s))
}

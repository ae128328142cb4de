// Package views renders the handful of HTML pages the contact intake needs.
//
// Stored values are already sanitized. They are still passed through a
// strict bluemonday policy on the way out, which escapes for the HTML
// context they land in.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text makes a stored value safe for an HTML text node or a quoted
// attribute.
func Text(s string) string {
	return policy.Sanitize(s)
}

// text renders literal text, escaped.
func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// stored renders a sanitized value read back from a form or the database.
func stored(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, Text(s))
		return err
	})
}

func when(cond bool, c templ.Component) templ.Component {
	if !cond {
		return templ.NopComponent
	}
	return c
}

// Layout wraps a page body in the shared document shell.
func Layout(title string, body ...templ.Component) templ.Component {
	return templ.Join(
		templ.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`),
		templ.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`),
		text(title),
		templ.Raw(`</title></head><body><main>`),
		templ.Join(body...),
		templ.Raw(`</main></body></html>`),
	)
}

func fieldError(msg string) templ.Component {
	return when(msg != "", templ.Join(
		templ.Raw(`<p class="error">`),
		text(msg),
		templ.Raw(`</p>`),
	))
}

// Package templates renders the catalog pages as templ components.
//
// Components are written by hand with templ.ComponentFunc rather than
// generated from .templ files; every dynamic value goes through
// templ.EscapeString or templ.URL before it reaches the output.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// html accumulates writes and keeps the first error.
type html struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes escaped text.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (h *html) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

// href writes an href attribute, dropping unsafe URL schemes.
func (h *html) href(u string) {
	h.attr("href", string(templ.URL(u)))
}

// component renders c into the same writer.
func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// render wraps fn as a component.
func render(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

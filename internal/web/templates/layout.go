package templates

import (
	"context"

	"github.com/a-h/templ"
)

// Layout is the page shell. The page body is taken from the context
// children (templ.WithChildren).
func Layout(title string) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` · Ludoteca</title>`)
		h.raw(`<link rel="stylesheet" href="/static/styles.css">`)
		h.raw(`<script src="/static/app.js" defer></script>`)
		h.raw(`</head><body><header class="site-header"><a class="brand" href="/">Ludoteca</a></header>`)
		h.raw(`<main class="container">`)
		h.component(ctx, templ.GetChildren(ctx))
		h.raw(`</main><dialog id="detail" class="detail-dialog"></dialog></body></html>`)
	})
}

// ErrorAlert renders an error box with a code for support reference.
func ErrorAlert(message, action, code string) templ.Component {
	return render(func(ctx context.Context, h *html) {
		h.raw(`<div class="alert alert-error" role="alert"><p class="alert-message">`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p class="alert-action">`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="alert-code">Code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}

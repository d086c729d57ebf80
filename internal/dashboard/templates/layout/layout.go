package layout

import (
	"context"

	"github.com/a-h/templ"

	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/httpserver/middleware"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/helpers"
	"github.com/iamplus-mubina/acme-dashboard/internal/dashboard/templates/partials"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Base renders the HTML document around body.
func Base(title string, body templ.Component) templ.Component {
	return helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(helpers.ComposePageTitle(title))
		h.Raw(`</title>`)
		h.Raw(`<meta name="csrf-token"`)
		h.Attr("content", middleware.CSRFTokenFromContext(ctx))
		h.Raw(`>`)
		h.Raw(`<link rel="stylesheet" href="/public/static/app.css">`)
		h.Raw(`<script src="` + htmxScript + `" defer></script>`)
		h.Raw(`<script src="/public/static/app.js" defer></script>`)
		h.Raw(`</head><body class="antialiased">`)
		h.Render(ctx, body)
		h.Raw(`</body></html>`)
	})
}

// Dashboard renders the signed-in chrome: side navigation plus the page content.
func Dashboard(title string, content templ.Component) templ.Component {
	return Base(title, helpers.Component(func(ctx context.Context, h *helpers.HTML) {
		h.Raw(`<div class="flex h-screen flex-col md:flex-row md:overflow-hidden">`)
		h.Raw(`<div class="w-full flex-none md:w-64">`)
		h.Render(ctx, partials.SideNav())
		h.Raw(`</div><main class="flex-grow p-6 md:overflow-y-auto md:p-12" data-dashboard-main>`)
		h.Render(ctx, content)
		h.Raw(`</main></div>`)
	}))
}
